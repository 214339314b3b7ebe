package admin

import (
	"fmt"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// Fields is one row as column name to cell text, using the CSV header names.
type Fields map[string]string

// rowFields pairs a record with its header.
func rowFields(header, rec []string) Fields {
	f := make(Fields, len(header))
	for j, col := range header {
		f[col] = rec[j]
	}
	return f
}

// checkFields rejects columns the table does not have.
func checkFields(header []string, f Fields) error {
	known := make(map[string]bool, len(header))
	for _, col := range header {
		known[col] = true
	}
	for col := range f {
		if !known[col] {
			return fmt.Errorf("%w: unknown column %q", types.ErrInvalidData, col)
		}
	}
	return nil
}

func helpFromFields(f Fields) (types.ParameterHelp, error) {
	if err := checkFields(types.HelpRows{}.Header(), f); err != nil {
		return types.ParameterHelp{}, err
	}
	return types.ParameterHelp{Name: f[types.ColParameter], Help: f[types.ColHelp]}, nil
}

func circularFromFields(f Fields) (types.Circular, error) {
	if err := checkFields(types.CircularRows{}.Header(), f); err != nil {
		return types.Circular{}, err
	}
	return types.Circular{
		Parameter:     f[types.ColParameter],
		Title:         f[types.ColCircularTitle],
		Link:          f[types.ColLink],
		EffectiveFrom: f[types.ColEffectiveFrom],
		Active:        f[types.ColActive],
	}, nil
}

func policyFromFields(f Fields) (types.PolicyRule, error) {
	if err := checkFields(types.PolicyRows{}.Header(), f); err != nil {
		return types.PolicyRule{}, err
	}
	return types.PolicyRule{RuleKey: f[types.ColRuleKey], Threshold: f[types.ColThreshold]}, nil
}

func listFromFields(f Fields) (types.ListOption, error) {
	if err := checkFields(types.ListRows{}.Header(), f); err != nil {
		return types.ListOption{}, err
	}
	return types.ListOption{ListName: f[types.ColListName], Value: f[types.ColValue]}, nil
}
