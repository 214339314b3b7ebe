package checklist

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/tenderlist/internal/metrics"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// Checklist field names. They double as Parameter names in the parameters
// table, which is where their help text lives.
const (
	FieldTenderID         = "Tender ID"
	FieldDescription      = "Description"
	FieldDepartment       = "Department"
	FieldTenderType       = "Tender Type"
	FieldPlatform         = "Tender Platform"
	FieldCategory         = "Tender Category"
	FieldCriticality      = "Criticality"
	FieldStandardTemplate = "Is Standard Template"
	FieldReverseAuction   = "Reverse Auction"
	FieldEstimate         = "Estimate Value (₹)"
	FieldYears            = "Contract Period (years)"
)

// NoHelpText is shown when a parameter has no help text.
const NoHelpText = "No help text available"

// Dropdown binds a checklist field to the list that supplies its options.
type Dropdown struct {
	Field string
	List  string
}

// Dropdowns are the checklist's selection fields in form order.
var Dropdowns = []Dropdown{
	{Field: FieldTenderType, List: types.ListTenderType},
	{Field: FieldPlatform, List: types.ListPlatform},
	{Field: FieldCategory, List: types.ListCategory},
	{Field: FieldCriticality, List: types.ListCriticality},
	{Field: FieldStandardTemplate, List: types.ListYesNo},
	{Field: FieldReverseAuction, List: types.ListYesNo},
}

// guidedFields always show their guidance under the summary.
var guidedFields = []string{FieldStandardTemplate, FieldReverseAuction}

// Lookup is what the sheet needs from the reference tables.
type Lookup interface {
	ThresholdSource
	OptionsFor(list string) []string
	ActiveCircularFor(parameter string) (types.Circular, bool)
	HelpTextFor(parameter string) string
}

// Inputs are the values entered on the checklist form.
type Inputs struct {
	TenderID         string  `json:"tender_id"`
	Description      string  `json:"description"`
	Department       string  `json:"department"`
	TenderType       string  `json:"tender_type"`
	Platform         string  `json:"tender_platform"`
	Category         string  `json:"tender_category"`
	Criticality      string  `json:"criticality"`
	StandardTemplate string  `json:"is_standard_template"`
	ReverseAuction   string  `json:"reverse_auction"`
	Estimate         float64 `json:"estimate_value"`
	Years            int     `json:"contract_years"`
}

// field returns a pointer to the dropdown value named by a Field constant.
func (in *Inputs) field(name string) *string {
	switch name {
	case FieldTenderType:
		return &in.TenderType
	case FieldPlatform:
		return &in.Platform
	case FieldCategory:
		return &in.Category
	case FieldCriticality:
		return &in.Criticality
	case FieldStandardTemplate:
		return &in.StandardTemplate
	case FieldReverseAuction:
		return &in.ReverseAuction
	default:
		return nil
	}
}

// Validate rejects a negative or non-finite estimate and a contract period
// below one year. A zero period is accepted and read as one year.
func (in Inputs) Validate() error {
	if in.Estimate < 0 || math.IsNaN(in.Estimate) || math.IsInf(in.Estimate, 0) {
		return fmt.Errorf("%w: estimate must be a number of at least 0", types.ErrInvalidInput)
	}
	if in.Years < 0 {
		return fmt.Errorf("%w: contract period must be at least 1 year", types.ErrInvalidInput)
	}
	return nil
}

// ParseInputs builds Inputs from text values keyed by field name. The
// estimate may carry thousands separators; an empty estimate is 0 and an
// empty contract period is 1.
func ParseInputs(values map[string]string) (Inputs, error) {
	in := Inputs{
		TenderID:    values[FieldTenderID],
		Description: values[FieldDescription],
		Department:  values[FieldDepartment],
	}
	for _, d := range Dropdowns {
		*in.field(d.Field) = values[d.Field]
	}

	estimate := strings.NewReplacer(",", "", " ", "").Replace(values[FieldEstimate])
	if estimate != "" {
		v, err := cast.ToFloat64E(estimate)
		if err != nil {
			return Inputs{}, fmt.Errorf("%w: estimate %q is not a number", types.ErrInvalidInput, values[FieldEstimate])
		}
		in.Estimate = v
	}

	years := strings.TrimSpace(values[FieldYears])
	in.Years = 1
	if years != "" {
		v, err := strconv.Atoi(years)
		if err != nil || v < 1 {
			return Inputs{}, fmt.Errorf("%w: contract period %q must be a whole number of at least 1", types.ErrInvalidInput, values[FieldYears])
		}
		in.Years = v
	}

	if err := in.Validate(); err != nil {
		return Inputs{}, err
	}
	return in, nil
}

// Guidance is the help text and governing circular for one parameter.
type Guidance struct {
	Parameter string          `json:"parameter"`
	Help      string          `json:"help"`
	Circular  *types.Circular `json:"circular,omitempty"`
}

// GuideFor returns the guidance for parameter. An empty help text reads as
// NoHelpText.
func GuideFor(lk Lookup, parameter string) Guidance {
	g := guidance(lk, parameter)
	if g.Help == "" {
		g.Help = NoHelpText
	}
	return g
}

// guidance attaches the active circular only when it has a link to show.
func guidance(lk Lookup, parameter string) Guidance {
	g := Guidance{Parameter: parameter, Help: lk.HelpTextFor(parameter)}
	if c, ok := lk.ActiveCircularFor(parameter); ok && c.Link != "" {
		g.Circular = &c
	}
	return g
}

// Sheet is a filled-in checklist.
type Sheet struct {
	Inputs     Inputs     `json:"inputs"`
	Thresholds Thresholds `json:"thresholds"`
	Summary    Summary    `json:"summary"`
	Lines      []Line     `json:"lines"`
	Guidance   []Guidance `json:"guidance"`
}

// Fill completes in against the reference tables. Each empty dropdown takes
// the first option of its list and a zero contract period becomes one year.
// The standing guidance keeps empty help text empty; callers show only what
// is present.
func Fill(in Inputs, lk Lookup) Sheet {
	for _, d := range Dropdowns {
		v := in.field(d.Field)
		if *v != "" {
			continue
		}
		if opts := lk.OptionsFor(d.List); len(opts) > 0 {
			*v = opts[0]
		}
	}
	if in.Years == 0 {
		in.Years = 1
	}

	th := ThresholdsFrom(lk)
	summary := ComputeSummary(in.Estimate, in.Years, th)
	metrics.Summaries.Inc()

	sheet := Sheet{
		Inputs:     in,
		Thresholds: th,
		Summary:    summary,
		Lines:      summary.Lines(),
	}
	for _, f := range guidedFields {
		sheet.Guidance = append(sheet.Guidance, guidance(lk, f))
	}
	return sheet
}
