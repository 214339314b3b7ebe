// This file holds the built-in table content used on first run and whenever
// a table file is missing or unreadable.
package csvstore

import "github.com/mesh-intelligence/tenderlist/pkg/types"

// Defaults returns a fresh copy of the built-in rows for id, or nil for an
// unknown table. Callers may modify the result freely.
func Defaults(id types.TableID) types.Rows {
	switch id {
	case types.TableParameters:
		return defaultParameters()
	case types.TableCirculars:
		return defaultCirculars()
	case types.TablePolicy:
		return defaultPolicy()
	case types.TableLists:
		return defaultLists()
	default:
		return nil
	}
}

// DefaultTables returns a fresh copy of every built-in table.
func DefaultTables() types.Tables {
	return types.Tables{
		Parameters: defaultParameters(),
		Circulars:  defaultCirculars(),
		Policy:     defaultPolicy(),
		Lists:      defaultLists(),
	}
}

func defaultParameters() types.ParameterRows {
	return types.ParameterRows{
		{Name: "Tender ID", Help: "Enter a unique identifier"},
		{Name: "Description", Help: "Short description"},
		{Name: "Department", Help: "LPG/Lube/Engineering/Operations/Retail"},
		{Name: "Tender Type", Help: "Service / Works / Goods"},
		{Name: "Tender Platform", Help: "GeM or NIC"},
		{Name: "Tender Category", Help: "AMC / Lumpsum / LOT"},
		{Name: "Criticality", Help: "Critical or Non critical"},
		{Name: "Is Standard Template", Help: "Yes = standardized; No = tender-specific"},
		{Name: "Reverse Auction", Help: "Yes/No per RA circular"},
		{Name: "Estimate Value (₹)", Help: "Numeric total estimate"},
		{Name: "Contract Period (years)", Help: "Use 1 for non-AMC/Lumpsum; actual years for AMC"},
	}
}

func defaultCirculars() types.CircularRows {
	return types.CircularRows{
		{
			Parameter:     "Is Standard Template",
			Title:         "Standardized Template Policy",
			Link:          "StandardTemplatePolicy.pdf",
			EffectiveFrom: "2025-07-31",
			Active:        "Yes",
		},
		{
			Parameter:     "Reverse Auction",
			Title:         "RA Exmeption Circular 16.11.23.pdf",
			Link:          "RA Exmeption Circular 16.11.23.pdf",
			EffectiveFrom: "2023-11-16",
			Active:        "Yes",
		},
	}
}

func defaultPolicy() types.PolicyRows {
	return types.PolicyRows{
		{RuleKey: types.RuleATO, Threshold: "0.6"},
		{RuleKey: types.RuleSingleWO, Threshold: "0.5"},
		{RuleKey: types.RuleTwoWO, Threshold: "0.4"},
		{RuleKey: types.RuleThreeWO, Threshold: "0.3"},
	}
}

func defaultLists() types.ListRows {
	return types.ListRows{
		{ListName: types.ListTenderType, Value: "Service"},
		{ListName: types.ListTenderType, Value: "Works"},
		{ListName: types.ListTenderType, Value: "Goods"},
		{ListName: types.ListPlatform, Value: "GeM"},
		{ListName: types.ListPlatform, Value: "NIC"},
		{ListName: types.ListCategory, Value: "AMC"},
		{ListName: types.ListCategory, Value: "Lumpsum"},
		{ListName: types.ListCategory, Value: "LOT"},
		{ListName: types.ListCriticality, Value: "Critical"},
		{ListName: types.ListCriticality, Value: "Non critical"},
		{ListName: types.ListYesNo, Value: "Yes"},
		{ListName: types.ListYesNo, Value: "No"},
	}
}
