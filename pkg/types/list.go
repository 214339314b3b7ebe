package types

// List column names.
const ColListName = "ListName"

// Well-known list names backing the checklist dropdowns.
const (
	ListTenderType  = "TenderType"
	ListPlatform    = "Platform"
	ListCategory    = "Category"
	ListCriticality = "Criticality"
	ListYesNo       = "YesNo"
)

// ListOption is one dropdown choice within a named list.
type ListOption struct {
	ListName string `json:"list_name"`
	Value    string `json:"value"`
}

// ListRows is the Lists table in file order.
type ListRows []ListOption

func (ListRows) Table() TableID { return TableLists }

func (ListRows) Header() []string {
	return []string{ColListName, ColValue}
}

func (r ListRows) Records() [][]string {
	out := make([][]string, len(r))
	for i, o := range r {
		out[i] = []string{o.ListName, o.Value}
	}
	return out
}

func (r ListRows) Len() int { return len(r) }

func (r ListRows) Describe(i int) string {
	return r[i].ListName + " | " + r[i].Value
}
