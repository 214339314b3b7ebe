package types

// Parameter column names.
const (
	ColParameter = "Parameter"
	ColValue     = "Value"
	ColHelp      = "Help"
)

// Parameter is one checklist field with its stored value and help text.
type Parameter struct {
	Name  string `json:"parameter"`
	Value string `json:"value"`
	Help  string `json:"help"`
}

// ParameterRows is the Parameters table in file order.
type ParameterRows []Parameter

func (ParameterRows) Table() TableID { return TableParameters }

func (ParameterRows) Header() []string {
	return []string{ColParameter, ColValue, ColHelp}
}

func (r ParameterRows) Records() [][]string {
	out := make([][]string, len(r))
	for i, p := range r {
		out[i] = []string{p.Name, p.Value, p.Help}
	}
	return out
}

func (r ParameterRows) Len() int { return len(r) }

func (r ParameterRows) Describe(i int) string {
	return r[i].Name + " | " + r[i].Help
}

// Find returns the first row named name.
func (r ParameterRows) Find(name string) (Parameter, bool) {
	for _, p := range r {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// ParameterHelp is the editable projection of a Parameter: the admin grid
// never exposes Value.
type ParameterHelp struct {
	Name string `json:"parameter"`
	Help string `json:"help"`
}

// HelpRows is the Parameter/Help grid shown to administrators.
type HelpRows []ParameterHelp

func (HelpRows) Table() TableID { return TableParameters }

func (HelpRows) Header() []string {
	return []string{ColParameter, ColHelp}
}

func (r HelpRows) Records() [][]string {
	out := make([][]string, len(r))
	for i, p := range r {
		out[i] = []string{p.Name, p.Help}
	}
	return out
}

func (r HelpRows) Len() int { return len(r) }

func (r HelpRows) Describe(i int) string {
	return r[i].Name + " | " + r[i].Help
}

// HelpView projects the Parameters table onto its editable columns.
func (r ParameterRows) HelpView() HelpRows {
	out := make(HelpRows, len(r))
	for i, p := range r {
		out[i] = ParameterHelp{Name: p.Name, Help: p.Help}
	}
	return out
}
