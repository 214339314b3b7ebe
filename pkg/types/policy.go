package types

// Policy column names.
const (
	ColRuleKey   = "RuleKey"
	ColThreshold = "Threshold"
)

// Well-known policy rule keys.
const (
	RuleATO      = "ATO_pct"
	RuleSingleWO = "SingleWO_pct"
	RuleTwoWO    = "TwoWO_pct"
	RuleThreeWO  = "ThreeWO_pct"
)

// PolicyRule is a named threshold. Threshold keeps the cell text as written
// so a malformed value survives a load/save cycle; it is coerced to a number
// only when looked up.
type PolicyRule struct {
	RuleKey   string `json:"rule_key"`
	Threshold string `json:"threshold"`
}

// PolicyRows is the Policy table in file order.
type PolicyRows []PolicyRule

func (PolicyRows) Table() TableID { return TablePolicy }

func (PolicyRows) Header() []string {
	return []string{ColRuleKey, ColThreshold}
}

func (r PolicyRows) Records() [][]string {
	out := make([][]string, len(r))
	for i, p := range r {
		out[i] = []string{p.RuleKey, p.Threshold}
	}
	return out
}

func (r PolicyRows) Len() int { return len(r) }

func (r PolicyRows) Describe(i int) string {
	return r[i].RuleKey + " | " + r[i].Threshold
}
