package lookup

// Schema DDL for the in-memory tables. Each table carries the row's position
// in its file as ordinal so queries can honour file order.
const (
	createParameters = `CREATE TABLE parameters (
    ordinal INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    value TEXT NOT NULL,
    help TEXT NOT NULL
);`

	createCirculars = `CREATE TABLE circulars (
    ordinal INTEGER PRIMARY KEY,
    parameter TEXT NOT NULL,
    title TEXT NOT NULL,
    link TEXT NOT NULL,
    effective_from TEXT NOT NULL,
    active TEXT NOT NULL
);`

	createPolicy = `CREATE TABLE policy (
    ordinal INTEGER PRIMARY KEY,
    rule_key TEXT NOT NULL,
    threshold TEXT NOT NULL
);`

	createLists = `CREATE TABLE lists (
    ordinal INTEGER PRIMARY KEY,
    list_name TEXT NOT NULL,
    value TEXT NOT NULL
);`
)

// Index DDL for the lookup queries.
const (
	idxParametersName = `CREATE INDEX idx_parameters_name ON parameters(name);`
	idxCircularsParam = `CREATE INDEX idx_circulars_parameter ON circulars(parameter);`
	idxPolicyRuleKey  = `CREATE INDEX idx_policy_rule_key ON policy(rule_key);`
	idxListsListName  = `CREATE INDEX idx_lists_list_name ON lists(list_name);`
)

var schemaDDL = []string{
	createParameters,
	createCirculars,
	createPolicy,
	createLists,
}

var indexDDL = []string{
	idxParametersName,
	idxCircularsParam,
	idxPolicyRuleKey,
	idxListsListName,
}
