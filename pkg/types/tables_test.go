package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableID(t *testing.T) {
	for _, id := range StandardTables {
		got, err := ParseTableID(string(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	_, err := ParseTableID("tenders")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestTableIDFileName(t *testing.T) {
	assert.Equal(t, "parameters.csv", TableParameters.FileName())
	assert.Equal(t, "circulars.csv", TableCirculars.FileName())
	assert.Equal(t, "policy.csv", TablePolicy.FileName())
	assert.Equal(t, "lists.csv", TableLists.FileName())
}

func TestTablesGetSet(t *testing.T) {
	var tables Tables
	require.NoError(t, tables.Set(ListRows{{ListName: ListYesNo, Value: "Yes"}}))
	require.NoError(t, tables.Set(PolicyRows{{RuleKey: RuleATO, Threshold: "0.6"}}))

	rows, err := tables.Get(TableLists)
	require.NoError(t, err)
	assert.Equal(t, 1, rows.Len())

	rows, err = tables.Get(TablePolicy)
	require.NoError(t, err)
	assert.Equal(t, "ATO_pct | 0.6", rows.Describe(0))

	assert.ErrorIs(t, tables.Set(HelpRows{}), ErrInvalidData)

	_, err = tables.Get("stashes")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestRowsRecordsFollowHeader(t *testing.T) {
	tests := []struct {
		name   string
		rows   Rows
		header []string
		first  []string
	}{
		{
			name:   "parameters",
			rows:   ParameterRows{{Name: "Tender ID", Value: "T-1", Help: "Enter a unique identifier"}},
			header: []string{"Parameter", "Value", "Help"},
			first:  []string{"Tender ID", "T-1", "Enter a unique identifier"},
		},
		{
			name:   "circulars",
			rows:   CircularRows{{Parameter: "Reverse Auction", Title: "RA", Link: "ra.pdf", EffectiveFrom: "2023-11-16", Active: "Yes"}},
			header: []string{"Parameter", "Circular Title", "Link", "Effective From", "Active"},
			first:  []string{"Reverse Auction", "RA", "ra.pdf", "2023-11-16", "Yes"},
		},
		{
			name:   "policy",
			rows:   PolicyRows{{RuleKey: RuleTwoWO, Threshold: "0.4"}},
			header: []string{"RuleKey", "Threshold"},
			first:  []string{"TwoWO_pct", "0.4"},
		},
		{
			name:   "lists",
			rows:   ListRows{{ListName: ListPlatform, Value: "GeM"}},
			header: []string{"ListName", "Value"},
			first:  []string{"Platform", "GeM"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.header, tt.rows.Header())
			records := tt.rows.Records()
			require.Len(t, records, 1)
			assert.Equal(t, tt.first, records[0])
		})
	}
}

func TestCircularIsActive(t *testing.T) {
	tests := []struct {
		active string
		want   bool
	}{
		{"Yes", true},
		{"yes", true},
		{"YES", true},
		{"No", false},
		{"", false},
		{" Yes", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Circular{Active: tt.active}.IsActive(), "active=%q", tt.active)
	}
}

func TestParameterHelpView(t *testing.T) {
	params := ParameterRows{
		{Name: "Tender ID", Value: "T-1", Help: "id"},
		{Name: "Department", Value: "LPG", Help: "dept"},
	}

	view := params.HelpView()
	assert.Equal(t, HelpRows{{Name: "Tender ID", Help: "id"}, {Name: "Department", Help: "dept"}}, view)

	p, ok := params.Find("Department")
	require.True(t, ok)
	assert.Equal(t, "LPG", p.Value)

	_, ok = params.Find("Missing")
	assert.False(t, ok)
}
