package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tenderlist/internal/csvstore"
	"github.com/mesh-intelligence/tenderlist/internal/lookup"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

func defaultLookup(t *testing.T) *lookup.Service {
	t.Helper()
	return openLookup(t, csvstore.DefaultTables())
}

func openLookup(t *testing.T, tables types.Tables) *lookup.Service {
	t.Helper()
	s, err := lookup.Open(tables)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFillDefaultsDropdownsAndYears(t *testing.T) {
	sheet := Fill(Inputs{TenderID: "T-1", Estimate: 1_200_000, Years: 3, Platform: "NIC"}, defaultLookup(t))

	assert.Equal(t, "Service", sheet.Inputs.TenderType)
	assert.Equal(t, "NIC", sheet.Inputs.Platform)
	assert.Equal(t, "AMC", sheet.Inputs.Category)
	assert.Equal(t, "Critical", sheet.Inputs.Criticality)
	assert.Equal(t, "Yes", sheet.Inputs.StandardTemplate)
	assert.Equal(t, "Yes", sheet.Inputs.ReverseAuction)
	assert.Equal(t, 3, sheet.Inputs.Years)

	assert.Equal(t, DefaultThresholds, sheet.Thresholds)
	assert.InDelta(t, 400_000, sheet.Summary.Annualized, 1e-9)
	assert.InDelta(t, 240_000, sheet.Summary.ATO, 1e-9)
	assert.Len(t, sheet.Lines, 5)

	sheet = Fill(Inputs{Estimate: 10}, defaultLookup(t))
	assert.Equal(t, 1, sheet.Inputs.Years)
}

func TestFillLeavesDropdownEmptyWithoutOptions(t *testing.T) {
	sheet := Fill(Inputs{Estimate: 100}, openLookup(t, types.Tables{}))

	assert.Empty(t, sheet.Inputs.TenderType)
	assert.Equal(t, DefaultThresholds, sheet.Thresholds)
	assert.InDelta(t, 60, sheet.Summary.ATO, 1e-9)
}

func TestFillUsesStoredThresholds(t *testing.T) {
	tables := csvstore.DefaultTables()
	tables.Policy = types.PolicyRows{{RuleKey: types.RuleATO, Threshold: "0.8"}}

	sheet := Fill(Inputs{Estimate: 1000, Years: 1}, openLookup(t, tables))
	assert.InDelta(t, 800, sheet.Summary.ATO, 1e-9)
	assert.InDelta(t, 500, sheet.Summary.SingleWO, 1e-9)
}

func TestFillStandingGuidance(t *testing.T) {
	sheet := Fill(Inputs{}, defaultLookup(t))

	require.Len(t, sheet.Guidance, 2)
	std := sheet.Guidance[0]
	assert.Equal(t, FieldStandardTemplate, std.Parameter)
	assert.Equal(t, "Yes = standardized; No = tender-specific", std.Help)
	require.NotNil(t, std.Circular)
	assert.Equal(t, "Standardized Template Policy", std.Circular.Title)

	ra := sheet.Guidance[1]
	assert.Equal(t, FieldReverseAuction, ra.Parameter)
	require.NotNil(t, ra.Circular)
	assert.Equal(t, "RA Exmeption Circular 16.11.23.pdf", ra.Circular.Title)
}

func TestFillStandingGuidanceWithoutHelp(t *testing.T) {
	sheet := Fill(Inputs{}, openLookup(t, types.Tables{}))

	require.Len(t, sheet.Guidance, 2)
	assert.Empty(t, sheet.Guidance[0].Help)
	assert.Nil(t, sheet.Guidance[0].Circular)
}

func TestGuideFor(t *testing.T) {
	lk := defaultLookup(t)

	g := GuideFor(lk, FieldPlatform)
	assert.Equal(t, "GeM or NIC", g.Help)
	assert.Nil(t, g.Circular)

	g = GuideFor(lk, "Unknown Field")
	assert.Equal(t, NoHelpText, g.Help)

	g = GuideFor(lk, FieldReverseAuction)
	require.NotNil(t, g.Circular)
	assert.Equal(t, "2023-11-16", g.Circular.EffectiveFrom)
}

func TestGuidanceSkipsCircularWithoutLink(t *testing.T) {
	tables := csvstore.DefaultTables()
	for i := range tables.Circulars {
		if tables.Circulars[i].Parameter == FieldReverseAuction {
			tables.Circulars[i].Link = ""
		}
	}
	lk := openLookup(t, tables)

	g := GuideFor(lk, FieldReverseAuction)
	assert.Equal(t, "Yes/No per RA circular", g.Help)
	assert.Nil(t, g.Circular)

	g = GuideFor(lk, FieldStandardTemplate)
	require.NotNil(t, g.Circular)
	assert.Equal(t, "StandardTemplatePolicy.pdf", g.Circular.Link)

	sheet := Fill(Inputs{}, lk)
	for _, sg := range sheet.Guidance {
		if sg.Parameter == FieldReverseAuction {
			assert.Nil(t, sg.Circular)
		}
	}
}

func TestParseInputs(t *testing.T) {
	in, err := ParseInputs(map[string]string{
		FieldTenderID:   "T-9",
		FieldTenderType: "Works",
		FieldEstimate:   "1,200,000.50",
		FieldYears:      " 3 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "T-9", in.TenderID)
	assert.Equal(t, "Works", in.TenderType)
	assert.Equal(t, 1_200_000.50, in.Estimate)
	assert.Equal(t, 3, in.Years)

	in, err = ParseInputs(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, in.Estimate)
	assert.Equal(t, 1, in.Years)
}

func TestParseInputsRejects(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{name: "estimate not a number", values: map[string]string{FieldEstimate: "lots"}},
		{name: "negative estimate", values: map[string]string{FieldEstimate: "-5"}},
		{name: "fractional years", values: map[string]string{FieldYears: "2.5"}},
		{name: "zero years", values: map[string]string{FieldYears: "0"}},
		{name: "years not a number", values: map[string]string{FieldYears: "three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInputs(tt.values)
			assert.ErrorIs(t, err, types.ErrInvalidInput)
		})
	}
}

func TestInputsValidate(t *testing.T) {
	assert.NoError(t, Inputs{Estimate: 0, Years: 0}.Validate())
	assert.ErrorIs(t, Inputs{Estimate: -1}.Validate(), types.ErrInvalidInput)
	assert.ErrorIs(t, Inputs{Years: -2}.Validate(), types.ErrInvalidInput)
}
