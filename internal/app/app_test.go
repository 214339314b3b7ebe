package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tenderlist/internal/checklist"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

var t0 = time.Date(2025, 7, 31, 9, 30, 15, 0, time.UTC)

type memMirror struct {
	mu   sync.Mutex
	keys []string
}

func (m *memMirror) Put(_ context.Context, key string, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return nil
}

func openTestApp(t *testing.T, cfg types.Config, opts ...Option) *App {
	t.Helper()
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = filepath.Join(t.TempDir(), "config")
	}
	a, err := Open(context.Background(), cfg, opts...)
	require.NoError(t, err)
	return a
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), types.Config{})
	assert.ErrorIs(t, err, types.ErrConfigDirEmpty)

	_, err = Open(context.Background(), types.Config{ConfigDir: t.TempDir(), Reload: "sometimes"})
	assert.ErrorIs(t, err, types.ErrReloadUnknown)
}

func TestOpenDefaultsBackupDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")
	a := openTestApp(t, types.Config{ConfigDir: dir})
	assert.Equal(t, filepath.Join(dir, "backups"), a.Config.BackupDir)
	assert.Equal(t, a.Config.BackupDir, a.Backups.Dir())
}

func TestOpenMigratesLegacyFiles(t *testing.T) {
	root := t.TempDir()
	legacy := filepath.Join(root, "old")
	require.NoError(t, os.MkdirAll(legacy, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacy, "policy.csv"),
		[]byte("RuleKey,Threshold\nATO_pct,0.75\n"), 0o644))

	a := openTestApp(t, types.Config{ConfigDir: filepath.Join(root, "config"), LegacyDir: legacy})

	assert.Equal(t, []string{"policy.csv"}, a.Migration.Moved)
	assert.Empty(t, a.Migration.Warnings)
	assert.FileExists(t, filepath.Join(root, "config", "policy.csv"))
	assert.NoFileExists(t, filepath.Join(legacy, "policy.csv"))

	sheet, err := a.Checklist(checklist.Inputs{Estimate: 1000, Years: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, sheet.Thresholds.ATO, 1e-9)
}

func TestChecklistScenario(t *testing.T) {
	a := openTestApp(t, types.Config{})

	sheet, err := a.Checklist(checklist.Inputs{Estimate: 1_200_000, Years: 3})
	require.NoError(t, err)

	assert.InDelta(t, 400_000, sheet.Summary.Annualized, 1e-6)
	assert.InDelta(t, 240_000, sheet.Summary.ATO, 1e-6)
	assert.InDelta(t, 200_000, sheet.Summary.SingleWO, 1e-6)
	assert.InDelta(t, 160_000, sheet.Summary.TwoWO, 1e-6)
	assert.InDelta(t, 120_000, sheet.Summary.ThreeWO, 1e-6)
	assert.Equal(t, "Service", sheet.Inputs.TenderType)
	assert.Equal(t, "GeM", sheet.Inputs.Platform)
}

func TestChecklistRejectsNegativeEstimate(t *testing.T) {
	a := openTestApp(t, types.Config{})
	_, err := a.Checklist(checklist.Inputs{Estimate: -1, Years: 1})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestGuideAndOptions(t *testing.T) {
	a := openTestApp(t, types.Config{})

	g, err := a.Guide(checklist.FieldReverseAuction)
	require.NoError(t, err)
	require.NotNil(t, g.Circular)
	assert.Equal(t, "RA Exmeption Circular 16.11.23.pdf", g.Circular.Title)

	g, err = a.Guide("Unknown")
	require.NoError(t, err)
	assert.Equal(t, checklist.NoHelpText, g.Help)
	assert.Nil(t, g.Circular)

	opts, err := a.Options(types.ListTenderType)
	require.NoError(t, err)
	assert.Equal(t, []string{"Service", "Works", "Goods"}, opts)

	names, err := a.ListNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"TenderType", "Platform", "Category", "Criticality", "YesNo"}, names)
}

func TestTable(t *testing.T) {
	a := openTestApp(t, types.Config{})

	rows, err := a.Table("policy")
	require.NoError(t, err)
	assert.Equal(t, 4, rows.Len())

	_, err = a.Table("nope")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestEditorBacksUpThroughMirror(t *testing.T) {
	mirror := &memMirror{}
	a := openTestApp(t, types.Config{}, WithMirror(mirror), WithClock(func() time.Time { return t0 }))
	_, err := a.Store.Seed()
	require.NoError(t, err)

	report, err := a.Editor.DeleteRows(context.Background(), types.TableLists, []string{"0: TenderType | Service"})
	require.NoError(t, err)
	assert.Equal(t, []types.TableID{types.TableLists}, report.Saved)
	require.Len(t, report.Backups, 1)
	assert.Equal(t, []string{"20250731T093015Z/lists.csv"}, mirror.keys)
	assert.Equal(t, 11, a.Store.Lists().Len())
}

func TestRestoreInvalidatesCache(t *testing.T) {
	now := t0
	a := openTestApp(t, types.Config{Reload: types.ReloadOnWrite}, WithClock(func() time.Time { return now }))
	_, err := a.Store.Seed()
	require.NoError(t, err)
	require.Equal(t, "0.6", a.Store.Policy()[0].Threshold)

	_, err = a.Backups.Backup(context.Background(), types.TablePolicy)
	require.NoError(t, err)

	edited := append(types.PolicyRows{}, a.Store.Policy()...)
	edited[0].Threshold = "0.9"
	require.NoError(t, a.Store.Save(edited))
	require.Equal(t, "0.9", a.Store.Policy()[0].Threshold)

	now = t0.Add(time.Minute)
	safety, err := a.Restore(context.Background(), "20250731T093015Z", types.TablePolicy)
	require.NoError(t, err)
	assert.Contains(t, safety, "20250731T093115Z")
	assert.Equal(t, "0.6", a.Store.Policy()[0].Threshold)
}

func TestRestoreUnknownStamp(t *testing.T) {
	a := openTestApp(t, types.Config{})
	_, err := a.Restore(context.Background(), "yesterday", types.TablePolicy)
	assert.ErrorIs(t, err, types.ErrBackupNotFound)
}
