package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tenderlist/internal/backup"
	"github.com/mesh-intelligence/tenderlist/internal/checklist"
	"github.com/mesh-intelligence/tenderlist/internal/csvstore"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

type result struct {
	stdout string
	stderr string
	code   int
}

type testEnv struct {
	t         *testing.T
	configDir string
	legacyDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	env := &testEnv{
		t:         t,
		configDir: filepath.Join(root, "config"),
		legacyDir: filepath.Join(root, "legacy"),
	}
	require.NoError(t, os.MkdirAll(env.legacyDir, 0o755))
	t.Setenv("TENDERLIST_LEGACY_DIR", env.legacyDir)
	t.Setenv("TENDERLIST_LOG_LEVEL", "error")
	return env
}

func (e *testEnv) run(args ...string) result {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	all := append([]string{"--config-dir", e.configDir, "--env-file", ""}, args...)
	code := Execute(context.Background(), all, &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (e *testEnv) mustRun(args ...string) result {
	e.t.Helper()
	r := e.run(args...)
	require.Equal(e.t, exitSuccess, r.code, "tenderlist %v\nstdout: %s\nstderr: %s", args, r.stdout, r.stderr)
	return r
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.configDir, name)
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	r := e.mustRun("version")
	assert.Contains(t, r.stdout, "tenderlist v")
	assert.Contains(t, r.stdout, "module: github.com/mesh-intelligence/tenderlist")
}

func TestInitCreatesConfigAndTables(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.legacyDir, "lists.csv"),
		[]byte("ListName,Value\nTenderType,Supply\n"), 0o644))

	r := e.mustRun("--json", "init")
	var res initResult
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &res))
	assert.True(t, res.ConfigWritten)
	assert.Equal(t, []string{"lists.csv"}, res.Migrated)
	assert.Equal(t, []types.TableID{types.TableParameters, types.TableCirculars, types.TablePolicy}, res.Seeded)

	assert.FileExists(t, e.path("config.yaml"))
	for _, id := range types.StandardTables {
		assert.FileExists(t, e.path(id.FileName()))
	}
	cfg, err := os.ReadFile(e.path("config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "parameter_merge: preserve")
	assert.Contains(t, string(cfg), "session_ttl: 2h")

	r = e.mustRun("--json", "init")
	res = initResult{}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &res))
	assert.False(t, res.ConfigWritten)
	assert.Empty(t, res.Migrated)
	assert.Empty(t, res.Seeded)
}

func TestChecklistText(t *testing.T) {
	e := newTestEnv(t)
	r := e.mustRun("checklist", "--tender-id", "T-104", "--estimate", "1,200,000", "--years", "3")

	assert.Contains(t, r.stdout, "T-104")
	assert.Contains(t, r.stdout, "400,000.00")
	assert.Contains(t, r.stdout, "240,000.00")
	assert.Contains(t, r.stdout, "120,000.00")
	assert.Contains(t, r.stdout, "RA Exmeption Circular 16.11.23.pdf")
}

func TestChecklistJSON(t *testing.T) {
	e := newTestEnv(t)
	r := e.mustRun("--json", "checklist", "--estimate", "1200000", "--years", "3", "--category", "AMC")

	var sheet checklist.Sheet
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &sheet))
	assert.InDelta(t, 400_000, sheet.Summary.Annualized, 1e-6)
	assert.InDelta(t, 160_000, sheet.Summary.TwoWO, 1e-6)
	assert.Equal(t, "AMC", sheet.Inputs.Category)
	assert.Equal(t, "Service", sheet.Inputs.TenderType)
}

func TestChecklistRejectsBadInput(t *testing.T) {
	e := newTestEnv(t)

	r := e.run("checklist", "--estimate", "a lot")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "invalid input")

	r = e.run("checklist", "--years", "0")
	assert.Equal(t, exitUserError, r.code)
}

func TestChecklistOptionsAndGuide(t *testing.T) {
	e := newTestEnv(t)

	r := e.mustRun("checklist", "options", "Category")
	assert.Equal(t, "AMC\nLumpsum\nLOT\n", r.stdout)

	r = e.mustRun("checklist", "options")
	assert.Equal(t, "TenderType\nPlatform\nCategory\nCriticality\nYesNo\n", r.stdout)

	r = e.mustRun("checklist", "guide", "Is Standard Template")
	assert.Contains(t, r.stdout, "Yes = standardized; No = tender-specific")
	assert.Contains(t, r.stdout, "Standardized Template Policy")

	r = e.mustRun("checklist", "guide", "Nothing")
	assert.Equal(t, checklist.NoHelpText+"\n", r.stdout)
}

func TestAdminShow(t *testing.T) {
	e := newTestEnv(t)

	r := e.mustRun("admin", "show", "policy")
	assert.Contains(t, r.stdout, "policy (4 rows): RuleKey, Threshold")
	assert.Contains(t, r.stdout, "0: ATO_pct | 0.6\n")
	assert.Contains(t, r.stdout, "3: ThreeWO_pct | 0.3\n")

	r = e.run("admin", "show", "nope")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "valid: parameters, circulars, policy, lists")
}

func TestAdminDeleteBacksUpAndSaves(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")
	before, err := os.ReadFile(e.path("lists.csv"))
	require.NoError(t, err)

	r := e.mustRun("admin", "delete", "lists", "0: TenderType | Service", "2: TenderType | Goods", "40: stale")
	assert.Contains(t, r.stdout, "saved: lists")
	assert.Contains(t, r.stdout, "backup: ")

	rows, err := csvstore.DecodeCSV(types.TableLists, e.path("lists.csv"))
	require.NoError(t, err)
	assert.Equal(t, 10, rows.Len())
	assert.Equal(t, types.ListOption{ListName: "TenderType", Value: "Works"}, rows.(types.ListRows)[0])

	r = e.mustRun("--json", "admin", "backups")
	var snaps []backup.Snapshot
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &snaps))
	require.Len(t, snaps, 1)
	saved, err := os.ReadFile(filepath.Join(e.configDir, "backups", snaps[0].Stamp, "lists.csv"))
	require.NoError(t, err)
	assert.Equal(t, before, saved)
}

func TestAdminDeleteNothingMatched(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")

	r := e.mustRun("admin", "delete", "policy", "9: nothing")
	assert.Contains(t, r.stdout, "nothing to save")
	assert.NoDirExists(t, filepath.Join(e.configDir, "backups"))
}

func TestAdminEditKeepsParameterValues(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(e.path("parameters.csv"),
		[]byte("Parameter,Value,Help\nTender ID,T-0,old help\nDepartment,LPG,dept help\n"), 0o644))

	edited := filepath.Join(t.TempDir(), "edited.csv")
	require.NoError(t, os.WriteFile(edited,
		[]byte("Parameter,Help\nTender ID,new help\nDepartment,dept help\nRegion,where\n"), 0o644))

	r := e.mustRun("admin", "edit", "parameters", "--file", edited, "--delete", "1: Department")
	assert.Contains(t, r.stdout, "saved: parameters")

	data, err := os.ReadFile(e.path("parameters.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Parameter,Value,Help\nTender ID,T-0,new help\nRegion,,where\n", string(data))
}

func TestAdminEditRequiresFile(t *testing.T) {
	e := newTestEnv(t)

	r := e.run("admin", "edit", "lists")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "--file is required")

	r = e.run("admin", "edit", "lists", "--file", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Equal(t, exitUserError, r.code)
}

func TestAdminSaveMultipleTables(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")

	dir := t.TempDir()
	policy := filepath.Join(dir, "policy.csv")
	lists := filepath.Join(dir, "lists.csv")
	require.NoError(t, os.WriteFile(policy, []byte("RuleKey,Threshold\nATO_pct,0.7\n"), 0o644))
	require.NoError(t, os.WriteFile(lists, []byte("ListName,Value\nYesNo,Yes\nYesNo,No\n"), 0o644))

	r := e.mustRun("--json", "admin", "save", "--policy", policy, "--lists", lists)
	var report struct {
		Saved []types.TableID `json:"saved"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &report))
	assert.Equal(t, []types.TableID{types.TableLists, types.TablePolicy}, report.Saved)

	r = e.mustRun("--json", "checklist", "--estimate", "100")
	var sheet checklist.Sheet
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &sheet))
	assert.InDelta(t, 70, sheet.Summary.ATO, 1e-9)
	assert.InDelta(t, 50, sheet.Summary.SingleWO, 1e-9)
	assert.Empty(t, sheet.Inputs.TenderType)

	r = e.run("admin", "save")
	assert.Equal(t, exitUserError, r.code)
}

func TestAdminRestore(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")
	original, err := os.ReadFile(e.path("policy.csv"))
	require.NoError(t, err)

	e.mustRun("admin", "delete", "policy", "0: ATO_pct")

	r := e.mustRun("--json", "admin", "backups")
	var snaps []backup.Snapshot
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &snaps))
	require.NotEmpty(t, snaps)

	r = e.mustRun("admin", "restore", snaps[0].Stamp, "policy")
	assert.Contains(t, r.stdout, "restored policy from "+snaps[0].Stamp)

	restored, err := os.ReadFile(e.path("policy.csv"))
	require.NoError(t, err)
	assert.Equal(t, original, restored)

	r = e.run("admin", "restore", "20000101T000000Z", "policy")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "backup not found")
}

func TestExitCodesForBadCommandLines(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"checklist", "--colour", "red"}},
		{"missing argument", []string{"admin", "show"}},
		{"extra argument", []string{"version", "now"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.run(tt.args...)
			assert.Equal(t, exitUserError, r.code, r.stderr)
			assert.NotEmpty(t, r.stderr)
		})
	}
}

func TestConfigDirFromEnv(t *testing.T) {
	e := newTestEnv(t)
	t.Setenv("TENDERLIST_CONFIG_DIR", e.configDir)

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"--env-file", "", "init"}, &stdout, &stderr)
	require.Equal(t, exitSuccess, code, stderr.String())
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stdout.String()), e.configDir))
	assert.FileExists(t, e.path("policy.csv"))
}

func TestInvalidSettingsAreUserErrors(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(e.path("config.yaml"), []byte("reload: sometimes\n"), 0o644))

	r := e.run("checklist")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "unknown reload policy")
}

func TestEnvFileIsLoaded(t *testing.T) {
	e := newTestEnv(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("TENDERLIST_ADMIN_PARAMETER_MERGE=left_join\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TENDERLIST_ADMIN_PARAMETER_MERGE") })

	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(e.path("parameters.csv"),
		[]byte("Parameter,Value,Help\nTender ID,T-0,old\nDepartment,LPG,dept\n"), 0o644))
	edited := filepath.Join(t.TempDir(), "edited.csv")
	require.NoError(t, os.WriteFile(edited, []byte("Parameter,Help\nTender ID,new\nRegion,where\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(),
		[]string{"--config-dir", e.configDir, "--env-file", envFile, "admin", "edit", "parameters", "--file", edited},
		&stdout, &stderr)
	require.Equal(t, exitSuccess, code, stderr.String())

	data, err := os.ReadFile(e.path("parameters.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Parameter,Value,Help\nTender ID,T-0,new\nDepartment,LPG,\n", string(data))
}
