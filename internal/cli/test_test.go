package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommand_FixtureScenarios(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, configDir, scenariosDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "\u2713 referrals_scheduled_appointments")
	assert.Contains(t, out, "\u2713 All scenarios passed")
}

func TestTestCommand_Filter(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, configDir, scenariosDir, "--filter", "empty*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, "empty_tokens", resp.Data.Scenarios[0].Name)
}

func TestTestCommand_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(`
name: wrong
description: expects the wrong anchor
tokens:
  - {type: entity, mention: referrals}
expect:
  from: PATIENT
`), 0o644))

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, configDir, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "\u2717 wrong")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommand_UpdateAndCompareGolden(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "single.yaml")
	require.NoError(t, os.WriteFile(scenario, []byte(`
name: single
description: one entity
tokens:
  - {type: entity, mention: referral}
`), 0o644))

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	_, err := execute(cmd, configDir, dir, "--update")
	require.NoError(t, err)

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "single.golden"))
	require.NoError(t, err)
	assert.Equal(t, `{"applies_to":[],"filter_kinds":[],"from":"REFERRAL","joins":[],"scenario":"single","select":"REFERRAL.REFERRAL_ID","warnings":[]}`, string(golden))

	// A stale golden file fails the run
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "single.golden"), []byte("{}"), 0o644))
	cmd = NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, configDir, dir)
	require.Error(t, err)
	assert.Contains(t, out, "plan does not match golden file")
}

func TestTestCommand_MissingScenariosDir(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	_, err := execute(cmd, configDir, "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_NoScenarios(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, configDir, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}
