package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aivia/internal/store"
)

func runHistoryJSON(t *testing.T, args ...string) ([]HistoryEntry, error) {
	t.Helper()
	cmd := NewHistoryCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, args...)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Status string         `json:"status"`
		Data   []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp.Data, nil
}

func TestHistory_MissingDB(t *testing.T) {
	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestHistory_RequiresDBFlag(t *testing.T) {
	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	_, err := execute(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestHistory_EmptyLog(t *testing.T) {
	db := filepath.Join(t.TempDir(), "plans.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	st.Close()

	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No recorded requests.\n", out)
}

func TestHistory_Limit(t *testing.T) {
	db := filepath.Join(t.TempDir(), "plans.db")
	for _, req := range []string{"referrals_scheduled.yaml", "diabetic_no_referral.json", "referrals_scheduled.yaml"} {
		_, err := runPlanJSON(t, configDir, filepath.Join(requestsDir, req), "--db", db)
		require.NoError(t, err)
	}

	entries, err := runHistoryJSON(t, "--db", db, "--limit", "2")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(3), entries[0].Seq)
	assert.Equal(t, int64(2), entries[1].Seq)
	assert.Equal(t, "PATIENT", entries[1].From)

	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, "--db", db, "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "diabetic patients with no referral")
}
