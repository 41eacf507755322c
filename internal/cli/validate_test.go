package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, configDir)
	require.NoError(t, err)
	assert.Contains(t, out, "\u2713 Configuration valid (9 tables, 4 concepts)")
	assert.NotContains(t, out, "warning:")
}

func TestValidate_ValidConfigJSON(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, configDir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 9, resp.Data.Tables)
}

func TestValidate_NonExistentDirectory(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestValidate_EmptyDirectory(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	_, err := execute(cmd, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644))
	return dir
}

func TestValidate_SchemaErrors(t *testing.T) {
	dir := writeConfig(t, `
schema: tables: {
	PATIENT: {columns: ["PAT_ID", "PAT_ID"]}
}
schema: joins: [{left_table: "PATIENT", right_table: "GHOST", predicate: "GHOST.PAT_ID = PATIENT.PAT_ID"}]
`)

	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "\u2717 Validation failed")
	assert.Contains(t, out, "E202")
	assert.Contains(t, out, "E203")
}

func TestValidate_CUESyntaxError(t *testing.T) {
	dir := writeConfig(t, "schema: tables: {\n")

	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeLoadFailed, resp.Error.Code)
}

func TestValidate_ConnectivityWarning(t *testing.T) {
	dir := writeConfig(t, `
schema: tables: {
	PATIENT: {primary_key: "PAT_ID", columns: ["PAT_ID"]}
	AUDIT_LOG: {columns: ["LOG_ID"]}
}
`)

	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "warning: tables AUDIT_LOG are not reachable from PATIENT through declared joins")
}
