package cli

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	configDir    = filepath.Join("..", "..", "testdata", "config")
	scenariosDir = filepath.Join("..", "..", "testdata", "scenarios")
	requestsDir  = filepath.Join("..", "..", "testdata", "requests")
)

// execute runs cmd with args and returns stdout and the error.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}
