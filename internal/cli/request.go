package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aivia/internal/engine"
)

// LoadRequest reads a request file. YAML is a superset of JSON, so both
// formats are accepted. Unknown fields are rejected.
func LoadRequest(path string) (engine.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Request{}, fmt.Errorf("failed to read request file: %w", err)
	}

	var req engine.Request
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&req); err != nil {
		return engine.Request{}, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}
