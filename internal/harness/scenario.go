package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aivia/internal/engine"
	"github.com/roach88/aivia/internal/ir"
)

// Scenario is one planning request with its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Question is the original text, logged only.
	Question string `yaml:"question,omitempty"`

	// RowGrain is the requested output grain.
	RowGrain string `yaml:"row_grain,omitempty"`

	// Tokens are the extracted mentions fed to the synthesizer.
	Tokens []ir.ConceptToken `yaml:"tokens"`

	// Expect holds the assertions on the outcome.
	Expect Expect `yaml:"expect"`
}

// Expect specifies the expected outcome. Empty fields are not checked.
type Expect struct {
	Error       string   `yaml:"error,omitempty"`
	From        string   `yaml:"from,omitempty"`
	Joins       []string `yaml:"joins,omitempty"`
	FilterKinds []string `yaml:"filter_kinds,omitempty"`
	AppliesTo   []string `yaml:"applies_to,omitempty"`
	Select      string   `yaml:"select,omitempty"`
	Warnings    []string `yaml:"warnings,omitempty"`
}

// Request converts the scenario into a synthesis request.
func (s *Scenario) Request() engine.Request {
	return engine.Request{
		Question: s.Question,
		RowGrain: s.RowGrain,
		Tokens:   s.Tokens,
	}
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "filter_kind:" vs "filter_kinds:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns every .yaml/.yml file in dir, sorted by name.
func FindScenarios(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	for i, tok := range s.Tokens {
		if tok.Type == "" {
			return fmt.Errorf("tokens[%d]: type is required", i)
		}
	}

	e := s.Expect
	if e.Error != "" {
		if e.From != "" || len(e.Joins) > 0 || len(e.FilterKinds) > 0 || len(e.AppliesTo) > 0 || e.Select != "" || len(e.Warnings) > 0 {
			return fmt.Errorf("expect: error excludes plan expectations")
		}
		if !knownErrorCode(e.Error) {
			return fmt.Errorf("expect: unknown error code %q", e.Error)
		}
	}

	return nil
}

func knownErrorCode(code string) bool {
	switch engine.PlanErrorCode(code) {
	case engine.ErrCodeNoBindings, engine.ErrCodePathPlanning, engine.ErrCodeInconsistentPlan, engine.ErrCodeInvalidRequest:
		return true
	}
	return false
}
