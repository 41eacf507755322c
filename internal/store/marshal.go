package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/aivia/internal/queryir"
)

// marshalPlan converts a plan to canonical JSON TEXT plus its fingerprint.
// The stored text is exactly the bytes the fingerprint was computed over.
func marshalPlan(plan *queryir.QueryPlan) (data string, fingerprint string, err error) {
	raw, err := plan.CanonicalJSON()
	if err != nil {
		return "", "", fmt.Errorf("marshal plan: %w", err)
	}
	fingerprint, err = plan.Fingerprint()
	if err != nil {
		return "", "", fmt.Errorf("fingerprint plan: %w", err)
	}
	return string(raw), fingerprint, nil
}

// unmarshalPlanDoc parses stored plan JSON into a generic document.
// Numbers decode as json.Number to avoid float64 precision loss.
func unmarshalPlanDoc(data string) (map[string]any, error) {
	if data == "" {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	return doc, nil
}
