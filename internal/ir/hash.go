package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// leaves room for algorithm migration.
const (
	DomainPlan   = "aivia/plan/v1"
	DomainSchema = "aivia/schema/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data). The null byte
// separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PlanFingerprint hashes the canonical form of a plan. Two plans with the
// same fingerprint are byte-identical in canonical JSON.
func PlanFingerprint(canonical IRObject) (string, error) {
	data, err := MarshalCanonical(canonical)
	if err != nil {
		return "", fmt.Errorf("plan fingerprint: %w", err)
	}
	return hashWithDomain(DomainPlan, data), nil
}

// SchemaHash identifies a schema (tables in order, columns, keys, joins).
func SchemaHash(s *Schema) (string, error) {
	data, err := MarshalCanonical(s.Canonical())
	if err != nil {
		return "", fmt.Errorf("schema hash: %w", err)
	}
	return hashWithDomain(DomainSchema, data), nil
}

// Canonical returns the schema as a canonical document. Table order is
// kept as an array because it decides ties.
func (s *Schema) Canonical() IRObject {
	tables := make(IRArray, 0, s.Len())
	for _, t := range s.Tables() {
		cols := make(IRArray, 0, len(t.Columns))
		for _, c := range t.Columns {
			cols = append(cols, IRObject{"name": IRString(c.Name), "description": IRString(c.Description)})
		}
		tables = append(tables, IRObject{
			"name":        IRString(t.Name),
			"aliases":     Strings(t.Aliases),
			"description": IRString(t.Description),
			"primary_key": IRString(t.PrimaryKey),
			"columns":     cols,
		})
	}
	joins := make(IRArray, 0, len(s.Joins))
	for _, j := range s.Joins {
		joins = append(joins, IRObject{
			"left_table":  IRString(j.LeftTable),
			"right_table": IRString(j.RightTable),
			"predicate":   IRString(j.Predicate),
		})
	}
	return IRObject{"tables": tables, "joins": joins}
}
