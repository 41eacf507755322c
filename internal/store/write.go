package store

import (
	"context"
	"fmt"

	"github.com/roach88/aivia/internal/queryir"
)

// RequestMeta describes the synthesis request that produced a plan.
type RequestMeta struct {
	Question   string
	RowGrain   string
	SchemaHash string
}

// RecordPlan stores plan (once per fingerprint) and appends a request row
// pointing at it. Returns the request id and the plan fingerprint.
//
// Recording the same plan twice leaves one plans row and two requests.
func (s *Store) RecordPlan(ctx context.Context, plan *queryir.QueryPlan, meta RequestMeta) (id string, fingerprint string, err error) {
	if plan == nil {
		return "", "", fmt.Errorf("record plan: nil plan")
	}
	data, fingerprint, err := marshalPlan(plan)
	if err != nil {
		return "", "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (fingerprint, schema_hash, from_table, plan_json, warning_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`, fingerprint, meta.SchemaHash, plan.From, data, len(plan.Warnings))
	if err != nil {
		return "", "", fmt.Errorf("insert plan: %w", err)
	}

	id = s.ids.Generate()
	seq := s.clock.Next()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO plan_requests (id, fingerprint, question, row_grain, seq)
		VALUES (?, ?, ?, ?, ?)
	`, id, fingerprint, meta.Question, meta.RowGrain, seq)
	if err != nil {
		return "", "", fmt.Errorf("insert request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", "", fmt.Errorf("commit: %w", err)
	}
	return id, fingerprint, nil
}
