package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a plan fingerprint is not in the log.
var ErrNotFound = errors.New("not found")

// StoredPlan is one row of the plans table.
type StoredPlan struct {
	Fingerprint  string
	SchemaHash   string
	From         string
	PlanJSON     string
	WarningCount int
}

// Doc decodes PlanJSON into a generic document.
func (p StoredPlan) Doc() (map[string]any, error) {
	return unmarshalPlanDoc(p.PlanJSON)
}

// Request is one row of the plan_requests table.
type Request struct {
	ID          string
	Fingerprint string
	Question    string
	RowGrain    string
	Seq         int64
}

// ReadPlan loads the plan with the given fingerprint.
func (s *Store) ReadPlan(ctx context.Context, fingerprint string) (StoredPlan, error) {
	var p StoredPlan
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, schema_hash, from_table, plan_json, warning_count
		FROM plans
		WHERE fingerprint = ?
	`, fingerprint).Scan(&p.Fingerprint, &p.SchemaHash, &p.From, &p.PlanJSON, &p.WarningCount)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredPlan{}, fmt.Errorf("plan %s: %w", fingerprint, ErrNotFound)
	}
	if err != nil {
		return StoredPlan{}, fmt.Errorf("read plan: %w", err)
	}
	return p, nil
}

// ListRequests returns the most recent requests, newest first.
// A limit of zero or less returns every request.
func (s *Store) ListRequests(ctx context.Context, limit int) ([]Request, error) {
	query := `
		SELECT id, fingerprint, question, row_grain, seq
		FROM plan_requests
		ORDER BY seq DESC, id COLLATE BINARY ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	return scanRequests(rows)
}

// RequestsForPlan returns every request that produced the given plan, in
// seq order.
func (s *Store) RequestsForPlan(ctx context.Context, fingerprint string) ([]Request, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fingerprint, question, row_grain, seq
		FROM plan_requests
		WHERE fingerprint = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	return scanRequests(rows)
}

func scanRequests(rows *sql.Rows) ([]Request, error) {
	defer rows.Close()
	var out []Request
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.ID, &r.Fingerprint, &r.Question, &r.RowGrain, &r.Seq); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return out, nil
}
