package pathplan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/aivia/internal/ir"
)

// Target is a table the path must reach. Columns lists the columns the
// plan reads from it and may be empty.
type Target struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns,omitempty"`
}

// Request asks for a join tree rooted at Anchor that reaches every target.
type Request struct {
	Anchor  string   `json:"anchor_table"`
	Targets []Target `json:"targets"`
}

// Key renders a stable cache key for the request.
func (r Request) Key() string {
	var b strings.Builder
	b.WriteString(r.Anchor)
	for _, t := range r.Targets {
		b.WriteByte('|')
		b.WriteString(t.Table)
		if len(t.Columns) > 0 {
			b.WriteByte(':')
			b.WriteString(strings.Join(t.Columns, ","))
		}
	}
	return b.String()
}

// Edge is a directed join edge, oriented away from the anchor.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Key renders "SRC->DST", the key of Result.EdgePredicates.
func (e Edge) Key() string {
	return e.Source + "->" + e.Target
}

// Result is an oracle answer. Edges are ordered so each edge's source is
// the anchor or the target of an earlier edge. EdgePredicates may lack
// entries; the adapter fills the gaps.
type Result struct {
	Nodes          []string          `json:"nodes"`
	Edges          []Edge            `json:"edges"`
	EdgePredicates map[string]string `json:"edge_predicates"`
	ResolverID     string            `json:"resolver_id"`
	Cost           int               `json:"cost"`
}

// Predicate returns the predicate supplied for e.
func (r *Result) Predicate(e Edge) (string, bool) {
	p, ok := r.EdgePredicates[e.Key()]
	return p, ok && strings.TrimSpace(p) != ""
}

// Oracle completes join paths.
type Oracle interface {
	CompletePath(ctx context.Context, req Request) (*Result, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, req Request) (*Result, error)

// CompletePath calls f.
func (f OracleFunc) CompletePath(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}

// ErrUnknownAnchor is returned when the anchor is not a schema table.
var ErrUnknownAnchor = errors.New("pathplan: unknown anchor table")

// NoPathError reports a target unreachable from the anchor.
type NoPathError struct {
	Anchor string
	Target string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("pathplan: no join path from %s to %s", e.Anchor, e.Target)
}

// SchemaResolverID identifies SchemaOracle results.
const SchemaResolverID = "schema-bfs"

// SchemaOracle answers path requests from the schema's declared joins.
// Joins are undirected; neighbours are visited in declaration order so
// the answer is deterministic.
type SchemaOracle struct {
	Schema *ir.Schema
}

// CompletePath grows a tree from the anchor, adding the shortest path from
// the current tree to each target in request order.
func (o SchemaOracle) CompletePath(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !o.Schema.HasTable(req.Anchor) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnchor, req.Anchor)
	}

	res := &Result{
		Nodes:          []string{req.Anchor},
		EdgePredicates: make(map[string]string),
		ResolverID:     SchemaResolverID,
	}
	inTree := map[string]bool{req.Anchor: true}

	for _, t := range req.Targets {
		if inTree[t.Table] {
			continue
		}
		path, ok := o.shortestPath(res.Nodes, inTree, t.Table)
		if !ok {
			return nil, &NoPathError{Anchor: req.Anchor, Target: t.Table}
		}
		for _, step := range path {
			e := Edge{Source: step.from, Target: step.to}
			res.Edges = append(res.Edges, e)
			res.EdgePredicates[e.Key()] = step.predicate
			res.Nodes = append(res.Nodes, step.to)
			inTree[step.to] = true
		}
	}
	res.Cost = len(res.Edges)
	return res, nil
}

type step struct {
	from, to, predicate string
}

// shortestPath runs a multi-source BFS from every tree node (in tree
// order) to target and returns the steps leaving the tree.
func (o SchemaOracle) shortestPath(roots []string, inTree map[string]bool, target string) ([]step, bool) {
	parent := make(map[string]step)
	visited := make(map[string]bool, len(roots))
	queue := make([]string, 0, len(roots))
	for _, r := range roots {
		visited[r] = true
		queue = append(queue, r)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			break
		}
		for _, j := range o.Schema.Neighbors(cur) {
			next := j.RightTable
			if next == cur {
				next = j.LeftTable
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = step{from: cur, to: next, predicate: j.Predicate}
			queue = append(queue, next)
		}
	}

	if !visited[target] {
		return nil, false
	}
	var path []step
	for n := target; !inTree[n]; n = parent[n].from {
		path = append(path, parent[n])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}
