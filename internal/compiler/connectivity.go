package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/aivia/internal/ir"
)

// ConnectivityWarning reports tables the join graph cannot reach from the
// default anchor. Joins to them will degrade at plan time.
//
// Disconnected tables are warnings, not errors, because they may be
// intentional: lookup tables used only as anchors, or staging tables.
type ConnectivityWarning struct {
	Tables  []string `json:"tables"`  // one connected component, declaration order
	Message string   `json:"message"` // human-readable description
	Level   string   `json:"level"`   // "warning"
}

// AnalyzeConnectivity partitions the schema's join graph (undirected) into
// connected components and reports every component that does not contain
// the planner's default table.
//
// The algorithm:
//  1. Build an adjacency list from Schema.Joins
//  2. Walk components with an iterative DFS in declaration order
//  3. Report each component without the default table
//
// A fully connected schema returns an empty list.
func AnalyzeConnectivity(schema *ir.Schema, defaultTable string) []ConnectivityWarning {
	graph := buildJoinGraph(schema)

	index := make(map[string]int, schema.Len())
	for i, name := range schema.TableNames() {
		index[name] = i
	}

	visited := make(map[string]bool, schema.Len())
	var warnings []ConnectivityWarning
	for _, start := range schema.TableNames() {
		if visited[start] {
			continue
		}
		component := walkComponent(start, graph, visited)
		sortByDeclaration(component, index)
		if containsTable(component, defaultTable) {
			continue
		}
		warnings = append(warnings, ConnectivityWarning{
			Tables: component,
			Message: fmt.Sprintf("tables %s are not reachable from %s through declared joins",
				strings.Join(component, ", "), defaultTable),
			Level: "warning",
		})
	}
	return warnings
}

// joinGraph maps a table to its neighbours in join declaration order.
type joinGraph map[string][]string

func buildJoinGraph(schema *ir.Schema) joinGraph {
	graph := make(joinGraph, schema.Len())
	for _, j := range schema.Joins {
		graph[j.LeftTable] = append(graph[j.LeftTable], j.RightTable)
		graph[j.RightTable] = append(graph[j.RightTable], j.LeftTable)
	}
	return graph
}

func walkComponent(start string, graph joinGraph, visited map[string]bool) []string {
	var component []string
	stack := []string{start}
	visited[start] = true
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		component = append(component, node)
		for _, next := range graph[node] {
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return component
}

// sortByDeclaration orders a component by schema declaration order.
// Insertion sort: components are small.
func sortByDeclaration(tables []string, index map[string]int) {
	for i := 1; i < len(tables); i++ {
		for j := i; j > 0 && index[tables[j]] < index[tables[j-1]]; j-- {
			tables[j], tables[j-1] = tables[j-1], tables[j]
		}
	}
}

func containsTable(tables []string, name string) bool {
	for _, t := range tables {
		if t == name {
			return true
		}
	}
	return false
}
