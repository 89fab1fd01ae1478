// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package analyzer provides read-only analysis over a built call
// graph: caller/callee queries, call chains, cycle detection,
// complexity ranking, distributions, and a text report. All
// operations are written against the graph.CallGraph contract so
// either representation can back them.
package analyzer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/AleutianAI/codegraph/graph"
)

// ComplexFunction pairs a function with its degree-based complexity
// score (in-degree plus out-degree).
type ComplexFunction struct {
	Function graph.FunctionInfo
	Score    int
}

// Analyzer answers queries over one immutable call graph.
//
// Thread Safety:
//
//	Safe for concurrent use as long as the underlying graph is no
//	longer mutated.
type Analyzer struct {
	g graph.CallGraph
}

// New creates an Analyzer over g.
func New(g graph.CallGraph) *Analyzer {
	return &Analyzer{g: g}
}

// FindCallers returns every function with an edge into any function
// carrying the given name. When several functions share the name, the
// result is the union of their callers, duplicates included.
func (a *Analyzer) FindCallers(functionName string) []graph.FunctionInfo {
	out := make([]graph.FunctionInfo, 0)
	for _, fn := range a.g.FunctionsByName(functionName) {
		for _, edge := range a.g.Callers(fn.ID) {
			if caller, ok := a.g.Function(edge.CallerID); ok {
				out = append(out, caller)
			}
		}
	}
	return out
}

// FindCallees returns every function any same-named function calls,
// duplicates included.
func (a *Analyzer) FindCallees(functionName string) []graph.FunctionInfo {
	out := make([]graph.FunctionInfo, 0)
	for _, fn := range a.g.FunctionsByName(functionName) {
		for _, edge := range a.g.Callees(fn.ID) {
			if callee, ok := a.g.Function(edge.CalleeID); ok {
				out = append(out, callee)
			}
		}
	}
	return out
}

// FindCallChains enumerates call chains starting at the first
// function with the given name (index order breaks ties). Ids with no
// record are dropped from the materialized chains. Unknown names
// yield an empty result.
func (a *Analyzer) FindCallChains(functionName string, maxDepth int) [][]graph.FunctionInfo {
	matches := a.g.FunctionsByName(functionName)
	if len(matches) == 0 {
		return [][]graph.FunctionInfo{}
	}

	chains := a.g.CallChain(matches[0].ID, maxDepth)
	out := make([][]graph.FunctionInfo, 0, len(chains))
	for _, chain := range chains {
		fns := make([]graph.FunctionInfo, 0, len(chain))
		for _, id := range chain {
			if fn, ok := a.g.Function(id); ok {
				fns = append(fns, fn)
			}
		}
		out = append(out, fns)
	}
	return out
}

// FindCircularDependencies runs a DFS with an explicit recursion
// stack over every unvisited function and reports each cycle as the
// path slice from the first occurrence of the repeated node, with
// that node appended again at the end. At least one representative
// is found per cyclic region; the shared visited set means not every
// distinct cycle is enumerated.
func (a *Analyzer) FindCircularDependencies() [][]graph.FunctionInfo {
	cycles := make([][]graph.FunctionInfo, 0)
	visited := make(map[uuid.UUID]bool)
	recStack := make(map[uuid.UUID]bool)
	path := make([]graph.FunctionInfo, 0)

	var dfs func(fn graph.FunctionInfo)
	dfs = func(fn graph.FunctionInfo) {
		visited[fn.ID] = true
		recStack[fn.ID] = true
		path = append(path, fn)

		for _, edge := range a.g.Callees(fn.ID) {
			callee, ok := a.g.Function(edge.CalleeID)
			if !ok {
				continue
			}
			if !visited[callee.ID] {
				dfs(callee)
			} else if recStack[callee.ID] {
				for i, p := range path {
					if p.ID == callee.ID {
						cycle := make([]graph.FunctionInfo, 0, len(path)-i+1)
						cycle = append(cycle, path[i:]...)
						cycle = append(cycle, callee)
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		recStack[fn.ID] = false
		path = path[:len(path)-1]
	}

	for _, fn := range a.g.Functions() {
		if !visited[fn.ID] {
			dfs(fn)
		}
	}
	return cycles
}

// FindMostComplexFunctions ranks functions by in-degree plus
// out-degree, descending, and returns at most limit entries. Tie
// order is unspecified.
func (a *Analyzer) FindMostComplexFunctions(limit int) []ComplexFunction {
	fns := a.g.Functions()
	scored := make([]ComplexFunction, 0, len(fns))
	for _, fn := range fns {
		score := len(a.g.Callers(fn.ID)) + len(a.g.Callees(fn.ID))
		scored = append(scored, ComplexFunction{Function: fn, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// FindLeafFunctions returns functions nothing calls (zero in-degree).
func (a *Analyzer) FindLeafFunctions() []graph.FunctionInfo {
	out := make([]graph.FunctionInfo, 0)
	for _, fn := range a.g.Functions() {
		if len(a.g.Callers(fn.ID)) == 0 {
			out = append(out, fn)
		}
	}
	return out
}

// FindRootFunctions returns functions that call nothing (zero
// out-degree). The leaf/root naming is inverted relative to the usual
// tree vocabulary and is kept for compatibility with existing
// consumers of the report.
func (a *Analyzer) FindRootFunctions() []graph.FunctionInfo {
	out := make([]graph.FunctionInfo, 0)
	for _, fn := range a.g.Functions() {
		if len(a.g.Callees(fn.ID)) == 0 {
			out = append(out, fn)
		}
	}
	return out
}

// LanguageDistribution counts functions per language tag.
func (a *Analyzer) LanguageDistribution() map[string]int {
	dist := make(map[string]int)
	for _, fn := range a.g.Functions() {
		dist[fn.Language]++
	}
	return dist
}

// FileDistribution counts functions per file base name. Same-named
// files in different directories collapse into one bucket; callers
// needing exact paths should use the graph's file index instead.
func (a *Analyzer) FileDistribution() map[string]int {
	dist := make(map[string]int)
	for _, fn := range a.g.Functions() {
		name := filepath.Base(fn.FilePath)
		if name == "." || name == string(filepath.Separator) {
			name = "unknown"
		}
		dist[name]++
	}
	return dist
}

// GenerateCallReport renders a human-readable summary: totals,
// language distribution, the ten most complex functions, and cycles.
func (a *Analyzer) GenerateCallReport() string {
	var b strings.Builder
	b.WriteString("=== Code Graph Call Report ===\n\n")

	stats := a.g.Stats()
	fmt.Fprintf(&b, "Total Functions: %d\n", stats.TotalFunctions)
	fmt.Fprintf(&b, "Total Files: %d\n", stats.TotalFiles)
	fmt.Fprintf(&b, "Resolved Calls: %d\n", stats.ResolvedCalls)
	fmt.Fprintf(&b, "Unresolved Calls: %d\n", stats.UnresolvedCalls)
	fmt.Fprintf(&b, "Languages: %d\n", stats.TotalLanguages)

	b.WriteString("\nLanguage Distribution:\n")
	for lang, count := range stats.Languages {
		fmt.Fprintf(&b, "  %s: %d\n", lang, count)
	}

	b.WriteString("\nMost Complex Functions:\n")
	for _, cf := range a.FindMostComplexFunctions(10) {
		fmt.Fprintf(&b, "  %s (%s): %d calls\n", cf.Function.Name, cf.Function.FilePath, cf.Score)
	}

	b.WriteString("\nCircular Dependencies:\n")
	cycles := a.FindCircularDependencies()
	if len(cycles) == 0 {
		b.WriteString("  No circular dependencies found\n")
	} else {
		for i, cycle := range cycles {
			names := make([]string, 0, len(cycle))
			for _, fn := range cycle {
				names = append(names, fn.Name)
			}
			fmt.Fprintf(&b, "  Cycle %d: %s\n", i+1, strings.Join(names, " -> "))
		}
	}

	return b.String()
}
