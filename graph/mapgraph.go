// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"github.com/google/uuid"
)

// MapGraph is the side-table-indexed representation: an id-keyed
// record map, name and file indexes, and a flat edge slice. Neighbor
// queries scan the whole edge slice; edge endpoints are not checked,
// so edges referencing absent records (dangling edges) are accepted
// and counted in stats.
//
// Thread Safety:
//
//	Not safe for concurrent mutation. Build single-threaded, then
//	share read-only.
type MapGraph struct {
	functions map[uuid.UUID]FunctionInfo
	byName    map[string][]uuid.UUID
	byFile    map[string][]uuid.UUID
	edges     []CallEdge
	stats     Stats
}

// compile-time contract check
var _ CallGraph = (*MapGraph)(nil)

// NewMapGraph creates an empty MapGraph.
func NewMapGraph() *MapGraph {
	return &MapGraph{
		functions: make(map[uuid.UUID]FunctionInfo),
		byName:    make(map[string][]uuid.UUID),
		byFile:    make(map[string][]uuid.UUID),
		edges:     make([]CallEdge, 0),
		stats:     NewStats(),
	}
}

// AddFunction inserts a record and updates the name/file indexes and
// the function and language counters.
func (g *MapGraph) AddFunction(fn FunctionInfo) error {
	if fn.ID == uuid.Nil {
		return ErrNilID
	}
	if _, exists := g.functions[fn.ID]; exists {
		return ErrDuplicateFunction
	}

	g.functions[fn.ID] = fn
	g.byName[fn.Name] = append(g.byName[fn.Name], fn.ID)
	g.byFile[fn.FilePath] = append(g.byFile[fn.FilePath], fn.ID)
	statsOnAddFunction(&g.stats, fn)
	return nil
}

// AddCall appends an edge without endpoint validation.
func (g *MapGraph) AddCall(edge CallEdge) error {
	g.edges = append(g.edges, edge)
	statsOnAddCall(&g.stats, edge)
	return nil
}

// Function looks up a record by id.
func (g *MapGraph) Function(id uuid.UUID) (FunctionInfo, bool) {
	fn, ok := g.functions[id]
	return fn, ok
}

// FunctionsByName returns every record with the exact name, in
// insertion order.
func (g *MapGraph) FunctionsByName(name string) []FunctionInfo {
	return g.resolve(g.byName[name])
}

// FunctionsByFile returns every record declared in the file, in
// insertion order.
func (g *MapGraph) FunctionsByFile(path string) []FunctionInfo {
	return g.resolve(g.byFile[path])
}

// Functions returns all records in unspecified order.
func (g *MapGraph) Functions() []FunctionInfo {
	out := make([]FunctionInfo, 0, len(g.functions))
	for _, fn := range g.functions {
		out = append(out, fn)
	}
	return out
}

// Edges returns all edges in insertion order. Callers must not mutate
// the returned slice.
func (g *MapGraph) Edges() []CallEdge {
	return g.edges
}

// Callers returns edges targeting id, by linear scan.
func (g *MapGraph) Callers(id uuid.UUID) []CallEdge {
	out := make([]CallEdge, 0)
	for _, e := range g.edges {
		if e.CalleeID == id {
			out = append(out, e)
		}
	}
	return out
}

// Callees returns edges originating at id, by linear scan.
func (g *MapGraph) Callees(id uuid.UUID) []CallEdge {
	out := make([]CallEdge, 0)
	for _, e := range g.edges {
		if e.CallerID == id {
			out = append(out, e)
		}
	}
	return out
}

// CallChain enumerates outgoing call paths from id. See
// CallGraph.CallChain for the sharing and truncation rules.
func (g *MapGraph) CallChain(id uuid.UUID, maxDepth int) [][]uuid.UUID {
	return callChain(g, id, maxDepth)
}

// Stats returns the current statistics snapshot.
func (g *MapGraph) Stats() Stats {
	return g.stats
}

// RefreshStats recomputes the distinct file and language totals.
func (g *MapGraph) RefreshStats() {
	g.stats.TotalFiles = len(g.byFile)
	g.stats.TotalLanguages = len(g.stats.Languages)
}

// NameIndex exposes the name→ids side table, read-only by convention.
func (g *MapGraph) NameIndex() map[string][]uuid.UUID {
	return g.byName
}

// FileIndex exposes the file→ids side table, read-only by convention.
func (g *MapGraph) FileIndex() map[string][]uuid.UUID {
	return g.byFile
}

func (g *MapGraph) resolve(ids []uuid.UUID) []FunctionInfo {
	out := make([]FunctionInfo, 0, len(ids))
	for _, id := range ids {
		if fn, ok := g.functions[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
