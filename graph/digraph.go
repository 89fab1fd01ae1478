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
	"fmt"

	"github.com/google/uuid"
)

// DiGraph is the indexed directed-graph representation: each function
// record gets a stable integer handle, and per-node adjacency lists
// hold indexes into the shared edge slice. Neighbor queries cost is
// proportional to the node's degree. Unlike MapGraph, AddCall
// validates both endpoints and rejects dangling edges.
//
// Thread Safety:
//
//	Not safe for concurrent mutation. Build single-threaded, then
//	share read-only.
type DiGraph struct {
	functions map[uuid.UUID]FunctionInfo
	handles   map[uuid.UUID]int32
	ids       []uuid.UUID // handle → id
	byName    map[string][]uuid.UUID
	byFile    map[string][]uuid.UUID
	edges     []CallEdge
	outEdges  [][]int32 // handle → indexes into edges
	inEdges   [][]int32
	stats     Stats
}

var _ CallGraph = (*DiGraph)(nil)

// NewDiGraph creates an empty DiGraph.
func NewDiGraph() *DiGraph {
	return &DiGraph{
		functions: make(map[uuid.UUID]FunctionInfo),
		handles:   make(map[uuid.UUID]int32),
		ids:       make([]uuid.UUID, 0),
		byName:    make(map[string][]uuid.UUID),
		byFile:    make(map[string][]uuid.UUID),
		edges:     make([]CallEdge, 0),
		outEdges:  make([][]int32, 0),
		inEdges:   make([][]int32, 0),
		stats:     NewStats(),
	}
}

// AddFunction inserts a record, assigns it the next handle, and
// updates the side indexes and counters.
func (g *DiGraph) AddFunction(fn FunctionInfo) error {
	if fn.ID == uuid.Nil {
		return ErrNilID
	}
	if _, exists := g.handles[fn.ID]; exists {
		return ErrDuplicateFunction
	}

	handle := int32(len(g.ids))
	g.functions[fn.ID] = fn
	g.handles[fn.ID] = handle
	g.ids = append(g.ids, fn.ID)
	g.outEdges = append(g.outEdges, nil)
	g.inEdges = append(g.inEdges, nil)
	g.byName[fn.Name] = append(g.byName[fn.Name], fn.ID)
	g.byFile[fn.FilePath] = append(g.byFile[fn.FilePath], fn.ID)
	statsOnAddFunction(&g.stats, fn)
	return nil
}

// AddCall appends an edge after validating both endpoints. On a
// missing endpoint the graph is left unchanged and
// ErrFunctionNotFound is returned wrapped with the offending id.
func (g *DiGraph) AddCall(edge CallEdge) error {
	from, ok := g.handles[edge.CallerID]
	if !ok {
		return fmt.Errorf("%w: caller %s", ErrFunctionNotFound, edge.CallerID)
	}
	to, ok := g.handles[edge.CalleeID]
	if !ok {
		return fmt.Errorf("%w: callee %s", ErrFunctionNotFound, edge.CalleeID)
	}

	idx := int32(len(g.edges))
	g.edges = append(g.edges, edge)
	g.outEdges[from] = append(g.outEdges[from], idx)
	g.inEdges[to] = append(g.inEdges[to], idx)
	statsOnAddCall(&g.stats, edge)
	return nil
}

// Function looks up a record by id.
func (g *DiGraph) Function(id uuid.UUID) (FunctionInfo, bool) {
	fn, ok := g.functions[id]
	return fn, ok
}

// FunctionsByName returns every record with the exact name, in
// insertion order.
func (g *DiGraph) FunctionsByName(name string) []FunctionInfo {
	return g.resolve(g.byName[name])
}

// FunctionsByFile returns every record declared in the file, in
// insertion order.
func (g *DiGraph) FunctionsByFile(path string) []FunctionInfo {
	return g.resolve(g.byFile[path])
}

// Functions returns all records in handle order.
func (g *DiGraph) Functions() []FunctionInfo {
	out := make([]FunctionInfo, 0, len(g.ids))
	for _, id := range g.ids {
		out = append(out, g.functions[id])
	}
	return out
}

// Edges returns all edges in insertion order. Callers must not mutate
// the returned slice.
func (g *DiGraph) Edges() []CallEdge {
	return g.edges
}

// Callers returns edges targeting id via the in-adjacency list.
func (g *DiGraph) Callers(id uuid.UUID) []CallEdge {
	handle, ok := g.handles[id]
	if !ok {
		return []CallEdge{}
	}
	return g.edgeSet(g.inEdges[handle])
}

// Callees returns edges originating at id via the out-adjacency list.
func (g *DiGraph) Callees(id uuid.UUID) []CallEdge {
	handle, ok := g.handles[id]
	if !ok {
		return []CallEdge{}
	}
	return g.edgeSet(g.outEdges[handle])
}

// CallChain enumerates outgoing call paths from id. See
// CallGraph.CallChain for the sharing and truncation rules.
func (g *DiGraph) CallChain(id uuid.UUID, maxDepth int) [][]uuid.UUID {
	return callChain(g, id, maxDepth)
}

// Stats returns the current statistics snapshot.
func (g *DiGraph) Stats() Stats {
	return g.stats
}

// RefreshStats recomputes the distinct file and language totals.
func (g *DiGraph) RefreshStats() {
	g.stats.TotalFiles = len(g.byFile)
	g.stats.TotalLanguages = len(g.stats.Languages)
}

// NameIndex exposes the name→ids side table, read-only by convention.
func (g *DiGraph) NameIndex() map[string][]uuid.UUID {
	return g.byName
}

// FileIndex exposes the file→ids side table, read-only by convention.
func (g *DiGraph) FileIndex() map[string][]uuid.UUID {
	return g.byFile
}

// HasCycle reports whether the graph contains at least one directed
// cycle, by checking whether any strongly connected component has
// more than one node or a self edge.
func (g *DiGraph) HasCycle() bool {
	for _, scc := range g.SCC() {
		if len(scc) > 1 {
			return true
		}
	}
	for _, e := range g.edges {
		if e.CallerID == e.CalleeID {
			return true
		}
	}
	return false
}

// TopoSort returns the function ids in a topological order of the
// call graph (callers before callees). On a cyclic graph it returns
// ErrCyclic wrapped with one offending cycle.
func (g *DiGraph) TopoSort() ([]uuid.UUID, error) {
	n := len(g.ids)
	inDegree := make([]int, n)
	for handle := range g.inEdges {
		inDegree[handle] = len(g.inEdges[handle])
	}

	queue := make([]int32, 0, n)
	for handle := 0; handle < n; handle++ {
		if inDegree[handle] == 0 {
			queue = append(queue, int32(handle))
		}
	}

	order := make([]uuid.UUID, 0, n)
	for len(queue) > 0 {
		handle := queue[0]
		queue = queue[1:]
		order = append(order, g.ids[handle])

		for _, edgeIdx := range g.outEdges[handle] {
			to := g.handles[g.edges[edgeIdx].CalleeID]
			inDegree[to]--
			if inDegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	if len(order) < n {
		cycle := g.findOffendingCycle()
		return nil, fmt.Errorf("%w: %s", ErrCyclic, formatCycle(cycle, g))
	}
	return order, nil
}

// SCC computes the strongly connected components with an iterative
// Tarjan's algorithm. Every node appears in exactly one component;
// singletons are included.
func (g *DiGraph) SCC() [][]uuid.UUID {
	n := len(g.ids)
	const unvisited = -1

	index := 0
	nodeIndex := make([]int, n)
	nodeLowLink := make([]int, n)
	onStack := make([]bool, n)
	for i := range nodeIndex {
		nodeIndex[i] = unvisited
	}
	sccStack := make([]int32, 0, n)
	sccs := make([][]uuid.UUID, 0)

	type callFrame struct {
		handle    int32
		edgeIndex int
		phase     int // 0=init, 1=process edges, 2=post-child, 3=finalize
		child     int32
	}

	strongConnect := func(start int32) {
		callStack := []callFrame{{handle: start}}

		for len(callStack) > 0 {
			frame := &callStack[len(callStack)-1]

			switch frame.phase {
			case 0:
				nodeIndex[frame.handle] = index
				nodeLowLink[frame.handle] = index
				index++
				sccStack = append(sccStack, frame.handle)
				onStack[frame.handle] = true
				frame.phase = 1

			case 1:
				advanced := false
				for frame.edgeIndex < len(g.outEdges[frame.handle]) {
					edgeIdx := g.outEdges[frame.handle][frame.edgeIndex]
					frame.edgeIndex++
					to := g.handles[g.edges[edgeIdx].CalleeID]

					if nodeIndex[to] == unvisited {
						frame.phase = 2
						frame.child = to
						callStack = append(callStack, callFrame{handle: to})
						advanced = true
						break
					} else if onStack[to] {
						if nodeIndex[to] < nodeLowLink[frame.handle] {
							nodeLowLink[frame.handle] = nodeIndex[to]
						}
					}
				}
				if !advanced && frame.phase == 1 {
					frame.phase = 3
				}

			case 2:
				if nodeLowLink[frame.child] < nodeLowLink[frame.handle] {
					nodeLowLink[frame.handle] = nodeLowLink[frame.child]
				}
				frame.phase = 1

			case 3:
				if nodeLowLink[frame.handle] == nodeIndex[frame.handle] {
					scc := make([]uuid.UUID, 0)
					for {
						w := sccStack[len(sccStack)-1]
						sccStack = sccStack[:len(sccStack)-1]
						onStack[w] = false
						scc = append(scc, g.ids[w])
						if w == frame.handle {
							break
						}
					}
					sccs = append(sccs, scc)
				}
				callStack = callStack[:len(callStack)-1]
			}
		}
	}

	for handle := 0; handle < n; handle++ {
		if nodeIndex[handle] == unvisited {
			strongConnect(int32(handle))
		}
	}
	return sccs
}

// findOffendingCycle extracts one cycle from a graph known to be
// cyclic: either a multi-node SCC walked edge by edge, or a self
// loop.
func (g *DiGraph) findOffendingCycle() []uuid.UUID {
	for _, e := range g.edges {
		if e.CallerID == e.CalleeID {
			return []uuid.UUID{e.CallerID, e.CallerID}
		}
	}
	for _, scc := range g.SCC() {
		if len(scc) <= 1 {
			continue
		}
		member := make(map[uuid.UUID]bool, len(scc))
		for _, id := range scc {
			member[id] = true
		}
		// Walk inside the component until a node repeats.
		path := []uuid.UUID{scc[0]}
		seen := map[uuid.UUID]int{scc[0]: 0}
		cur := scc[0]
		for {
			next := uuid.Nil
			for _, edgeIdx := range g.outEdges[g.handles[cur]] {
				callee := g.edges[edgeIdx].CalleeID
				if member[callee] {
					next = callee
					break
				}
			}
			if next == uuid.Nil {
				break
			}
			if at, ok := seen[next]; ok {
				return append(path[at:], next)
			}
			seen[next] = len(path)
			path = append(path, next)
			cur = next
		}
	}
	return nil
}

func (g *DiGraph) edgeSet(idxs []int32) []CallEdge {
	out := make([]CallEdge, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.edges[i])
	}
	return out
}

func (g *DiGraph) resolve(ids []uuid.UUID) []FunctionInfo {
	out := make([]FunctionInfo, 0, len(ids))
	for _, id := range ids {
		if fn, ok := g.functions[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// formatCycle renders a cycle as "a -> b -> a" using function names
// where available, ids otherwise.
func formatCycle(cycle []uuid.UUID, g CallGraph) string {
	if len(cycle) == 0 {
		return "unlocatable cycle"
	}
	out := ""
	for i, id := range cycle {
		if i > 0 {
			out += " -> "
		}
		if fn, ok := g.Function(id); ok {
			out += fn.Name
		} else {
			out += id.String()
		}
	}
	return out
}
