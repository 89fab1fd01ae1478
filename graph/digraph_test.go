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
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDiGraphStrictEdges(t *testing.T) {
	t.Run("dangling edge rejected", func(t *testing.T) {
		g := NewDiGraph()
		a := testFunction("alpha", "a.go")
		ghost := testFunction("ghost", "x.go")
		if err := g.AddFunction(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err := g.AddCall(testEdge(a, ghost, 3))
		if !errors.Is(err, ErrFunctionNotFound) {
			t.Fatalf("expected ErrFunctionNotFound, got %v", err)
		}
		if len(g.Edges()) != 0 {
			t.Error("rejected edge was stored")
		}
		stats := g.Stats()
		if stats.ResolvedCalls != 0 || stats.UnresolvedCalls != 0 {
			t.Errorf("rejected edge counted in stats: %+v", stats)
		}
	})

	t.Run("missing caller rejected", func(t *testing.T) {
		g := NewDiGraph()
		b := testFunction("beta", "b.go")
		if err := g.AddFunction(b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ghost := testFunction("ghost", "x.go")
		if err := g.AddCall(testEdge(ghost, b, 1)); !errors.Is(err, ErrFunctionNotFound) {
			t.Fatalf("expected ErrFunctionNotFound, got %v", err)
		}
	})

	t.Run("representations diverge on dangling edges", func(t *testing.T) {
		a := testFunction("alpha", "a.go")
		ghost := testFunction("ghost", "x.go")
		edge := testEdge(a, ghost, 3)

		lenient := NewMapGraph()
		if err := lenient.AddFunction(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := lenient.AddCall(edge); err != nil {
			t.Errorf("lenient representation rejected dangling edge: %v", err)
		}

		strict := NewDiGraph()
		if err := strict.AddFunction(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := strict.AddCall(edge); err == nil {
			t.Error("strict representation accepted dangling edge")
		}
	})
}

func TestDiGraphNeighbors(t *testing.T) {
	g := NewDiGraph()
	a, b, c := linkChain(t, g)

	if callees := g.Callees(a.ID); len(callees) != 1 || callees[0].CalleeID != b.ID {
		t.Errorf("callees of alpha wrong: %+v", callees)
	}
	if callers := g.Callers(c.ID); len(callers) != 1 || callers[0].CallerID != b.ID {
		t.Errorf("callers of gamma wrong: %+v", callers)
	}
	if callers := g.Callers(uuid.New()); len(callers) != 0 {
		t.Errorf("unknown id should have no callers, got %d", len(callers))
	}
}

func TestDiGraphParallelEdges(t *testing.T) {
	g := NewDiGraph()
	a, b, _ := linkChain(t, g)
	// Second call at a different line is a distinct edge.
	if err := g.AddCall(testEdge(a, b, 8)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if callees := g.Callees(a.ID); len(callees) != 2 {
		t.Errorf("expected 2 parallel edges, got %d", len(callees))
	}
}

func TestDiGraphHasCycle(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		g := NewDiGraph()
		linkChain(t, g)
		if g.HasCycle() {
			t.Error("acyclic graph reported cyclic")
		}
	})

	t.Run("three node cycle", func(t *testing.T) {
		g := NewDiGraph()
		a, _, c := linkChain(t, g)
		if err := g.AddCall(testEdge(c, a, 9)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !g.HasCycle() {
			t.Error("cycle not detected")
		}
	})

	t.Run("self loop", func(t *testing.T) {
		g := NewDiGraph()
		a := testFunction("rec", "r.go")
		if err := g.AddFunction(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := g.AddCall(testEdge(a, a, 2)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !g.HasCycle() {
			t.Error("self loop not detected")
		}
	})

	t.Run("empty graph", func(t *testing.T) {
		if NewDiGraph().HasCycle() {
			t.Error("empty graph reported cyclic")
		}
	})
}

func TestDiGraphTopoSort(t *testing.T) {
	t.Run("orders callers before callees", func(t *testing.T) {
		g := NewDiGraph()
		a, b, c := linkChain(t, g)
		order, err := g.TopoSort()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		pos := make(map[uuid.UUID]int, len(order))
		for i, id := range order {
			pos[id] = i
		}
		if pos[a.ID] > pos[b.ID] || pos[b.ID] > pos[c.ID] {
			t.Errorf("order violates edges: %v", order)
		}
		if len(order) != 3 {
			t.Errorf("expected all 3 nodes, got %d", len(order))
		}
	})

	t.Run("cycle reported", func(t *testing.T) {
		g := NewDiGraph()
		a, _, c := linkChain(t, g)
		if err := g.AddCall(testEdge(c, a, 9)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := g.TopoSort()
		if !errors.Is(err, ErrCyclic) {
			t.Fatalf("expected ErrCyclic, got %v", err)
		}
		// The error names the offending functions.
		msg := err.Error()
		if !strings.Contains(msg, "alpha") && !strings.Contains(msg, "beta") && !strings.Contains(msg, "gamma") {
			t.Errorf("cycle error does not name participants: %s", msg)
		}
	})

	t.Run("empty graph", func(t *testing.T) {
		order, err := NewDiGraph().TopoSort()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 0 {
			t.Errorf("expected empty order, got %v", order)
		}
	})
}

func TestDiGraphSCC(t *testing.T) {
	t.Run("acyclic graph yields singletons", func(t *testing.T) {
		g := NewDiGraph()
		linkChain(t, g)
		sccs := g.SCC()
		if len(sccs) != 3 {
			t.Fatalf("expected 3 singleton components, got %d", len(sccs))
		}
		for _, scc := range sccs {
			if len(scc) != 1 {
				t.Errorf("expected singleton, got %v", scc)
			}
		}
	})

	t.Run("cycle collapses into one component", func(t *testing.T) {
		g := NewDiGraph()
		a, b, c := linkChain(t, g)
		d := testFunction("delta", "d.go")
		if err := g.AddFunction(d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := g.AddCall(testEdge(c, a, 9)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := g.AddCall(testEdge(c, d, 11)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sccs := g.SCC()
		if len(sccs) != 2 {
			t.Fatalf("expected 2 components, got %d: %v", len(sccs), sccs)
		}
		members := make(map[uuid.UUID]int)
		for i, scc := range sccs {
			for _, id := range scc {
				members[id] = i
			}
		}
		if members[a.ID] != members[b.ID] || members[b.ID] != members[c.ID] {
			t.Error("cycle members split across components")
		}
		if members[d.ID] == members[a.ID] {
			t.Error("delta merged into the cycle component")
		}
	})

	t.Run("every node appears exactly once", func(t *testing.T) {
		g := NewDiGraph()
		a, b, c := linkChain(t, g)
		sccs := g.SCC()
		seen := make(map[uuid.UUID]int)
		for _, scc := range sccs {
			for _, id := range scc {
				seen[id]++
			}
		}
		for _, fn := range []FunctionInfo{a, b, c} {
			if seen[fn.ID] != 1 {
				t.Errorf("node %s appears %d times", fn.Name, seen[fn.ID])
			}
		}
	})
}

func TestDiGraphCallChainMatchesMapGraph(t *testing.T) {
	build := func(g CallGraph) FunctionInfo {
		a, _, _ := linkChain(t, g)
		return a
	}

	mg := NewMapGraph()
	dg := NewDiGraph()
	aM := build(mg)
	aD := build(dg)

	chainsM := mg.CallChain(aM.ID, 10)
	chainsD := dg.CallChain(aD.ID, 10)
	if len(chainsM) != len(chainsD) {
		t.Fatalf("representations disagree: %d vs %d chains", len(chainsM), len(chainsD))
	}
	if len(chainsM[0]) != len(chainsD[0]) {
		t.Errorf("chain lengths disagree: %d vs %d", len(chainsM[0]), len(chainsD[0]))
	}
}
