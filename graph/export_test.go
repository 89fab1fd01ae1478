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
	"strings"
	"testing"
)

func TestExportMermaid(t *testing.T) {
	t.Run("shape", func(t *testing.T) {
		g := NewMapGraph()
		a, b, _ := linkChain(t, g)

		out := ExportMermaid(g)
		if !strings.HasPrefix(out, "graph TD\n") {
			t.Errorf("missing header: %q", out[:20])
		}
		aID := mermaidNodeID(a.ID.String())
		if !strings.Contains(out, aID+"[\"alpha\\na.go\"]") {
			t.Errorf("node line missing for alpha:\n%s", out)
		}
		if !strings.Contains(out, aID+" --> "+mermaidNodeID(b.ID.String())+"\n") {
			t.Errorf("edge line missing:\n%s", out)
		}
		if strings.Contains(out, a.ID.String()) {
			t.Error("raw uuid with dashes leaked into node ids")
		}
		if !strings.Contains(out, "classDef unresolved stroke-dasharray: 5 5") {
			t.Error("unresolved class definition missing")
		}
	})

	t.Run("unresolved edges styled", func(t *testing.T) {
		g := NewMapGraph()
		a, b, _ := linkChain(t, g)
		edge := testEdge(a, b, 9)
		edge.Resolved = false
		if err := g.AddCall(edge); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := ExportMermaid(g)
		if !strings.Contains(out, ":::unresolved") {
			t.Errorf("unresolved edge not styled:\n%s", out)
		}
	})

	t.Run("empty graph", func(t *testing.T) {
		out := ExportMermaid(NewMapGraph())
		if !strings.HasPrefix(out, "graph TD\n") || !strings.Contains(out, "classDef unresolved") {
			t.Errorf("empty export malformed:\n%s", out)
		}
	})
}

func TestExportDOT(t *testing.T) {
	t.Run("shape", func(t *testing.T) {
		g := NewMapGraph()
		a, b, _ := linkChain(t, g)

		out := ExportDOT(g)
		for _, want := range []string{
			"digraph CodeGraph {",
			"rankdir=TB;",
			"node [shape=box];",
			mermaidNodeID(a.ID.String()) + " -> " + mermaidNodeID(b.ID.String()) + ";",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q in:\n%s", want, out)
			}
		}
		if !strings.HasSuffix(out, "}\n") {
			t.Error("missing closing brace")
		}
	})

	t.Run("unresolved edges dashed", func(t *testing.T) {
		g := NewMapGraph()
		a, b, _ := linkChain(t, g)
		edge := testEdge(a, b, 9)
		edge.Resolved = false
		if err := g.AddCall(edge); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out := ExportDOT(g); !strings.Contains(out, "[style=dashed];") {
			t.Errorf("unresolved edge not dashed:\n%s", out)
		}
	})

	t.Run("empty graph", func(t *testing.T) {
		out := ExportDOT(NewMapGraph())
		if !strings.Contains(out, "digraph CodeGraph {") || !strings.HasSuffix(out, "}\n") {
			t.Errorf("empty export malformed:\n%s", out)
		}
	})
}
