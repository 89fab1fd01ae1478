// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package codec

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/AleutianAI/codegraph/graph"
)

// ExportGraphML renders the graph as attributed GraphML. Nodes are
// numbered n0..nN in iteration order; edges whose endpoints are not
// in the graph (dangling edges from the lenient representation) are
// skipped.
func ExportGraphML(g graph.CallGraph) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<graphml xmlns=\"http://graphml.graphdrawing.org/xmlns\">\n")

	b.WriteString("  <key id=\"name\" for=\"node\" attr.name=\"name\" attr.type=\"string\"/>\n")
	b.WriteString("  <key id=\"file\" for=\"node\" attr.name=\"file\" attr.type=\"string\"/>\n")
	b.WriteString("  <key id=\"language\" for=\"node\" attr.name=\"language\" attr.type=\"string\"/>\n")
	b.WriteString("  <key id=\"line_start\" for=\"node\" attr.name=\"line_start\" attr.type=\"int\"/>\n")
	b.WriteString("  <key id=\"line_end\" for=\"node\" attr.name=\"line_end\" attr.type=\"int\"/>\n")
	b.WriteString("  <key id=\"line_number\" for=\"edge\" attr.name=\"line_number\" attr.type=\"int\"/>\n")
	b.WriteString("  <key id=\"is_resolved\" for=\"edge\" attr.name=\"is_resolved\" attr.type=\"boolean\"/>\n")

	b.WriteString("  <graph id=\"codegraph\" edgedefault=\"directed\">\n")

	functions := g.Functions()
	nodeIndex := make(map[uuid.UUID]int, len(functions))
	for i, fn := range functions {
		nodeIndex[fn.ID] = i
		fmt.Fprintf(&b, "    <node id=\"n%d\">\n", i)
		fmt.Fprintf(&b, "      <data key=\"name\">%s</data>\n", xmlEscape(fn.Name))
		fmt.Fprintf(&b, "      <data key=\"file\">%s</data>\n", xmlEscape(fn.FilePath))
		fmt.Fprintf(&b, "      <data key=\"language\">%s</data>\n", xmlEscape(fn.Language))
		fmt.Fprintf(&b, "      <data key=\"line_start\">%d</data>\n", fn.LineStart)
		fmt.Fprintf(&b, "      <data key=\"line_end\">%d</data>\n", fn.LineEnd)
		b.WriteString("    </node>\n")
	}

	edgeID := 0
	for _, e := range g.Edges() {
		source, okFrom := nodeIndex[e.CallerID]
		target, okTo := nodeIndex[e.CalleeID]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&b, "    <edge id=\"e%d\" source=\"n%d\" target=\"n%d\">\n", edgeID, source, target)
		fmt.Fprintf(&b, "      <data key=\"line_number\">%d</data>\n", e.LineNumber)
		fmt.Fprintf(&b, "      <data key=\"is_resolved\">%t</data>\n", e.Resolved)
		b.WriteString("    </edge>\n")
		edgeID++
	}

	b.WriteString("  </graph>\n")
	b.WriteString("</graphml>\n")
	return b.String()
}

// ExportGraphMLFile writes the GraphML rendering to path.
func ExportGraphMLFile(g graph.CallGraph, path string) error {
	if err := os.WriteFile(path, []byte(ExportGraphML(g)), 0o644); err != nil {
		return fmt.Errorf("writing GraphML %s: %w", path, err)
	}
	return nil
}

// xmlEscape escapes the five XML-significant characters.
func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
