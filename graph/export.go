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
	"strings"
)

// ExportMermaid renders the graph as a Mermaid flow chart. Node ids
// are the function UUIDs with dashes replaced by underscores; labels
// carry the function name and file. Unresolved edges get the dashed
// "unresolved" class.
func ExportMermaid(g CallGraph) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	for _, fn := range g.Functions() {
		nodeID := mermaidNodeID(fn.ID.String())
		label := fmt.Sprintf("%s\\n%s", fn.Name, fn.FilePath)
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", nodeID, label)
	}

	for _, e := range g.Edges() {
		style := ""
		if !e.Resolved {
			style = ":::unresolved"
		}
		fmt.Fprintf(&b, "    %s --> %s%s\n",
			mermaidNodeID(e.CallerID.String()),
			mermaidNodeID(e.CalleeID.String()),
			style)
	}

	b.WriteString("\nclassDef unresolved stroke-dasharray: 5 5\n")
	return b.String()
}

// ExportDOT renders the graph in Graphviz DOT form, top-to-bottom,
// box-shaped nodes, dashed style on unresolved edges.
func ExportDOT(g CallGraph) string {
	var b strings.Builder
	b.WriteString("digraph CodeGraph {\n")
	b.WriteString("    rankdir=TB;\n")
	b.WriteString("    node [shape=box];\n\n")

	for _, fn := range g.Functions() {
		nodeID := mermaidNodeID(fn.ID.String())
		label := fmt.Sprintf("%s\\n%s", fn.Name, fn.FilePath)
		fmt.Fprintf(&b, "    %s [label=\"%s\"];\n", nodeID, label)
	}

	for _, e := range g.Edges() {
		style := ""
		if !e.Resolved {
			style = " [style=dashed]"
		}
		fmt.Fprintf(&b, "    %s -> %s%s;\n",
			mermaidNodeID(e.CallerID.String()),
			mermaidNodeID(e.CalleeID.String()),
			style)
	}

	b.WriteString("}\n")
	return b.String()
}

// mermaidNodeID turns a UUID into an identifier both Mermaid and DOT
// accept.
func mermaidNodeID(id string) string {
	return strings.ReplaceAll(id, "-", "_")
}
