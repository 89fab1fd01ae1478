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
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/codegraph/graph"
)

// ExportGEXF renders the graph in GEXF 1.3. Node and edge attributes
// use the numeric attribute ids Gephi expects; dangling edges are
// skipped.
func ExportGEXF(g graph.CallGraph) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<gexf xmlns=\"http://www.gexf.net/1.3\" version=\"1.3\">\n")
	fmt.Fprintf(&b, "  <meta lastmodifieddate=\"%s\">\n", time.Now().Format("2006-01-02"))
	b.WriteString("    <creator>CodeGraph Exporter</creator>\n")
	b.WriteString("    <description>Code dependency graph</description>\n")
	b.WriteString("  </meta>\n")
	b.WriteString("  <graph mode=\"static\" defaultedgetype=\"directed\">\n")

	b.WriteString("    <attributes class=\"node\">\n")
	b.WriteString("      <attribute id=\"0\" title=\"name\" type=\"string\"/>\n")
	b.WriteString("      <attribute id=\"1\" title=\"file\" type=\"string\"/>\n")
	b.WriteString("      <attribute id=\"2\" title=\"language\" type=\"string\"/>\n")
	b.WriteString("      <attribute id=\"3\" title=\"line_start\" type=\"integer\"/>\n")
	b.WriteString("      <attribute id=\"4\" title=\"line_end\" type=\"integer\"/>\n")
	b.WriteString("    </attributes>\n")

	b.WriteString("    <attributes class=\"edge\">\n")
	b.WriteString("      <attribute id=\"0\" title=\"line_number\" type=\"integer\"/>\n")
	b.WriteString("      <attribute id=\"1\" title=\"is_resolved\" type=\"boolean\"/>\n")
	b.WriteString("    </attributes>\n")

	b.WriteString("    <nodes>\n")
	functions := g.Functions()
	nodeIndex := make(map[uuid.UUID]int, len(functions))
	for i, fn := range functions {
		nodeIndex[fn.ID] = i
		fmt.Fprintf(&b, "      <node id=\"%d\" label=\"%s\">\n", i, xmlEscape(fn.Name))
		b.WriteString("        <attvalues>\n")
		fmt.Fprintf(&b, "          <attvalue for=\"0\" value=\"%s\"/>\n", xmlEscape(fn.Name))
		fmt.Fprintf(&b, "          <attvalue for=\"1\" value=\"%s\"/>\n", xmlEscape(fn.FilePath))
		fmt.Fprintf(&b, "          <attvalue for=\"2\" value=\"%s\"/>\n", xmlEscape(fn.Language))
		fmt.Fprintf(&b, "          <attvalue for=\"3\" value=\"%d\"/>\n", fn.LineStart)
		fmt.Fprintf(&b, "          <attvalue for=\"4\" value=\"%d\"/>\n", fn.LineEnd)
		b.WriteString("        </attvalues>\n")
		b.WriteString("      </node>\n")
	}
	b.WriteString("    </nodes>\n")

	b.WriteString("    <edges>\n")
	edgeID := 0
	for _, e := range g.Edges() {
		source, okFrom := nodeIndex[e.CallerID]
		target, okTo := nodeIndex[e.CalleeID]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&b, "      <edge id=\"%d\" source=\"%d\" target=\"%d\">\n", edgeID, source, target)
		b.WriteString("        <attvalues>\n")
		fmt.Fprintf(&b, "          <attvalue for=\"0\" value=\"%d\"/>\n", e.LineNumber)
		fmt.Fprintf(&b, "          <attvalue for=\"1\" value=\"%t\"/>\n", e.Resolved)
		b.WriteString("        </attvalues>\n")
		b.WriteString("      </edge>\n")
		edgeID++
	}
	b.WriteString("    </edges>\n")

	b.WriteString("  </graph>\n")
	b.WriteString("</gexf>\n")
	return b.String()
}

// ExportGEXFFile writes the GEXF rendering to path.
func ExportGEXFFile(g graph.CallGraph, path string) error {
	if err := os.WriteFile(path, []byte(ExportGEXF(g)), 0o644); err != nil {
		return fmt.Errorf("writing GEXF %s: %w", path, err)
	}
	return nil
}
