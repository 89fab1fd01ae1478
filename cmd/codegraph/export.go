// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codegraph/codec"
	"github.com/AleutianAI/codegraph/graph"
)

func exportCmd() *cobra.Command {
	src := &graphSource{}
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Export the graph as mermaid, dot, graphml, or gexf",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			g, err := src.resolve(cmd.Context(), dir)
			if err != nil {
				return err
			}

			var rendered string
			switch format {
			case "mermaid":
				rendered = graph.ExportMermaid(g)
			case "dot":
				rendered = graph.ExportDOT(g)
			case "graphml":
				rendered = codec.ExportGraphML(g)
			case "gexf":
				rendered = codec.ExportGEXF(g)
			default:
				return fmt.Errorf("unknown export format %q (want mermaid, dot, graphml, or gexf)", format)
			}

			if out == "" {
				fmt.Print(rendered)
				return nil
			}
			if err := os.WriteFile(out, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "export format: mermaid, dot, graphml, gexf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default stdout)")
	src.register(cmd)
	return cmd
}
