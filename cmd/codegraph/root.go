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
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codegraph/codec"
	"github.com/AleutianAI/codegraph/graph"
)

var verbose bool

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codegraph",
		Short: "Build and analyze call graphs from source trees",
		Long: `codegraph scans a directory of Go, Python, or JavaScript sources,
builds a directed call graph, and answers queries over it: call
chains, callers/callees, cycles, complexity rankings, and exports
to Mermaid, DOT, GraphML, and GEXF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		buildCmd(),
		reportCmd(),
		exportCmd(),
		chainsCmd(),
		callersCmd(),
		calleesCmd(),
	)
	return cmd
}

// graphSource holds the shared flags for commands that need a graph:
// either a directory to build from or a snapshot to load.
type graphSource struct {
	snapshot string
	strict   bool
}

func (s *graphSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.snapshot, "snapshot", "", "load graph from a snapshot file instead of building (json or binary by extension)")
	cmd.Flags().BoolVar(&s.strict, "strict", false, "use the strict indexed representation (rejects dangling edges)")
}

// resolve produces a graph from the configured source. When dir is
// empty a snapshot path is required.
func (s *graphSource) resolve(ctx context.Context, dir string) (graph.CallGraph, error) {
	var g graph.CallGraph
	if s.strict {
		g = graph.NewDiGraph()
	} else {
		g = graph.NewMapGraph()
	}

	if s.snapshot != "" {
		snap, err := loadSnapshot(s.snapshot)
		if err != nil {
			return nil, err
		}
		snap.Restore(g)
		return g, nil
	}

	if dir == "" {
		return nil, fmt.Errorf("a source directory or --snapshot is required")
	}
	builder := graph.NewBuilder()
	if _, err := builder.Build(ctx, dir, g); err != nil {
		return nil, err
	}
	return g, nil
}

func loadSnapshot(path string) (*codec.Snapshot, error) {
	if strings.HasSuffix(path, ".json") {
		return codec.LoadJSON(path)
	}
	return codec.LoadBinary(path)
}
