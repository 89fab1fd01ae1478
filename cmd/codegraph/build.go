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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codegraph/codec"
	"github.com/AleutianAI/codegraph/graph"
	"github.com/AleutianAI/codegraph/store"
)

func buildCmd() *cobra.Command {
	var (
		out       string
		format    string
		strict    bool
		storePath string
		storeName string
	)

	cmd := &cobra.Command{
		Use:   "build <dir>",
		Short: "Scan a directory and build its call graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var g graph.CallGraph
			if strict {
				g = graph.NewDiGraph()
			} else {
				g = graph.NewMapGraph()
			}

			builder := graph.NewBuilder()
			result, err := builder.Build(cmd.Context(), args[0], g)
			if err != nil {
				return err
			}

			stats := g.Stats()
			fmt.Printf("Files scanned:    %d\n", result.FilesScanned)
			fmt.Printf("Files parsed:     %d\n", result.FilesParsed)
			fmt.Printf("Functions:        %d\n", stats.TotalFunctions)
			fmt.Printf("Resolved calls:   %d\n", stats.ResolvedCalls)
			fmt.Printf("Unresolved calls: %d\n", stats.UnresolvedCalls)
			fmt.Printf("Languages:        %d\n", stats.TotalLanguages)
			if len(result.FileErrors) > 0 {
				fmt.Printf("File errors:      %d\n", len(result.FileErrors))
			}

			if out != "" {
				snap := codec.Capture(g)
				switch format {
				case "json":
					err = codec.SaveJSON(snap, out)
				case "binary":
					err = codec.SaveBinary(snap, out)
				default:
					return fmt.Errorf("unknown snapshot format %q (want json or binary)", format)
				}
				if err != nil {
					return err
				}
				fmt.Printf("Snapshot written: %s\n", out)
			}

			if storePath != "" {
				if storeName == "" {
					return fmt.Errorf("--store requires --name")
				}
				st, err := store.Open(store.DefaultConfig(storePath))
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.Put(storeName, codec.Capture(g)); err != nil {
					return err
				}
				fmt.Printf("Snapshot stored:  %s (%s)\n", storeName, storePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write a snapshot to this path")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "snapshot format: json or binary")
	cmd.Flags().BoolVar(&strict, "strict", false, "use the strict indexed representation")
	cmd.Flags().StringVar(&storePath, "store", "", "also store the snapshot in a BadgerDB at this path")
	cmd.Flags().StringVar(&storeName, "name", "", "snapshot name inside the store")
	return cmd
}
