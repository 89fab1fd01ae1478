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
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codegraph/analyzer"
	"github.com/AleutianAI/codegraph/graph"
)

func chainsCmd() *cobra.Command {
	src := &graphSource{}
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "chains <function> [dir]",
		Short: "Enumerate call chains starting at a function",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 1 {
				dir = args[1]
			}
			g, err := src.resolve(cmd.Context(), dir)
			if err != nil {
				return err
			}

			chains := analyzer.New(g).FindCallChains(args[0], maxDepth)
			if len(chains) == 0 {
				fmt.Printf("No call chains found for %q\n", args[0])
				return nil
			}
			for i, chain := range chains {
				names := make([]string, 0, len(chain))
				for _, fn := range chain {
					names = append(names, fn.Name)
				}
				fmt.Printf("Chain %d: %s\n", i+1, strings.Join(names, " -> "))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 10, "maximum chain depth")
	src.register(cmd)
	return cmd
}

func callersCmd() *cobra.Command {
	src := &graphSource{}

	cmd := &cobra.Command{
		Use:   "callers <function> [dir]",
		Short: "List functions that call the named function",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 1 {
				dir = args[1]
			}
			g, err := src.resolve(cmd.Context(), dir)
			if err != nil {
				return err
			}
			printFunctions(analyzer.New(g).FindCallers(args[0]), "callers", args[0])
			return nil
		},
	}
	src.register(cmd)
	return cmd
}

func calleesCmd() *cobra.Command {
	src := &graphSource{}

	cmd := &cobra.Command{
		Use:   "callees <function> [dir]",
		Short: "List functions the named function calls",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 1 {
				dir = args[1]
			}
			g, err := src.resolve(cmd.Context(), dir)
			if err != nil {
				return err
			}
			printFunctions(analyzer.New(g).FindCallees(args[0]), "callees", args[0])
			return nil
		},
	}
	src.register(cmd)
	return cmd
}

func printFunctions(fns []graph.FunctionInfo, relation, name string) {
	if len(fns) == 0 {
		fmt.Printf("No %s found for %q\n", relation, name)
		return
	}
	for _, fn := range fns {
		fmt.Printf("%s (%s:%d)\n", fn.Name, fn.FilePath, fn.LineStart)
	}
}
