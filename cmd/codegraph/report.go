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

	"github.com/AleutianAI/codegraph/analyzer"
)

func reportCmd() *cobra.Command {
	src := &graphSource{}

	cmd := &cobra.Command{
		Use:   "report [dir]",
		Short: "Print the call report for a directory or snapshot",
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
			fmt.Print(analyzer.New(g).GenerateCallReport())
			return nil
		},
	}
	src.register(cmd)
	return cmd
}
