// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package codec serializes call graphs: a Snapshot round-trips through
// JSON or a compact binary encoding and restores into either graph
// representation; GraphML and GEXF are write-only exports for
// visualization tools.
package codec

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/AleutianAI/codegraph/graph"
)

// Snapshot is the persisted form of a call graph: the full record and
// edge lists plus both side indexes and the statistics block. The
// indexes and stats are stored even though a restore can rebuild
// them, so a snapshot is self-describing for consumers that never
// materialize a graph.
type Snapshot struct {
	Functions []graph.FunctionInfo   `json:"functions" msgpack:"functions"`
	Calls     []graph.CallEdge       `json:"call_relations" msgpack:"call_relations"`
	Names     map[string][]uuid.UUID `json:"function_names" msgpack:"function_names"`
	Files     map[string][]uuid.UUID `json:"file_functions" msgpack:"file_functions"`
	Stats     graph.Stats            `json:"stats" msgpack:"stats"`
}

// Capture builds a Snapshot from any graph representation.
func Capture(g graph.CallGraph) *Snapshot {
	names := make(map[string][]uuid.UUID, len(g.NameIndex()))
	for name, ids := range g.NameIndex() {
		names[name] = append([]uuid.UUID(nil), ids...)
	}
	files := make(map[string][]uuid.UUID, len(g.FileIndex()))
	for file, ids := range g.FileIndex() {
		files[file] = append([]uuid.UUID(nil), ids...)
	}
	return &Snapshot{
		Functions: g.Functions(),
		Calls:     g.Edges(),
		Names:     names,
		Files:     files,
		Stats:     g.Stats(),
	}
}

// Restore populates g from the snapshot: functions first, then edges,
// then a stats refresh. Individual failures (duplicate ids, edges a
// strict representation rejects) are logged and skipped, so a damaged
// snapshot still yields the salvageable subgraph.
func (s *Snapshot) Restore(g graph.CallGraph) {
	for _, fn := range s.Functions {
		if err := g.AddFunction(fn); err != nil {
			slog.Warn("snapshot restore: dropping function",
				slog.String("id", fn.ID.String()),
				slog.String("name", fn.Name),
				slog.String("error", err.Error()))
		}
	}
	for _, edge := range s.Calls {
		if err := g.AddCall(edge); err != nil {
			slog.Warn("snapshot restore: dropping call edge",
				slog.String("caller", edge.CallerName),
				slog.String("callee", edge.CalleeName),
				slog.String("error", err.Error()))
		}
	}
	g.RefreshStats()
}
