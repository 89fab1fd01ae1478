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
	"github.com/google/uuid"
)

// ParameterInfo describes one declared parameter of a function record.
type ParameterInfo struct {
	Name         string `json:"name" msgpack:"name"`
	TypeName     string `json:"type_name,omitempty" msgpack:"type_name,omitempty"`
	DefaultValue string `json:"default_value,omitempty" msgpack:"default_value,omitempty"`
}

// FunctionInfo is one function record: the node payload of the call
// graph. Lines are 1-based and inclusive. The id is the node identity;
// names and files may repeat across records.
type FunctionInfo struct {
	ID         uuid.UUID       `json:"id" msgpack:"id"`
	Name       string          `json:"name" msgpack:"name"`
	FilePath   string          `json:"file_path" msgpack:"file_path"`
	LineStart  int             `json:"line_start" msgpack:"line_start"`
	LineEnd    int             `json:"line_end" msgpack:"line_end"`
	Namespace  string          `json:"namespace" msgpack:"namespace"`
	Language   string          `json:"language" msgpack:"language"`
	Signature  string          `json:"signature,omitempty" msgpack:"signature,omitempty"`
	ReturnType string          `json:"return_type,omitempty" msgpack:"return_type,omitempty"`
	Parameters []ParameterInfo `json:"parameters" msgpack:"parameters"`
}

// CallEdge is one directed caller→callee edge. Names and file paths
// are denormalized copies so an edge stays readable without the node
// table. Resolved distinguishes name-matched targets from edges a
// foreign producer recorded as unresolved.
type CallEdge struct {
	CallerID   uuid.UUID `json:"caller_id" msgpack:"caller_id"`
	CalleeID   uuid.UUID `json:"callee_id" msgpack:"callee_id"`
	CallerName string    `json:"caller_name" msgpack:"caller_name"`
	CalleeName string    `json:"callee_name" msgpack:"callee_name"`
	CallerFile string    `json:"caller_file" msgpack:"caller_file"`
	CalleeFile string    `json:"callee_file" msgpack:"callee_file"`
	LineNumber int       `json:"line_number" msgpack:"line_number"`
	Resolved   bool      `json:"is_resolved" msgpack:"is_resolved"`
}

// Stats summarizes a graph: counts are maintained incrementally on
// insertion; the distinct file and language totals are recomputed by
// RefreshStats at the end of a build.
type Stats struct {
	TotalFunctions  int            `json:"total_functions" msgpack:"total_functions"`
	TotalFiles      int            `json:"total_files" msgpack:"total_files"`
	TotalLanguages  int            `json:"total_languages" msgpack:"total_languages"`
	ResolvedCalls   int            `json:"resolved_calls" msgpack:"resolved_calls"`
	UnresolvedCalls int            `json:"unresolved_calls" msgpack:"unresolved_calls"`
	Languages       map[string]int `json:"languages" msgpack:"languages"`
}

// NewStats returns a zeroed Stats with the histogram allocated.
func NewStats() Stats {
	return Stats{Languages: make(map[string]int)}
}

// CallGraph is the contract shared by both representations. A graph is
// populated by exactly one builder pass and treated as read-only
// afterward; implementations are not safe for concurrent mutation.
type CallGraph interface {
	// AddFunction inserts a function record. Fails with
	// ErrDuplicateFunction when the id is already present and ErrNilID
	// for the zero UUID.
	AddFunction(fn FunctionInfo) error

	// AddCall appends a call edge. MapGraph accepts edges whose
	// endpoints are absent; DiGraph fails with ErrFunctionNotFound and
	// leaves the graph unchanged.
	AddCall(edge CallEdge) error

	// Function looks up a record by id.
	Function(id uuid.UUID) (FunctionInfo, bool)

	// FunctionsByName returns every record with the exact name, in
	// insertion order.
	FunctionsByName(name string) []FunctionInfo

	// FunctionsByFile returns every record declared in the file, in
	// insertion order.
	FunctionsByFile(path string) []FunctionInfo

	// Functions returns all records. Order is unspecified.
	Functions() []FunctionInfo

	// Edges returns all call edges in insertion order.
	Edges() []CallEdge

	// Callers returns the edges whose callee is id.
	Callers(id uuid.UUID) []CallEdge

	// Callees returns the edges whose caller is id.
	Callees(id uuid.UUID) []CallEdge

	// CallChain enumerates outgoing call paths from id. One visited
	// set is shared across the whole expansion: a node appears in at
	// most one chain, and branches reaching an already-visited node
	// contribute nothing. A chain ends at a node with no callees or
	// at the depth bound; maxDepth is the maximum chain length.
	CallChain(id uuid.UUID, maxDepth int) [][]uuid.UUID

	// Stats returns the current statistics snapshot.
	Stats() Stats

	// RefreshStats recomputes the distinct file and language totals
	// from the file index and language histogram.
	RefreshStats()

	// NameIndex exposes the name→ids side table. Callers must not
	// mutate the returned map.
	NameIndex() map[string][]uuid.UUID

	// FileIndex exposes the file→ids side table. Callers must not
	// mutate the returned map.
	FileIndex() map[string][]uuid.UUID
}

// statsOnAddFunction applies the insertion-time stats updates shared
// by both representations.
func statsOnAddFunction(s *Stats, fn FunctionInfo) {
	s.TotalFunctions++
	if s.Languages == nil {
		s.Languages = make(map[string]int)
	}
	s.Languages[fn.Language]++
}

// statsOnAddCall counts an edge as resolved or unresolved.
func statsOnAddCall(s *Stats, edge CallEdge) {
	if edge.Resolved {
		s.ResolvedCalls++
	} else {
		s.UnresolvedCalls++
	}
}
