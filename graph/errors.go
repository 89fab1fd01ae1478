// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph defines the call-graph data model, two interchangeable
// graph representations, and the two-pass builder that turns per-file
// symbol streams into a graph.
package graph

import "errors"

var (
	// ErrDuplicateFunction is returned when a function with the same
	// id is already present in the graph.
	ErrDuplicateFunction = errors.New("function already exists in graph")

	// ErrFunctionNotFound is returned when an operation references a
	// function id the graph does not hold. DiGraph returns it from
	// AddCall for dangling endpoints; MapGraph never does.
	ErrFunctionNotFound = errors.New("function not found in graph")

	// ErrNilID is returned when a function is added with the zero
	// UUID.
	ErrNilID = errors.New("function id must not be nil")

	// ErrCyclic is returned by TopoSort when the graph contains at
	// least one cycle.
	ErrCyclic = errors.New("graph contains a cycle")

	// ErrBuildCancelled is returned when a build is cancelled via
	// context before completion.
	ErrBuildCancelled = errors.New("build cancelled")
)
