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

import "github.com/google/uuid"

// callChain is the shared chain-enumeration routine behind
// CallGraph.CallChain for both representations.
//
// The visited set is shared across the entire expansion, not per
// branch: once a node has been expanded anywhere in the walk, every
// later branch reaching it is cut and records nothing. A chain is
// recorded when a node has no outgoing edges or when the depth bound
// is reached; maxDepth is therefore the maximum number of nodes in
// any emitted chain.
func callChain(g CallGraph, start uuid.UUID, maxDepth int) [][]uuid.UUID {
	chains := make([][]uuid.UUID, 0)
	if maxDepth <= 0 {
		return chains
	}
	visited := make(map[uuid.UUID]struct{})
	for _, sub := range chainStep(g, start, 0, maxDepth, visited) {
		chains = append(chains, sub)
	}
	return chains
}

func chainStep(g CallGraph, id uuid.UUID, depth, maxDepth int, visited map[uuid.UUID]struct{}) [][]uuid.UUID {
	if _, seen := visited[id]; seen {
		return nil
	}
	visited[id] = struct{}{}

	callees := g.Callees(id)
	if len(callees) == 0 || depth+1 >= maxDepth {
		return [][]uuid.UUID{{id}}
	}

	chains := make([][]uuid.UUID, 0)
	for _, edge := range callees {
		for _, sub := range chainStep(g, edge.CalleeID, depth+1, maxDepth, visited) {
			full := make([]uuid.UUID, 0, len(sub)+1)
			full = append(full, id)
			full = append(full, sub...)
			chains = append(chains, full)
		}
	}
	return chains
}
