// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/codegraph/codec"
	"github.com/AleutianAI/codegraph/graph"
)

func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testSnapshot(t *testing.T, names ...string) *codec.Snapshot {
	t.Helper()
	g := graph.NewMapGraph()
	for _, name := range names {
		require.NoError(t, g.AddFunction(graph.FunctionInfo{
			ID:       uuid.New(),
			Name:     name,
			FilePath: name + ".go",
			Language: "go",
		}))
	}
	g.RefreshStats()
	return codec.Capture(g)
}

func TestPutGet(t *testing.T) {
	s := openTestStore(t)
	snap := testSnapshot(t, "alpha", "beta")

	require.NoError(t, s.Put("release-1", snap))

	got, err := s.Get("release-1")
	require.NoError(t, err)
	assert.Len(t, got.Functions, 2)
	assert.Equal(t, snap.Stats, got.Stats)
}

func TestPutOverwrites(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put("snap", testSnapshot(t, "one")))
	require.NoError(t, s.Put("snap", testSnapshot(t, "one", "two", "three")))

	got, err := s.Get("snap")
	require.NoError(t, err)
	assert.Len(t, got.Functions, 3)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get("absent")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Put("a", testSnapshot(t, "f")))
	require.NoError(t, s.Put("b", testSnapshot(t, "f")))

	names, err = s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Put("gone", testSnapshot(t, "f")))
	require.NoError(t, s.Delete("gone"))

	_, err := s.Get("gone")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	// Deleting a missing name is not an error.
	assert.NoError(t, s.Delete("never-existed"))
}

func TestRoundTripThroughStore(t *testing.T) {
	s := openTestStore(t)
	g := graph.NewMapGraph()
	a := graph.FunctionInfo{ID: uuid.New(), Name: "a", FilePath: "a.go", Language: "go"}
	b := graph.FunctionInfo{ID: uuid.New(), Name: "b", FilePath: "b.go", Language: "go"}
	require.NoError(t, g.AddFunction(a))
	require.NoError(t, g.AddFunction(b))
	require.NoError(t, g.AddCall(graph.CallEdge{
		CallerID: a.ID, CalleeID: b.ID,
		CallerName: "a", CalleeName: "b",
		CallerFile: "a.go", CalleeFile: "b.go",
		LineNumber: 2, Resolved: true,
	}))
	g.RefreshStats()

	require.NoError(t, s.Put("rt", codec.Capture(g)))
	got, err := s.Get("rt")
	require.NoError(t, err)

	restored := graph.NewMapGraph()
	got.Restore(restored)
	assert.Equal(t, g.Stats(), restored.Stats())
	assert.Equal(t, g.Edges(), restored.Edges())
}
