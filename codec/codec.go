// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package codec

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeJSON renders the snapshot as pretty-printed JSON.
func EncodeJSON(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot to JSON: %w", err)
	}
	return data, nil
}

// DecodeJSON parses a JSON snapshot.
func DecodeJSON(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot from JSON: %w", err)
	}
	return &s, nil
}

// EncodeBinary renders the snapshot in the compact binary encoding.
func EncodeBinary(s *Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot to binary: %w", err)
	}
	return data, nil
}

// DecodeBinary parses a binary snapshot.
func DecodeBinary(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot from binary: %w", err)
	}
	return &s, nil
}

// SaveJSON writes the JSON encoding to path.
func SaveJSON(s *Snapshot, path string) error {
	data, err := EncodeJSON(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads a JSON snapshot from path.
func LoadJSON(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return DecodeJSON(data)
}

// SaveBinary writes the binary encoding to path.
func SaveBinary(s *Snapshot, path string) error {
	data, err := EncodeBinary(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// LoadBinary reads a binary snapshot from path.
func LoadBinary(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return DecodeBinary(data)
}
