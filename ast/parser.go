// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// File size constants for input validation.
const (
	// DefaultMaxFileSize is the maximum file size a parser will accept (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024

	// WarnFileSize is the threshold at which a warning is logged (1MB).
	WarnFileSize = 1 * 1024 * 1024

	// MaxTraversalDepth bounds AST traversal to guard against
	// degenerate deeply nested sources.
	MaxTraversalDepth = 512
)

// Parser extracts symbols from source files of one language.
//
// Thread Safety:
//
//	Implementations are safe for concurrent use; each Parse call
//	creates its own tree-sitter parser instance internally.
type Parser interface {
	// Parse extracts the ordered symbol stream from content.
	// Returns a non-nil FileSymbols on success; partial results with
	// Errors set are still success.
	Parse(ctx context.Context, content []byte, filePath string) (*FileSymbols, error)

	// Language returns the canonical language tag ("go", "python", ...).
	Language() string

	// Extensions returns the file extensions handled, with leading dot.
	Extensions() []string
}

// Registry maps file extensions to parsers.
//
// Thread Safety:
//
//	Registration is not synchronized. Register all parsers before
//	handing the registry to concurrent readers.
type Registry struct {
	byExt map[string]Parser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Parser)}
}

// DefaultRegistry returns a registry with all built-in parsers
// registered: Go, Python and JavaScript.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewGoParser())
	r.Register(NewPythonParser())
	r.Register(NewJavaScriptParser())
	return r
}

// Register adds a parser for each of its extensions. Later
// registrations win on extension conflict.
func (r *Registry) Register(p Parser) {
	for _, ext := range p.Extensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// ParserFor returns the parser handling the given file path, or
// ErrUnsupportedLanguage when no registered parser claims its
// extension.
func (r *Registry) ParserFor(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, ext)
	}
	return p, nil
}

// Extensions returns every extension with a registered parser.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
