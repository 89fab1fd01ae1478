// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ast extracts function declarations and call sites from source
// files using tree-sitter. Each supported language implements the Parser
// interface; a Registry maps file extensions to parsers.
package ast

import (
	"github.com/google/uuid"
)

// SymbolKind classifies an extracted symbol.
type SymbolKind string

const (
	// SymbolKindFunction is a function or method declaration.
	SymbolKindFunction SymbolKind = "function"

	// SymbolKindCall is a call site inside a function body or at file scope.
	SymbolKindCall SymbolKind = "call"
)

// Parameter describes a single declared parameter of a function.
type Parameter struct {
	// Name is the parameter name as written in the declaration.
	Name string `json:"name"`

	// TypeName is the declared or annotated type, empty when the
	// language omits it (Python without annotations, JavaScript).
	TypeName string `json:"type_name,omitempty"`

	// DefaultValue is the default-value expression text, if any.
	DefaultValue string `json:"default_value,omitempty"`
}

// Symbol is one extracted record: either a function declaration or a
// call site. Symbols appear in the FileSymbols stream in source order,
// so a consumer replaying the stream sees each declaration before the
// calls inside its body.
//
// Lines are 1-based and inclusive. For call symbols only Name, Line and
// Kind are meaningful; declaration fields are zero.
type Symbol struct {
	ID         uuid.UUID   `json:"id"`
	Kind       SymbolKind  `json:"kind"`
	Name       string      `json:"name"`
	Namespace  string      `json:"namespace,omitempty"`
	StartLine  int         `json:"start_line"`
	EndLine    int         `json:"end_line"`
	Signature  string      `json:"signature,omitempty"`
	ReturnType string      `json:"return_type,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
}

// FileSymbols is the per-file output of a Parser: the file path, the
// language tag, and the ordered symbol stream. Errors holds non-fatal
// extraction problems (syntax errors in the source, truncated nodes);
// a FileSymbols with errors still carries whatever was extracted.
type FileSymbols struct {
	FilePath string   `json:"file_path"`
	Language string   `json:"language"`
	Symbols  []Symbol `json:"symbols"`
	Errors   []string `json:"errors,omitempty"`
}

// NewFunctionSymbol builds a declaration symbol with a fresh id.
func NewFunctionSymbol(name string, startLine, endLine int) Symbol {
	return Symbol{
		ID:        uuid.New(),
		Kind:      SymbolKindFunction,
		Name:      name,
		StartLine: startLine,
		EndLine:   endLine,
	}
}

// NewCallSymbol builds a call-site symbol. Call sites carry no id of
// their own; resolution happens later against declaration names.
func NewCallSymbol(name string, line int) Symbol {
	return Symbol{
		Kind:      SymbolKindCall,
		Name:      name,
		StartLine: line,
		EndLine:   line,
	}
}
