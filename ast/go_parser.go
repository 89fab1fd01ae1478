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
	"log/slog"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// GoParserOption configures a GoParser instance.
type GoParserOption func(*GoParser)

// WithGoMaxFileSize sets the maximum file size the parser will accept.
func WithGoMaxFileSize(bytes int64) GoParserOption {
	return func(p *GoParser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// GoParser implements the Parser interface for Go source code.
//
// Description:
//
//	GoParser uses tree-sitter to walk Go source files and emit a
//	symbol stream: one function symbol per function or method
//	declaration, followed in source order by one call symbol per
//	call expression.
//
// Thread Safety:
//
//	GoParser instances are safe for concurrent use. Each Parse call
//	creates its own tree-sitter parser instance.
type GoParser struct {
	maxFileSize int64
}

// NewGoParser creates a new GoParser with the given options.
func NewGoParser(opts ...GoParserOption) *GoParser {
	p := &GoParser{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts function declarations and call sites from Go source.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before and after parsing.
//   - content: Raw source bytes. Must be valid UTF-8.
//   - filePath: Path for error reporting; stored on the result.
//
// Outputs:
//   - *FileSymbols: Ordered symbol stream. Never nil on success; may
//     carry Errors for syntactically invalid code.
//   - error: ErrFileTooLarge, ErrInvalidContent, context errors, or a
//     wrapped tree-sitter failure.
func (p *GoParser) Parse(ctx context.Context, content []byte, filePath string) (*FileSymbols, error) {
	root, cleanup, err := parseTree(ctx, golang.GetLanguage(), content, filePath, p.maxFileSize)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result := &FileSymbols{
		FilePath: filePath,
		Language: "go",
		Symbols:  make([]Symbol, 0, 32),
	}
	if root.HasError() {
		result.Errors = append(result.Errors, "source contains syntax errors")
	}

	pkg := goPackageName(root, content)

	walkSymbols(root, func(node *sitter.Node) {
		switch node.Type() {
		case "function_declaration", "method_declaration":
			sym := p.extractDeclaration(node, content, pkg)
			if sym.Name != "" {
				result.Symbols = append(result.Symbols, sym)
			}
		case "call_expression":
			if name, ok := callTargetName(node.ChildByFieldName("function"), content); ok {
				result.Symbols = append(result.Symbols, NewCallSymbol(name, int(node.StartPoint().Row)+1))
			}
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after extraction: %w", err)
	}
	return result, nil
}

// Language returns "go".
func (p *GoParser) Language() string { return "go" }

// Extensions returns the file extensions this parser handles.
func (p *GoParser) Extensions() []string { return []string{".go"} }

func (p *GoParser) extractDeclaration(node *sitter.Node, content []byte, pkg string) Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Symbol{}
	}

	sym := NewFunctionSymbol(
		nodeText(nameNode, content),
		int(node.StartPoint().Row)+1,
		int(node.EndPoint().Row)+1,
	)
	sym.Namespace = pkg

	// Methods get the receiver type appended to the namespace so
	// same-named methods on different types stay distinguishable.
	if node.Type() == "method_declaration" {
		if recv := goReceiverType(node.ChildByFieldName("receiver"), content); recv != "" {
			sym.Namespace = pkg + "." + recv
		}
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		sym.Parameters = goParameters(params, content)
	}
	if result := node.ChildByFieldName("result"); result != nil {
		sym.ReturnType = nodeText(result, content)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		sym.Signature = strings.TrimSpace(string(content[node.StartByte():body.StartByte()]))
	} else {
		sym.Signature = strings.TrimSpace(nodeText(node, content))
	}
	return sym
}

// goPackageName finds the package_clause identifier, empty if missing.
func goPackageName(root *sitter.Node, content []byte) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child == nil || child.Type() != "package_clause" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			if id := child.Child(j); id != nil && id.Type() == "package_identifier" {
				return nodeText(id, content)
			}
		}
	}
	return ""
}

// goReceiverType extracts the bare receiver type name from a
// parameter_list receiver node, stripping any pointer star.
func goReceiverType(recv *sitter.Node, content []byte) string {
	if recv == nil {
		return ""
	}
	for i := 0; i < int(recv.ChildCount()); i++ {
		child := recv.Child(i)
		if child == nil || child.Type() != "parameter_declaration" {
			continue
		}
		typeNode := child.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		text := nodeText(typeNode, content)
		text = strings.TrimPrefix(text, "*")
		// Drop generic type arguments: "List[T]" -> "List".
		if idx := strings.IndexByte(text, '['); idx > 0 {
			text = text[:idx]
		}
		return text
	}
	return ""
}

func goParameters(params *sitter.Node, content []byte) []Parameter {
	out := make([]Parameter, 0, int(params.NamedChildCount()))
	for i := 0; i < int(params.NamedChildCount()); i++ {
		decl := params.NamedChild(i)
		if decl == nil {
			continue
		}
		typeNode := decl.ChildByFieldName("type")
		typeName := ""
		if typeNode != nil {
			typeName = nodeText(typeNode, content)
		}
		named := false
		for j := 0; j < int(decl.ChildCount()); j++ {
			c := decl.Child(j)
			if c != nil && c.Type() == "identifier" {
				out = append(out, Parameter{Name: nodeText(c, content), TypeName: typeName})
				named = true
			}
		}
		// Unnamed parameter: keep the type so arity survives.
		if !named && typeName != "" {
			out = append(out, Parameter{TypeName: typeName})
		}
	}
	return out
}

// callTargetName resolves the callee name of a call expression's
// function node. Selector calls keep only the final field identifier;
// resolution downstream is name-based, not qualifier-based.
func callTargetName(fn *sitter.Node, content []byte) (string, bool) {
	if fn == nil {
		return "", false
	}
	switch fn.Type() {
	case "identifier":
		return nodeText(fn, content), true
	case "selector_expression", "member_expression", "attribute":
		for _, field := range []string{"field", "property", "attribute"} {
			if f := fn.ChildByFieldName(field); f != nil {
				return nodeText(f, content), true
			}
		}
		return "", false
	case "parenthesized_expression":
		if inner := fn.NamedChild(0); inner != nil {
			return callTargetName(inner, content)
		}
		return "", false
	default:
		return "", false
	}
}

// parseTree runs the shared validation and tree-sitter parse flow.
// The returned cleanup closes the tree and must always be called.
func parseTree(ctx context.Context, lang *sitter.Language, content []byte, filePath string, maxSize int64) (*sitter.Node, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if int64(len(content)) > maxSize {
		return nil, nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), maxSize)
	}
	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", filePath),
			slog.Int("size_bytes", len(content)))
	}
	if !utf8.Valid(content) {
		return nil, nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, nil, fmt.Errorf("tree-sitter returned nil root node for %s", filePath)
	}
	return root, func() { tree.Close() }, nil
}

// walkSymbols does an iterative pre-order traversal, calling visit on
// every node in source order. Depth is bounded by MaxTraversalDepth.
func walkSymbols(root *sitter.Node, visit func(*sitter.Node)) {
	type stackEntry struct {
		node  *sitter.Node
		depth int
	}

	stack := make([]stackEntry, 0, 64)
	stack = append(stack, stackEntry{node: root})

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := entry.node
		if node == nil || entry.depth > MaxTraversalDepth {
			continue
		}

		visit(node)

		// Children pushed in reverse so the walk stays left-to-right.
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(i); child != nil {
				stack = append(stack, stackEntry{node: child, depth: entry.depth + 1})
			}
		}
	}
}

func nodeText(node *sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}
