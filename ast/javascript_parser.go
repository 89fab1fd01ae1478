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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// JavaScriptParser implements the Parser interface for JavaScript and
// JSX sources. Named function declarations, method definitions, and
// arrow/function expressions bound to a declarator all become function
// symbols; anonymous expressions without a binding are skipped.
type JavaScriptParser struct {
	maxFileSize int64
}

// NewJavaScriptParser creates a JavaScriptParser with default limits.
func NewJavaScriptParser() *JavaScriptParser {
	return &JavaScriptParser{maxFileSize: DefaultMaxFileSize}
}

// Parse extracts function declarations and call sites from JavaScript
// source.
func (p *JavaScriptParser) Parse(ctx context.Context, content []byte, filePath string) (*FileSymbols, error) {
	root, cleanup, err := parseTree(ctx, javascript.GetLanguage(), content, filePath, p.maxFileSize)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result := &FileSymbols{
		FilePath: filePath,
		Language: "javascript",
		Symbols:  make([]Symbol, 0, 32),
	}
	if root.HasError() {
		result.Errors = append(result.Errors, "source contains syntax errors")
	}

	walkSymbols(root, func(node *sitter.Node) {
		switch node.Type() {
		case "function_declaration", "generator_function_declaration", "method_definition":
			sym := p.extractNamed(node, content)
			if sym.Name != "" {
				result.Symbols = append(result.Symbols, sym)
			}
		case "arrow_function", "function_expression", "generator_function":
			sym := p.extractBound(node, content)
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

// Language returns "javascript".
func (p *JavaScriptParser) Language() string { return "javascript" }

// Extensions returns the file extensions this parser handles.
func (p *JavaScriptParser) Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs"}
}

func (p *JavaScriptParser) extractNamed(node *sitter.Node, content []byte) Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Symbol{}
	}

	sym := NewFunctionSymbol(
		nodeText(nameNode, content),
		int(node.StartPoint().Row)+1,
		int(node.EndPoint().Row)+1,
	)
	if node.Type() == "method_definition" {
		sym.Namespace = jsEnclosingClass(node, content)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		sym.Parameters = jsParameters(params, content)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		sym.Signature = strings.TrimSpace(string(content[node.StartByte():body.StartByte()]))
	}
	return sym
}

// extractBound names an anonymous function by the variable declarator
// or assignment it is bound to: `const fetchUser = async () => {...}`
// yields a function symbol named fetchUser.
func (p *JavaScriptParser) extractBound(node *sitter.Node, content []byte) Symbol {
	parent := node.Parent()
	if parent == nil {
		return Symbol{}
	}

	var nameNode *sitter.Node
	switch parent.Type() {
	case "variable_declarator":
		nameNode = parent.ChildByFieldName("name")
	case "assignment_expression":
		left := parent.ChildByFieldName("left")
		if left != nil && left.Type() == "identifier" {
			nameNode = left
		}
	case "pair":
		nameNode = parent.ChildByFieldName("key")
	}
	if nameNode == nil {
		return Symbol{}
	}

	sym := NewFunctionSymbol(
		nodeText(nameNode, content),
		int(node.StartPoint().Row)+1,
		int(node.EndPoint().Row)+1,
	)
	if params := node.ChildByFieldName("parameters"); params != nil {
		sym.Parameters = jsParameters(params, content)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		sym.Signature = strings.TrimSpace(string(content[node.StartByte():body.StartByte()]))
	}
	return sym
}

func jsEnclosingClass(node *sitter.Node, content []byte) string {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Type() == "class_declaration" || cur.Type() == "class" {
			if name := cur.ChildByFieldName("name"); name != nil {
				return nodeText(name, content)
			}
		}
	}
	return ""
}

func jsParameters(params *sitter.Node, content []byte) []Parameter {
	out := make([]Parameter, 0, int(params.NamedChildCount()))
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "identifier":
			out = append(out, Parameter{Name: nodeText(child, content)})
		case "assignment_pattern":
			param := Parameter{}
			if n := child.ChildByFieldName("left"); n != nil {
				param.Name = nodeText(n, content)
			}
			if v := child.ChildByFieldName("right"); v != nil {
				param.DefaultValue = nodeText(v, content)
			}
			out = append(out, param)
		case "rest_pattern", "object_pattern", "array_pattern":
			out = append(out, Parameter{Name: nodeText(child, content)})
		}
	}
	return out
}
