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
	"github.com/smacker/go-tree-sitter/python"
)

// PythonParser implements the Parser interface for Python source.
//
// Function symbols carry the enclosing class chain as their namespace;
// calls keep only the final attribute name, matching the name-based
// resolution used downstream.
type PythonParser struct {
	maxFileSize int64
}

// NewPythonParser creates a PythonParser with default limits.
func NewPythonParser() *PythonParser {
	return &PythonParser{maxFileSize: DefaultMaxFileSize}
}

// Parse extracts function declarations and call sites from Python source.
func (p *PythonParser) Parse(ctx context.Context, content []byte, filePath string) (*FileSymbols, error) {
	root, cleanup, err := parseTree(ctx, python.GetLanguage(), content, filePath, p.maxFileSize)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result := &FileSymbols{
		FilePath: filePath,
		Language: "python",
		Symbols:  make([]Symbol, 0, 32),
	}
	if root.HasError() {
		result.Errors = append(result.Errors, "source contains syntax errors")
	}

	walkSymbols(root, func(node *sitter.Node) {
		switch node.Type() {
		case "function_definition":
			sym := p.extractDefinition(node, content)
			if sym.Name != "" {
				result.Symbols = append(result.Symbols, sym)
			}
		case "call":
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

// Language returns "python".
func (p *PythonParser) Language() string { return "python" }

// Extensions returns the file extensions this parser handles.
func (p *PythonParser) Extensions() []string {
	return []string{".py", ".py3", ".pyx"}
}

func (p *PythonParser) extractDefinition(node *sitter.Node, content []byte) Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Symbol{}
	}

	sym := NewFunctionSymbol(
		nodeText(nameNode, content),
		int(node.StartPoint().Row)+1,
		int(node.EndPoint().Row)+1,
	)
	sym.Namespace = pythonClassChain(node, content)

	if params := node.ChildByFieldName("parameters"); params != nil {
		sym.Parameters = pythonParameters(params, content)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sym.ReturnType = nodeText(ret, content)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		sig := strings.TrimSpace(string(content[node.StartByte():body.StartByte()]))
		sym.Signature = strings.TrimSuffix(sig, ":")
	}
	return sym
}

// pythonClassChain walks ancestors collecting class names, outermost
// first: "Outer.Inner" for a method of a nested class.
func pythonClassChain(node *sitter.Node, content []byte) string {
	var parts []string
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Type() == "class_definition" {
			if name := cur.ChildByFieldName("name"); name != nil {
				parts = append([]string{nodeText(name, content)}, parts...)
			}
		}
	}
	return strings.Join(parts, ".")
}

func pythonParameters(params *sitter.Node, content []byte) []Parameter {
	out := make([]Parameter, 0, int(params.NamedChildCount()))
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "identifier":
			out = append(out, Parameter{Name: nodeText(child, content)})
		case "typed_parameter":
			param := Parameter{}
			if n := child.NamedChild(0); n != nil {
				param.Name = nodeText(n, content)
			}
			if t := child.ChildByFieldName("type"); t != nil {
				param.TypeName = nodeText(t, content)
			}
			out = append(out, param)
		case "default_parameter", "typed_default_parameter":
			param := Parameter{}
			if n := child.ChildByFieldName("name"); n != nil {
				param.Name = nodeText(n, content)
			}
			if t := child.ChildByFieldName("type"); t != nil {
				param.TypeName = nodeText(t, content)
			}
			if v := child.ChildByFieldName("value"); v != nil {
				param.DefaultValue = nodeText(v, content)
			}
			out = append(out, param)
		case "list_splat_pattern", "dictionary_splat_pattern":
			out = append(out, Parameter{Name: nodeText(child, content)})
		}
	}
	return out
}
