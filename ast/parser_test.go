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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func functionsOf(fs *FileSymbols) []Symbol {
	out := make([]Symbol, 0)
	for _, s := range fs.Symbols {
		if s.Kind == SymbolKindFunction {
			out = append(out, s)
		}
	}
	return out
}

func callsOf(fs *FileSymbols) []Symbol {
	out := make([]Symbol, 0)
	for _, s := range fs.Symbols {
		if s.Kind == SymbolKindCall {
			out = append(out, s)
		}
	}
	return out
}

func TestGoParser(t *testing.T) {
	src := []byte(`package demo

func Greet(name string) string {
	return prefix() + name
}

func prefix() string {
	return "~"
}

type Codec struct{}

func (c *Codec) Encode(v any) error {
	c.reset()
	return nil
}

func (c *Codec) reset() {}
`)
	result, err := NewGoParser().Parse(context.Background(), src, "demo.go")
	require.NoError(t, err)
	assert.Equal(t, "go", result.Language)
	assert.Empty(t, result.Errors)

	fns := functionsOf(result)
	require.Len(t, fns, 4)

	greet := fns[0]
	assert.Equal(t, "Greet", greet.Name)
	assert.Equal(t, "demo", greet.Namespace)
	assert.Equal(t, 3, greet.StartLine)
	assert.Equal(t, 5, greet.EndLine)
	assert.Equal(t, "string", greet.ReturnType)
	require.Len(t, greet.Parameters, 1)
	assert.Equal(t, "name", greet.Parameters[0].Name)
	assert.Equal(t, "string", greet.Parameters[0].TypeName)
	assert.Contains(t, greet.Signature, "func Greet(name string) string")

	encode := fns[2]
	assert.Equal(t, "Encode", encode.Name)
	assert.Equal(t, "demo.Codec", encode.Namespace, "receiver type joins the namespace")

	calls := callsOf(result)
	require.Len(t, calls, 2)
	assert.Equal(t, "prefix", calls[0].Name)
	assert.Equal(t, 4, calls[0].StartLine)
	assert.Equal(t, "reset", calls[1].Name, "selector calls keep the final identifier")

	// Stream order: declaration precedes the calls in its body.
	firstCallIdx := -1
	greetIdx := -1
	for i, s := range result.Symbols {
		if s.Kind == SymbolKindFunction && s.Name == "Greet" {
			greetIdx = i
		}
		if s.Kind == SymbolKindCall && firstCallIdx == -1 {
			firstCallIdx = i
		}
	}
	assert.Less(t, greetIdx, firstCallIdx)
}

func TestGoParserValidation(t *testing.T) {
	t.Run("rejects oversized content", func(t *testing.T) {
		p := NewGoParser(WithGoMaxFileSize(8))
		_, err := p.Parse(context.Background(), []byte("package main\n"), "m.go")
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("rejects invalid utf8", func(t *testing.T) {
		_, err := NewGoParser().Parse(context.Background(), []byte{0xff, 0xfe}, "m.go")
		assert.ErrorIs(t, err, ErrInvalidContent)
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewGoParser().Parse(ctx, []byte("package main\n"), "m.go")
		assert.Error(t, err)
	})

	t.Run("partial result on syntax error", func(t *testing.T) {
		result, err := NewGoParser().Parse(context.Background(), []byte("package main\n\nfunc Broken( {\n"), "m.go")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Errors)
	})
}

func TestPythonParser(t *testing.T) {
	src := []byte(`class Repo:
    def save(self, item, retries=3):
        self.validate(item)

    def validate(self, item):
        pass

def bootstrap():
    return Repo()
`)
	result, err := NewPythonParser().Parse(context.Background(), src, "repo.py")
	require.NoError(t, err)
	assert.Equal(t, "python", result.Language)

	fns := functionsOf(result)
	require.Len(t, fns, 3)

	save := fns[0]
	assert.Equal(t, "save", save.Name)
	assert.Equal(t, "Repo", save.Namespace)
	require.Len(t, save.Parameters, 3)
	assert.Equal(t, "self", save.Parameters[0].Name)
	assert.Equal(t, "retries", save.Parameters[2].Name)
	assert.Equal(t, "3", save.Parameters[2].DefaultValue)

	boot := fns[2]
	assert.Equal(t, "bootstrap", boot.Name)
	assert.Empty(t, boot.Namespace)

	calls := callsOf(result)
	require.NotEmpty(t, calls)
	assert.Equal(t, "validate", calls[0].Name)
}

func TestJavaScriptParser(t *testing.T) {
	src := []byte(`function load(url) {
  return fetch(url);
}

const parse = (raw) => {
  return load(raw.trim());
};

class Client {
  connect(host) {
    this.open(host);
  }
}
`)
	result, err := NewJavaScriptParser().Parse(context.Background(), src, "client.js")
	require.NoError(t, err)
	assert.Equal(t, "javascript", result.Language)

	fns := functionsOf(result)
	require.Len(t, fns, 3)
	assert.Equal(t, "load", fns[0].Name)
	assert.Equal(t, "parse", fns[1].Name, "arrow bound to a declarator takes its name")
	assert.Equal(t, "connect", fns[2].Name)
	assert.Equal(t, "Client", fns[2].Namespace)

	callNames := make([]string, 0)
	for _, c := range callsOf(result) {
		callNames = append(callNames, c.Name)
	}
	assert.Contains(t, callNames, "fetch")
	assert.Contains(t, callNames, "load")
	assert.Contains(t, callNames, "open")
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	t.Run("routes by extension", func(t *testing.T) {
		p, err := r.ParserFor("src/main.go")
		require.NoError(t, err)
		assert.Equal(t, "go", p.Language())

		p, err = r.ParserFor("SRC/APP.PY")
		require.NoError(t, err)
		assert.Equal(t, "python", p.Language())
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := r.ParserFor("README.md")
		assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	})

	t.Run("extensions cover all parsers", func(t *testing.T) {
		exts := r.Extensions()
		assert.Contains(t, exts, ".go")
		assert.Contains(t, exts, ".py")
		assert.Contains(t, exts, ".js")
	})
}
