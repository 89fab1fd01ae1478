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

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/codegraph/ast"
)

// FileError records a per-file failure during a build. Files that
// fail to read or parse are skipped; the build continues.
type FileError struct {
	FilePath string
	Err      error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

// BuildResult reports what a build did.
type BuildResult struct {
	FilesScanned   int
	FilesParsed    int
	FunctionsAdded int
	EdgesAdded     int
	FileErrors     []FileError
	Duration       time.Duration
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// Registry supplies the per-language parsers. Defaults to
	// ast.DefaultRegistry.
	Registry *ast.Registry

	// Scanner controls file discovery. Defaults to a scanner
	// accepting the registry's extensions.
	Scanner *Scanner

	// Logger receives per-file diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// DefaultBuilderOptions returns the standard configuration.
func DefaultBuilderOptions() BuilderOptions {
	registry := ast.DefaultRegistry()
	return BuilderOptions{
		Registry: registry,
		Scanner:  NewScanner(registry.Extensions()),
		Logger:   slog.Default(),
	}
}

// BuilderOption mutates BuilderOptions.
type BuilderOption func(*BuilderOptions)

// WithRegistry replaces the parser registry. The default scanner is
// rebuilt around the new registry's extensions unless WithScanner is
// also given.
func WithRegistry(r *ast.Registry) BuilderOption {
	return func(o *BuilderOptions) {
		o.Registry = r
		o.Scanner = NewScanner(r.Extensions())
	}
}

// WithScanner replaces the file scanner.
func WithScanner(s *Scanner) BuilderOption {
	return func(o *BuilderOptions) { o.Scanner = s }
}

// WithLogger replaces the build logger.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(o *BuilderOptions) { o.Logger = l }
}

// Builder turns a directory of source files into a populated call
// graph using two strictly ordered passes: every declaration in every
// file is indexed before any call site is resolved. The target graph
// may be either representation.
//
// Thread Safety:
//
//	A Builder is immutable after construction and safe to share;
//	each Build call uses only local state plus the target graph.
type Builder struct {
	opts BuilderOptions
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts ...BuilderOption) *Builder {
	o := DefaultBuilderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{opts: o}
}

// Build scans root, parses every accepted file, and populates g.
//
// Description:
//
//	Pass 1 inserts one function record per declaration symbol across
//	all files. Pass 2 re-walks each file's symbol stream maintaining
//	a stack of enclosing functions and resolves each call site by
//	exact name against the graph's name index: zero matches add no
//	edge, one or more matches add one resolved edge per candidate.
//
// Inputs:
//   - ctx: Cancels the build between files; returns ErrBuildCancelled.
//   - root: Directory to scan. Must exist.
//   - g: Target graph, normally empty. Either representation works;
//     a DiGraph target rejects nothing extra here because pass
//     ordering guarantees every edge endpoint already exists.
//
// Outputs:
//   - *BuildResult: Counters plus per-file errors. Never nil when
//     error is nil; an empty or wholly unparsable directory yields a
//     valid empty graph.
//   - error: Scan failure or cancellation. Per-file problems are not
//     errors.
func (b *Builder) Build(ctx context.Context, root string, g CallGraph) (*BuildResult, error) {
	start := time.Now()
	result := &BuildResult{}

	files, err := b.opts.Scanner.Scan(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	result.FilesScanned = len(files)

	// Parse every file up front; both passes replay the streams.
	streams := make([]*ast.FileSymbols, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBuildCancelled, err)
		}
		stream, err := b.parseFile(ctx, path)
		if err != nil {
			result.FileErrors = append(result.FileErrors, FileError{FilePath: path, Err: err})
			b.opts.Logger.Warn("skipping file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			continue
		}
		result.FilesParsed++
		streams = append(streams, stream)
	}

	// Pass 1: declarations only. The name index must be complete
	// before any call is resolved.
	for _, stream := range streams {
		for _, sym := range stream.Symbols {
			if sym.Kind != ast.SymbolKindFunction {
				continue
			}
			fn := functionInfoFromSymbol(sym, stream)
			if err := g.AddFunction(fn); err != nil {
				b.opts.Logger.Warn("dropping function record",
					slog.String("file", stream.FilePath),
					slog.String("name", sym.Name),
					slog.String("error", err.Error()))
				continue
			}
			result.FunctionsAdded++
		}
	}

	// Pass 2: call resolution.
	for _, stream := range streams {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBuildCancelled, err)
		}
		result.EdgesAdded += b.resolveCalls(stream, g)
	}

	g.RefreshStats()
	result.Duration = time.Since(start)

	b.opts.Logger.Info("graph build complete",
		slog.Int("files", result.FilesParsed),
		slog.Int("functions", result.FunctionsAdded),
		slog.Int("edges", result.EdgesAdded),
		slog.Int("file_errors", len(result.FileErrors)),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// resolveCalls replays one file's symbol stream against the populated
// name index. The enclosing-function stack is pushed on every
// declaration and never popped, so a call site after a nested
// function's body still attributes to the innermost declaration seen
// so far in the file. Calls before any declaration are skipped.
func (b *Builder) resolveCalls(stream *ast.FileSymbols, g CallGraph) int {
	added := 0
	enclosing := make([]uuid.UUID, 0, 8)

	for _, sym := range stream.Symbols {
		switch sym.Kind {
		case ast.SymbolKindFunction:
			// The stack holds the first name-index match for the
			// declared name, not the symbol's own id.
			if ids := g.NameIndex()[sym.Name]; len(ids) > 0 {
				enclosing = append(enclosing, ids[0])
			}

		case ast.SymbolKindCall:
			if len(enclosing) == 0 {
				continue
			}
			callerID := enclosing[len(enclosing)-1]
			caller, ok := g.Function(callerID)
			if !ok {
				continue
			}

			for _, callee := range g.FunctionsByName(sym.Name) {
				edge := CallEdge{
					CallerID:   callerID,
					CalleeID:   callee.ID,
					CallerName: caller.Name,
					CalleeName: callee.Name,
					CallerFile: caller.FilePath,
					CalleeFile: callee.FilePath,
					LineNumber: sym.StartLine,
					Resolved:   true,
				}
				if err := g.AddCall(edge); err != nil {
					b.opts.Logger.Warn("dropping call edge",
						slog.String("file", stream.FilePath),
						slog.String("callee", sym.Name),
						slog.String("error", err.Error()))
					continue
				}
				added++
			}
		}
	}
	return added
}

func (b *Builder) parseFile(ctx context.Context, path string) (*ast.FileSymbols, error) {
	parser, err := b.opts.Registry.ParserFor(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(ctx, content, path)
}

func functionInfoFromSymbol(sym ast.Symbol, stream *ast.FileSymbols) FunctionInfo {
	params := make([]ParameterInfo, 0, len(sym.Parameters))
	for _, p := range sym.Parameters {
		params = append(params, ParameterInfo{
			Name:         p.Name,
			TypeName:     p.TypeName,
			DefaultValue: p.DefaultValue,
		})
	}
	return FunctionInfo{
		ID:         sym.ID,
		Name:       sym.Name,
		FilePath:   stream.FilePath,
		LineStart:  sym.StartLine,
		LineEnd:    sym.EndLine,
		Namespace:  sym.Namespace,
		Language:   stream.Language,
		Signature:  sym.Signature,
		ReturnType: sym.ReturnType,
		Parameters: params,
	}
}
