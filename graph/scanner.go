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
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Directories never descended into, regardless of ignore rules.
var defaultSkipDirs = map[string]bool{
	"target":       true,
	"node_modules": true,
	"__pycache__":  true,
	"vendor":       true,
	".git":         true,
}

// Scanner walks a directory tree collecting source files for the
// builder. Hidden directories and known build or dependency caches
// are skipped; a .gitignore at the scan root is honored when present.
// Directory entries are visited in sorted order so the resulting file
// list, and therefore edge insertion order, is reproducible.
type Scanner struct {
	extensions map[string]bool
	skipDirs   map[string]bool
	ignore     *gitignore.GitIgnore
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithExtensions replaces the extension allow-list. Extensions carry
// the leading dot and are matched case-insensitively.
func WithExtensions(exts []string) ScannerOption {
	return func(s *Scanner) {
		s.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			s.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithSkipDirs adds directory names to the skip set.
func WithSkipDirs(names ...string) ScannerOption {
	return func(s *Scanner) {
		for _, name := range names {
			s.skipDirs[name] = true
		}
	}
}

// NewScanner creates a Scanner accepting the given extensions.
func NewScanner(extensions []string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		extensions: make(map[string]bool, len(extensions)),
		skipDirs:   make(map[string]bool, len(defaultSkipDirs)),
	}
	for _, ext := range extensions {
		s.extensions[strings.ToLower(ext)] = true
	}
	for name := range defaultSkipDirs {
		s.skipDirs[name] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns the accepted file paths under root, sorted. A missing
// or unreadable root returns the underlying error; unreadable
// subdirectories are skipped silently.
func (s *Scanner) Scan(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	// Load root .gitignore if one exists. Errors reading it are not
	// fatal; scanning proceeds without ignore rules.
	s.ignore = nil
	if ign, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		s.ignore = ign
	}

	files := make([]string, 0, 64)
	s.walk(root, root, &files)
	sort.Strings(files)
	return files, nil
}

func (s *Scanner) walk(root, dir string, files *[]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			if strings.HasPrefix(name, ".") || s.skipDirs[name] {
				continue
			}
			if s.ignored(root, path, true) {
				continue
			}
			s.walk(root, path, files)
			continue
		}

		ext := strings.ToLower(filepath.Ext(name))
		if !s.extensions[ext] {
			continue
		}
		if s.ignored(root, path, false) {
			continue
		}
		*files = append(*files, path)
	}
}

func (s *Scanner) ignored(root, path string, isDir bool) bool {
	if s.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return s.ignore.MatchesPath(rel)
}
