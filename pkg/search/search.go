// Copyright 2025 the backendkit authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search scans the installed knowledge-base documents for a query
// string. Matching is plain case-insensitive substring matching; ranking is
// deliberately out of scope.
package search

import (
	"bufio"
	"context"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔎 Match is one matching line in one document
type Match struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// 🔧 Options narrows a search
type Options struct {
	// Globs filters scanned paths with doublestar patterns; empty scans all
	// markdown files.
	Globs []string

	// Limit caps the number of returned matches; 0 means unlimited
	Limit int
}

const scanParallelism = 8

// 🏃 Run scans every markdown file in fsys for the query. Files are read
// concurrently; results are returned sorted by path then line.
func Run(ctx context.Context, fsys fs.FS, query string, opts Options) ([]Match, error) {
	logger := zerolog.Ctx(ctx)
	needle := strings.ToLower(query)
	if needle == "" {
		return nil, errors.New("empty search query")
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".md") {
			return nil
		}
		if len(opts.Globs) > 0 && !matchesAny(p, opts.Globs) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking documents: %w", err)
	}

	var mu sync.Mutex
	var matches []Match

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanParallelism)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found, err := scanFile(fsys, p, needle)
			if err != nil {
				return err
			}
			if len(found) > 0 {
				mu.Lock()
				matches = append(matches, found...)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].Line < matches[j].Line
	})
	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}

	logger.Debug().Str("query", query).Int("files", len(paths)).Int("matches", len(matches)).Msg("search complete")
	return matches, nil
}

func scanFile(fsys fs.FS, path, needle string) ([]Match, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out []Match
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.Contains(strings.ToLower(text), needle) {
			out = append(out, Match{Path: path, Line: line, Text: strings.TrimSpace(text)})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("scanning %s: %w", path, err)
	}
	return out, nil
}

func matchesAny(path string, globs []string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, path); err == nil && ok {
			return true
		}
	}
	return false
}
