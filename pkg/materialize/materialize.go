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

// Package materialize writes resolved content items into a target directory
// tree. In dry-run mode it computes the exact same path set without touching
// disk.
package materialize

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/backendkit/backendkit/pkg/content"
)

// 🔧 Options controls a materialize pass
type Options struct {
	// DryRun computes Copied without performing any filesystem mutation
	DryRun bool

	// IgnorePatterns are doublestar globs matched against each item's
	// destination-relative path; matching items are skipped.
	IgnorePatterns []string
}

// 📊 Result reports what a materialize pass did (or would do, in dry-run)
type Result struct {
	// Copied holds the target-relative path of every item that was written,
	// or would be written in dry-run mode.
	Copied []string

	// Missing holds the source identifier of every item whose source does
	// not exist in the content FS. Missing sources are non-fatal per item.
	Missing []string

	// Skipped holds destination paths excluded by an ignore pattern
	Skipped []string
}

// 🏃 Materialize writes each item under targetRoot, creating parent
// directories as needed and overwriting existing files. One missing source
// does not abort the rest. Re-running with the same items yields the same
// Copied set.
func Materialize(ctx context.Context, fsys fs.FS, items []content.Item, targetRoot string, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	res := &Result{}

	for _, item := range items {
		if ignored(item.Dest, opts.IgnorePatterns) {
			logger.Debug().Str("dest", item.Dest).Msg("destination ignored by pattern")
			res.Skipped = append(res.Skipped, item.Dest)
			continue
		}

		data := item.Content
		if data == nil {
			var err error
			data, err = fs.ReadFile(fsys, item.Source)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					logger.Warn().Str("source", item.Source).Msg("content source missing")
					res.Missing = append(res.Missing, item.Source)
					continue
				}
				return nil, errors.Errorf("reading content source %s: %w", item.Source, err)
			}
		}

		if !opts.DryRun {
			if err := writeFile(filepath.Join(targetRoot, filepath.FromSlash(item.Dest)), data); err != nil {
				return nil, errors.Errorf("materializing %s: %w", item.Dest, err)
			}
		}
		res.Copied = append(res.Copied, item.Dest)
	}

	logger.Debug().
		Bool("dry_run", opts.DryRun).
		Int("copied", len(res.Copied)).
		Int("missing", len(res.Missing)).
		Msg("materialized content items")

	return res, nil
}

func ignored(dest string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, dest)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// writeFile creates parent directories and writes atomically via a temp file
// and rename, so an interrupted write never leaves a truncated destination.
func writeFile(absPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(absPath), filepath.Base(absPath)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tmpPath, absPath); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
