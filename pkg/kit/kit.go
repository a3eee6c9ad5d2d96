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

// Package kit is the lifecycle orchestrator. It coordinates init, sync, and
// remove against a target directory: diffing manifest state against resolved
// content, invoking the materializer and backup manager, and persisting the
// manifest at the end of each operation.
//
// Operations are synchronous and single-threaded. Concurrent invocations
// against the same target are not guarded; a production hardening would add
// an advisory lock file taken at operation start.
package kit

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/backendkit/backendkit/pkg/backup"
	"github.com/backendkit/backendkit/pkg/content"
	"github.com/backendkit/backendkit/pkg/manifest"
	"github.com/backendkit/backendkit/pkg/prompt"
)

// 🎯 Resolver resolves a preset or template identifier into content items
type Resolver interface {
	Resolve(ctx context.Context, opts content.ResolveOptions) (*content.ResolvedContent, error)
}

// 🎮 Kit orchestrates the lifecycle operations
type Kit struct {
	// Version is the semantic version of the running tool, recorded into
	// manifests it writes.
	Version string

	// FS is the content filesystem backing resolved items
	FS fs.FS

	Resolver Resolver
	Prompter prompt.Prompter

	// Now supplies timestamps; nil means time.Now
	Now func() time.Time
}

// 🏭 New creates a kit over the given content filesystem
func New(version string, fsys fs.FS, prompter prompt.Prompter) *Kit {
	return &Kit{
		Version:  version,
		FS:       fsys,
		Resolver: content.NewResolver(fsys),
		Prompter: prompter,
		Now:      time.Now,
	}
}

func (k *Kit) now() time.Time {
	if k.Now != nil {
		return k.Now()
	}
	return time.Now()
}

func (k *Kit) confirm(ctx context.Context, question string) (bool, error) {
	if k.Prompter == nil {
		return false, errors.New("no prompter configured for interactive confirmation")
	}
	ok, err := k.Prompter.Confirm(ctx, question)
	if err != nil {
		return false, errors.Errorf("asking for confirmation: %w", err)
	}
	return ok, nil
}

// 📸 snapshotManaged returns the target-relative (slash-separated) path of
// every file currently under the managed directory, excluding the backup
// subtree and the manifest file itself. A missing managed directory yields an
// empty set.
func snapshotManaged(targetDir string) (map[string]bool, error) {
	managedDir := manifest.Dir(targetDir)
	set := make(map[string]bool)

	err := filepath.WalkDir(managedDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == managedDir {
				return filepath.SkipAll
			}
			return err
		}
		rel, err := filepath.Rel(managedDir, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel == backup.DirName {
				return filepath.SkipDir
			}
			return nil
		}
		if rel == manifest.FileName {
			return nil
		}
		set[filepath.ToSlash(filepath.Join(manifest.ManagedDirName, rel))] = true
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("snapshotting managed directory: %w", err)
	}

	return set, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func targetOrDot(target string) string {
	if target == "" {
		return "."
	}
	return target
}
