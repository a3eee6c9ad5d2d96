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

package kit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/backendkit/backendkit/pkg/backup"
	"github.com/backendkit/backendkit/pkg/content"
	"github.com/backendkit/backendkit/pkg/kitconfig"
	"github.com/backendkit/backendkit/pkg/manifest"
	"github.com/backendkit/backendkit/pkg/materialize"
	"github.com/backendkit/backendkit/pkg/usererr"
)

// 🔧 SyncOptions configures a sync operation
type SyncOptions struct {
	Target string

	// DryRun computes the diff without mutating the filesystem or manifest
	DryRun bool

	// Force skips the interactive confirmation
	Force bool

	// Backup overrides the config's backup setting when non-nil
	Backup *bool
}

// 🔄 Sync re-resolves the installed content set and re-materializes the
// managed documents and adapter files, reporting a presence-based diff of
// them before and after. The diff deliberately does not compare content: a
// file present both before and after is reported as updated even when
// byte-identical. Skeleton files are never re-rendered; init scaffolds them
// once and sync leaves them to the project.
func (k *Kit) Sync(ctx context.Context, opts SyncOptions) (*Result, error) {
	target := targetOrDot(opts.Target)
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("target", target).Msg("starting sync")

	managedDir := manifest.Dir(target)
	managedExists := dirExists(managedDir)
	cfgPath := kitconfig.Find(target)

	m, err := manifest.Load(ctx, target)
	if err != nil {
		return nil, err
	}
	if m == nil {
		if !managedExists && cfgPath == "" {
			return nil, usererr.Newf(usererr.CodeNotInstalled,
				"no backendkit installation found in %s", target).
				WithHint("run `backendkit init` first")
		}
		return nil, usererr.Newf(usererr.CodeNoManifest,
			"installation in %s has no usable manifest", target).
			WithHint("re-run `backendkit init --force` to rebuild the installation")
	}

	var warnings []string
	var cfg *kitconfig.Config
	if cfgPath != "" {
		cfg, err = kitconfig.Load(ctx, cfgPath)
		if err != nil {
			if _, ok := usererr.As(err); ok {
				// Unknown preset/template/adapter recorded in the config:
				// surface it rather than silently pretending success.
				return nil, err
			}
			warnings = append(warnings, fmt.Sprintf("ignoring unreadable config %s: %v", filepath.Base(cfgPath), err))
			cfg = nil
		}
	}

	resolveOpts := resolveOptionsFor(m, cfg, target)
	resolved, err := k.Resolver.Resolve(ctx, resolveOpts)
	if err != nil {
		return nil, err
	}

	if !opts.Force && !opts.DryRun {
		ok, err := k.confirm(ctx, fmt.Sprintf("Sync will overwrite managed files under %s. Continue?", managedDir))
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Info().Msg("sync aborted by operator")
			return &Result{Operation: "sync", Target: target, Aborted: true}, nil
		}
	}

	res := &Result{Operation: "sync", Target: target, DryRun: opts.DryRun, Warnings: warnings}

	backupEnabled := cfg.BackupEnabled()
	if opts.Backup != nil {
		backupEnabled = *opts.Backup
	}
	if backupEnabled && !opts.DryRun && managedExists {
		backupPath, err := backup.Create(ctx, managedDir, k.now())
		if err != nil {
			return nil, err
		}
		res.BackupPath = backupPath
	}

	// Presence snapshot before any mutation: managed files plus adapter
	// files the manifest already tracks.
	before, err := snapshotManaged(target)
	if err != nil {
		return nil, err
	}
	for _, a := range m.AIAdapters {
		if fileExists(filepath.Join(target, filepath.FromSlash(a.Path))) {
			before[a.Path] = true
		}
	}

	var ignorePatterns []string
	if cfg != nil {
		ignorePatterns = cfg.IgnorePatterns
	}
	mat, err := materialize.Materialize(ctx, k.FS, resolved.Refreshable(), target, materialize.Options{
		DryRun:         opts.DryRun,
		IgnorePatterns: ignorePatterns,
	})
	if err != nil {
		return nil, err
	}
	res.MissingSources = mat.Missing
	for _, missing := range mat.Missing {
		res.Warnings = append(res.Warnings, "content source missing: "+missing)
	}

	copied := make(map[string]bool, len(mat.Copied))
	for _, p := range mat.Copied {
		copied[p] = true
	}

	// Stale managed files are ones present before that the new resolution no
	// longer produces. Pruning them keeps the manifest invariant: no managed
	// file is left unreferenced after a successful sync.
	var stale []string
	for p := range before {
		if strings.HasPrefix(p, manifest.ManagedDirName+"/") && !copied[p] {
			stale = append(stale, p)
		}
	}
	sort.Strings(stale)
	for _, p := range stale {
		if !opts.DryRun {
			if err := os.Remove(filepath.Join(target, filepath.FromSlash(p))); err != nil && !os.IsNotExist(err) {
				return nil, errors.Errorf("removing stale file %s: %w", p, err)
			}
		}
		res.Removed = append(res.Removed, p)
	}

	for _, p := range mat.Copied {
		if before[p] {
			res.Updated = append(res.Updated, p)
		} else {
			res.Added = append(res.Added, p)
		}
	}
	for _, p := range mat.Skipped {
		if before[p] {
			res.Unchanged = append(res.Unchanged, p)
		}
	}

	// Skeleton files stay tracked while they exist, but are never touched.
	var keptSkeleton []string
	for _, item := range resolved.Skeleton {
		if item.Dest == "" || !m.HasFile(item.Dest) {
			continue
		}
		if fileExists(filepath.Join(target, filepath.FromSlash(item.Dest))) {
			keptSkeleton = append(keptSkeleton, item.Dest)
			res.Unchanged = append(res.Unchanged, item.Dest)
		}
	}

	sort.Strings(res.Added)
	sort.Strings(res.Updated)
	sort.Strings(res.Unchanged)

	if !opts.DryRun {
		now := k.now()
		m.KitVersion = k.Version
		m.LastSyncedAt = &now
		m.Preset = resolved.Preset
		m.Template = resolveOpts.Template
		reconcileFiles(m, mat.Copied, cfgPath, target, keptSkeleton)
		m.AIAdapters = adapterEntries(resolved, copied)
		if err := manifest.Save(ctx, target, m); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("target", target).
		Int("added", len(res.Added)).
		Int("updated", len(res.Updated)).
		Int("removed", len(res.Removed)).
		Bool("dry_run", opts.DryRun).
		Msg("sync complete")

	return res, nil
}

// resolveOptionsFor rebuilds resolve options from the config file when
// present, falling back to what the manifest recorded.
func resolveOptionsFor(m *manifest.Manifest, cfg *kitconfig.Config, target string) content.ResolveOptions {
	opts := content.ResolveOptions{Preset: m.Preset, Template: m.Template}
	for _, a := range m.AIAdapters {
		opts.Adapters = append(opts.Adapters, a.Tool)
	}
	if cfg != nil {
		if cfg.Preset != "" {
			opts.Preset = cfg.Preset
		}
		if cfg.Template != "" {
			opts.Template = cfg.Template
		}
		if cfg.Adapters != nil {
			opts.Adapters = cfg.Adapters
		}
	}
	if abs, err := filepath.Abs(target); err == nil {
		opts.ProjectName = filepath.Base(abs)
	}
	return opts
}

// reconcileFiles rebuilds the manifest file list from what this sync actually
// materialized plus the skeleton files it kept, preserving the order of
// surviving entries.
func reconcileFiles(m *manifest.Manifest, copiedPaths []string, cfgPath, target string, keptSkeleton []string) {
	keep := make(map[string]bool, len(copiedPaths)+len(keptSkeleton)+1)
	for _, p := range copiedPaths {
		keep[p] = true
	}
	for _, p := range keptSkeleton {
		keep[p] = true
	}
	if cfgPath != "" {
		if rel, err := filepath.Rel(target, cfgPath); err == nil {
			keep[filepath.ToSlash(rel)] = true
		}
	}

	var files []string
	for _, p := range m.Files {
		if keep[p] {
			files = append(files, p)
			keep[p] = false
		}
	}
	m.Files = files
	m.AddFiles(copiedPaths...)
	if cfgPath != "" {
		if rel, err := filepath.Rel(target, cfgPath); err == nil {
			m.AddFiles(filepath.ToSlash(rel))
		}
	}
}

func adapterEntries(resolved *content.ResolvedContent, copied map[string]bool) []manifest.AIAdapter {
	var out []manifest.AIAdapter
	for _, item := range resolved.Adapters {
		if copied[item.Dest] {
			out = append(out, manifest.AIAdapter{Tool: item.Tool, Path: item.Dest})
		}
	}
	return out
}
