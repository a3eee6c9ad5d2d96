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
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/backendkit/backendkit/pkg/content"
	"github.com/backendkit/backendkit/pkg/kitconfig"
	"github.com/backendkit/backendkit/pkg/manifest"
	"github.com/backendkit/backendkit/pkg/materialize"
	"github.com/backendkit/backendkit/pkg/usererr"
)

// 🔧 InitOptions configures an init operation
type InitOptions struct {
	Target   string
	Preset   string
	Template string
	Adapters []string

	// ProjectName and Description feed template variable substitution.
	// ProjectName defaults to the target directory's base name.
	ProjectName string
	Description string

	// Force overwrites an existing installation
	Force bool

	// DryRun computes the result without touching disk
	DryRun bool

	IgnorePatterns []string

	// Backup is recorded into the written config; nil means enabled
	Backup *bool
}

// 🚀 Init installs the kit into a target directory: resolves content for the
// requested preset or template, materializes it, writes the config file, and
// records everything in a brand-new manifest.
func (k *Kit) Init(ctx context.Context, opts InitOptions) (*Result, error) {
	target := targetOrDot(opts.Target)
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("target", target).Str("preset", opts.Preset).Str("template", opts.Template).Msg("starting init")

	if existing := kitconfig.Find(target); existing != "" && !opts.Force {
		return nil, usererr.Newf(usererr.CodeAlreadyInitialized,
			"backendkit is already initialized in %s (%s exists)", target, filepath.Base(existing)).
			WithHint("re-run with --force to overwrite the existing installation")
	}

	projectName := opts.ProjectName
	if projectName == "" {
		abs, err := filepath.Abs(target)
		if err != nil {
			return nil, errors.Errorf("resolving target path: %w", err)
		}
		projectName = filepath.Base(abs)
	}

	resolved, err := k.Resolver.Resolve(ctx, content.ResolveOptions{
		Preset:      opts.Preset,
		Template:    opts.Template,
		Adapters:    opts.Adapters,
		ProjectName: projectName,
		Description: opts.Description,
	})
	if err != nil {
		return nil, err
	}

	mat, err := materialize.Materialize(ctx, k.FS, resolved.All(), target, materialize.Options{
		DryRun:         opts.DryRun,
		IgnorePatterns: opts.IgnorePatterns,
	})
	if err != nil {
		return nil, err
	}

	cfg := &kitconfig.Config{
		Preset:         resolved.Preset,
		Template:       opts.Template,
		Adapters:       opts.Adapters,
		IgnorePatterns: opts.IgnorePatterns,
		Backup:         opts.Backup,
	}
	if !opts.DryRun {
		if err := cfg.WriteFile(filepath.Join(target, kitconfig.DefaultFileName)); err != nil {
			return nil, err
		}
	}

	copied := make(map[string]bool, len(mat.Copied))
	for _, p := range mat.Copied {
		copied[p] = true
	}
	var adapterEntries []manifest.AIAdapter
	for _, item := range resolved.Adapters {
		if copied[item.Dest] {
			adapterEntries = append(adapterEntries, manifest.AIAdapter{Tool: item.Tool, Path: item.Dest})
		}
	}

	files := append(append([]string{}, mat.Copied...), kitconfig.DefaultFileName)
	m := manifest.New(k.Version, resolved.Preset, opts.Template, files, adapterEntries, k.now())
	if !opts.DryRun {
		if err := manifest.Save(ctx, target, m); err != nil {
			return nil, err
		}
	}

	res := &Result{
		Operation:      "init",
		Target:         target,
		DryRun:         opts.DryRun,
		Added:          files,
		MissingSources: mat.Missing,
	}
	for _, missing := range mat.Missing {
		res.Warnings = append(res.Warnings, "content source missing: "+missing)
	}

	logger.Info().
		Str("target", target).
		Str("preset", resolved.Preset).
		Int("files", len(res.Added)).
		Bool("dry_run", opts.DryRun).
		Msg("init complete")

	return res, nil
}
