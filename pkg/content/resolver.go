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

// Package content resolves a preset or template identifier into the concrete
// set of items to install: pattern and checklist documents, the rules summary,
// rendered AI adapter files, and project skeleton files.
package content

import (
	"context"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/backendkit/backendkit/pkg/manifest"
)

// 📄 Item is one resolvable piece of content: where it comes from in the
// content FS, where it lands relative to the target root, and (for rendered
// items) its final bytes. Items are immutable once resolved.
type Item struct {
	Source string // path within the content FS
	Dest   string // target-root-relative destination
	Tool   string // adapter tool name, empty for non-adapter items

	// Content, when non-nil, is the rendered body to write. Items without
	// Content are copied verbatim from Source by the materializer.
	Content []byte
}

// 📦 ResolvedContent is the categorized result of resolving one preset or
// template for a single operation.
type ResolvedContent struct {
	Preset   string
	Template string

	Patterns   []Item
	Checklists []Item
	Rules      []Item
	Adapters   []Item
	Skeleton   []Item
}

// Refreshable returns the items a sync re-materializes: the managed
// documents and adapter files. Skeleton files are written once at init and
// belong to the project afterwards.
func (rc *ResolvedContent) Refreshable() []Item {
	out := make([]Item, 0, len(rc.Patterns)+len(rc.Checklists)+len(rc.Rules)+len(rc.Adapters))
	out = append(out, rc.Patterns...)
	out = append(out, rc.Checklists...)
	out = append(out, rc.Rules...)
	out = append(out, rc.Adapters...)
	return out
}

// All returns every resolved item in install order
func (rc *ResolvedContent) All() []Item {
	out := make([]Item, 0, len(rc.Patterns)+len(rc.Checklists)+len(rc.Rules)+len(rc.Adapters)+len(rc.Skeleton))
	out = append(out, rc.Patterns...)
	out = append(out, rc.Checklists...)
	out = append(out, rc.Rules...)
	out = append(out, rc.Adapters...)
	out = append(out, rc.Skeleton...)
	return out
}

// 🔧 ResolveOptions selects what to resolve and carries the template variables
// substituted into rendered items.
type ResolveOptions struct {
	Preset   string
	Template string
	Adapters []string

	ProjectName string
	Description string
	Port        int
}

// 🏭 Resolver resolves content against a content filesystem (the embedded
// assets in production, any fs.FS in tests).
type Resolver struct {
	fsys fs.FS
}

// NewResolver creates a resolver over the given content filesystem
func NewResolver(fsys fs.FS) *Resolver {
	return &Resolver{fsys: fsys}
}

// 🎯 Resolve validates the requested identifiers and produces the full item
// set for them. Unknown preset, template, or adapter names are rejected with
// typed user errors. A missing underlying asset is not an error here: the
// item is resolved with its source path and the materializer reports it.
func (r *Resolver) Resolve(ctx context.Context, opts ResolveOptions) (*ResolvedContent, error) {
	logger := zerolog.Ctx(ctx)

	rc := &ResolvedContent{Preset: opts.Preset, Template: opts.Template}

	presetName := opts.Preset
	if opts.Template != "" {
		tmpl, err := LookupTemplate(opts.Template)
		if err != nil {
			return nil, err
		}
		if presetName == "" {
			presetName = tmpl.Preset
			rc.Preset = presetName
		}
		skeleton, err := r.resolveSkeleton(ctx, tmpl, opts)
		if err != nil {
			return nil, err
		}
		rc.Skeleton = skeleton
	}
	if presetName == "" {
		presetName = "standard"
		rc.Preset = presetName
	}

	preset, err := LookupPreset(presetName)
	if err != nil {
		return nil, err
	}

	for _, name := range preset.Patterns {
		rc.Patterns = append(rc.Patterns, Item{
			Source: path.Join("patterns", name+".md"),
			Dest:   path.Join(manifest.ManagedDirName, "patterns", name+".md"),
		})
	}
	for _, name := range preset.Checklists {
		rc.Checklists = append(rc.Checklists, Item{
			Source: path.Join("checklists", name+".md"),
			Dest:   path.Join(manifest.ManagedDirName, "checklists", name+".md"),
		})
	}
	rc.Rules = append(rc.Rules, Item{
		Source: "rules/backendkit.md",
		Dest:   path.Join(manifest.ManagedDirName, "rules", "backendkit.md"),
	})

	for _, tool := range opts.Adapters {
		adapter, err := LookupAdapter(tool)
		if err != nil {
			return nil, err
		}
		item := Item{Source: adapter.Template, Dest: adapter.Dest, Tool: adapter.Tool}
		body, err := r.render(adapter.Template, opts)
		if err == nil {
			item.Content = body
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("rendering adapter %s: %w", tool, err)
		}
		rc.Adapters = append(rc.Adapters, item)
	}

	logger.Debug().
		Str("preset", presetName).
		Str("template", opts.Template).
		Int("items", len(rc.All())).
		Msg("resolved content")

	return rc, nil
}

// resolveSkeleton walks a template's skeleton tree and renders each file.
// Skeleton sources carry a .tmpl suffix in the content FS that is stripped
// from the destination path.
func (r *Resolver) resolveSkeleton(ctx context.Context, tmpl Template, opts ResolveOptions) ([]Item, error) {
	var items []Item

	err := fs.WalkDir(r.fsys, tmpl.SkeletonDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// Skeleton dir missing from the content FS: resolve a sentinel
				// item so the materializer reports it as a missing source.
				items = append(items, Item{Source: tmpl.SkeletonDir, Dest: ""})
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(p, tmpl.SkeletonDir+"/")
		item := Item{Source: p, Dest: strings.TrimSuffix(rel, ".tmpl")}
		body, err := r.render(p, opts)
		if err == nil {
			item.Content = body
		} else if !errors.Is(err, fs.ErrNotExist) {
			return errors.Errorf("rendering skeleton file %s: %w", p, err)
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking skeleton %s: %w", tmpl.SkeletonDir, err)
	}

	return items, nil
}

// render reads a template source and substitutes the placeholder variables.
// Substitution is plain string replacement, matching the template dialect the
// shipped content uses.
func (r *Resolver) render(source string, opts ResolveOptions) ([]byte, error) {
	data, err := fs.ReadFile(r.fsys, source)
	if err != nil {
		return nil, err
	}

	name := opts.ProjectName
	if name == "" {
		name = "this project"
	}
	desc := opts.Description
	if desc == "" {
		desc = "a backend service"
	}
	port := opts.Port
	if port == 0 {
		port = 8000
	}

	replacer := strings.NewReplacer(
		"{{projectName}}", name,
		"{{description}}", desc,
		"{{port}}", strconv.Itoa(port),
	)
	return []byte(replacer.Replace(string(data))), nil
}
