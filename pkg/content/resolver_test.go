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

package content

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backendkit/backendkit/pkg/usererr"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// testFS carries one file per registry entry so resolution and rendering can
// be exercised without the embedded assets.
func testFS() fstest.MapFS {
	fsys := fstest.MapFS{
		"rules/backendkit.md": {Data: []byte("# rules\n")},
		"adapters/claude.md.tmpl": {
			Data: []byte("# {{projectName}}\n{{description}}\n"),
		},
		"templates/projects/go-minimal/skeleton/cmd/main.go.tmpl": {
			Data: []byte("// {{projectName}} on port {{port}}\n"),
		},
	}
	for _, p := range presets["standard"].Patterns {
		fsys["patterns/"+p+".md"] = &fstest.MapFile{Data: []byte("# " + p + "\n")}
	}
	for _, c := range presets["standard"].Checklists {
		fsys["checklists/"+c+".md"] = &fstest.MapFile{Data: []byte("# " + c + "\n")}
	}
	return fsys
}

func TestLookupRejectsUnknownNames(t *testing.T) {
	tests := []struct {
		name     string
		lookup   func() error
		wantCode usererr.Code
	}{
		{
			name:     "preset",
			lookup:   func() error { _, err := LookupPreset("golden"); return err },
			wantCode: usererr.CodeUnknownPreset,
		},
		{
			name:     "template",
			lookup:   func() error { _, err := LookupTemplate("rails"); return err },
			wantCode: usererr.CodeUnknownTemplate,
		},
		{
			name:     "adapter",
			lookup:   func() error { _, err := LookupAdapter("clippy"); return err },
			wantCode: usererr.CodeUnknownAdapter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lookup()
			require.Error(t, err)
			ue, ok := usererr.As(err)
			require.True(t, ok, "lookup failures must be user errors")
			assert.Equal(t, tt.wantCode, ue.Code)
			assert.NotEmpty(t, ue.Hint, "hint should list the known names")
		})
	}
}

func TestResolvePresetCategories(t *testing.T) {
	ctx := testContext(t)
	r := NewResolver(testFS())

	rc, err := r.Resolve(ctx, ResolveOptions{Preset: "minimal"})
	require.NoError(t, err)

	assert.Equal(t, "minimal", rc.Preset)
	assert.Len(t, rc.Patterns, 3)
	assert.Len(t, rc.Checklists, 1)
	assert.Len(t, rc.Rules, 1)
	assert.Empty(t, rc.Adapters)
	assert.Empty(t, rc.Skeleton)

	assert.Equal(t, "patterns/error-handling.md", rc.Patterns[0].Source)
	assert.Equal(t, ".backendkit/patterns/error-handling.md", rc.Patterns[0].Dest)
	assert.Equal(t, ".backendkit/checklists/code-review.md", rc.Checklists[0].Dest)
	assert.Equal(t, ".backendkit/rules/backendkit.md", rc.Rules[0].Dest)
}

func TestResolveDefaultsToStandard(t *testing.T) {
	ctx := testContext(t)
	r := NewResolver(testFS())

	rc, err := r.Resolve(ctx, ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "standard", rc.Preset)
	assert.Len(t, rc.Patterns, len(presets["standard"].Patterns))
}

func TestResolveUnknownPreset(t *testing.T) {
	ctx := testContext(t)
	r := NewResolver(testFS())

	_, err := r.Resolve(ctx, ResolveOptions{Preset: "golden"})
	require.Error(t, err)
	assert.True(t, usererr.HasCode(err, usererr.CodeUnknownPreset))
}

func TestResolveAdapterRendering(t *testing.T) {
	ctx := testContext(t)
	r := NewResolver(testFS())

	rc, err := r.Resolve(ctx, ResolveOptions{
		Preset:      "minimal",
		Adapters:    []string{"claude"},
		ProjectName: "orders-api",
		Description: "order processing service",
	})
	require.NoError(t, err)
	require.Len(t, rc.Adapters, 1)

	item := rc.Adapters[0]
	assert.Equal(t, "claude", item.Tool)
	assert.Equal(t, "CLAUDE.md", item.Dest)
	assert.Equal(t, "# orders-api\norder processing service\n", string(item.Content))
}

func TestResolveAdapterMissingTemplate(t *testing.T) {
	ctx := testContext(t)
	fsys := testFS()
	delete(fsys, "adapters/claude.md.tmpl")
	r := NewResolver(fsys)

	rc, err := r.Resolve(ctx, ResolveOptions{Preset: "minimal", Adapters: []string{"claude"}})
	require.NoError(t, err, "missing adapter template is a materialize-time concern")
	require.Len(t, rc.Adapters, 1)
	assert.Nil(t, rc.Adapters[0].Content, "unrendered item falls back to verbatim copy")
}

func TestResolveTemplate(t *testing.T) {
	ctx := testContext(t)
	r := NewResolver(testFS())

	rc, err := r.Resolve(ctx, ResolveOptions{Template: "go-minimal", ProjectName: "widget", Port: 9090})
	require.NoError(t, err)

	assert.Equal(t, "minimal", rc.Preset, "template implies its preset")
	require.Len(t, rc.Skeleton, 1)
	sk := rc.Skeleton[0]
	assert.Equal(t, "cmd/main.go", sk.Dest, "tmpl suffix is stripped from the destination")
	assert.Equal(t, "// widget on port 9090\n", string(sk.Content))
}

func TestResolveTemplateExplicitPresetWins(t *testing.T) {
	ctx := testContext(t)
	r := NewResolver(testFS())

	rc, err := r.Resolve(ctx, ResolveOptions{Preset: "standard", Template: "go-minimal"})
	require.NoError(t, err)
	assert.Equal(t, "standard", rc.Preset)
}

func TestRenderDefaults(t *testing.T) {
	ctx := testContext(t)
	r := NewResolver(testFS())

	rc, err := r.Resolve(ctx, ResolveOptions{Preset: "minimal", Adapters: []string{"claude"}})
	require.NoError(t, err)
	require.Len(t, rc.Adapters, 1)
	assert.Equal(t, "# this project\na backend service\n", string(rc.Adapters[0].Content))
}

func TestRegistryNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"api", "minimal", "standard"}, PresetNames())
	assert.Equal(t, []string{"go-minimal", "python-fastapi"}, TemplateNames())
	assert.Equal(t, []string{"claude", "codex", "copilot", "cursor", "windsurf"}, AdapterNames())
}

func TestRefreshableExcludesSkeleton(t *testing.T) {
	ctx := testContext(t)
	r := NewResolver(testFS())

	rc, err := r.Resolve(ctx, ResolveOptions{Template: "go-minimal", Adapters: []string{"claude"}})
	require.NoError(t, err)
	require.NotEmpty(t, rc.Skeleton)

	for _, item := range rc.Refreshable() {
		assert.NotEqual(t, "cmd/main.go", item.Dest, "skeleton items are not refreshable")
	}
	assert.Len(t, rc.Refreshable(), len(rc.All())-len(rc.Skeleton))
}

func TestAllReturnsEveryItem(t *testing.T) {
	ctx := testContext(t)
	r := NewResolver(testFS())

	rc, err := r.Resolve(ctx, ResolveOptions{Template: "go-minimal", Adapters: []string{"claude"}})
	require.NoError(t, err)

	want := len(rc.Patterns) + len(rc.Checklists) + len(rc.Rules) + len(rc.Adapters) + len(rc.Skeleton)
	assert.Len(t, rc.All(), want)
}
