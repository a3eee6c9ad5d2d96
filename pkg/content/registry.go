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
	"sort"
	"strings"

	"github.com/backendkit/backendkit/pkg/usererr"
)

// 📚 Preset is a named bundle of pattern and checklist documents
type Preset struct {
	Name        string
	Description string
	Patterns    []string
	Checklists  []string
}

// 🏗️ Template is a project template: a preset plus a skeleton tree
type Template struct {
	Name        string
	Description string
	Preset      string
	SkeletonDir string
}

// 🤖 Adapter describes one supported AI assistant integration
type Adapter struct {
	Tool     string
	Dest     string // target-relative path of the rendered adapter file
	Template string // template path within the content FS
}

// The registries below are closed enumerations. Lookups validate at the
// boundary and reject unknown keys instead of silently ignoring them.

var presets = map[string]Preset{
	"standard": {
		Name:        "standard",
		Description: "full pattern and checklist library",
		Patterns:    []string{"error-handling", "logging", "configuration", "testing", "api-design", "observability"},
		Checklists:  []string{"code-review", "deployment", "security"},
	},
	"minimal": {
		Name:        "minimal",
		Description: "core patterns for small services",
		Patterns:    []string{"error-handling", "logging", "testing"},
		Checklists:  []string{"code-review"},
	},
	"api": {
		Name:        "api",
		Description: "patterns for teams shipping HTTP APIs",
		Patterns:    []string{"error-handling", "logging", "configuration", "api-design", "observability"},
		Checklists:  []string{"code-review", "security"},
	},
}

var templates = map[string]Template{
	"go-minimal": {
		Name:        "go-minimal",
		Description: "minimal Go HTTP service skeleton",
		Preset:      "minimal",
		SkeletonDir: "templates/projects/go-minimal/skeleton",
	},
	"python-fastapi": {
		Name:        "python-fastapi",
		Description: "FastAPI service skeleton",
		Preset:      "api",
		SkeletonDir: "templates/projects/python-fastapi/skeleton",
	},
}

var adapters = map[string]Adapter{
	"claude":   {Tool: "claude", Dest: "CLAUDE.md", Template: "adapters/claude.md.tmpl"},
	"cursor":   {Tool: "cursor", Dest: ".cursor/rules/backendkit.mdc", Template: "adapters/cursor.mdc.tmpl"},
	"copilot":  {Tool: "copilot", Dest: ".github/copilot-instructions.md", Template: "adapters/copilot.md.tmpl"},
	"windsurf": {Tool: "windsurf", Dest: ".windsurfrules", Template: "adapters/windsurf.md.tmpl"},
	"codex":    {Tool: "codex", Dest: "AGENTS.md", Template: "adapters/codex.md.tmpl"},
}

// 🔍 LookupPreset validates a preset name against the registry
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, usererr.Newf(usererr.CodeUnknownPreset, "unknown preset %q", name).
			WithHint("known presets: " + strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// 🔍 LookupTemplate validates a template name against the registry
func LookupTemplate(name string) (Template, error) {
	t, ok := templates[name]
	if !ok {
		return Template{}, usererr.Newf(usererr.CodeUnknownTemplate, "unknown template %q", name).
			WithHint("known templates: " + strings.Join(TemplateNames(), ", "))
	}
	return t, nil
}

// 🔍 LookupAdapter validates an adapter tool name against the registry
func LookupAdapter(tool string) (Adapter, error) {
	a, ok := adapters[tool]
	if !ok {
		return Adapter{}, usererr.Newf(usererr.CodeUnknownAdapter, "unknown AI adapter %q", tool).
			WithHint("known adapters: " + strings.Join(AdapterNames(), ", "))
	}
	return a, nil
}

// PresetNames returns the registered preset names, sorted
func PresetNames() []string {
	return sortedKeys(presets)
}

// TemplateNames returns the registered template names, sorted
func TemplateNames() []string {
	return sortedKeys(templates)
}

// AdapterNames returns the registered adapter tool names, sorted
func AdapterNames() []string {
	return sortedKeys(adapters)
}

// AllPresets returns the preset registry entries, sorted by name
func AllPresets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, name := range PresetNames() {
		out = append(out, presets[name])
	}
	return out
}

// AllTemplates returns the template registry entries, sorted by name
func AllTemplates() []Template {
	out := make([]Template, 0, len(templates))
	for _, name := range TemplateNames() {
		out = append(out, templates[name])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
