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

// Package kitconfig reads and writes the per-project kit configuration file.
// The file records which content set a project installed so that sync can
// re-resolve it. YAML and HCL dialects are supported, dispatched by extension.
package kitconfig

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/backendkit/backendkit/pkg/content"
)

// FileNames are the recognized configuration file names at a target root, in
// lookup order. Init writes the first one; remove deletes any that exist.
var FileNames = []string{".backendkit.yaml", ".backendkit.yml", ".backendkit.hcl"}

// DefaultFileName is the config file init creates
const DefaultFileName = ".backendkit.yaml"

// 📚 Config is the per-project kit configuration
type Config struct {
	Preset         string   `json:"preset,omitempty" yaml:"preset,omitempty" hcl:"preset,optional"`
	Template       string   `json:"template,omitempty" yaml:"template,omitempty" hcl:"template,optional"`
	Adapters       []string `json:"adapters,omitempty" yaml:"adapters,omitempty" hcl:"adapters,optional"`
	IgnorePatterns []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"`

	// Backup controls whether sync snapshots the managed directory first.
	// Unset means enabled.
	Backup *bool `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`
}

// BackupEnabled reports the effective backup setting (default true)
func (c *Config) BackupEnabled() bool {
	return c == nil || c.Backup == nil || *c.Backup
}

// 🔍 Find returns the path of the first recognized config file present at the
// target root, or "" when none exists.
func Find(targetDir string) string {
	for _, name := range FileNames {
		p := filepath.Join(targetDir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Present returns every recognized config file that exists at the target root
func Present(targetDir string) []string {
	var out []string
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(targetDir, name)); err == nil {
			out = append(out, name)
		}
	}
	return out
}

// 📥 Load reads and validates a config file. The dialect is chosen by file
// extension: .yaml/.yml or .hcl.
func Load(ctx context.Context, path string) (*Config, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading kit config")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = loadYAML(data)
	case ".hcl":
		cfg, err = loadHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported config extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

func loadYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{}}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &cfg, nil
}

// 🔍 Validate checks the config against the content registries. Unknown
// preset, template, or adapter names are rejected at this boundary.
func (c *Config) Validate() error {
	if c.Preset != "" {
		if _, err := content.LookupPreset(c.Preset); err != nil {
			return err
		}
	}
	if c.Template != "" {
		if _, err := content.LookupTemplate(c.Template); err != nil {
			return err
		}
	}
	for _, tool := range c.Adapters {
		if _, err := content.LookupAdapter(tool); err != nil {
			return err
		}
	}
	return nil
}

// 💾 WriteFile serializes the config as YAML at the given path
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Errorf("writing config file: %w", err)
	}
	return nil
}
