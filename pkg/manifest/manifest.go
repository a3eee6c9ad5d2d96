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

// Package manifest persists the record of what backendkit installed into a
// target directory. The manifest lives inside the managed directory, next to
// the content it describes.
package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// ManagedDirName is the hidden directory backendkit owns inside a target
	ManagedDirName = ".backendkit"

	// FileName is the manifest file name inside the managed directory
	FileName = "manifest.json"
)

// 🤖 AIAdapter records an adapter file written outside the managed directory
// and which AI tool it serves.
type AIAdapter struct {
	Tool string `json:"tool"`
	Path string `json:"path"`
}

// 📦 Manifest is the persistent record of a kit installation
type Manifest struct {
	KitVersion string `json:"kitVersion"`

	// Preset and Template identify the content set that was installed
	Preset   string `json:"preset,omitempty"`
	Template string `json:"template,omitempty"`

	// InstalledAt is set once at creation and never mutated
	InstalledAt time.Time `json:"installedAt"`

	// LastSyncedAt is set on every successful sync
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`

	// Files holds every target-relative path the kit created or manages.
	// Order is insertion order, entries are unique.
	Files []string `json:"files"`

	AIAdapters []AIAdapter `json:"aiAdapters,omitempty"`
}

// 📍 Dir returns the managed directory for a target
func Dir(targetDir string) string {
	return filepath.Join(targetDir, ManagedDirName)
}

// 📍 Path returns the manifest file location for a target
func Path(targetDir string) string {
	return filepath.Join(targetDir, ManagedDirName, FileName)
}

// 🏭 New creates a fresh manifest for an init operation
func New(kitVersion, preset, template string, files []string, adapters []AIAdapter, now time.Time) *Manifest {
	m := &Manifest{
		KitVersion:  kitVersion,
		Preset:      preset,
		Template:    template,
		InstalledAt: now,
		AIAdapters:  adapters,
	}
	m.AddFiles(files...)
	return m
}

// 📥 Load reads the manifest for a target directory. A missing manifest is not
// an error: it returns (nil, nil). An unparseable manifest is downgraded to
// absent with a warning, so that remove and init --force stay reachable when
// the file is corrupted.
func Load(ctx context.Context, targetDir string) (*Manifest, error) {
	path := Path(targetDir)
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading manifest")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("manifest is not valid JSON, treating as absent")
		return nil, nil
	}

	return &m, nil
}

// 💾 Save serializes the manifest, creating the managed directory if needed.
// The write goes through a temp file and a rename so a crash mid-write cannot
// leave a truncated manifest behind.
func Save(ctx context.Context, targetDir string, m *Manifest) error {
	path := Path(targetDir)
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("writing manifest")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating managed directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), FileName+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp manifest: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp manifest: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp manifest: %w", err)
	}

	return nil
}

// ➕ AddFiles merges paths into m.Files, preserving existing order and
// appending genuinely new paths at the end. Duplicates are dropped.
func (m *Manifest) AddFiles(paths ...string) {
	seen := make(map[string]bool, len(m.Files))
	for _, p := range m.Files {
		seen[p] = true
	}
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		m.Files = append(m.Files, p)
	}
}

// HasFile reports whether the manifest tracks the given target-relative path
func (m *Manifest) HasFile(path string) bool {
	for _, p := range m.Files {
		if p == path {
			return true
		}
	}
	return false
}
