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

package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestLoadAbsent(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	m, err := Load(ctx, dir)
	require.NoError(t, err, "missing manifest should not be an error")
	assert.Nil(t, m, "missing manifest should load as absent")
}

func TestSaveLoadRoundtrip(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	installedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := New("1.2.3", "standard", "", []string{".backendkit/patterns/logging.md", ".backendkit.yaml"},
		[]AIAdapter{{Tool: "claude", Path: "CLAUDE.md"}}, installedAt)

	require.NoError(t, Save(ctx, dir, m), "saving should succeed")

	loaded, err := Load(ctx, dir)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "1.2.3", loaded.KitVersion)
	assert.Equal(t, "standard", loaded.Preset)
	assert.True(t, loaded.InstalledAt.Equal(installedAt), "installedAt should roundtrip")
	assert.Nil(t, loaded.LastSyncedAt, "lastSyncedAt starts unset")
	assert.Equal(t, m.Files, loaded.Files)
	assert.Equal(t, m.AIAdapters, loaded.AIAdapters)
}

func TestLoadCorruptIsAbsent(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(Dir(dir), 0755))
	require.NoError(t, os.WriteFile(Path(dir), []byte("{not json"), 0644))

	m, err := Load(ctx, dir)
	require.NoError(t, err, "corrupt manifest must not raise")
	assert.Nil(t, m, "corrupt manifest should be treated as absent")
}

func TestSaveCreatesManagedDir(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	m := New("1.0.0", "minimal", "", nil, nil, time.Now())
	require.NoError(t, Save(ctx, dir, m))

	_, err := os.Stat(Path(dir))
	assert.NoError(t, err, "manifest file should exist after save")
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	m := New("1.0.0", "minimal", "", []string{"a"}, nil, time.Now())
	require.NoError(t, Save(ctx, dir, m))
	require.NoError(t, Save(ctx, dir, m), "re-saving should succeed")

	entries, err := os.ReadDir(Dir(dir))
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the manifest itself should remain")
	assert.Equal(t, FileName, entries[0].Name())
}

func TestAddFiles(t *testing.T) {
	tests := []struct {
		name    string
		initial []string
		add     []string
		want    []string
	}{
		{
			name:    "appends_new_paths_in_order",
			initial: []string{"a", "b"},
			add:     []string{"c", "d"},
			want:    []string{"a", "b", "c", "d"},
		},
		{
			name:    "drops_duplicates",
			initial: []string{"a", "b"},
			add:     []string{"b", "a", "c"},
			want:    []string{"a", "b", "c"},
		},
		{
			name:    "repeated_overlapping_calls_keep_each_path_once",
			initial: []string{"a"},
			add:     []string{"a", "a", "b", "b"},
			want:    []string{"a", "b"},
		},
		{
			name:    "ignores_empty_paths",
			initial: nil,
			add:     []string{"", "x"},
			want:    []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{Files: tt.initial}
			m.AddFiles(tt.add...)
			assert.Equal(t, tt.want, m.Files)
		})
	}
}

func TestHasFile(t *testing.T) {
	m := &Manifest{Files: []string{"a", "b"}}
	assert.True(t, m.HasFile("a"))
	assert.False(t, m.HasFile("c"))
}

func TestPathLayout(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", ManagedDirName), Dir("proj"))
	assert.Equal(t, filepath.Join("proj", ManagedDirName, FileName), Path("proj"))
}
