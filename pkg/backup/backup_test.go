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

package backup

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

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCreateSnapshotsManagedTree(t *testing.T) {
	ctx := testContext(t)
	managed := filepath.Join(t.TempDir(), ".backendkit")

	writeFile(t, filepath.Join(managed, "manifest.json"), `{"kitVersion":"1.0.0"}`)
	writeFile(t, filepath.Join(managed, "patterns", "logging.md"), "# logging\n")

	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	path, err := Create(ctx, managed, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(managed, DirName, "20250601-093000"), path)

	data, err := os.ReadFile(filepath.Join(path, "patterns", "logging.md"))
	require.NoError(t, err)
	assert.Equal(t, "# logging\n", string(data), "backup content matches the source byte for byte")

	_, err = os.Stat(filepath.Join(path, "manifest.json"))
	assert.NoError(t, err, "the manifest is part of the snapshot")
}

func TestCreateExcludesPriorBackups(t *testing.T) {
	ctx := testContext(t)
	managed := filepath.Join(t.TempDir(), ".backendkit")

	writeFile(t, filepath.Join(managed, "patterns", "logging.md"), "# logging\n")

	first, err := Create(ctx, managed, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	second, err := Create(ctx, managed, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(second, DirName))
	assert.True(t, os.IsNotExist(err), "a backup must not contain earlier backups")
	_, err = os.Stat(filepath.Join(first, "patterns", "logging.md"))
	assert.NoError(t, err, "earlier backups stay intact")
}

func TestCreateCollidingTimestamps(t *testing.T) {
	ctx := testContext(t)
	managed := filepath.Join(t.TempDir(), ".backendkit")

	writeFile(t, filepath.Join(managed, "patterns", "logging.md"), "# logging\n")

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	first, err := Create(ctx, managed, now)
	require.NoError(t, err)
	second, err := Create(ctx, managed, now)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same-second backups must not overwrite each other")
	assert.Equal(t, first+"-1", second)
}

func TestCopyTreeExcludePredicate(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	writeFile(t, filepath.Join(src, "keep.md"), "keep\n")
	writeFile(t, filepath.Join(src, "skipdir", "inner.md"), "inner\n")
	writeFile(t, filepath.Join(src, "skip.md"), "skip\n")

	err := CopyTree(src, dst, func(rel string) bool {
		return rel == "skip.md" || rel == "skipdir"
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dst, "keep.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dst, "skip.md"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dst, "skipdir"))
	assert.True(t, os.IsNotExist(err), "excluded directories are not descended into")
}

func TestCopyTreeNilExclude(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	writeFile(t, filepath.Join(src, "a", "b.md"), "b\n")

	require.NoError(t, CopyTree(src, dst, nil))
	data, err := os.ReadFile(filepath.Join(dst, "a", "b.md"))
	require.NoError(t, err)
	assert.Equal(t, "b\n", string(data))
}
