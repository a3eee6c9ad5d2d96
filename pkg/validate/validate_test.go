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

package validate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backendkit/backendkit/pkg/backup"
	"github.com/backendkit/backendkit/pkg/manifest"
	"github.com/backendkit/backendkit/pkg/usererr"
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

// installConsistent lays down a manifest and matching files
func installConsistent(t *testing.T, ctx context.Context, dir string) *manifest.Manifest {
	t.Helper()

	files := []string{
		".backendkit/patterns/logging.md",
		".backendkit/checklists/code-review.md",
		".backendkit.yaml",
	}
	for _, rel := range files {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(rel)), "content\n")
	}
	m := manifest.New("1.0.0", "minimal", "", files, nil, time.Now())
	require.NoError(t, manifest.Save(ctx, dir, m))
	return m
}

func TestCheckNotInstalled(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	_, err := Check(ctx, dir)
	require.Error(t, err)
	assert.True(t, usererr.HasCode(err, usererr.CodeNotInstalled))
}

func TestCheckConsistent(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	installConsistent(t, ctx, dir)

	issues, err := Check(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, "manifest and filesystem are consistent", Summarize(issues))
}

func TestCheckMissingFile(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	installConsistent(t, ctx, dir)

	require.NoError(t, os.Remove(filepath.Join(dir, ".backendkit", "patterns", "logging.md")))

	issues, err := Check(ctx, dir)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueMissingFile, issues[0].Code)
	assert.Equal(t, ".backendkit/patterns/logging.md", issues[0].Path)
}

func TestCheckUntrackedFile(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	installConsistent(t, ctx, dir)

	writeFile(t, filepath.Join(dir, ".backendkit", "patterns", "homegrown.md"), "local\n")

	issues, err := Check(ctx, dir)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueUntrackedFile, issues[0].Code)
	assert.Equal(t, ".backendkit/patterns/homegrown.md", issues[0].Path)
}

func TestCheckIgnoresBackupsAndManifest(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	installConsistent(t, ctx, dir)

	writeFile(t, filepath.Join(dir, ".backendkit", backup.DirName, "20250601-090000", "patterns", "logging.md"), "old\n")

	issues, err := Check(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, issues, "backups and the manifest itself are not findings")
}

func TestSummarizeCountsIssues(t *testing.T) {
	issues := []Issue{{Code: IssueMissingFile}, {Code: IssueUntrackedFile}}
	assert.Equal(t, "2 consistency issue(s) found", Summarize(issues))
}
