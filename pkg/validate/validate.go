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

// Package validate checks the manifest/filesystem consistency invariant of an
// installation: every manifest entry exists on disk, and every managed file
// is referenced by the manifest.
package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/backendkit/backendkit/pkg/backup"
	"github.com/backendkit/backendkit/pkg/manifest"
	"github.com/backendkit/backendkit/pkg/usererr"
)

// 🏷️ Issue codes
const (
	IssueMissingFile   = "missing_file"
	IssueUntrackedFile = "untracked_file"
)

// ⚠️ Issue is one consistency finding
type Issue struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// 🔍 Check inspects an installation and returns its consistency findings.
// No findings means the invariant holds. A target with no installation is a
// user error, not a finding.
func Check(ctx context.Context, targetDir string) ([]Issue, error) {
	logger := zerolog.Ctx(ctx)

	m, err := manifest.Load(ctx, targetDir)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, usererr.Newf(usererr.CodeNotInstalled,
			"no backendkit manifest found in %s", targetDir).
			WithHint("run `backendkit init` first")
	}

	var issues []Issue

	for _, rel := range m.Files {
		abs := filepath.Join(targetDir, filepath.FromSlash(rel))
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			issues = append(issues, Issue{
				Code:    IssueMissingFile,
				Path:    rel,
				Message: fmt.Sprintf("listed in manifest but missing on disk: %s", rel),
			})
		} else if err != nil {
			return nil, errors.Errorf("checking %s: %w", rel, err)
		}
	}

	tracked := make(map[string]bool, len(m.Files))
	for _, rel := range m.Files {
		tracked[rel] = true
	}

	managedDir := manifest.Dir(targetDir)
	err = filepath.WalkDir(managedDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == managedDir {
				return filepath.SkipAll
			}
			return err
		}
		rel, err := filepath.Rel(managedDir, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel == backup.DirName {
				return filepath.SkipDir
			}
			return nil
		}
		if rel == manifest.FileName {
			return nil
		}
		targetRel := filepath.ToSlash(filepath.Join(manifest.ManagedDirName, rel))
		if !tracked[targetRel] {
			issues = append(issues, Issue{
				Code:    IssueUntrackedFile,
				Path:    targetRel,
				Message: fmt.Sprintf("present in managed directory but not in manifest: %s", targetRel),
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking managed directory: %w", err)
	}

	logger.Debug().Int("issues", len(issues)).Msg("validation complete")
	return issues, nil
}

// Summarize renders a short human description of the findings
func Summarize(issues []Issue) string {
	if len(issues) == 0 {
		return "manifest and filesystem are consistent"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d consistency issue(s) found", len(issues))
	return b.String()
}
