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

// Package backup snapshots the managed directory before a destructive sync.
// Backups are append-only; retention is left to the operator.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DirName is the backup subtree inside the managed directory
const DirName = "backups"

// 📸 Create snapshots every file under managedDir (except prior backups) into
// a timestamped subdirectory and returns its absolute path. A failure partway
// through is fatal: the caller is about to mutate destructively and must not
// believe a backup exists when it does not.
func Create(ctx context.Context, managedDir string, now time.Time) (string, error) {
	logger := zerolog.Ctx(ctx)

	backupRoot := filepath.Join(managedDir, DirName)
	backupPath, err := nextBackupPath(backupRoot, now)
	if err != nil {
		return "", err
	}

	exclude := func(rel string) bool {
		return rel == DirName || strings.HasPrefix(rel, DirName+string(filepath.Separator))
	}
	if err := CopyTree(managedDir, backupPath, exclude); err != nil {
		return "", errors.Errorf("backing up %s: %w", managedDir, err)
	}

	logger.Info().Str("path", backupPath).Msg("created backup")
	return backupPath, nil
}

// nextBackupPath derives a collision-resistant timestamped directory name
func nextBackupPath(backupRoot string, now time.Time) (string, error) {
	stamp := now.UTC().Format("20060102-150405")
	candidate := filepath.Join(backupRoot, stamp)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", errors.Errorf("probing backup path: %w", err)
		}
		candidate = filepath.Join(backupRoot, fmt.Sprintf("%s-%d", stamp, i))
	}
}

// 🌳 CopyTree recursively copies every file under src into dst, preserving
// relative layout. The exclude predicate is called with src-relative paths;
// excluded directories are not descended into. Any copy error aborts the walk.
func CopyTree(src, dst string, exclude func(rel string) bool) error {
	return filepath.WalkDir(src, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", p, err)
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return errors.Errorf("computing relative path: %w", err)
		}
		if rel == "." {
			return nil
		}
		if exclude != nil && exclude(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.Errorf("creating directory %s: %w", target, err)
			}
			return nil
		}
		if err := copyFile(p, target); err != nil {
			return errors.Errorf("copying %s: %w", rel, err)
		}
		return nil
	})
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	destination, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file content: %w", err)
	}

	return destination.Close()
}
