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

package kit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/backendkit/backendkit/pkg/kitconfig"
	"github.com/backendkit/backendkit/pkg/manifest"
	"github.com/backendkit/backendkit/pkg/usererr"
)

// 🔧 RemoveOptions configures a remove operation
type RemoveOptions struct {
	Target string

	// Yes skips the interactive confirmation
	Yes bool

	// DryRun reports the deletion candidates without deleting anything
	DryRun bool
}

// 🗑️ Remove tears down an installation: the managed directory tree, every
// recognized config file at the target root, and every adapter file the
// manifest records. Files already missing at deletion time are treated as
// already satisfied, which makes remove idempotent; a second call reports a
// distinct nothing-to-remove condition instead of erroring destructively.
func (k *Kit) Remove(ctx context.Context, opts RemoveOptions) (*Result, error) {
	target := targetOrDot(opts.Target)
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("target", target).Msg("starting remove")

	managedDir := manifest.Dir(target)
	managedExists := dirExists(managedDir)
	cfgFiles := kitconfig.Present(target)

	// Manifest load tolerates corruption so remove stays reachable on a
	// broken installation.
	m, err := manifest.Load(ctx, target)
	if err != nil {
		return nil, err
	}

	res := &Result{Operation: "remove", Target: target, DryRun: opts.DryRun}

	if managedExists {
		res.Candidates = append(res.Candidates, manifest.ManagedDirName)
	}
	res.Candidates = append(res.Candidates, cfgFiles...)

	var adapterPaths []string
	if m != nil {
		for _, a := range m.AIAdapters {
			p := filepath.ToSlash(filepath.Clean(a.Path))
			if p == "" || p == "." || strings.HasPrefix(p, "../") {
				res.Warnings = append(res.Warnings, "skipping suspicious adapter path: "+a.Path)
				continue
			}
			adapterPaths = append(adapterPaths, p)
			res.Candidates = append(res.Candidates, p)
		}
	}

	if len(res.Candidates) == 0 {
		return nil, usererr.Newf(usererr.CodeNothingToRemove,
			"nothing to remove in %s", target).
			WithHint("no backendkit installation was detected")
	}

	if !opts.Yes && !opts.DryRun {
		ok, err := k.confirm(ctx, fmt.Sprintf("Remove backendkit and %d managed path(s) from %s?", len(res.Candidates), target))
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Info().Msg("remove aborted by operator")
			res.Aborted = true
			res.Candidates = nil
			return res, nil
		}
	}

	if opts.DryRun {
		return res, nil
	}

	if managedExists {
		if err := os.RemoveAll(managedDir); err != nil {
			return nil, errors.Errorf("removing managed directory: %w", err)
		}
		res.Removed = append(res.Removed, manifest.ManagedDirName)
	}

	for _, name := range cfgFiles {
		if err := os.Remove(filepath.Join(target, name)); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Errorf("removing config file %s: %w", name, err)
		}
		res.Removed = append(res.Removed, name)
	}

	for _, p := range adapterPaths {
		if err := os.Remove(filepath.Join(target, filepath.FromSlash(p))); err != nil {
			if os.IsNotExist(err) {
				// Already gone: satisfied, not an error
				logger.Debug().Str("path", p).Msg("adapter file already absent")
				continue
			}
			return nil, errors.Errorf("removing adapter file %s: %w", p, err)
		}
		res.Removed = append(res.Removed, p)
		pruneEmptyParents(target, p)
	}

	logger.Info().
		Str("target", target).
		Int("candidates", len(res.Candidates)).
		Int("removed", len(res.Removed)).
		Msg("remove complete")

	return res, nil
}

// pruneEmptyParents deletes the directories between a removed adapter file
// and the target root, stopping at the first one that is not empty. os.Remove
// refuses non-empty directories, so nothing holding other files is touched.
func pruneEmptyParents(target, rel string) {
	for dir := filepath.Dir(rel); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if err := os.Remove(filepath.Join(target, dir)); err != nil {
			return
		}
	}
}
