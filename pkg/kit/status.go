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
	"path/filepath"

	"github.com/backendkit/backendkit/pkg/kitconfig"
	"github.com/backendkit/backendkit/pkg/manifest"
)

// 📋 Status describes how a target directory looks to the orchestrator
type Status struct {
	Target            string             `json:"target"`
	Installed         bool               `json:"installed"`
	ManagedDirPresent bool               `json:"managed_dir_present"`
	ConfigFile        string             `json:"config_file,omitempty"`
	Manifest          *manifest.Manifest `json:"manifest,omitempty"`
}

// 🔍 InspectStatus reports the installation state of a target directory
// without mutating anything. A corrupt manifest shows up as installed with a
// nil manifest (managed directory present, manifest unreadable).
func (k *Kit) InspectStatus(ctx context.Context, target string) (*Status, error) {
	target = targetOrDot(target)

	m, err := manifest.Load(ctx, target)
	if err != nil {
		return nil, err
	}

	st := &Status{
		Target:            target,
		ManagedDirPresent: dirExists(manifest.Dir(target)),
		Manifest:          m,
	}
	if p := kitconfig.Find(target); p != "" {
		st.ConfigFile = filepath.Base(p)
	}
	st.Installed = st.ManagedDirPresent || st.ConfigFile != "" || m != nil

	return st, nil
}
