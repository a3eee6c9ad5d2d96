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

// 📊 Result is the transient, structured outcome of one lifecycle operation,
// produced fresh per call and handed to the presentation layer.
type Result struct {
	Operation string `json:"operation"`
	Target    string `json:"target"`
	DryRun    bool   `json:"dry_run,omitempty"`

	// Aborted is set when the operator declined the confirmation prompt.
	// An aborted operation made no changes and is not an error.
	Aborted bool `json:"aborted,omitempty"`

	Added     []string `json:"added,omitempty"`
	Updated   []string `json:"updated,omitempty"`
	Removed   []string `json:"removed,omitempty"`
	Unchanged []string `json:"unchanged,omitempty"`

	// Candidates lists everything a remove considered for deletion,
	// distinct from what was actually removed.
	Candidates []string `json:"candidates,omitempty"`

	// MissingSources identifies content items whose source did not exist;
	// these are warnings, not failures.
	MissingSources []string `json:"missing_sources,omitempty"`

	Warnings []string `json:"warnings,omitempty"`

	BackupPath string `json:"backup_path,omitempty"`
}

// Changed reports the total number of paths this operation touched (or would
// touch, in dry-run mode)
func (r *Result) Changed() int {
	return len(r.Added) + len(r.Updated) + len(r.Removed)
}
