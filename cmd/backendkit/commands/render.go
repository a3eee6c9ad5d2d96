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

package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"

	"github.com/backendkit/backendkit/cmd/backendkit/opts"
	"github.com/backendkit/backendkit/pkg/kit"
)

// renderJSON emits the single-document success envelope
func renderJSON(w io.Writer, result any) error {
	envelope := struct {
		Success bool `json:"success"`
		Result  any  `json:"result"`
	}{Success: true, Result: result}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope); err != nil {
		return errors.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

// renderResult prints an operation result in the selected output mode
func renderResult(o *opts.RootOpts, res *kit.Result) error {
	if o.JSON {
		return renderJSON(o.Stdout, res)
	}

	section := pterm.DefaultSection.WithWriter(o.Stdout)
	if res.DryRun {
		section.Printfln("%s %s (dry run)", res.Operation, res.Target)
	} else {
		section.Printfln("%s %s", res.Operation, res.Target)
	}

	if res.Aborted {
		fmt.Fprintf(o.Stdout, "  %s aborted, no changes made\n", color.YellowString("-"))
		return nil
	}

	printPaths(o.Stdout, res.Added, color.GreenString("✓"))
	printPaths(o.Stdout, res.Updated, color.BlueString("⟳"))
	printPaths(o.Stdout, res.Removed, color.RedString("✗"))
	printPaths(o.Stdout, res.Unchanged, color.CyanString("•"))

	if res.Operation == "remove" && res.DryRun {
		printPaths(o.Stdout, res.Candidates, color.RedString("✗"))
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(o.Stdout, "  %s %s\n", color.YellowString("⚠"), w)
	}
	if res.BackupPath != "" {
		fmt.Fprintf(o.Stdout, "  backup: %s\n", res.BackupPath)
	}

	fmt.Fprintf(o.Stdout, "\n%d added, %d updated, %d removed\n",
		len(res.Added), len(res.Updated), len(res.Removed))
	return nil
}

func printPaths(w io.Writer, paths []string, symbol string) {
	for _, p := range paths {
		fmt.Fprintf(w, "  %s %s\n", symbol, p)
	}
}
