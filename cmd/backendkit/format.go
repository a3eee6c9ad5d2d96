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

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/backendkit/backendkit/pkg/usererr"
)

// reportError renders a failed invocation. User errors get their message and
// hint; anything else is an environment failure rendered verbatim.
func reportError(w io.Writer, err error) {
	if ue, ok := usererr.As(err); ok {
		fmt.Fprintf(w, "%s %s\n", color.RedString("error:"), ue.Message)
		if ue.Hint != "" {
			fmt.Fprintf(w, "%s %s\n", color.YellowString("hint:"), ue.Hint)
		}
		return
	}
	fmt.Fprintf(w, "%s %v\n", color.RedString("error:"), err)
}

// reportErrorJSON emits the single-document JSON error envelope
func reportErrorJSON(w io.Writer, err error) {
	envelope := map[string]any{"success": false}
	if ue, ok := usererr.As(err); ok {
		envelope["error"] = ue
	} else {
		envelope["error"] = map[string]any{"code": "environment", "message": err.Error()}
	}
	data, encErr := json.MarshalIndent(envelope, "", "  ")
	if encErr != nil {
		fmt.Fprintf(w, `{"success":false}`+"\n")
		return
	}
	fmt.Fprintln(w, string(data))
}
