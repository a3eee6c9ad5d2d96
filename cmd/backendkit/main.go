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
	"context"
	"os"

	"github.com/backendkit/backendkit/pkg/usererr"
)

// Exit codes: 0 success, 1 recoverable user error or validation warning,
// 2 environment-level failure.
const (
	exitOK          = 0
	exitUserError   = 1
	exitEnvironment = 2
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	rootCmd, rootOpts := newRootCmd()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ue, isUser := usererr.As(err)
		if !isUser || !ue.Silent {
			if rootOpts.JSON {
				reportErrorJSON(os.Stdout, err)
			} else {
				reportError(os.Stderr, err)
			}
		}
		if isUser {
			return exitUserError
		}
		return exitEnvironment
	}
	return exitOK
}
