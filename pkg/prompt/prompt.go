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

// Package prompt provides the interactive confirmation used before
// destructive lifecycle operations.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// 💬 Prompter asks the operator a yes/no question. Implementations block on
// input; only an explicit affirmative answer returns true.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// 🖥️ Console prompts on a terminal. An empty or negative answer declines.
type Console struct {
	In  io.Reader
	Out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{In: in, Out: out}
}

func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprintf(c.Out, "%s [y/N]: ", question)

	reader := bufio.NewReader(c.In)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// 🤖 Static always answers the same way; used by tests and --force paths
type Static struct {
	Answer bool
}

func (s *Static) Confirm(ctx context.Context, question string) (bool, error) {
	return s.Answer, nil
}
