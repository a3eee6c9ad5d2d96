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

package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "y", input: "y\n", want: true},
		{name: "yes", input: "yes\n", want: true},
		{name: "uppercase_yes", input: "YES\n", want: true},
		{name: "n", input: "n\n", want: false},
		{name: "empty_declines", input: "\n", want: false},
		{name: "eof_declines", input: "", want: false},
		{name: "garbage_declines", input: "sure why not\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewConsole(strings.NewReader(tt.input), &out)

			got, err := c.Confirm(context.Background(), "proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "proceed? [y/N]")
		})
	}
}

func TestStatic(t *testing.T) {
	yes, err := (&Static{Answer: true}).Confirm(context.Background(), "?")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := (&Static{}).Confirm(context.Background(), "?")
	require.NoError(t, err)
	assert.False(t, no)
}
