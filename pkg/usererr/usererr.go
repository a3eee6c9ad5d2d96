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

// Package usererr carries the typed, recoverable error conditions that the
// lifecycle operations report back to an operator. Anything that is not a
// *Error is treated as an environment failure by the CLI layer.
package usererr

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Code is a machine-readable identifier for a recoverable condition
type Code string

const (
	CodeAlreadyInitialized Code = "already_initialized"
	CodeUnknownPreset      Code = "unknown_preset"
	CodeUnknownTemplate    Code = "unknown_template"
	CodeUnknownAdapter     Code = "unknown_adapter"
	CodeNotInstalled       Code = "not_installed"
	CodeNoManifest         Code = "no_manifest"
	CodeNothingToRemove    Code = "nothing_to_remove"
	CodeValidationFailed   Code = "validation_failed"
)

// ⚠️ Error is a recoverable user/config error with an actionable hint
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`

	// Silent marks an error whose details were already rendered by the
	// command; the outer CLI layer only maps it to an exit code.
	Silent bool `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

// 🏭 New creates a new user error with the given code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// 🏭 Newf creates a new user error with a formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithHint attaches an actionable hint and returns the error for chaining
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// AsSilent marks the error as already rendered and returns it for chaining
func (e *Error) AsSilent() *Error {
	e.Silent = true
	return e
}

// 🔍 As unwraps err into a *Error if one is in the chain
func As(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// 🔍 HasCode reports whether err is a user error with the given code
func HasCode(err error, code Code) bool {
	ue, ok := As(err)
	return ok && ue.Code == code
}
