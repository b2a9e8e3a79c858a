/*
Copyright 2026 The Skaffold Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Process exit codes.
const (
	ExitCodeOK      = 0
	ExitCodeGeneric = 1
	ExitCodeUsage   = 2
	ExitCodeBind    = 3
)

// BindError is returned when the listen address cannot be acquired.
// It is fatal: the server never retries a bind.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("listening on %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// UsageError marks errors caused by invalid command line input.
type UsageError struct {
	Err error
}

func NewUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// IsBindError reports whether any error in err's chain is a BindError.
func IsBindError(err error) bool {
	var bindErr *BindError
	return errors.As(err, &bindErr)
}

// ExitCode maps an error to the process exit status. Any non-nil error yields a non-zero code.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeOK
	}

	var usageErr *UsageError
	switch {
	case IsBindError(err):
		return ExitCodeBind
	case errors.As(err, &usageErr):
		return ExitCodeUsage
	default:
		return ExitCodeGeneric
	}
}
