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

package testutil

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type BadWriter struct{}

func (BadWriter) Write([]byte) (int, error) { return 0, fmt.Errorf("Bad write") }

// T wraps testing.T with the checks used across this module's tests.
type T struct {
	*testing.T
}

// Run runs f as a subtest named name. An empty name runs f on t directly.
func Run(t *testing.T, name string, f func(t *T)) {
	if name == "" {
		f(&T{T: t})
		return
	}

	t.Run(name, func(t *testing.T) {
		f(&T{T: t})
	})
}

// Override sets the value pointed to by dest to value and restores
// the previous value when the test ends.
func (t *T) Override(dest, value interface{}) {
	t.Helper()
	if err := override(t.T, dest, value); err != nil {
		t.Fatal(err)
	}
}

func override(t *testing.T, dest, value interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unable to override value: %v", r)
		}
	}()

	dValue := reflect.ValueOf(dest).Elem()

	previous := reflect.New(dValue.Type()).Elem()
	previous.Set(dValue)

	tmpV := reflect.ValueOf(value)
	if value == nil {
		tmpV = reflect.Zero(dValue.Type())
	}
	dValue.Set(tmpV)

	t.Cleanup(func() {
		dValue.Set(previous)
	})
	return nil
}

func (t *T) CheckDeepEqual(expected, actual interface{}, opts ...cmp.Option) {
	t.Helper()
	CheckDeepEqual(t.T, expected, actual, opts...)
}

func (t *T) CheckErrorAndDeepEqual(shouldErr bool, err error, expected, actual interface{}, opts ...cmp.Option) {
	t.Helper()
	CheckErrorAndDeepEqual(t.T, shouldErr, err, expected, actual, opts...)
}

func (t *T) CheckError(shouldErr bool, err error) {
	t.Helper()
	CheckError(t.T, shouldErr, err)
}

func (t *T) CheckNoError(err error) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func (t *T) RequireNoError(err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func (t *T) CheckErrorContains(message string, err error) {
	t.Helper()
	if err == nil {
		t.Errorf("expected error containing %q, but returned none", message)
		return
	}
	if !strings.Contains(err.Error(), message) {
		t.Errorf("expected error containing %q, got %q", message, err.Error())
	}
}

func (t *T) CheckContains(expected, actual string) {
	t.Helper()
	if !strings.Contains(actual, expected) {
		t.Errorf("expected output %q to contain %q", actual, expected)
	}
}

func (t *T) CheckEmpty(actual string) {
	t.Helper()
	if actual != "" {
		t.Errorf("expected empty output, got %q", actual)
	}
}

func (t *T) CheckTrue(actual bool) {
	t.Helper()
	if !actual {
		t.Error("expected true, got false")
	}
}

func (t *T) CheckFalse(actual bool) {
	t.Helper()
	if actual {
		t.Error("expected false, got true")
	}
}

func CheckDeepEqual(t *testing.T, expected, actual interface{}, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(expected, actual, opts...); diff != "" {
		t.Errorf("%T differ (-got, +want): %s", expected, diff)
	}
}

func CheckErrorAndDeepEqual(t *testing.T, shouldErr bool, err error, expected, actual interface{}, opts ...cmp.Option) {
	t.Helper()
	if err := checkErr(shouldErr, err); err != nil {
		t.Error(err)
		return
	}
	if diff := cmp.Diff(expected, actual, opts...); diff != "" {
		t.Errorf("%T differ (-got, +want): %s", expected, diff)
	}
}

func CheckError(t *testing.T, shouldErr bool, err error) {
	t.Helper()
	if err := checkErr(shouldErr, err); err != nil {
		t.Error(err)
	}
}

func checkErr(shouldErr bool, err error) error {
	if err == nil && shouldErr {
		return fmt.Errorf("Expected error, but returned none")
	}
	if err != nil && !shouldErr {
		return fmt.Errorf("Unexpected error: %s", err)
	}
	return nil
}
