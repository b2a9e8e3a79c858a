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

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	werrors "github.com/GoogleContainerTools/welcome/pkg/welcome/errors"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/version"
)

// NewCmdVersion describes the CLI command to print the version.
func NewCmdVersion(opts *cliOptions, registry []*Flag) *cobra.Command {
	return NewCmd("version").
		WithDescription("Print the version information").
		WithExample("Print the version as JSON", "version -o json").
		WithFlags(registry).
		NoArgs(func(_ context.Context, out io.Writer) error {
			return printVersion(out, opts.Output)
		})
}

func printVersion(out io.Writer, format string) error {
	info := version.Get()
	switch format {
	case "json":
		return json.NewEncoder(out).Encode(info)
	case "text":
		_, err := fmt.Fprintln(out, info.Version)
		return err
	default:
		return werrors.NewUsageError(fmt.Errorf("unsupported output format %q, expected one of: text, json", format))
	}
}
