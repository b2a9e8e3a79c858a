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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/instrumentation"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/output/log"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/probe"
)

// NewCmdProbe describes the CLI command that checks a running server.
func NewCmdProbe(opts *cliOptions, registry []*Flag) *cobra.Command {
	return NewCmd("probe").
		WithDescription("Wait until a server answers / with the greeting").
		WithLongDescription("Probe retries GET on the URL until the greeting is served or the timeout elapses. Use it as a container health check.").
		WithExample("Check the local server", "probe").
		WithExample("Wait up to a minute for a remote server", "probe --url http://web:5000/ --timeout 1m").
		WithFlags(registry).
		NoArgs(func(ctx context.Context, out io.Writer) error {
			if _, _, err := instrumentation.InitTraceFromEnvVar(); err != nil {
				log.Entry(ctx).Warnf("tracing disabled: %v", err)
			}
			defer instrumentation.TracerShutdown(context.Background())

			if err := probe.NewProber().WaitFor(ctx, opts.ProbeURL, opts.ProbeTimeout); err != nil {
				return err
			}
			_, err := fmt.Fprintf(out, "%s is healthy\n", opts.ProbeURL)
			return err
		})
}
