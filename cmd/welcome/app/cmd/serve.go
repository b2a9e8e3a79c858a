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
	"io"

	"github.com/spf13/cobra"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/app"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/config"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/instrumentation"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/output/log"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/server"
)

// NewCmdServe describes the CLI command to run the server.
func NewCmdServe(opts *cliOptions, registry []*Flag) *cobra.Command {
	return NewCmd("serve").
		WithDescription("Serve the greeting on / until interrupted").
		WithLongDescription(`Serve answers GET and HEAD / with a fixed HTML greeting. Other methods on /
get 405 and other paths get 404. The server stops on SIGINT or SIGTERM after
in-flight requests complete.

Set WELCOME_TRACE=stdout to print a span per request, and
WELCOME_EXPORT_METRICS=stdout to print request metrics on exit. Use gcp instead
of stdout to send them to Cloud Trace and Cloud Monitoring in WELCOME_GCP_PROJECT.`).
		WithExample("Serve on all interfaces, port 5000", "serve").
		WithExample("Serve on localhost:8080 with request logs", "serve --host 127.0.0.1 --port 8080 --debug").
		WithFlags(registry).
		NoArgs(func(ctx context.Context, out io.Writer) error {
			return doServe(ctx, out, opts.WelcomeOptions)
		})
}

func doServe(ctx context.Context, out io.Writer, opts config.WelcomeOptions) error {
	if _, _, err := instrumentation.InitTraceFromEnvVar(); err != nil {
		log.Entry(ctx).Warnf("tracing disabled: %v", err)
	}
	defer instrumentation.TracerShutdown(context.Background())

	meterShutdown, err := instrumentation.InitMeterFromEnvVar(out)
	if err != nil {
		log.Entry(ctx).Warnf("metrics disabled: %v", err)
	}
	defer meterShutdown(context.Background())

	s := server.New(out, opts, app.New().Handler())
	return s.Run(ctx)
}
