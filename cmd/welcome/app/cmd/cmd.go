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
	"io"

	"github.com/spf13/cobra"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/config"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
	werrors "github.com/GoogleContainerTools/welcome/pkg/welcome/errors"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/output/log"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/version"
)

// NewWelcomeCommand creates the root command. Each call returns an independent
// command tree with its own options.
func NewWelcomeCommand(out, errOut io.Writer) *cobra.Command {
	opts := newCLIOptions()
	registry := flagRegistry(opts)

	rootCmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "A web server that greets visitors on /",
		Long: `welcome serves a single HTML greeting on the root route.

Every flag can also be set with an environment variable named WELCOME_<FLAG>,
upper-cased with dashes replaced by underscores, e.g. WELCOME_PORT=8080.`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		// The env file itself may be named by WELCOME_ENV_FILE, so read the
		// environment once to find it and again after loading it.
		if err := setFlagsFromEnvVariables(cmd.Flags()); err != nil {
			return err
		}
		if err := config.LoadEnvFile(opts.EnvFile); err != nil {
			return err
		}
		if err := setFlagsFromEnvVariables(cmd.Flags()); err != nil {
			return err
		}
		if err := log.SetupLogs(errOut, opts.Verbosity, opts.Debug); err != nil {
			return werrors.NewUsageError(err)
		}

		log.Entry(cmd.Context()).Infof("welcome %+v", version.Get())
		return nil
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return werrors.NewUsageError(err)
	})

	rootCmd.PersistentFlags().StringVarP(&opts.Verbosity, "verbosity", "v", constants.DefaultLogLevel.String(), "Log level: one of [panic fatal error warning info debug trace]")

	rootCmd.AddCommand(NewCmdServe(opts, registry))
	rootCmd.AddCommand(NewCmdProbe(opts, registry))
	rootCmd.AddCommand(NewCmdVersion(opts, registry))

	return rootCmd
}
