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
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/config"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
	werrors "github.com/GoogleContainerTools/welcome/pkg/welcome/errors"
)

// cliOptions holds every value settable from the command line.
type cliOptions struct {
	config.WelcomeOptions

	ProbeURL     string
	ProbeTimeout time.Duration
	Output       string
}

func newCLIOptions() *cliOptions {
	return &cliOptions{
		WelcomeOptions: config.DefaultOptions(),
		ProbeURL:       constants.DefaultProbeURL,
		ProbeTimeout:   constants.DefaultProbeTimeout,
		Output:         "text",
	}
}

// Flag defines a welcome CLI flag which contains a list of
// subcommands the flag belongs to in `DefinedOn` field.
type Flag struct {
	Name          string
	Shorthand     string
	Usage         string
	Value         interface{}
	DefValue      interface{}
	FlagAddMethod string
	DefinedOn     []string
	Hidden        bool
}

// flagRegistry is the list of all flags that can be added to subcommands, bound to opts.
func flagRegistry(opts *cliOptions) []*Flag {
	return []*Flag{
		{
			Name:          "host",
			Usage:         "Interface to listen on. The default listens on all interfaces",
			Value:         &opts.Host,
			DefValue:      constants.DefaultHost,
			FlagAddMethod: "StringVar",
			DefinedOn:     []string{"serve"},
		},
		{
			Name:          "port",
			Shorthand:     "p",
			Usage:         "TCP port to listen on. 0 picks a free port",
			Value:         &opts.Port,
			DefValue:      constants.DefaultPort,
			FlagAddMethod: "IntVar",
			DefinedOn:     []string{"serve"},
		},
		{
			Name:          "debug",
			Usage:         "Log every request and raise the log level to debug",
			Value:         &opts.Debug,
			DefValue:      false,
			FlagAddMethod: "BoolVar",
			DefinedOn:     []string{"serve"},
		},
		{
			Name:          "shutdown-timeout",
			Usage:         "How long in-flight requests may run after an interrupt before connections are closed",
			Value:         &opts.ShutdownTimeout,
			DefValue:      constants.DefaultShutdownTimeout,
			FlagAddMethod: "DurationVar",
			DefinedOn:     []string{"serve"},
		},
		{
			Name:          "env-file",
			Usage:         "Path to a file of KEY=VALUE lines exported before WELCOME_* variables are read",
			Value:         &opts.EnvFile,
			DefValue:      "",
			FlagAddMethod: "StringVar",
			DefinedOn:     []string{"serve", "probe"},
		},
		{
			Name:          "url",
			Usage:         "URL of the root route to probe",
			Value:         &opts.ProbeURL,
			DefValue:      constants.DefaultProbeURL,
			FlagAddMethod: "StringVar",
			DefinedOn:     []string{"probe"},
		},
		{
			Name:          "timeout",
			Usage:         "Give up probing after this long",
			Value:         &opts.ProbeTimeout,
			DefValue:      constants.DefaultProbeTimeout,
			FlagAddMethod: "DurationVar",
			DefinedOn:     []string{"probe"},
		},
		{
			Name:          "output",
			Shorthand:     "o",
			Usage:         "Output format. One of: text, json",
			Value:         &opts.Output,
			DefValue:      "text",
			FlagAddMethod: "StringVar",
			DefinedOn:     []string{"version"},
		},
	}
}

func (fl *Flag) flag() *pflag.Flag {
	fs := pflag.NewFlagSet(fl.Name, pflag.ContinueOnError)

	inputs := []interface{}{fl.Value, fl.Name, fl.DefValue, fl.Usage}
	values := make([]reflect.Value, len(inputs))
	for i, in := range inputs {
		values[i] = reflect.ValueOf(in)
	}
	reflect.ValueOf(fs).MethodByName(fl.FlagAddMethod).Call(values)

	f := fs.Lookup(fl.Name)
	f.Shorthand = fl.Shorthand
	f.Hidden = fl.Hidden
	return f
}

func (fl *Flag) isDefinedOn(cmd string) bool {
	for _, c := range fl.DefinedOn {
		if c == cmd || c == "all" {
			return true
		}
	}
	return false
}

// envVarName maps a flag name to the environment variable that can set it.
func envVarName(flagName string) string {
	return constants.EnvVarPrefix + strings.ReplaceAll(strings.ToUpper(flagName), "-", "_")
}

// setFlagsFromEnvVariables sets every flag that was not given on the command line
// from its WELCOME_* environment variable, if present.
func setFlagsFromEnvVariables(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || err != nil {
			return
		}
		envVar := envVarName(f.Name)
		if val, present := os.LookupEnv(envVar); present {
			if setErr := f.Value.Set(val); setErr != nil {
				err = werrors.NewUsageError(errors.Wrapf(setErr, "invalid value %q for %s", val, envVar))
			}
		}
	})
	return err
}
