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

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
)

// WelcomeOptions are options set by the command line. They are fixed once the server starts.
type WelcomeOptions struct {
	Host            string
	Port            int
	Debug           bool
	ShutdownTimeout time.Duration
	EnvFile         string
	Verbosity       string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() WelcomeOptions {
	return WelcomeOptions{
		Host:            constants.DefaultHost,
		Port:            constants.DefaultPort,
		ShutdownTimeout: constants.DefaultShutdownTimeout,
		Verbosity:       constants.DefaultLogLevel.String(),
	}
}

// Address is the host:port pair the server listens on.
func (opts WelcomeOptions) Address() string {
	return net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
}
