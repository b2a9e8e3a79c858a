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

package constants

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultLogLevel is the default global verbosity
	DefaultLogLevel = logrus.WarnLevel

	// DefaultHost binds the server to all interfaces.
	DefaultHost = "0.0.0.0"
	DefaultPort = 5000

	// DefaultShutdownTimeout bounds how long in-flight requests may drain
	// before the listener is closed forcibly.
	DefaultShutdownTimeout = 5 * time.Second

	DefaultProbeURL     = "http://127.0.0.1:5000/"
	DefaultProbeTimeout = 10 * time.Second

	// Greeting is the body served on the root route.
	Greeting = "<h1>欢迎使用 Flask 应用！</h1>"

	// ContentTypeHTML is the exact Content-Type header of the root route.
	ContentTypeHTML = "text/html; charset=utf-8"

	// EnvVarPrefix is prepended to upper-cased flag names to find their environment overrides.
	EnvVarPrefix = "WELCOME_"

	AppName = "welcome"

	SubtaskIDNone = "-1"
)

// Phase names the high level task a log line belongs to.
type Phase string

const (
	Startup = Phase("Startup")
	Serve   = Phase("Serve")
	Probe   = Phase("Probe")
)
