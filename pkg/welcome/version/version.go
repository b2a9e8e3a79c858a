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

package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/blang/semver"
	"github.com/pkg/errors"
)

var version, gitCommit, buildDate string
var platform = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Compiler  string `json:"compiler"`
	Platform  string `json:"platform"`
}

// Get returns the version and buildtime information about the binary.
// The fields are stamped with -ldflags at build time.
func Get() *Info {
	return &Info{
		Version:   orDefault(version, "v0.0.0-dev"),
		GitCommit: orDefault(gitCommit, "unknown"),
		BuildDate: orDefault(buildDate, "unknown"),
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  platform,
	}
}

func (i *Info) String() string {
	return i.Version
}

// ParseVersion parses a version string into a semver.Version, accepting a leading v.
func ParseVersion(version string) (semver.Version, error) {
	v, err := semver.Parse(strings.TrimLeft(strings.TrimSpace(version), "v"))
	if err != nil {
		return semver.Version{}, errors.Wrap(err, "parsing semver")
	}
	return v, nil
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
