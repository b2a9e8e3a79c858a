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
	"context"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/output/log"
)

var (
	// Fs is the filesystem env files are read from.
	Fs = afero.NewOsFs()

	lookupEnv = os.LookupEnv
	setEnv    = os.Setenv
)

// ReadEnvFile parses a dotenv formatted file. A leading ~ in path is expanded to the home directory.
func ReadEnvFile(path string) (map[string]string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "expanding env file path %q", path)
	}

	f, err := Fs.Open(expanded)
	if err != nil {
		return nil, errors.Wrapf(err, "opening env file %q", expanded)
	}
	defer f.Close()

	envs, err := godotenv.Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing env file %q", expanded)
	}
	return envs, nil
}

// LoadEnvFile exports the variables of an env file into the process environment.
// Variables that are already set keep their value. An empty path is a no-op.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	envs, err := ReadEnvFile(path)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(envs))
	for k := range envs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, found := lookupEnv(k); found {
			log.Entry(context.TODO()).Debugf("env file %s: %s already set, skipping", path, k)
			continue
		}
		if err := setEnv(k, envs[k]); err != nil {
			return errors.Wrapf(err, "setting %s", k)
		}
	}
	return nil
}
