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

package log

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
	"github.com/GoogleContainerTools/welcome/testutil"
)

func TestEntry(t *testing.T) {
	tests := []struct {
		name            string
		ctx             context.Context
		expectedTask    constants.Phase
		expectedSubtask string
	}{
		{
			name:            "context without event information",
			ctx:             context.Background(),
			expectedTask:    constants.Startup,
			expectedSubtask: constants.SubtaskIDNone,
		},
		{
			name:            "context with request information",
			ctx:             WithEventContext(context.Background(), constants.Serve, "0b1c"),
			expectedTask:    constants.Serve,
			expectedSubtask: "0b1c",
		},
	}
	for _, test := range tests {
		testutil.Run(t, test.name, func(t *testutil.T) {
			entry := Entry(test.ctx)

			t.CheckDeepEqual(test.expectedTask, entry.Data["task"])
			t.CheckDeepEqual(test.expectedSubtask, entry.Data["subtask"])
		})
	}
}

func TestSetupLogs(t *testing.T) {
	tests := []struct {
		description string
		level       string
		debug       bool
		expected    logrus.Level
		shouldErr   bool
	}{
		{
			description: "default level",
			level:       "warning",
			expected:    logrus.WarnLevel,
		},
		{
			description: "debug overrides level",
			level:       "error",
			debug:       true,
			expected:    logrus.DebugLevel,
		},
		{
			description: "invalid level",
			level:       "loud",
			shouldErr:   true,
		},
	}
	for _, test := range tests {
		testutil.Run(t, test.description, func(t *testutil.T) {
			prevLevel := logrus.GetLevel()
			t.Cleanup(func() {
				logrus.SetLevel(prevLevel)
				logrus.SetOutput(os.Stderr)
			})

			var out bytes.Buffer
			err := SetupLogs(&out, test.level, test.debug)

			t.CheckError(test.shouldErr, err)
			if !test.shouldErr {
				t.CheckDeepEqual(test.expected, logrus.GetLevel())
			}
		})
	}
}
