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

package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/GoogleContainerTools/welcome/testutil"
)

func TestRecordRequest(t *testing.T) {
	testutil.Run(t, "", func(t *testutil.T) {
		reader := sdkmetric.NewManualReader()
		t.RequireNoError(setMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))))
		defer MeterShutdown(context.Background())

		ctx := context.Background()
		RecordRequest(ctx, http.MethodGet, http.StatusOK, 2*time.Millisecond)
		RecordRequest(ctx, http.MethodGet, http.StatusOK, 3*time.Millisecond)
		RecordRequest(ctx, http.MethodGet, http.StatusNotFound, time.Millisecond)

		var rm metricdata.ResourceMetrics
		t.RequireNoError(reader.Collect(ctx, &rm))

		counts := map[string]int64{}
		var histogramCount uint64
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				switch data := m.Data.(type) {
				case metricdata.Sum[int64]:
					t.CheckDeepEqual(requestsMetric, m.Name)
					for _, dp := range data.DataPoints {
						status, _ := dp.Attributes.Value("status")
						counts[status.AsString()] += dp.Value
					}
				case metricdata.Histogram[float64]:
					t.CheckDeepEqual(durationMetric, m.Name)
					for _, dp := range data.DataPoints {
						histogramCount += dp.Count
					}
				}
			}
		}

		t.CheckDeepEqual(map[string]int64{"200": 2, "404": 1}, counts)
		t.CheckDeepEqual(uint64(3), histogramCount)
	})
}

func TestRecordRequestDisabled(t *testing.T) {
	testutil.Run(t, "", func(t *testutil.T) {
		t.CheckNoError(MeterShutdown(context.Background()))

		// must not panic without a provider
		RecordRequest(context.Background(), http.MethodGet, http.StatusOK, time.Millisecond)
	})
}

func TestInitMeterFromEnvVar(t *testing.T) {
	tests := []struct {
		description string
		envValue    string
		unset       bool
		shouldErr   bool
		exported    bool
	}{
		{
			description: "disabled",
			unset:       true,
		},
		{
			description: "stdout exporter",
			envValue:    "stdout",
			exported:    true,
		},
		{
			description: "unsupported exporter",
			envValue:    "prometheus",
			shouldErr:   true,
		},
	}
	for _, test := range tests {
		testutil.Run(t, test.description, func(t *testutil.T) {
			if test.unset {
				t.UnsetEnv(metricsEnvVar)
			} else {
				t.Setenv(metricsEnvVar, test.envValue)
			}

			var out bytes.Buffer
			shutdown, err := InitMeterFromEnvVar(&out)
			t.CheckError(test.shouldErr, err)

			RecordRequest(context.Background(), http.MethodGet, http.StatusOK, time.Millisecond)
			t.CheckNoError(shutdown(context.Background()))

			if test.exported {
				t.CheckContains(requestsMetric, out.String())
			} else {
				t.CheckEmpty(out.String())
			}
		})
	}
}

func TestInitMeterFromEnvVarGCP(t *testing.T) {
	testutil.Run(t, "", func(t *testutil.T) {
		t.Setenv(metricsEnvVar, "gcp")
		t.Setenv(gcpProjectEnvVar, "my-project")

		var b bytes.Buffer
		var projectID string
		t.Override(&newGCPMetricExporter, func(p string) (sdkmetric.Exporter, error) {
			projectID = p
			exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(&b))
			return exporter, err
		})

		shutdown, err := InitMeterFromEnvVar(io.Discard)
		t.CheckNoError(err)

		RecordRequest(context.Background(), http.MethodPost, http.StatusMethodNotAllowed, time.Millisecond)
		t.CheckNoError(shutdown(context.Background()))

		t.CheckDeepEqual("my-project", projectID)
		t.CheckContains(requestsMetric, b.String())
	})
}

func TestInitMeterFromEnvVarGCPFailure(t *testing.T) {
	testutil.Run(t, "", func(t *testutil.T) {
		t.Setenv(metricsEnvVar, "gcp")
		t.Override(&newGCPMetricExporter, func(string) (sdkmetric.Exporter, error) {
			return nil, errors.New("no credentials")
		})

		shutdown, err := InitMeterFromEnvVar(io.Discard)

		t.CheckErrorContains("no credentials", err)
		t.CheckNoError(shutdown(context.Background()))
	})
}
