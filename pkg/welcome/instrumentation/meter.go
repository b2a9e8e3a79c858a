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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/output/log"
)

const (
	metricsEnvVar = constants.EnvVarPrefix + "EXPORT_METRICS"

	requestsMetric = "welcome.requests"
	durationMetric = "welcome.request.duration"
)

type requestMeter struct {
	provider *sdkmetric.MeterProvider
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

var (
	meterMu sync.Mutex
	meter   *requestMeter
)

// InitMeterFromEnvVar installs a meter provider exporting request metrics when
// WELCOME_EXPORT_METRICS is set. Supported exporters are "stdout", written to w
// (stdout when nil), and "gcp" (Cloud Monitoring). The returned function flushes
// and stops the exporter.
func InitMeterFromEnvVar(w io.Writer) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	exporterName, found := os.LookupEnv(metricsEnvVar)
	if !found {
		return noop, nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch exporterName {
	case "stdout":
		if w == nil {
			w = os.Stdout
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		exporter, err = stdoutmetric.New(stdoutmetric.WithEncoder(enc))
	case "gcp":
		exporter, err = newGCPMetricExporter(os.Getenv(gcpProjectEnvVar))
	default:
		return noop, fmt.Errorf("unsupported %s value %q, expected one of: stdout, gcp", metricsEnvVar, exporterName)
	}
	if err != nil {
		return noop, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	if err := setMeterProvider(provider); err != nil {
		return noop, err
	}
	return MeterShutdown, nil
}

var newGCPMetricExporter = func(projectID string) (sdkmetric.Exporter, error) {
	opts := []mexporter.Option{
		mexporter.WithMetricDescriptorTypeFormatter(func(m metricdata.Metrics) string {
			return fmt.Sprintf("custom.googleapis.com/%s/%s", constants.AppName, m.Name)
		}),
	}
	if projectID != "" {
		opts = append(opts, mexporter.WithProjectID(projectID))
	}
	exporter, err := mexporter.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Cloud Monitoring exporter: %w", err)
	}
	return exporter, nil
}

func setMeterProvider(provider *sdkmetric.MeterProvider) error {
	m := provider.Meter(constants.AppName)

	requests, err := m.Int64Counter(requestsMetric, metric.WithDescription("Requests served"))
	if err != nil {
		return err
	}
	duration, err := m.Float64Histogram(durationMetric,
		metric.WithDescription("Request durations in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return err
	}

	meterMu.Lock()
	defer meterMu.Unlock()
	meter = &requestMeter{
		provider: provider,
		requests: requests,
		duration: duration,
	}
	return nil
}

// MeterShutdown flushes pending metrics and disables recording.
func MeterShutdown(ctx context.Context) error {
	meterMu.Lock()
	m := meter
	meter = nil
	meterMu.Unlock()

	if m == nil {
		return nil
	}
	log.Entry(ctx).Debug("exporting metrics")
	return m.provider.Shutdown(ctx)
}

// RecordRequest records one served request. It is a no-op when metrics are disabled.
func RecordRequest(ctx context.Context, method string, status int, d time.Duration) {
	meterMu.Lock()
	m := meter
	meterMu.Unlock()

	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}
