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
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"sync"

	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/output/log"
)

const (
	traceEnvVar      = constants.EnvVarPrefix + "TRACE"
	gcpProjectEnvVar = constants.EnvVarPrefix + "GCP_PROJECT"
)

var traceEnabled bool
var traceInitOnce sync.Once

var tracerProvider trace.TracerProvider
var tracerShutdown func(context.Context) error = func(context.Context) error { return nil }
var tracerInitErr error

type traceExporterConfig struct {
	writer io.Writer
}

// TraceExporterOption configures the exporter created by InitTraceFromEnvVar.
type TraceExporterOption func(te *traceExporterConfig)

// WithWriter sends exported spans to w instead of stdout.
func WithWriter(w io.Writer) TraceExporterOption {
	return func(te *traceExporterConfig) {
		te.writer = w
	}
}

// InitTraceFromEnvVar sets up the global tracer provider when WELCOME_TRACE is set.
// Supported exporters are "stdout" and "gcp" (Cloud Trace, project from
// WELCOME_GCP_PROJECT or the default credentials). The returned shutdown function
// flushes pending spans and must be called before the process exits.
func InitTraceFromEnvVar(opts ...TraceExporterOption) (trace.TracerProvider, func(context.Context) error, error) {
	traceInitOnce.Do(func() {
		exporterName, found := os.LookupEnv(traceEnvVar)
		if !found {
			return
		}
		tp, shutdown, err := initTraceExporter(exporterName, opts...)
		tracerInitErr = err
		if err == nil {
			traceEnabled = true
			otel.SetTracerProvider(tp)
			tracerProvider = tp
			tracerShutdown = shutdown
		}
	})
	if tracerInitErr != nil {
		log.Entry(context.TODO()).Debugf("error initializing tracing: %v", tracerInitErr)
	}
	return tracerProvider, tracerShutdown, tracerInitErr
}

func initTraceExporter(exporterName string, opts ...TraceExporterOption) (trace.TracerProvider, func(context.Context) error, error) {
	te := traceExporterConfig{writer: os.Stdout}
	for _, opt := range opts {
		opt(&te)
	}

	switch exporterName {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(te.writer))
		if err != nil {
			return nil, nil, err
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		return tp, tp.Shutdown, nil
	case "gcp":
		exporter, err := newGCPTraceExporter(os.Getenv(gcpProjectEnvVar))
		if err != nil {
			return nil, nil, err
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
		return tp, tp.Shutdown, nil
	default:
		return nil, nil, fmt.Errorf("unsupported %s value %q, expected one of: stdout, gcp", traceEnvVar, exporterName)
	}
}

var newGCPTraceExporter = func(projectID string) (sdktrace.SpanExporter, error) {
	var opts []texporter.Option
	if projectID != "" {
		opts = append(opts, texporter.WithProjectID(projectID))
	}
	exporter, err := texporter.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Cloud Trace exporter: %w", err)
	}
	return exporter, nil
}

// TracerShutdown flushes all finished spans and resets the tracer so it can be initialized again.
func TracerShutdown(ctx context.Context) error {
	shutdown := tracerShutdown
	traceInitOnce = sync.Once{}
	traceEnabled = false
	tracerProvider = nil
	tracerInitErr = nil
	tracerShutdown = func(context.Context) error { return nil }
	return shutdown(ctx)
}

// StartTrace starts a span named name when tracing is enabled. Callers should use the
// returned context for nested spans and call the returned function to end the span.
func StartTrace(ctx context.Context, name string, attributes ...map[string]string) (context.Context, func(options ...trace.SpanEndOption)) {
	if !traceEnabled {
		return ctx, func(options ...trace.SpanEndOption) {}
	}
	_, file, ln, _ := runtime.Caller(1)
	ctx, span := otel.Tracer(file).Start(ctx, name)
	for _, attrs := range attributes {
		for k, v := range attrs {
			span.SetAttributes(attribute.Key(k).String(v))
		}
	}
	span.SetAttributes(attribute.Key("source_file").String(fmt.Sprintf("%s:%d", file, ln)))
	return ctx, span.End
}

// TraceHandler wraps h so that each request is recorded as a span.
// It returns h unchanged when tracing is disabled.
func TraceHandler(h http.Handler, operation string) http.Handler {
	if !traceEnabled {
		return h
	}
	return otelhttp.NewHandler(h, operation, otelhttp.WithTracerProvider(tracerProvider))
}
