// Package observability configures process-wide logging and tracing.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ScopeName is the instrumentation scope used for bridged slog records.
const ScopeName = "github.com/florianilch/optsync"

// Exporter names accepted by Instrument.
const (
	ExporterNone     = "none"
	ExporterStdout   = "stdout"
	ExporterOTLPHTTP = "otlp-http"
	ExporterOTLPGRPC = "otlp-grpc"
)

// ServiceName is reported as the service.name resource attribute on exported spans.
const ServiceName = "optsync"

// ShutdownFunc flushes and releases logging and tracing resources.
type ShutdownFunc func(context.Context) error

// Instrument installs the default slog logger and, for every exporter but "none", the
// global TracerProvider.
//
// With exporter "none" (or empty) records are written to stderr as text or JSON and no
// spans are recorded. Otherwise slog is bridged to an OpenTelemetry LoggerProvider that
// drops records below level, and spans are batched to the same kind of exporter. OTLP
// endpoints are taken from the standard OTEL_EXPORTER_OTLP_* environment variables.
func Instrument(ctx context.Context, level slog.Level, format, exporter string) (ShutdownFunc, error) {
	if exporter == "" || exporter == ExporterNone {
		handler, err := newHandler(os.Stderr, level, format)
		if err != nil {
			return nil, err
		}
		slog.SetDefault(slog.New(handler))
		return func(context.Context) error { return nil }, nil
	}

	logExp, err := newExporter(ctx, exporter)
	if err != nil {
		return nil, err
	}
	spanExp, err := newSpanExporter(ctx, exporter)
	if err != nil {
		_ = logExp.Shutdown(ctx)
		return nil, err
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(logExp), severity(level))
	logProvider := sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))
	global.SetLoggerProvider(logProvider)

	slog.SetDefault(slog.New(otelslog.NewHandler(ScopeName, otelslog.WithLoggerProvider(logProvider))))

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func(ctx context.Context) error {
		// Spans first, their export may still log.
		return errors.Join(tracerProvider.Shutdown(ctx), logProvider.Shutdown(ctx))
	}, nil
}

func newHandler(w io.Writer, level slog.Level, format string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

func newExporter(ctx context.Context, exporter string) (sdklog.Exporter, error) {
	switch exporter {
	case ExporterStdout:
		return stdoutlog.New(stdoutlog.WithWriter(os.Stderr))
	case ExporterOTLPHTTP:
		return otlploghttp.New(ctx)
	case ExporterOTLPGRPC:
		return otlploggrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported log exporter: %s", exporter)
	}
}

func newSpanExporter(ctx context.Context, exporter string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	case ExporterOTLPHTTP:
		return otlptracehttp.New(ctx)
	case ExporterOTLPGRPC:
		return otlptracegrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", exporter)
	}
}

// severity maps a slog level to the closest OpenTelemetry minimum severity.
func severity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
