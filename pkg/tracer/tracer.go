package tracer

import (
	"context"
	"sync"

	"github.com/astro-web3/album-api/pkg/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	//nolint:gochecknoglobals // process-wide tracer
	defaultTracer trace.Tracer
	//nolint:gochecknoglobals // guards InitTracer
	initOnce sync.Once
	//nolint:gochecknoglobals // result of the first InitTracer call
	errInit error
	//nolint:gochecknoglobals // used until InitTracer succeeds
	noopTracer = noop.NewTracerProvider().Tracer("noop")
)

// InitTracer installs the process tracer. Only the first call has an effect.
func InitTracer(serviceName string, cfg otel.Config) error {
	initOnce.Do(func() {
		if serviceName != "" {
			cfg.ServiceName = serviceName
		}
		t, err := otel.InitTracer(cfg)
		if err != nil {
			errInit = err
			return
		}

		defaultTracer = t
	})

	return errInit
}

func Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if defaultTracer == nil {
		return noopTracer.Start(ctx, spanName, opts...)
	}
	return defaultTracer.Start(ctx, spanName, opts...)
}

// Fail records err on span and marks it as failed.
func Fail(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
