package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/astro-web3/album-api/pkg/tracer"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTimeout = 5 * time.Second
	DefaultRetry   = 2
)

var (
	//nolint:gochecknoglobals // Global HTTP client is intentional for application-wide requests
	client *resty.Client
	//nolint:gochecknoglobals // Global once is intentional for thread-safe initialization
	once sync.Once
	//nolint:gochecknoglobals // Settings are applied once on first use
	settings = clientSettings{timeout: DefaultTimeout, retryCount: DefaultRetry}
	//nolint:gochecknoglobals // Guards settings before the client is built
	settingsMu sync.Mutex
)

type clientSettings struct {
	timeout    time.Duration
	retryCount int
}

// Configure overrides the timeout and retry count of the shared client.
// It only has an effect before the first request is issued.
func Configure(timeout time.Duration, retryCount int) {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	if timeout > 0 {
		settings.timeout = timeout
	}
	if retryCount >= 0 {
		settings.retryCount = retryCount
	}
}

func getClient() *resty.Client {
	once.Do(func() {
		settingsMu.Lock()
		s := settings
		settingsMu.Unlock()

		client = resty.New().
			SetTimeout(s.timeout).
			SetRetryCount(s.retryCount).
			SetHeader("Accept", "application/json")
	})
	return client
}

type RequestOption func(*resty.Request)

func WithHeader(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader(key, value)
	}
}

func Request(ctx context.Context, method, url string, opts ...RequestOption) (*resty.Response, error) {
	ctx, span := startClientSpan(ctx, "http.Request", method, url)
	defer span.End()

	request := getClient().R().SetContext(ctx)

	for _, opt := range opts {
		opt(request)
	}

	injectTracingHeaders(ctx, request)

	resp, err := request.Execute(method, url)

	recordSpan(span, resp, err)
	return resp, err
}

func Get(ctx context.Context, url string, opts ...RequestOption) (*resty.Response, error) {
	return Request(ctx, http.MethodGet, url, opts...)
}

func startClientSpan(
	ctx context.Context,
	spanName string,
	method string,
	url string,
) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", url),
	))
}

func recordSpan(span trace.Span, resp *resty.Response, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	if resp == nil {
		return
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.IsError() {
		span.SetStatus(codes.Error, resp.Status())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// injectTracingHeaders writes the active trace context into the request headers.
func injectTracingHeaders(ctx context.Context, request *resty.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(request.Header))
}
