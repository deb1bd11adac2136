package middleware

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/devconsole/liststate/pkg/liststate"
)

// Default tracer name.
const defaultTracerName = "liststate"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "liststate").
	TracerName string

	// Provider is the tracer provider. If nil, the global provider is used.
	Provider trace.TracerProvider

	// TraceReads emits a short span for every read. Disabled by default.
	TraceReads bool

	// Filter determines which resources to trace.
	// If nil, all resources are traced.
	Filter func(k liststate.Kind) bool

	// AttributeExtractor adds custom attributes to write spans.
	AttributeExtractor func(k liststate.Kind, target string) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.Provider = tp
	}
}

// WithTraceReads enables spans for reads.
func WithTraceReads(enabled bool) OTelOption {
	return func(c *OTelConfig) {
		c.TraceReads = enabled
	}
}

// WithResourceFilter sets a filter function for resources.
func WithResourceFilter(filter func(k liststate.Kind) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(k liststate.Kind, target string) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{TracerName: defaultTracerName}
}

// Tracing traces list-state writes. It implements listsync.Observer.
type Tracing struct {
	config OTelConfig
}

// OpenTelemetry creates an observer that starts a span for every write and
// ends it with the navigation result.
//
// Example:
//
//	f := listsync.New(nav, listsync.WithObserver(
//	    middleware.OpenTelemetry(middleware.WithTracerName("console")),
//	))
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main():
//
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) *Tracing {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerName == "" {
		config.TracerName = defaultTracerName
	}
	if config.Provider != nil {
		config.tracer = config.Provider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}
	return &Tracing{config: config}
}

func (t *Tracing) traced(k liststate.Kind) bool {
	return t.config.Filter == nil || t.config.Filter(k)
}

// ObserveRead emits a read span when WithTraceReads is enabled.
func (t *Tracing) ObserveRead(k liststate.Kind, cached bool) {
	if !t.config.TraceReads || !t.traced(k) {
		return
	}
	_, span := t.config.tracer.Start(context.Background(), "liststate.read "+k.String(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("liststate.resource", k.String()),
			attribute.Bool("liststate.cached", cached),
		),
	)
	span.End()
}

// BeginWrite starts a write span. Writes are synchronous calls without a
// context, so the span is a root unless the navigator links it.
func (t *Tracing) BeginWrite(k liststate.Kind, target string) func(error) {
	if !t.traced(k) {
		return func(error) {}
	}

	attrs := []attribute.KeyValue{
		attribute.String("liststate.resource", k.String()),
		attribute.String("liststate.target", target),
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(k, target)...)
	}

	_, span := t.config.tracer.Start(context.Background(), "liststate.write "+k.String(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)
	return func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// Handler starts a server span per HTTP request. Downstream handlers reach
// it with trace.SpanFromContext(r.Context()). Install it with chi's Use so
// the route pattern is known when the span ends.
func (t *Tracing) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := t.config.tracer.Start(r.Context(), "liststate "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		route := routePattern(r)
		span.SetName("liststate " + r.Method + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", rec.status),
		)
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}
