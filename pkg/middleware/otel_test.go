package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/devconsole/liststate/pkg/liststate"
)

// recordingProvider hands out a tracer that keeps every span it starts.
type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{tracer: &recordingTracer{}}
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

type recordingTracer struct {
	noop.Tracer
	mu    sync.Mutex
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordingSpan{name: name, kind: cfg.SpanKind(), attrs: cfg.Attributes()}
	t.mu.Lock()
	t.spans = append(t.spans, s)
	t.mu.Unlock()
	return trace.ContextWithSpan(ctx, s), s
}

func (t *recordingTracer) Spans() []*recordingSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*recordingSpan(nil), t.spans...)
}

type recordingSpan struct {
	noop.Span
	name   string
	kind   trace.SpanKind
	attrs  []attribute.KeyValue
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordingSpan) End(...trace.SpanEndOption)                    { s.ended = true }
func (s *recordingSpan) SetName(name string)                           { s.name = name }
func (s *recordingSpan) SetStatus(code codes.Code, _ string)           { s.status = code }
func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue)        { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }

func (s *recordingSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetryConfig(t *testing.T) {
	config := defaultOTelConfig()
	if config.TracerName != "liststate" {
		t.Errorf("TracerName = %q, want %q", config.TracerName, "liststate")
	}
	if config.TraceReads {
		t.Error("TraceReads should default to false")
	}

	// Global provider without an SDK yields no-op spans.
	tr := OpenTelemetry(WithTracerName(""))
	tr.BeginWrite(liststate.Devices, "/devices")(nil)
	if tr.config.TracerName != defaultTracerName {
		t.Errorf("empty tracer name should fall back to %q", defaultTracerName)
	}
}

func TestOpenTelemetry_WriteSpan(t *testing.T) {
	tp := newRecordingProvider()
	tr := OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(k liststate.Kind, target string) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)

	done := tr.BeginWrite(liststate.Releases, "/releases/rel-42")
	spans := tp.tracer.Spans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.ended {
		t.Fatal("span ended before navigation finished")
	}
	done(nil)

	if !span.ended {
		t.Fatal("expected span to be ended")
	}
	if span.name != "liststate.write releases" {
		t.Errorf("name = %q", span.name)
	}
	if span.status != codes.Ok {
		t.Errorf("status = %v, want Ok", span.status)
	}
	if v, ok := span.attr("liststate.target"); !ok || v.AsString() != "/releases/rel-42" {
		t.Errorf("liststate.target = %v", v.AsString())
	}
	if _, ok := span.attr("test.attr"); !ok {
		t.Error("expected custom attribute")
	}
}

func TestOpenTelemetry_WriteError(t *testing.T) {
	tp := newRecordingProvider()
	tr := OpenTelemetry(WithTracerProvider(tp))

	wantErr := errors.New("boom")
	tr.BeginWrite(liststate.Devices, "/devices")(wantErr)

	span := tp.tracer.Spans()[0]
	if span.status != codes.Error {
		t.Errorf("status = %v, want Error", span.status)
	}
	if len(span.errs) != 1 || !errors.Is(span.errs[0], wantErr) {
		t.Errorf("recorded errors = %v", span.errs)
	}
}

func TestOpenTelemetry_Filter(t *testing.T) {
	tp := newRecordingProvider()
	tr := OpenTelemetry(
		WithTracerProvider(tp),
		WithTraceReads(true),
		WithResourceFilter(func(k liststate.Kind) bool { return k != liststate.Generic }),
	)

	tr.BeginWrite(liststate.Generic, "/")(nil)
	tr.ObserveRead(liststate.Generic, false)
	if n := len(tp.tracer.Spans()); n != 0 {
		t.Fatalf("spans = %d, want 0 for filtered resource", n)
	}

	tr.ObserveRead(liststate.Tenants, true)
	spans := tp.tracer.Spans()
	if len(spans) != 1 || !spans[0].ended {
		t.Fatalf("expected one ended read span, got %d", len(spans))
	}
	if v, _ := spans[0].attr("liststate.cached"); !v.AsBool() {
		t.Error("liststate.cached = false, want true")
	}
}

func TestOpenTelemetry_ReadsNotTracedByDefault(t *testing.T) {
	tp := newRecordingProvider()
	tr := OpenTelemetry(WithTracerProvider(tp))

	tr.ObserveRead(liststate.Devices, false)
	if n := len(tp.tracer.Spans()); n != 0 {
		t.Fatalf("spans = %d, want 0", n)
	}
}

func TestOpenTelemetry_Handler(t *testing.T) {
	tp := newRecordingProvider()
	tr := OpenTelemetry(WithTracerProvider(tp))

	r := chi.NewRouter()
	r.Use(tr.Handler)
	r.Get("/liststate/{resource}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := trace.SpanFromContext(r.Context()).(*recordingSpan); !ok {
			t.Error("expected request context to carry the server span")
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/liststate/devices", nil))

	spans := tp.tracer.Spans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.kind != trace.SpanKindServer {
		t.Errorf("kind = %v, want server", span.kind)
	}
	if span.name != "liststate GET /liststate/{resource}" {
		t.Errorf("name = %q", span.name)
	}
	if span.status != codes.Error {
		t.Errorf("status = %v, want Error", span.status)
	}
	if v, _ := span.attr("http.status_code"); v.AsInt64() != 500 {
		t.Errorf("http.status_code = %d, want 500", v.AsInt64())
	}
}
