package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLogger_StampsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(WithRequestID(context.Background(), "req-1"), "op")
	log.InfoContext(ctx, "hello", "city", "Москва")
	span.End()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("prod logs must be JSON: %v (%s)", err, buf.String())
	}
	if rec["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("trace_id = %v", rec["trace_id"])
	}
	if rec["span_id"] == nil || rec["city"] != "Москва" || rec["request_id"] != "req-1" {
		t.Fatalf("unexpected record %v", rec)
	}

	buf.Reset()
	log.Info("no span")
	if strings.Contains(buf.String(), "trace_id") {
		t.Fatalf("records without a span must not carry trace ids: %s", buf.String())
	}
}

func TestLogger_DevIsText(t *testing.T) {
	var buf bytes.Buffer
	newLogger("dev", &buf).Debug("visible in dev")

	if !strings.Contains(buf.String(), "visible in dev") {
		t.Fatalf("dev logger should emit debug records, got %q", buf.String())
	}
	if json.Valid(buf.Bytes()) {
		t.Fatalf("dev logger should not emit JSON")
	}
}

func TestObserveDB_ClassifiesErrors(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	_ = p.ObserveDB("events.list", func() error { return nil })
	_ = p.ObserveDB("events.list", func() error { return &pgconn.PgError{Code: "42P01"} })
	_ = p.ObserveDB("events.list", func() error { return context.Canceled })
	_ = p.ObserveDB("events.list", func() error { return errors.New("i/o timeout") })

	tests := map[string]float64{
		"undefined_table": 1,
		"canceled":        1,
		"timeout":         1,
	}
	for class, want := range tests {
		if got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("events.list", class)); got != want {
			t.Fatalf("class %s: got %v want %v", class, got, want)
		}
	}
}

func TestGinHandleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := NewProm(prometheus.NewRegistry())

	r := gin.New()
	r.Use(p.GinHandleMiddleware())
	r.GET("/events/initial", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/initial", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := testutil.ToFloat64(p.RequestsTotal.WithLabelValues("GET", "/events/initial", "200")); got != 3 {
		t.Fatalf("route counter = %v", got)
	}
	if got := testutil.ToFloat64(p.RequestsTotal.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Fatalf("unmatched counter = %v", got)
	}
}

func TestObserveWarmup(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	p.ObserveWarmup("Москва", 20*time.Millisecond, nil)
	p.ObserveWarmup("Москва", time.Second, errors.New("db down"))

	if got := testutil.ToFloat64(p.WarmupResults.WithLabelValues("Москва", "error")); got != 1 {
		t.Fatalf("error results = %v", got)
	}
	if got := testutil.ToFloat64(p.WarmupResults.WithLabelValues("Москва", "ok")); got != 1 {
		t.Fatalf("ok results = %v", got)
	}
}
