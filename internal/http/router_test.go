package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/kidsafisha/internal/cache"
	"github.com/geocoder89/kidsafisha/internal/catalog"
	"github.com/geocoder89/kidsafisha/internal/config"
	"github.com/geocoder89/kidsafisha/internal/domain/event"
	apphttp "github.com/geocoder89/kidsafisha/internal/http"
	"github.com/geocoder89/kidsafisha/internal/observability"
	"github.com/geocoder89/kidsafisha/internal/repo/memory"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func testConfig() config.Config {
	return config.Config{
		Env:                "test",
		ServiceName:        "kidsafisha-test",
		TimeZone:           "UTC",
		AllowedOrigins:     []string{"https://afisha.example"},
		RateLimitPerMinute: 1000,
	}
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewEventsRepo()
	// seeded from tomorrow so every demo event is still upcoming
	memory.SeedDemo(repo, "Москва", time.Now().UTC().AddDate(0, 0, 1))

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	svc := catalog.NewService(repo, repo, catalog.DefaultConfig(),
		catalog.WithCache(cache.WithMetrics(cache.New(time.Minute), "memory", prom.CacheResults)),
		catalog.WithLogger(logger),
	)

	return apphttp.NewRouter(logger, testConfig(), apphttp.Deps{
		Events:   svc,
		Prom:     prom,
		Gatherer: reg,
	})
}

func get(r http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_InitialThenLoadMore(t *testing.T) {
	r := setupTestRouter(t)
	city := url.QueryEscape("Москва")

	w := get(r, "/events/initial?city="+city, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("initial: status %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing request id header")
	}

	var initial catalog.InitialPage
	if err := json.Unmarshal(w.Body.Bytes(), &initial); err != nil {
		t.Fatalf("decode initial: %v", err)
	}
	if len(initial.Events) != 8 || initial.NextOffset != 8 || !initial.HasMore {
		t.Fatalf("unexpected initial page: %d events, next=%d more=%v", len(initial.Events), initial.NextOffset, initial.HasMore)
	}
	if initial.Promo == nil || len(initial.Promo.Events) == 0 {
		t.Fatalf("expected a promo slot, got %+v", initial.Promo)
	}
	if len(initial.Categories) == 0 || initial.Categories[0].EventsLabel == "" {
		t.Fatalf("categories must carry labels: %+v", initial.Categories)
	}

	w = get(r, "/events/load-more?city="+city+"&offset=8&limit=6", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("load-more: status %d body=%s", w.Code, w.Body.String())
	}

	var page catalog.Page
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Events) != 2 || page.HasMore || page.NextOffset != 14 {
		t.Fatalf("unexpected page: %d events more=%v next=%d", len(page.Events), page.HasMore, page.NextOffset)
	}

	seen := map[string]bool{}
	for _, e := range initial.Events {
		seen[e.ID] = true
	}
	for _, e := range page.Events {
		if seen[e.ID] {
			t.Fatalf("event %s repeated across pages", e.ID)
		}
	}
}

func TestRouter_LoadMoreFilters(t *testing.T) {
	r := setupTestRouter(t)
	city := url.QueryEscape("Москва")

	w := get(r, "/events/load-more?city="+city+"&price=free&limit=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}

	var page struct {
		Events  []event.Event  `json:"events"`
		Applied map[string]any `json:"applied"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Events) == 0 {
		t.Fatalf("demo data has free events")
	}
	for _, e := range page.Events {
		if e.IsPaid {
			t.Fatalf("paid event %s in free listing", e.ID)
		}
	}
	if page.Applied["price"] != "free" {
		t.Fatalf("applied filters not echoed: %v", page.Applied)
	}

	w = get(r, "/events/load-more?city="+city+"&categories=theatre&age=0-3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, e := range page.Events {
		if e.Category != "theatre" {
			t.Fatalf("category filter leaked %s (%s)", e.ID, e.Category)
		}
	}
}

func TestRouter_Errors(t *testing.T) {
	r := setupTestRouter(t)

	w := get(r, "/events/load-more?limit=5", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing city: got %d", w.Code)
	}

	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "invalid_request" || body.Error.RequestID != w.Header().Get("X-Request-Id") {
		t.Fatalf("unexpected error body %s", w.Body.String())
	}
}

func TestRouter_ConditionalGetAndHeaders(t *testing.T) {
	r := setupTestRouter(t)
	target := "/events/load-more?city=" + url.QueryEscape("Москва")

	w := get(r, target, map[string]string{"Origin": "https://afisha.example"})
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://afisha.example" {
		t.Fatalf("CORS header missing for an allowed origin")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("security headers missing")
	}

	w = get(r, target, map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusNotModified {
		t.Fatalf("got %d, want 304", w.Code)
	}

	w = get(r, target, map[string]string{"Origin": "https://evil.example"})
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unknown origin must not be allowed")
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := setupTestRouter(t)

	if w := get(r, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz: %d", w.Code)
	}
	if w := get(r, "/readyz", nil); w.Code != http.StatusOK {
		t.Fatalf("readyz: %d", w.Code)
	}

	get(r, "/events/initial?city="+url.QueryEscape("Москва"), nil)

	w := get(r, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{"afisha_http_requests_total", "afisha_cache_lookups_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics output lacks %s", name)
		}
	}
}
