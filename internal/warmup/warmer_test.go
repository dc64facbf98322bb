package warmup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeRefresher struct {
	mu    sync.Mutex
	fail  map[string]error
	calls map[string]int
}

func (f *fakeRefresher) RefreshInitial(ctx context.Context, city string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[city]++
	return f.fail[city]
}

func (f *fakeRefresher) count(city string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[city]
}

type recordingObserver struct {
	results []string
}

func (o *recordingObserver) ObserveWarmup(city string, d time.Duration, err error) {
	res := "ok"
	if err != nil {
		res = "error"
	}
	o.results = append(o.results, city+":"+res)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce_BackoffPerCity(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	svc := &fakeRefresher{fail: map[string]error{"Казань": errors.New("db down")}}
	obs := &recordingObserver{}

	w := New(Config{Cities: []string{"Москва", "Казань"}}, svc, quietLogger(), obs)
	w.now = func() time.Time { return now }
	w.backoff = func(attempt int) time.Duration { return time.Duration(attempt+1) * 10 * time.Second }

	if err := w.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected the failing city to be reported")
	}
	if w.failures["Казань"] != 1 || !w.retryAt["Казань"].Equal(now.Add(10*time.Second)) {
		t.Fatalf("unexpected backoff state %v %v", w.failures, w.retryAt)
	}

	// still inside the backoff: only Москва is refreshed
	now = now.Add(5 * time.Second)
	if err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if svc.count("Москва") != 2 || svc.count("Казань") != 1 {
		t.Fatalf("calls %v", svc.calls)
	}

	// backoff over, fails again and waits longer
	now = now.Add(10 * time.Second)
	_ = w.RunOnce(context.Background())
	if w.failures["Казань"] != 2 || !w.retryAt["Казань"].Equal(now.Add(20*time.Second)) {
		t.Fatalf("second failure should double the wait: %v", w.retryAt["Казань"])
	}

	// recovery clears the state
	svc.mu.Lock()
	svc.fail = nil
	svc.mu.Unlock()
	now = now.Add(time.Minute)
	if err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("recovered pass: %v", err)
	}
	if _, ok := w.failures["Казань"]; ok {
		t.Fatalf("failures not cleared after recovery")
	}

	want := []string{"Москва:ok", "Казань:error", "Москва:ok", "Москва:ok", "Казань:error", "Москва:ok", "Казань:ok"}
	if len(obs.results) != len(want) {
		t.Fatalf("observed %v, want %v", obs.results, want)
	}
	for i := range want {
		if obs.results[i] != want[i] {
			t.Fatalf("observed %v, want %v", obs.results, want)
		}
	}
}

func TestRun_ReadinessFollowsLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeRefresher{}
	w := New(Config{Cities: []string{"Москва"}, Interval: time.Hour}, svc, quietLogger(), nil)
	h := w.HealthHandler(nil)

	ready := func() int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		return rec.Code
	}

	if code := ready(); code != http.StatusServiceUnavailable {
		t.Fatalf("before run: got %d", code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for ready() != http.StatusOK {
		if time.Now().After(deadline) {
			t.Fatalf("warmer never became ready")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if svc.count("Москва") != 1 {
		t.Fatalf("first pass should run immediately, calls=%d", svc.count("Москва"))
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	if code := ready(); code != http.StatusServiceUnavailable {
		t.Fatalf("after shutdown: got %d", code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: got %d", rec.Code)
	}
}

func TestRun_NoCities(t *testing.T) {
	w := New(Config{}, &fakeRefresher{}, quietLogger(), nil)
	if err := w.Run(context.Background()); err == nil {
		t.Fatalf("expected an error without cities")
	}
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		min     time.Duration
	}{
		{0, 2 * time.Second},
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{20, 5 * time.Minute},
	}
	for _, tt := range tests {
		got := ExponentialBackoff(tt.attempt)
		if got < tt.min || got >= tt.min+250*time.Millisecond {
			t.Fatalf("attempt %d: got %v, want [%v, %v)", tt.attempt, got, tt.min, tt.min+250*time.Millisecond)
		}
	}
}
