// Package warmup keeps the cached first page of each configured city fresh so
// API replicas rarely build it on the request path.
package warmup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Refresher interface {
	RefreshInitial(ctx context.Context, city string) error
}

// Observer receives one call per refresh attempt.
type Observer interface {
	ObserveWarmup(city string, d time.Duration, err error)
}

type Config struct {
	Cities   []string
	Interval time.Duration
	// per-city deadline for one refresh
	Timeout time.Duration
}

type Warmer struct {
	cfg Config
	svc Refresher
	log *slog.Logger
	obs Observer

	readyMu sync.RWMutex
	ready   bool

	// consecutive failures and earliest retry per city
	failures map[string]int
	retryAt  map[string]time.Time

	now     func() time.Time
	backoff func(attempt int) time.Duration
}

func New(cfg Config, svc Refresher, log *slog.Logger, obs Observer) *Warmer {
	if cfg.Interval <= 0 {
		cfg.Interval = 20 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	return &Warmer{
		cfg:      cfg,
		svc:      svc,
		log:      log,
		obs:      obs,
		failures: make(map[string]int),
		retryAt:  make(map[string]time.Time),
		now:      time.Now,
		backoff:  ExponentialBackoff,
	}
}

// Run refreshes every city immediately and then once per interval until ctx
// is cancelled.
func (w *Warmer) Run(ctx context.Context) error {
	if len(w.cfg.Cities) == 0 {
		return errors.New("warmup: no cities configured")
	}

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.log.Info("warmer started", "cities", w.cfg.Cities, "interval", w.cfg.Interval.String())

	w.RunOnce(ctx)
	w.setReady(true)

	for {
		select {
		case <-ctx.Done():
			w.setReady(false)
			w.log.Info("warmer received shutdown signal")
			return nil

		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce refreshes each city that is not waiting out a backoff and returns
// the joined failures of this pass.
func (w *Warmer) RunOnce(ctx context.Context) error {
	var errs []error

	for _, city := range w.cfg.Cities {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		now := w.now()
		if until, ok := w.retryAt[city]; ok && now.Before(until) {
			w.log.Debug("city in backoff", "city", city, "retry_at", until)
			continue
		}

		err := w.refresh(ctx, city)
		if err == nil {
			if w.failures[city] > 0 {
				w.log.Info("city recovered", "city", city, "after_failures", w.failures[city])
			}
			delete(w.failures, city)
			delete(w.retryAt, city)
			continue
		}

		delay := w.backoff(w.failures[city])
		w.failures[city]++
		w.retryAt[city] = now.Add(delay)

		w.log.Warn("refresh failed",
			"city", city,
			"attempt", w.failures[city],
			"retry_in", delay.String(),
			"err", err,
		)
		errs = append(errs, fmt.Errorf("%s: %w", city, err))
	}

	return errors.Join(errs...)
}

func (w *Warmer) refresh(ctx context.Context, city string) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	start := w.now()
	err := w.svc.RefreshInitial(ctx, city)

	if w.obs != nil {
		w.obs.ObserveWarmup(city, w.now().Sub(start), err)
	}
	return err
}

func (w *Warmer) setReady(v bool) {
	w.readyMu.Lock()
	w.ready = v
	w.readyMu.Unlock()
}
