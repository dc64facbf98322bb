package cache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
}

// Instrumented counts lookups of the wrapped store by result
// (hit, miss, error) under the given backend label.
type Instrumented struct {
	next    Store
	backend string
	results *prometheus.CounterVec
}

func WithMetrics(next Store, backend string, results *prometheus.CounterVec) *Instrumented {
	return &Instrumented{next: next, backend: backend, results: results}
}

func (i *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok, err := i.next.Get(ctx, key)

	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case ok:
		result = "hit"
	}
	i.results.WithLabelValues(i.backend, result).Inc()

	return b, ok, err
}

func (i *Instrumented) Set(ctx context.Context, key string, val []byte) error {
	return i.next.Set(ctx, key, val)
}
