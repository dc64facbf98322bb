// Package bootstrap assembles the listing service from configuration. The API
// and the cache warmer share it so both read and write the same cache.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/kidsafisha/internal/cache"
	"github.com/geocoder89/kidsafisha/internal/catalog"
	"github.com/geocoder89/kidsafisha/internal/config"
	"github.com/geocoder89/kidsafisha/internal/db"
	"github.com/geocoder89/kidsafisha/internal/http/handlers"
	"github.com/geocoder89/kidsafisha/internal/observability"
	"github.com/geocoder89/kidsafisha/internal/redisclient"
	"github.com/geocoder89/kidsafisha/internal/repo/memory"
	"github.com/geocoder89/kidsafisha/internal/repo/postgres"
)

const demoCity = "Москва"

type Stack struct {
	Service *catalog.Service
	// readiness checks by dependency name
	Checks map[string]handlers.Check

	closers []func()
}

// Close releases pools and clients in reverse order of creation.
func (s *Stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Build connects the configured stores and cache. prom may be nil.
func Build(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (*Stack, error) {
	st := &Stack{Checks: map[string]handlers.Check{}}

	var (
		events   catalog.EventsStore
		catalogs catalog.CatalogStore
	)

	switch cfg.Store {
	case "memory":
		repo := memory.NewEventsRepo()
		cities := cfg.WarmCities
		if len(cities) == 0 {
			cities = []string{demoCity}
		}
		now := time.Now().In(cfg.Location())
		for _, city := range cities {
			memory.SeedDemo(repo, city, now)
		}
		log.Warn("serving in-memory demo data", "cities", cities)
		events, catalogs = repo, repo

	case "postgres", "":
		pool, err := db.NewPool(ctx, cfg.DBURL, int32(cfg.DBMaxConns))
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		st.closers = append(st.closers, pool.Close)

		if err := db.Migrate(ctx, pool); err != nil {
			st.Close()
			return nil, fmt.Errorf("db migrate: %w", err)
		}
		if err := db.EnsureCategories(ctx, pool); err != nil {
			st.Close()
			return nil, fmt.Errorf("seed categories: %w", err)
		}

		var obs postgres.DBObserver
		if prom != nil {
			obs = prom
		}
		events = postgres.NewEventsRepo(pool, obs)
		catalogs = postgres.NewCatalogRepo(pool, obs)
		st.Checks["db"] = func(ctx context.Context) error { return pool.Ping(ctx) }

	default:
		return nil, fmt.Errorf("unknown EVENT_STORE %q", cfg.Store)
	}

	var (
		store   cache.Store
		backend string
	)
	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		st.closers = append(st.closers, func() { _ = rc.Close() })
		st.Checks["redis"] = rc.Ping

		if err := rc.Ping(ctx); err != nil {
			// the service runs uncached until redis answers
			log.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "err", err)
		}
		store, backend = cache.NewRedis(rc.Raw(), cfg.CacheTTL), "redis"
	} else {
		store, backend = cache.New(cfg.CacheTTL), "memory"
	}

	if prom != nil {
		store = cache.WithMetrics(store, backend, prom.CacheResults)
	}

	st.Service = catalog.NewService(events, catalogs, catalog.Config{
		InitialPageSize:  cfg.InitialPageSize,
		CollectionsLimit: cfg.CollectionsLimit,
		OverFetchFactor:  cfg.OverFetchFactor,
	},
		catalog.WithCache(store),
		catalog.WithLogger(log),
	)

	return st, nil
}
