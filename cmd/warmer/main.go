package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/geocoder89/kidsafisha/internal/bootstrap"
	"github.com/geocoder89/kidsafisha/internal/config"
	"github.com/geocoder89/kidsafisha/internal/observability"
	"github.com/geocoder89/kidsafisha/internal/warmup"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR is empty: snapshots stay in this process and will not reach the API")
	}

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, "kidsafisha-warmer", cfg.Env, cfg.OTLPEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			sctx, scancel := config.WithTimeout(5 * time.Second)
			defer scancel()
			_ = shutdownTracer(sctx)
		}()
	}

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	stack, err := bootstrap.Build(ctx, cfg, log, prom)
	if err != nil {
		log.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer stack.Close()

	w := warmup.New(warmup.Config{
		Cities:   cfg.WarmCities,
		Interval: cfg.WarmInterval,
	}, stack.Service, log, prom)

	admin := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WarmAdminPort),
		Handler:           w.HealthHandler(prometheus.DefaultGatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("warmer admin listening", "port", cfg.WarmAdminPort)
		if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("admin server failed", "err", err)
		}
	}()

	if err := w.Run(ctx); err != nil {
		log.Error("warmer stopped with error", "err", err)
	}

	sctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()
	_ = admin.Shutdown(sctx)

	log.Info("warmer shutdown complete")
}
