package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/kidsafisha/internal/config"
	"github.com/geocoder89/kidsafisha/internal/http/handlers"
	"github.com/geocoder89/kidsafisha/internal/http/middlewares"
	"github.com/geocoder89/kidsafisha/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators the router serves from.
type Deps struct {
	Events handlers.EventsService
	// readiness checks by dependency name
	Checks   map[string]handlers.Check
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(otelgin.Middleware(cfg.ServiceName))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))

	// health
	h := handlers.NewHealthHandler(deps.Checks)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// listing
	events := r.Group("/events")
	if cfg.RateLimitPerMinute > 0 {
		limiter := middlewares.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		events.Use(limiter.RateLimiterMiddleware(middlewares.KeyByIP))
	}

	eventsHandler := handlers.NewEventsHandler(deps.Events, log, cfg.Location())
	events.GET("/initial", eventsHandler.Initial)
	events.GET("/load-more", eventsHandler.LoadMore)

	return r
}
