package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/kidsafisha/internal/catalog"
	"github.com/geocoder89/kidsafisha/internal/filters"
	"github.com/gin-gonic/gin"
)

type EventsService interface {
	Initial(ctx context.Context, city string) (catalog.InitialPage, error)
	LoadMore(ctx context.Context, p filters.Params) (catalog.Page, error)
}

type EventsHandler struct {
	svc EventsService
	log *slog.Logger
	loc *time.Location
}

// NewEventsHandler wires the listing endpoints. loc is the zone explicit
// dateFrom/dateTo values are read in.
func NewEventsHandler(svc EventsService, log *slog.Logger, loc *time.Location) *EventsHandler {
	if log == nil {
		log = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EventsHandler{svc: svc, log: log, loc: loc}
}

// GET /events/initial?city=
func (h *EventsHandler) Initial(ctx *gin.Context) {
	var q filters.InitialQuery

	if !BindQuery(ctx, &q) {
		return
	}

	page, err := h.svc.Initial(ctx.Request.Context(), q.City)
	if err != nil {
		h.fail(ctx, "initial page failed", err, "city", q.City)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, page)
}

// GET /events/load-more
func (h *EventsHandler) LoadMore(ctx *gin.Context) {
	var q filters.LoadMoreQuery

	if !BindQuery(ctx, &q) {
		return
	}

	p := q.Params(h.loc)

	page, err := h.svc.LoadMore(ctx.Request.Context(), p)
	if err != nil {
		h.fail(ctx, "load more failed", err, "city", p.City, "offset", p.Offset, "limit", p.Limit)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, page)
}

func (h *EventsHandler) fail(ctx *gin.Context, msg string, err error, attrs ...any) {
	if errors.Is(err, catalog.ErrCityRequired) {
		RespondBadRequest(ctx, "city is required", gin.H{
			"fields": []FieldError{{Field: "city", Rule: "required", Message: validationMessage("required", "")}},
		})
		return
	}

	attrs = append(attrs, "err", err)
	h.log.ErrorContext(ctx.Request.Context(), msg, attrs...)
	RespondInternal(ctx, "Could not load events")
}
