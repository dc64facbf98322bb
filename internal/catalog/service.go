package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/geocoder89/kidsafisha/internal/ageband"
	"github.com/geocoder89/kidsafisha/internal/domain/event"
	"github.com/geocoder89/kidsafisha/internal/filters"
	"github.com/geocoder89/kidsafisha/internal/plural"
	"github.com/geocoder89/kidsafisha/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type EventsStore interface {
	List(ctx context.Context, q event.Query) ([]event.Event, error)
	// ByIDs returns the active events among ids, in the order of ids.
	ByIDs(ctx context.Context, ids []string) ([]event.Event, error)
}

type CatalogStore interface {
	Categories(ctx context.Context, city string) ([]event.Category, error)
	PromoSlots(ctx context.Context, city string) ([]event.PromoSlot, error)
	Collections(ctx context.Context, city string, limit int) ([]event.Collection, error)
}

// Cache stores rendered snapshots; expiry is the implementation's concern.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
}

type Config struct {
	InitialPageSize  int
	CollectionsLimit int
	// rows fetched per requested row when categories are filtered in memory
	OverFetchFactor int
}

func DefaultConfig() Config {
	return Config{
		InitialPageSize:  8,
		CollectionsLimit: 6,
		OverFetchFactor:  3,
	}
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandom replaces the promo slot picker; intn must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(s *Service) { s.intn = intn }
}

type Service struct {
	events  EventsStore
	catalog CatalogStore
	cfg     Config
	cache   Cache
	log     *slog.Logger
	now     func() time.Time
	intn    func(n int) int
	tracer  trace.Tracer
}

func NewService(events EventsStore, catalog CatalogStore, cfg Config, opts ...Option) *Service {
	def := DefaultConfig()
	if cfg.InitialPageSize <= 0 {
		cfg.InitialPageSize = def.InitialPageSize
	}
	if cfg.CollectionsLimit <= 0 {
		cfg.CollectionsLimit = def.CollectionsLimit
	}
	if cfg.OverFetchFactor < 1 {
		cfg.OverFetchFactor = def.OverFetchFactor
	}

	s := &Service{
		events:  events,
		catalog: catalog,
		cfg:     cfg,
		log:     slog.Default(),
		now:     time.Now,
		intn:    rand.IntN,
		tracer:  otel.Tracer("github.com/geocoder89/kidsafisha/internal/catalog"),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Applied struct {
	City       string         `json:"city"`
	Categories []string       `json:"categories,omitempty"`
	Age        []string       `json:"age,omitempty"`
	AgeRange   *ageband.Range `json:"ageRange,omitempty"`
	Price      string         `json:"price,omitempty"`
	Date       string         `json:"date,omitempty"`
	Query      string         `json:"q,omitempty"`
}

type Page struct {
	Events     []event.Event `json:"events"`
	HasMore    bool          `json:"hasMore"`
	NextOffset int           `json:"nextOffset"`
	Applied    Applied       `json:"applied"`
}

// LoadMore returns one page of the city listing.
//
// Categories are filtered after the store query, so when they are present the
// store is asked for OverFetchFactor times more rows to keep the page full.
// HasMore only says the page came back full; it can be true when nothing is
// left. NextOffset always advances by limit in store rows, so clients merging
// pages must drop repeated ids themselves.
func (s *Service) LoadMore(ctx context.Context, p filters.Params) (Page, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.LoadMore")
	defer span.End()

	if p.Limit <= 0 {
		p.Limit = filters.DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	q, err := BuildQuery(p, s.now())
	if err != nil {
		return Page{}, err
	}

	span.SetAttributes(
		attribute.String("city", q.City),
		attribute.Int("offset", p.Offset),
		attribute.Int("limit", p.Limit),
		attribute.Int("categories", len(p.Categories)),
	)

	key := utils.BuildLoadMoreCacheKey(p)
	var cached Page
	if s.cacheGet(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		cached.Applied = applied(p)
		return cached, nil
	}

	if len(p.Categories) > 0 {
		q.Limit = p.Limit * s.cfg.OverFetchFactor
	}

	rows, err := s.events.List(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list events")
		return Page{}, fmt.Errorf("list events: %w", err)
	}

	items := make([]event.Event, 0, p.Limit)
	for _, e := range rows {
		if !MatchesCategory(e, p.Categories) {
			continue
		}
		items = append(items, e)
		if len(items) == p.Limit {
			break
		}
	}

	page := Page{
		Events:     items,
		HasMore:    len(items) == p.Limit,
		NextOffset: p.Offset + p.Limit,
		Applied:    applied(p),
	}

	s.cacheSet(ctx, key, page)
	return page, nil
}

func applied(p filters.Params) Applied {
	a := Applied{
		City:       p.City,
		Categories: p.Categories,
		Age:        ageband.Keys(p.AgeBands),
		Price:      string(p.Price),
		Date:       string(p.Date),
		Query:      p.Query,
	}
	if len(a.Age) == 0 {
		a.Age = nil
	}
	if r, ok := ageband.Span(p.AgeBands); ok {
		a.AgeRange = &r
	}
	return a
}

type InitialPage struct {
	Events      []event.Event      `json:"events"`
	HasMore     bool               `json:"hasMore"`
	NextOffset  int                `json:"nextOffset"`
	Categories  []event.Category   `json:"categories"`
	Promo       *event.PromoSlot   `json:"promo"`
	Collections []event.Collection `json:"collections"`
}

// snapshot is the cacheable part of the initial page; the promo slot is drawn
// from PromoSlots on every request.
type snapshot struct {
	Events      []event.Event      `json:"events"`
	Categories  []event.Category   `json:"categories"`
	PromoSlots  []event.PromoSlot  `json:"promoSlots"`
	Collections []event.Collection `json:"collections"`
}

// Initial returns the first page of a city listing together with the
// category list, one random promo slot and the curated collections.
func (s *Service) Initial(ctx context.Context, city string) (InitialPage, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Initial")
	defer span.End()

	span.SetAttributes(attribute.String("city", city))

	key := utils.BuildInitialCacheKey(city)

	var snap snapshot
	if !s.cacheGet(ctx, key, &snap) {
		var err error
		snap, err = s.buildSnapshot(ctx, city)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "build initial snapshot")
			return InitialPage{}, err
		}
		s.cacheSet(ctx, key, snap)
	}

	size := s.cfg.InitialPageSize

	return InitialPage{
		Events:      snap.Events,
		HasMore:     len(snap.Events) == size,
		NextOffset:  size,
		Categories:  snap.Categories,
		Promo:       s.pickPromo(snap.PromoSlots),
		Collections: snap.Collections,
	}, nil
}

// RefreshInitial rebuilds the cached initial snapshot of a city regardless of
// what the cache holds.
func (s *Service) RefreshInitial(ctx context.Context, city string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.RefreshInitial")
	defer span.End()

	snap, err := s.buildSnapshot(ctx, city)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if s.cache == nil {
		return nil
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.cache.Set(ctx, utils.BuildInitialCacheKey(city), b)
}

func (s *Service) buildSnapshot(ctx context.Context, city string) (snapshot, error) {
	now := s.now()

	q, err := BuildQuery(filters.Params{City: city, Limit: s.cfg.InitialPageSize}, now)
	if err != nil {
		return snapshot{}, err
	}

	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		events, err := s.events.List(gctx, q)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		snap.Events = nonNil(events)
		return nil
	})

	g.Go(func() error {
		categories, err := s.catalog.Categories(gctx, q.City)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		for i := range categories {
			categories[i].EventsLabel = plural.Events.Format(categories[i].EventCount)
		}
		snap.Categories = nonNil(categories)
		return nil
	})

	g.Go(func() error {
		slots, err := s.promoSlots(gctx, q.City, now)
		if err != nil {
			return err
		}
		snap.PromoSlots = slots
		return nil
	})

	g.Go(func() error {
		collections, err := s.catalog.Collections(gctx, q.City, s.cfg.CollectionsLimit)
		if err != nil {
			return fmt.Errorf("list collections: %w", err)
		}
		for i := range collections {
			collections[i].EventsLabel = plural.Events.Format(collections[i].EventCount)
		}
		snap.Collections = nonNil(collections)
		return nil
	})

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// promoSlots loads the city's promo slots with their events resolved. Slots
// whose events are all gone or finished are left out.
func (s *Service) promoSlots(ctx context.Context, city string, now time.Time) ([]event.PromoSlot, error) {
	slots, err := s.catalog.PromoSlots(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("list promo slots: %w", err)
	}

	var ids []string
	for _, slot := range slots {
		ids = append(ids, slot.EventIDs...)
	}
	if len(ids) == 0 {
		return []event.PromoSlot{}, nil
	}

	events, err := s.events.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load promo events: %w", err)
	}

	byID := make(map[string]event.Event, len(events))
	for _, e := range events {
		if e.EndDate.Before(now) {
			continue
		}
		byID[e.ID] = e
	}

	out := make([]event.PromoSlot, 0, len(slots))
	for _, slot := range slots {
		slot.Events = make([]event.Event, 0, len(slot.EventIDs))
		for _, id := range slot.EventIDs {
			if e, ok := byID[id]; ok {
				slot.Events = append(slot.Events, e)
			}
		}
		if len(slot.Events) == 0 {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

func (s *Service) pickPromo(slots []event.PromoSlot) *event.PromoSlot {
	if len(slots) == 0 {
		return nil
	}
	slot := slots[s.intn(len(slots))]
	return &slot
}

func (s *Service) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}

	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "cache read failed", "key", key, "err", err)
		return false
	}
	if !ok {
		return false
	}

	if err := json.Unmarshal(b, out); err != nil {
		s.log.WarnContext(ctx, "cache entry undecodable", "key", key, "err", err)
		return false
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, val any) {
	if s.cache == nil {
		return
	}

	b, err := json.Marshal(val)
	if err != nil {
		s.log.WarnContext(ctx, "cache encode failed", "key", key, "err", err)
		return
	}

	if err := s.cache.Set(ctx, key, b); err != nil {
		s.log.WarnContext(ctx, "cache write failed", "key", key, "err", err)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
