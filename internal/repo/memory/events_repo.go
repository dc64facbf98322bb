package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/geocoder89/kidsafisha/internal/ageband"
	"github.com/geocoder89/kidsafisha/internal/domain/event"
)

// EventsRepo is an in-process listing store. It evaluates event.Query the same
// way the postgres repo's SQL does and backs dev runs and tests.
type EventsRepo struct {
	mu          sync.RWMutex
	items       map[string]event.Event
	categories  []event.Category
	promoSlots  map[string][]event.PromoSlot
	collections map[string][]collectionEntry
	now         func() time.Time
}

type collectionEntry struct {
	collection event.Collection
	eventIDs   []string
}

func NewEventsRepo() *EventsRepo {
	return &EventsRepo{
		items:       make(map[string]event.Event),
		promoSlots:  make(map[string][]event.PromoSlot),
		collections: make(map[string][]collectionEntry),
		now:         time.Now,
	}
}

func (r *EventsRepo) Put(events ...event.Event) {
	r.mu.Lock()
	for _, e := range events {
		r.items[e.ID] = e
	}
	r.mu.Unlock()
}

func (r *EventsRepo) PutCategories(categories ...event.Category) {
	r.mu.Lock()
	r.categories = append(r.categories, categories...)
	r.mu.Unlock()
}

func (r *EventsRepo) PutPromoSlot(city string, slot event.PromoSlot) {
	r.mu.Lock()
	r.promoSlots[city] = append(r.promoSlots[city], slot)
	r.mu.Unlock()
}

func (r *EventsRepo) PutCollection(city string, c event.Collection, eventIDs ...string) {
	r.mu.Lock()
	r.collections[city] = append(r.collections[city], collectionEntry{collection: c, eventIDs: eventIDs})
	r.mu.Unlock()
}

func (r *EventsRepo) List(ctx context.Context, q event.Query) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]event.Event, 0)
	for _, e := range r.items {
		if Matches(q, e) {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, event.CompareRank)

	if q.Offset >= len(matched) {
		return []event.Event{}, nil
	}
	matched = matched[q.Offset:]

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (r *EventsRepo) ByIDs(ctx context.Context, ids []string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0, len(ids))
	for _, id := range ids {
		e, ok := r.items[id]
		if !ok || e.Status != event.StatusActive {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Matches evaluates the store-level predicate of q against one event.
func Matches(q event.Query, e event.Event) bool {
	if e.City != q.City {
		return false
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	if !q.EndsAfter.IsZero() && e.EndDate.Before(q.EndsAfter) {
		return false
	}
	if q.IsPaid != nil && e.IsPaid != *q.IsPaid {
		return false
	}
	if q.PriceMin != nil && (e.MinPrice == nil || *e.MinPrice < *q.PriceMin) {
		return false
	}
	if q.PriceMax != nil && (e.MinPrice == nil || *e.MinPrice > *q.PriceMax) {
		return false
	}
	if q.WindowTo != nil && e.StartDate.After(*q.WindowTo) {
		return false
	}
	if q.WindowFrom != nil && e.EndDate.Before(*q.WindowFrom) {
		return false
	}
	if !ageband.Overlaps(q.AgeBands, e.AgeFrom, e.AgeTo) {
		return false
	}
	if len(q.SearchVariants) > 0 && !containsAny(e, q.SearchVariants) {
		return false
	}
	return true
}

func containsAny(e event.Event, variants []string) bool {
	fields := []string{
		strings.ToLower(e.Title),
		strings.ToLower(e.Description),
		strings.ToLower(e.Keywords),
	}

	for _, v := range variants {
		needle := strings.ToLower(v)
		for _, f := range fields {
			if strings.Contains(f, needle) {
				return true
			}
		}
	}
	return false
}
