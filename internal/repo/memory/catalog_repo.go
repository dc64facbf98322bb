package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/geocoder89/kidsafisha/internal/domain/event"
)

// Categories lists every known category with the number of upcoming active
// events it has in the city.
func (r *EventsRepo) Categories(ctx context.Context, city string) ([]event.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	q := event.Query{City: city, Status: event.StatusActive, EndsAfter: r.now()}

	out := make([]event.Category, 0, len(r.categories))
	for _, c := range r.categories {
		c.EventCount = 0
		for _, e := range r.items {
			if strings.EqualFold(e.Category, c.Slug) && Matches(q, e) {
				c.EventCount++
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *EventsRepo) PromoSlots(ctx context.Context, city string) ([]event.PromoSlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.promoSlots[city]), nil
}

func (r *EventsRepo) Collections(ctx context.Context, city string, limit int) ([]event.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.collections[city]
	out := make([]event.Collection, 0, len(entries))
	for _, entry := range entries {
		if limit > 0 && len(out) == limit {
			break
		}
		c := entry.collection
		c.EventCount = len(entry.eventIDs)
		out = append(out, c)
	}
	return out, nil
}
