package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/kidsafisha/internal/domain/event"
	"github.com/geocoder89/kidsafisha/internal/filters"
	"github.com/geocoder89/kidsafisha/internal/search"
)

var ErrCityRequired = errors.New("city is required")

// BuildQuery composes the store query for a listing request: active, not yet
// finished events of one city narrowed by price, dates, age and free text.
// Category filtering is not part of it; see Service.LoadMore.
func BuildQuery(p filters.Params, now time.Time) (event.Query, error) {
	city := strings.TrimSpace(p.City)
	if city == "" {
		return event.Query{}, ErrCityRequired
	}

	q := event.Query{
		City:      city,
		Status:    event.StatusActive,
		EndsAfter: now,
		PriceMin:  p.PriceMin,
		PriceMax:  p.PriceMax,
		AgeBands:  p.AgeBands,
		Limit:     p.Limit,
		Offset:    p.Offset,
	}

	switch p.Price {
	case filters.PriceFree:
		paid := false
		q.IsPaid = &paid
	case filters.PricePaid:
		paid := true
		q.IsPaid = &paid
	}

	q.WindowFrom, q.WindowTo = p.Window(now)

	if p.Query != "" {
		q.SearchVariants = search.GenerateVariants(p.Query)
	}

	return q, nil
}

// MatchesCategory reports whether e belongs to one of the selected categories,
// by slug or id, ignoring case.
func MatchesCategory(e event.Event, selected []string) bool {
	if len(selected) == 0 {
		return true
	}

	for _, c := range selected {
		if strings.EqualFold(c, e.Category) || (e.CategoryID != "" && strings.EqualFold(c, e.CategoryID)) {
			return true
		}
	}
	return false
}
