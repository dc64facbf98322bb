package utils

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/kidsafisha/internal/ageband"
	"github.com/geocoder89/kidsafisha/internal/filters"
)

const cacheKeyPrefix = "afisha:"

func BuildInitialCacheKey(city string) string {
	return cacheKeyPrefix + "initial:v1:city=" + normalizeCity(city)
}

// BuildLoadMoreCacheKey renders every parameter that changes the page, in a
// fixed order, so equal requests share a key regardless of query-string order.
func BuildLoadMoreCacheKey(p filters.Params) string {
	categories := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, strings.ToLower(c))
	}
	slices.Sort(categories)

	return cacheKeyPrefix + "load-more:v1" +
		":city=" + normalizeCity(p.City) +
		":offset=" + strconv.Itoa(p.Offset) +
		":limit=" + strconv.Itoa(p.Limit) +
		":categories=" + strings.Join(categories, ",") +
		":age=" + strings.Join(ageband.Keys(p.AgeBands), ",") +
		":price=" + string(p.Price) +
		":priceMin=" + optInt(p.PriceMin) +
		":priceMax=" + optInt(p.PriceMax) +
		":date=" + string(p.Date) +
		":from=" + optDay(p.DateFrom) +
		":to=" + optDay(p.DateTo) +
		":q=" + strings.ToLower(p.Query)
}

// Stores match the city exactly, so the key must keep its case.
func normalizeCity(city string) string {
	return strings.TrimSpace(city)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
