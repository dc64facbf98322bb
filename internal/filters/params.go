// Package filters turns the listing query string into a typed, validated
// parameter set. Every recognised key is a field of LoadMoreQuery.
package filters

import (
	"strings"
	"time"

	"github.com/geocoder89/kidsafisha/internal/ageband"
)

const (
	DefaultLimit = 6
	MaxLimit     = 48
	dateLayout   = "2006-01-02"
)

type PriceBucket string

const (
	PriceAny  PriceBucket = ""
	PriceFree PriceBucket = "free"
	PricePaid PriceBucket = "paid"
)

type DateBucket string

const (
	DateAny      DateBucket = ""
	DateToday    DateBucket = "today"
	DateTomorrow DateBucket = "tomorrow"
	DateWeekend  DateBucket = "weekend"
	DateWeek     DateBucket = "week"
	DateMonth    DateBucket = "month"
)

// LoadMoreQuery is bound from the query string by gin. Multi-valued keys are
// comma separated. Unknown price, date and age values are ignored rather than
// rejected.
type LoadMoreQuery struct {
	City       string `form:"city" binding:"required,max=80"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
	Categories string `form:"categories"`
	Age        string `form:"age"`
	Price      string `form:"price"`
	PriceMin   *int   `form:"priceMin" binding:"omitempty,min=0"`
	PriceMax   *int   `form:"priceMax" binding:"omitempty,min=0"`
	Date       string `form:"date"`
	DateFrom   string `form:"dateFrom"`
	DateTo     string `form:"dateTo"`
	Q          string `form:"q" binding:"omitempty,max=100"`
}

// InitialQuery is the query string of the first-page endpoint.
type InitialQuery struct {
	City string `form:"city" binding:"required,max=80"`
}

type Params struct {
	City       string
	Offset     int
	Limit      int
	Categories []string
	AgeBands   []ageband.Band
	Price      PriceBucket
	PriceMin   *int
	PriceMax   *int
	Date       DateBucket
	DateFrom   *time.Time
	DateTo     *time.Time
	Query      string
}

// Params normalises the bound query. loc is used to read explicit dates.
func (q LoadMoreQuery) Params(loc *time.Location) Params {
	if loc == nil {
		loc = time.UTC
	}

	p := Params{
		City:       strings.TrimSpace(q.City),
		Offset:     q.Offset,
		Limit:      q.Limit,
		Categories: SplitCSV(q.Categories),
		AgeBands:   ageband.Normalize(q.Age),
		Price:      parsePrice(q.Price),
		PriceMin:   q.PriceMin,
		PriceMax:   q.PriceMax,
		Date:       parseDate(q.Date),
		DateFrom:   parseDay(q.DateFrom, loc),
		DateTo:     parseDay(q.DateTo, loc),
		Query:      strings.TrimSpace(q.Q),
	}

	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.PriceMin != nil && p.PriceMax != nil && *p.PriceMin > *p.PriceMax {
		p.PriceMin, p.PriceMax = p.PriceMax, p.PriceMin
	}

	return p
}

// SplitCSV splits a comma separated value, trimming blanks and repeats.
func SplitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	out := make([]string, 0)

	for _, part := range strings.Split(raw, ",") {
		v := strings.TrimSpace(part)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePrice(raw string) PriceBucket {
	switch PriceBucket(strings.ToLower(strings.TrimSpace(raw))) {
	case PriceFree:
		return PriceFree
	case PricePaid:
		return PricePaid
	default:
		return PriceAny
	}
}

func parseDate(raw string) DateBucket {
	switch b := DateBucket(strings.ToLower(strings.TrimSpace(raw))); b {
	case DateToday, DateTomorrow, DateWeekend, DateWeek, DateMonth:
		return b
	default:
		return DateAny
	}
}

func parseDay(raw string, loc *time.Location) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return nil
	}
	return &t
}
