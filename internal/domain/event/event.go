package event

import (
	"time"

	"github.com/geocoder89/kidsafisha/internal/ageband"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Keywords    string    `json:"-"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	VenueName   string    `json:"venueName,omitempty"`
	City        string    `json:"city"`
	Category    string    `json:"category,omitempty"`
	CategoryID  string    `json:"categoryId,omitempty"`
	AgeFrom     *int      `json:"ageFrom"`
	AgeTo       *int      `json:"ageTo"`
	IsPaid      bool      `json:"isPaid"`
	MinPrice    *int      `json:"minPrice"`
	Status      Status    `json:"status"`
	ViewCount   int       `json:"viewCount"`
	Priority    int       `json:"priority"`
	IsPromoted  bool      `json:"isPromoted"`
	IsPopular   bool      `json:"isPopular"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Query is the store-level part of a listing request. Zero-valued optional
// fields add no condition.
type Query struct {
	City      string
	Status    Status
	EndsAfter time.Time

	IsPaid   *bool
	PriceMin *int
	PriceMax *int

	// events running at any moment inside [WindowFrom, WindowTo]
	WindowFrom *time.Time
	WindowTo   *time.Time

	AgeBands []ageband.Band

	// matched case-insensitively as substrings of title, description or keywords
	SearchVariants []string

	Limit  int
	Offset int
}

// CompareRank orders events by the listing ranking: priority ascending,
// promoted first, popular first, most viewed first, soonest first, then id.
func CompareRank(a, b Event) int {
	switch {
	case a.Priority != b.Priority:
		return cmpInt(a.Priority, b.Priority)
	case a.IsPromoted != b.IsPromoted:
		if a.IsPromoted {
			return -1
		}
		return 1
	case a.IsPopular != b.IsPopular:
		if a.IsPopular {
			return -1
		}
		return 1
	case a.ViewCount != b.ViewCount:
		return cmpInt(b.ViewCount, a.ViewCount)
	case !a.StartDate.Equal(b.StartDate):
		return a.StartDate.Compare(b.StartDate)
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
