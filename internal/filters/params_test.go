package filters

import (
	"reflect"
	"testing"
	"time"

	"github.com/geocoder89/kidsafisha/internal/ageband"
)

func intp(v int) *int { return &v }

func TestLoadMoreQuery_Params(t *testing.T) {
	q := LoadMoreQuery{
		City:       "  Москва ",
		Offset:     12,
		Categories: "theatre, Lego,,theatre ,",
		Age:        "0-3,16plus,adults",
		Price:      "FREE",
		Date:       "weekend",
		Q:          "  лего ",
	}

	p := q.Params(time.UTC)

	if p.City != "Москва" {
		t.Fatalf("city not trimmed: %q", p.City)
	}
	if p.Offset != 12 || p.Limit != DefaultLimit {
		t.Fatalf("unexpected paging offset=%d limit=%d", p.Offset, p.Limit)
	}
	if !reflect.DeepEqual(p.Categories, []string{"theatre", "Lego"}) {
		t.Fatalf("unexpected categories %v", p.Categories)
	}
	if !reflect.DeepEqual(ageband.Keys(p.AgeBands), []string{"0-3", "16+"}) {
		t.Fatalf("unexpected age bands %v", ageband.Keys(p.AgeBands))
	}
	if p.Price != PriceFree {
		t.Fatalf("unexpected price %q", p.Price)
	}
	if p.Date != DateWeekend {
		t.Fatalf("unexpected date %q", p.Date)
	}
	if p.Query != "лего" {
		t.Fatalf("unexpected query %q", p.Query)
	}
}

func TestLoadMoreQuery_Params_Permissive(t *testing.T) {
	p := LoadMoreQuery{
		City:     "Казань",
		Limit:    500,
		Price:    "cheap",
		Date:     "someday",
		DateFrom: "not-a-date",
		PriceMin: intp(900),
		PriceMax: intp(100),
	}.Params(nil)

	if p.Limit != MaxLimit {
		t.Fatalf("limit not clamped: %d", p.Limit)
	}
	if p.Price != PriceAny || p.Date != DateAny || p.DateFrom != nil {
		t.Fatalf("unknown values should be ignored: %+v", p)
	}
	if *p.PriceMin != 100 || *p.PriceMax != 900 {
		t.Fatalf("inverted price range should be swapped, got %d..%d", *p.PriceMin, *p.PriceMax)
	}
}

func TestSplitCSV(t *testing.T) {
	if SplitCSV("") != nil || SplitCSV(" , ,") != nil {
		t.Fatalf("blank input should give nil")
	}
	got := SplitCSV("a,b, A ,c")
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("got %v", got)
	}
}

func TestParams_Window(t *testing.T) {
	loc := time.UTC
	// Wednesday
	now := time.Date(2026, 10, 14, 15, 30, 0, 0, loc)

	tests := []struct {
		name     string
		params   Params
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "today",
			params:   Params{Date: DateToday},
			wantFrom: now,
			wantTo:   time.Date(2026, 10, 14, 23, 59, 59, 999999999, loc),
		},
		{
			name:     "tomorrow",
			params:   Params{Date: DateTomorrow},
			wantFrom: time.Date(2026, 10, 15, 0, 0, 0, 0, loc),
			wantTo:   time.Date(2026, 10, 15, 23, 59, 59, 999999999, loc),
		},
		{
			name:     "weekend",
			params:   Params{Date: DateWeekend},
			wantFrom: time.Date(2026, 10, 17, 0, 0, 0, 0, loc),
			wantTo:   time.Date(2026, 10, 18, 23, 59, 59, 999999999, loc),
		},
		{
			name:     "week",
			params:   Params{Date: DateWeek},
			wantFrom: now,
			wantTo:   time.Date(2026, 10, 20, 23, 59, 59, 999999999, loc),
		},
		{
			name: "explicit_dates_win",
			params: Params{
				Date:     DateToday,
				DateFrom: parseDay("2026-11-01", loc),
				DateTo:   parseDay("2026-11-03", loc),
			},
			wantFrom: time.Date(2026, 11, 1, 0, 0, 0, 0, loc),
			wantTo:   time.Date(2026, 11, 3, 23, 59, 59, 999999999, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := tt.params.Window(now)
			if from == nil || to == nil {
				t.Fatalf("expected both bounds, got %v %v", from, to)
			}
			if !from.Equal(tt.wantFrom) {
				t.Fatalf("from = %v, want %v", from, tt.wantFrom)
			}
			if !to.Equal(tt.wantTo) {
				t.Fatalf("to = %v, want %v", to, tt.wantTo)
			}
		})
	}

	if from, to := (Params{}).Window(now); from != nil || to != nil {
		t.Fatalf("no date filter should give no window")
	}
}

func TestWeekend_OnSunday(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 11, 0, 0, 0, time.UTC)
	from, to := weekend(sunday)

	if !from.Equal(sunday) {
		t.Fatalf("from = %v", from)
	}
	if to.Day() != 18 {
		t.Fatalf("to = %v", to)
	}
}
