package ageband

import (
	"strings"
)

// OpenTop stands in for "no upper bound" when comparing ranges.
const OpenTop = 99

type Band struct {
	Key  string
	From int
	To   int // OpenTop for the open-ended band
}

// Range is a band span as shown to clients; a nil To means no upper bound.
type Range struct {
	From int  `json:"from"`
	To   *int `json:"to"`
}

var bands = []Band{
	{Key: "0-3", From: 0, To: 3},
	{Key: "4-7", From: 4, To: 7},
	{Key: "8-12", From: 8, To: 12},
	{Key: "13-16", From: 13, To: 16},
	{Key: "16+", From: 16, To: OpenTop},
}

var aliases = map[string]string{
	"16-99": "16+",
	"16":    "16+",
}

// All returns the fixed band table in canonical order.
func All() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

func Lookup(key string) (Band, bool) {
	for _, b := range bands {
		if b.Key == key {
			return b, true
		}
	}
	return Band{}, false
}

// Canonical resolves a single filter token to its band key.
func Canonical(token string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return "", false
	}

	t = strings.NewReplacer("–", "-", "—", "-", "_", "-", " ", "").Replace(t)

	if strings.HasSuffix(t, "plus") {
		t = strings.TrimSuffix(t, "plus") + "+"
	}

	if alias, ok := aliases[t]; ok {
		t = alias
	}

	if _, ok := Lookup(t); !ok {
		return "", false
	}
	return t, true
}

// Normalize parses age tokens (each may itself be comma-joined) into bands.
// Unknown tokens are dropped and the result is in canonical band order.
func Normalize(tokens ...string) []Band {
	selected := make(map[string]struct{})

	for _, raw := range tokens {
		for _, token := range strings.Split(raw, ",") {
			key, ok := Canonical(token)
			if !ok {
				continue
			}
			selected[key] = struct{}{}
		}
	}

	if len(selected) == 0 {
		return nil
	}

	out := make([]Band, 0, len(selected))
	for _, b := range bands {
		if _, ok := selected[b.Key]; ok {
			out = append(out, b)
		}
	}
	return out
}

func Keys(selected []Band) []string {
	out := make([]string, 0, len(selected))
	for _, b := range selected {
		out = append(out, b.Key)
	}
	return out
}

// Overlaps reports whether an item aged [ageFrom, ageTo] fits any of the bands.
// A missing ageFrom counts as 0 and a missing ageTo as unbounded, so an item
// without age limits matches every selection. No bands means no constraint.
func Overlaps(selected []Band, ageFrom, ageTo *int) bool {
	if len(selected) == 0 {
		return true
	}

	itemFrom := 0
	if ageFrom != nil {
		itemFrom = *ageFrom
	}

	itemTo := OpenTop
	if ageTo != nil {
		itemTo = *ageTo
	}

	for _, b := range selected {
		if b.From <= itemTo && itemFrom <= b.To {
			return true
		}
	}
	return false
}

// Span aggregates the selection into one range: the lowest From and the
// highest To, with OpenTop turned back into an open bound.
func Span(selected []Band) (Range, bool) {
	if len(selected) == 0 {
		return Range{}, false
	}

	from, to := selected[0].From, selected[0].To
	for _, b := range selected[1:] {
		if b.From < from {
			from = b.From
		}
		if b.To > to {
			to = b.To
		}
	}

	r := Range{From: from}
	if to < OpenTop {
		r.To = &to
	}
	return r, true
}
