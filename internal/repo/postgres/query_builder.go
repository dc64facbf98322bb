package postgres

import (
	"fmt"
	"strings"

	"github.com/geocoder89/kidsafisha/internal/ageband"
	"github.com/geocoder89/kidsafisha/internal/domain/event"
)

const eventColumns = `id,
	title,
	slug,
	COALESCE(description, ''),
	COALESCE(keywords, ''),
	start_date,
	end_date,
	COALESCE(venue_name, ''),
	city,
	COALESCE(category, ''),
	COALESCE(category_id, ''),
	age_from,
	age_to,
	is_paid,
	min_price,
	status,
	view_count,
	priority,
	is_promoted,
	is_popular,
	created_at`

// listing ranking; id keeps pages stable between equal rows
const rankingOrder = ` ORDER BY priority ASC, is_promoted DESC, is_popular DESC, view_count DESC, start_date ASC, id ASC`

var searchFields = []string{"title", "description", "keywords"}

// buildListQuery renders q as a parameterised SELECT over events.
func buildListQuery(q event.Query) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conds = append(conds, "city = "+arg(q.City))

	if q.Status != "" {
		conds = append(conds, "status = "+arg(string(q.Status)))
	}

	if !q.EndsAfter.IsZero() {
		conds = append(conds, "end_date >= "+arg(q.EndsAfter))
	}

	if q.IsPaid != nil {
		conds = append(conds, "is_paid = "+arg(*q.IsPaid))
	}

	if q.PriceMin != nil {
		conds = append(conds, "min_price >= "+arg(*q.PriceMin))
	}

	if q.PriceMax != nil {
		conds = append(conds, "min_price <= "+arg(*q.PriceMax))
	}

	if q.WindowTo != nil {
		conds = append(conds, "start_date <= "+arg(*q.WindowTo))
	}

	if q.WindowFrom != nil {
		conds = append(conds, "end_date >= "+arg(*q.WindowFrom))
	}

	if len(q.AgeBands) > 0 {
		branches := make([]string, 0, len(q.AgeBands))
		for _, b := range q.AgeBands {
			branches = append(branches, fmt.Sprintf(
				"(COALESCE(age_from, 0) <= %s AND COALESCE(age_to, %d) >= %s)",
				arg(b.To), ageband.OpenTop, arg(b.From),
			))
		}
		conds = append(conds, "("+strings.Join(branches, " OR ")+")")
	}

	if len(q.SearchVariants) > 0 {
		branches := make([]string, 0, len(q.SearchVariants)*len(searchFields))
		for _, v := range q.SearchVariants {
			placeholder := arg("%" + escapeLike(v) + "%")
			for _, field := range searchFields {
				branches = append(branches, fmt.Sprintf("COALESCE(%s, '') ILIKE %s", field, placeholder))
			}
		}
		conds = append(conds, "("+strings.Join(branches, " OR ")+")")
	}

	query := "SELECT " + eventColumns + " FROM events WHERE " + strings.Join(conds, " AND ") + rankingOrder

	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit)
	}
	if q.Offset > 0 {
		query += " OFFSET " + arg(q.Offset)
	}

	return query, args
}

// escapeLike makes LIKE metacharacters in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
