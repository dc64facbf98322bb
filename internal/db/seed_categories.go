package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type seedCategory struct {
	ID   string
	Slug string
	Name string
}

var defaultCategories = []seedCategory{
	{ID: "c-theatre", Slug: "theatre", Name: "Спектакли"},
	{ID: "c-workshop", Slug: "workshop", Name: "Мастер-классы"},
	{ID: "c-concert", Slug: "concert", Name: "Концерты"},
	{ID: "c-excursion", Slug: "excursion", Name: "Экскурсии"},
	{ID: "c-quest", Slug: "quest", Name: "Квесты"},
	{ID: "c-sport", Slug: "sport", Name: "Спорт"},
	{ID: "c-exhibition", Slug: "exhibition", Name: "Выставки"},
}

// EnsureCategories inserts the built-in category list, leaving rows that
// already exist untouched.
func EnsureCategories(ctx context.Context, pool *pgxpool.Pool) error {
	for i, c := range defaultCategories {
		_, err := pool.Exec(ctx,
			`INSERT INTO categories (id, slug, name, sort_order)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (slug) DO NOTHING`,
			c.ID, c.Slug, c.Name, i,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
