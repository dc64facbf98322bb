package postgres

import (
	"context"

	"github.com/geocoder89/kidsafisha/internal/domain/event"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepo reads the ancillary blocks of the city page: categories, promo
// slots and curated collections.
type CatalogRepo struct {
	pool *pgxpool.Pool
	obs  DBObserver
}

func NewCatalogRepo(pool *pgxpool.Pool, obs DBObserver) *CatalogRepo {
	if obs == nil {
		obs = passthrough{}
	}
	return &CatalogRepo{pool: pool, obs: obs}
}

func (r *CatalogRepo) Categories(ctx context.Context, city string) ([]event.Category, error) {
	output := make([]event.Category, 0)

	err := r.obs.ObserveDB("categories.list", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT c.id, c.slug, c.name, COUNT(e.id)
			FROM categories c
			LEFT JOIN events e
				ON e.category = c.slug
				AND e.city = $1
				AND e.status = 'active'
				AND e.end_date >= NOW()
			GROUP BY c.id, c.slug, c.name, c.sort_order
			ORDER BY c.sort_order ASC, c.name ASC`, city)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c event.Category
			if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.EventCount); err != nil {
				return err
			}
			output = append(output, c)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return output, nil
}

func (r *CatalogRepo) PromoSlots(ctx context.Context, city string) ([]event.PromoSlot, error) {
	output := make([]event.PromoSlot, 0)

	err := r.obs.ObserveDB("promo_slots.list", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT id, title, COALESCE(subtitle, ''), COALESCE(link, ''), event_ids
			FROM promo_slots
			WHERE city = $1 AND active
			ORDER BY sort_order ASC, id ASC`, city)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var s event.PromoSlot
			if err := rows.Scan(&s.ID, &s.Title, &s.Subtitle, &s.Link, &s.EventIDs); err != nil {
				return err
			}
			output = append(output, s)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return output, nil
}

func (r *CatalogRepo) Collections(ctx context.Context, city string, limit int) ([]event.Collection, error) {
	output := make([]event.Collection, 0, limit)

	err := r.obs.ObserveDB("collections.list", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT id, slug, title, COALESCE(cover_url, ''), COALESCE(cardinality(event_ids), 0)
			FROM collections
			WHERE city = $1
			ORDER BY sort_order ASC, id ASC
			LIMIT $2`, city, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c event.Collection
			if err := rows.Scan(&c.ID, &c.Slug, &c.Title, &c.CoverURL, &c.EventCount); err != nil {
				return err
			}
			output = append(output, c)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return output, nil
}
