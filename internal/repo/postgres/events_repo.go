package postgres

import (
	"context"

	"github.com/geocoder89/kidsafisha/internal/domain/event"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBObserver wraps a logical DB operation, e.g. to record its latency.
type DBObserver interface {
	ObserveDB(op string, fn func() error) error
}

type passthrough struct{}

func (passthrough) ObserveDB(_ string, fn func() error) error { return fn() }

type EventsRepo struct {
	pool *pgxpool.Pool
	obs  DBObserver
}

// constructor function; obs may be nil

func NewEventsRepo(pool *pgxpool.Pool, obs DBObserver) *EventsRepo {
	if obs == nil {
		obs = passthrough{}
	}
	return &EventsRepo{
		pool: pool,
		obs:  obs,
	}
}

func (r *EventsRepo) List(ctx context.Context, q event.Query) ([]event.Event, error) {
	query, args := buildListQuery(q)

	var output []event.Event

	err := r.obs.ObserveDB("events.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		output = make([]event.Event, 0, q.Limit)
		for rows.Next() {
			e, err := scanEvent(rows)
			if err != nil {
				return err
			}
			output = append(output, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return output, nil
}

func (r *EventsRepo) ByIDs(ctx context.Context, ids []string) ([]event.Event, error) {
	if len(ids) == 0 {
		return []event.Event{}, nil
	}

	byID := make(map[string]event.Event, len(ids))

	err := r.obs.ObserveDB("events.by_ids", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+eventColumns+` FROM events WHERE id = ANY($1) AND status = $2`,
			ids, string(event.StatusActive),
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanEvent(rows)
			if err != nil {
				return err
			}
			byID[e.ID] = e
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	// keep the caller's order
	output := make([]event.Event, 0, len(byID))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			output = append(output, e)
			delete(byID, id)
		}
	}
	return output, nil
}

func scanEvent(row pgx.Row) (event.Event, error) {
	var e event.Event
	var status string

	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Slug,
		&e.Description,
		&e.Keywords,
		&e.StartDate,
		&e.EndDate,
		&e.VenueName,
		&e.City,
		&e.Category,
		&e.CategoryID,
		&e.AgeFrom,
		&e.AgeTo,
		&e.IsPaid,
		&e.MinPrice,
		&status,
		&e.ViewCount,
		&e.Priority,
		&e.IsPromoted,
		&e.IsPopular,
		&e.CreatedAt,
	)
	if err != nil {
		return event.Event{}, err
	}

	e.Status = event.Status(status)
	return e, nil
}
