package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/kidsafisha/internal/ageband"
	"github.com/geocoder89/kidsafisha/internal/db"
	"github.com/geocoder89/kidsafisha/internal/domain/event"
	"github.com/jackc/pgx/v5/pgxpool"
)

// setupPool connects to TEST_DB_DSN and applies the schema; the test is
// skipped when no database is configured.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.EnsureCategories(ctx, pool); err != nil {
		t.Fatalf("seed categories: %v", err)
	}

	return pool
}

func insertEvent(t *testing.T, pool *pgxpool.Pool, e event.Event) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO events (id, title, slug, description, keywords, start_date, end_date, city,
			category, category_id, age_from, age_to, is_paid, min_price, status, view_count, priority,
			is_promoted, is_popular)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		e.ID, e.Title, e.Slug, e.Description, e.Keywords, e.StartDate, e.EndDate, e.City,
		e.Category, e.CategoryID, e.AgeFrom, e.AgeTo, e.IsPaid, e.MinPrice, string(e.Status), e.ViewCount, e.Priority,
		e.IsPromoted, e.IsPopular,
	)
	if err != nil {
		t.Fatalf("insert %s: %v", e.ID, err)
	}
}

func TestEventsRepo_ListAgainstPostgres(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	// a city unique to this run keeps reruns independent
	city := fmt.Sprintf("Тест-%d", time.Now().UnixNano())
	now := time.Now().UTC().Truncate(time.Second)

	base := func(id string, hours int) event.Event {
		start := now.Add(time.Duration(hours) * time.Hour)
		return event.Event{
			ID: city + "-" + id, Title: "Событие " + id, Slug: id, City: city,
			Category: "theatre", CategoryID: "c-theatre",
			StartDate: start, EndDate: start.Add(2 * time.Hour), Status: event.StatusActive, Priority: 100,
		}
	}

	free := base("free", 1)
	free.Description = "100% веселье"
	free.AgeFrom, free.AgeTo = intp(0), intp(3)
	insertEvent(t, pool, free)

	paid := base("paid", 2)
	paid.IsPaid, paid.MinPrice = true, intp(500)
	paid.AgeFrom, paid.AgeTo = intp(13), nil
	paid.Keywords = "лепка"
	insertEvent(t, pool, paid)

	old := base("old", -10)
	insertEvent(t, pool, old)

	repo := NewEventsRepo(pool, nil)

	got, err := repo.List(ctx, event.Query{City: city, Status: event.StatusActive, EndsAfter: now})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != free.ID {
		t.Fatalf("unexpected rows %+v", got)
	}

	isPaid := false
	got, err = repo.List(ctx, event.Query{City: city, Status: event.StatusActive, EndsAfter: now, IsPaid: &isPaid})
	if err != nil || len(got) != 1 || got[0].ID != free.ID {
		t.Fatalf("free filter: %v %+v", err, got)
	}

	got, err = repo.List(ctx, event.Query{City: city, EndsAfter: now, AgeBands: ageband.Normalize("16+")})
	if err != nil || len(got) != 1 || got[0].ID != paid.ID || got[0].AgeTo != nil {
		t.Fatalf("age filter: %v %+v", err, got)
	}

	// "%" must match literally
	got, err = repo.List(ctx, event.Query{City: city, EndsAfter: now, SearchVariants: []string{"100%"}})
	if err != nil || len(got) != 1 || got[0].ID != free.ID {
		t.Fatalf("search: %v %+v", err, got)
	}

	byIDs, err := repo.ByIDs(ctx, []string{paid.ID, "missing", free.ID})
	if err != nil || len(byIDs) != 2 || byIDs[0].ID != paid.ID {
		t.Fatalf("by ids: %v %+v", err, byIDs)
	}

	categories, err := NewCatalogRepo(pool, nil).Categories(ctx, city)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	for _, c := range categories {
		if c.Slug == "theatre" && c.EventCount != 2 {
			t.Fatalf("theatre count = %d, want 2", c.EventCount)
		}
	}
}
