package memory

import (
	"fmt"
	"time"

	"github.com/geocoder89/kidsafisha/internal/domain/event"
)

var demoCategories = []event.Category{
	{ID: "c-theatre", Slug: "theatre", Name: "Спектакли"},
	{ID: "c-workshop", Slug: "workshop", Name: "Мастер-классы"},
	{ID: "c-concert", Slug: "concert", Name: "Концерты"},
	{ID: "c-excursion", Slug: "excursion", Name: "Экскурсии"},
	{ID: "c-quest", Slug: "quest", Name: "Квесты"},
}

type demoEvent struct {
	title    string
	category string
	ageFrom  *int
	ageTo    *int
	price    *int
	keywords string
}

func years(v int) *int { return &v }

var demoEvents = []demoEvent{
	{"Щелкунчик для малышей", "theatre", years(3), years(7), years(800), "балет сказка"},
	{"Лепим из глины", "workshop", years(5), years(10), years(1200), "керамика гончарный"},
	{"Оркестр мультфильмов", "concert", years(4), nil, nil, "музыка"},
	{"Прогулка по Кремлю", "excursion", years(8), years(16), years(500), "история"},
	{"Квест в планетарии", "quest", years(10), years(14), years(1500), "космос звёзды"},
	{"Кукольный театр: Колобок", "theatre", years(1), years(4), nil, "куклы"},
	{"Робототехника: первый робот", "workshop", years(9), years(13), years(2000), "lego роботы"},
	{"Джаз для подростков", "concert", years(13), nil, years(900), "jazz"},
	{"Пряничный мастер-класс", "workshop", years(4), years(8), years(700), "выпечка"},
	{"Ночь в музее", "excursion", years(12), years(17), years(600), "музей"},
}

// SeedDemo fills r with a small listing for city: categories, events spread
// over the next weeks, one promo slot and one collection.
func SeedDemo(r *EventsRepo, city string, now time.Time) {
	r.PutCategories(demoCategories...)

	day := time.Date(now.Year(), now.Month(), now.Day(), 11, 0, 0, 0, now.Location())

	ids := make([]string, 0, len(demoEvents))
	for i, d := range demoEvents {
		id := fmt.Sprintf("demo-%02d", i+1)
		start := day.AddDate(0, 0, i*2)

		categoryID := ""
		for _, c := range demoCategories {
			if c.Slug == d.category {
				categoryID = c.ID
			}
		}

		r.Put(event.Event{
			ID:          id,
			Title:       d.title,
			Slug:        id,
			Description: d.title,
			Keywords:    d.keywords,
			StartDate:   start,
			EndDate:     start.Add(2 * time.Hour),
			City:        city,
			Category:    d.category,
			CategoryID:  categoryID,
			AgeFrom:     d.ageFrom,
			AgeTo:       d.ageTo,
			IsPaid:      d.price != nil,
			MinPrice:    d.price,
			Status:      event.StatusActive,
			ViewCount:   (len(demoEvents) - i) * 37,
			Priority:    i % 3,
			IsPromoted:  i%4 == 0,
			IsPopular:   i%3 == 0,
			CreatedAt:   now,
		})
		ids = append(ids, id)
	}

	r.PutPromoSlot(city, event.PromoSlot{
		ID:       "promo-weekend",
		Title:    "На выходные",
		Subtitle: "Выбор редакции",
		Link:     "/collections/weekend",
		EventIDs: ids[:3],
	})
	r.PutCollection(city, event.Collection{
		ID:    "col-free",
		Slug:  "free",
		Title: "Бесплатно",
	}, ids[2], ids[5])
}
