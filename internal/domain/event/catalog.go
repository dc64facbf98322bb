package event

type Category struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	EventCount  int    `json:"eventCount"`
	EventsLabel string `json:"eventsLabel"`
}

// PromoSlot is a promotional block on the city page with hand-picked events.
type PromoSlot struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Link     string   `json:"link,omitempty"`
	EventIDs []string `json:"-"`
	Events   []Event  `json:"events"`
}

type Collection struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	CoverURL    string `json:"coverUrl,omitempty"`
	EventCount  int    `json:"eventCount"`
	EventsLabel string `json:"eventsLabel"`
}
