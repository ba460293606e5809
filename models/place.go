package models

// Review is a single customer review scraped from a place's reviews tab.
// A review is only kept when it has a rating and at least one of text/author.
type Review struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Rating string `json:"rating"`
	Date   string `json:"date"`
}

// Place is one fully-extracted business listing. It is built in a single
// pass per listing and is immutable once appended to the result set.
//
// Text-like fields use the empty string as the "absent" sentinel, never
// nil and never a zero placeholder. Features values are either bool
// (presence attribute, e.g. "Wi-Fi") or string (valued attribute, e.g.
// "Price level: $$").
type Place struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Description  string         `json:"description"`
	Features     map[string]any `json:"features"`
	Address      string         `json:"address"`
	Website      string         `json:"website"`
	Phone        string         `json:"phone"`
	Rating       string         `json:"rating"`
	ReviewsCount string         `json:"reviews_count"`
	WorkingHours []string       `json:"working_hours"`
	FolderPath   string         `json:"folder_path"`
	Link         string         `json:"link"`
	SocialMedia  []string       `json:"social_media"`
	Photos       []string       `json:"photos"`
	Reviews      []Review       `json:"reviews"`
	SearchQuery  string         `json:"search_query"`
}

// ScrapeReport holds the aggregates computed over a finished run.
type ScrapeReport struct {
	TotalPlaces      int
	RatedPlaces      int
	AverageRating    float64
	TopRated         []*Place
	PlacesByCategory map[string]int
	WithWebsite      int
	PhotosDownloaded int
	ReviewsCollected int
}
