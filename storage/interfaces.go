package storage

import "github.com/Koveh/scrape-yandex-maps/models"

// PlaceWriter is the interface every export backend satisfies. Writers
// receive the complete, immutable record set once, after aggregation; a
// failing writer never blocks the other formats.
type PlaceWriter interface {
	Write(places []*models.Place) error
}
