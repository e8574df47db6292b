package airquality

import (
	"context"
	"time"
)

// Provider abstracts an upstream air-quality data source (e.g.
// Open-Meteo, OpenWeatherMap). A fetch returns the readings it could
// retrieve for one location; partial data is fine.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) ([]Reading, error)
}

// Store is the contract the in-memory readings store (and any future
// persistent store) must satisfy. Snapshot returns an immutable copy;
// the core never sees live storage.
type Store interface {
	Append(readings []Reading)
	Snapshot() []Reading
	Cities() []string
	Stations(city string) []string
	Coverage(city, station string) (from, to time.Time, ok bool)
}
