package store

import (
	"sort"
	"sync"
	"time"

	"github.com/aqinsight/air-quality-insight/internal/airquality"
)

// MemoryStore is a concurrency-safe in-memory readings store. It holds
// the raw reading snapshot the core computes over; the core itself
// only ever sees copies.
type MemoryStore struct {
	mu       sync.RWMutex
	readings []airquality.Reading
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ReplaceAll swaps the entire snapshot, e.g. after a dataset reload.
func (s *MemoryStore) ReplaceAll(readings []airquality.Reading) {
	copied := make([]airquality.Reading, len(readings))
	copy(copied, readings)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = copied
}

// Append adds freshly fetched readings to the snapshot.
func (s *MemoryStore) Append(readings []airquality.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, readings...)
}

// Snapshot returns a copy of the current readings. Callers may hold it
// for the duration of one computation without further locking.
func (s *MemoryStore) Snapshot() []airquality.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]airquality.Reading, len(s.readings))
	copy(out, s.readings)
	return out
}

// Cities returns the sorted distinct cities present in the snapshot.
func (s *MemoryStore) Cities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var cities []string
	for _, r := range s.readings {
		if r.City == "" || seen[r.City] {
			continue
		}
		seen[r.City] = true
		cities = append(cities, r.City)
	}
	sort.Strings(cities)
	return cities
}

// Stations returns the sorted distinct stations recorded for a city.
func (s *MemoryStore) Stations(city string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var stations []string
	for _, r := range s.readings {
		if r.City != city || r.Station == "" || seen[r.Station] {
			continue
		}
		seen[r.Station] = true
		stations = append(stations, r.Station)
	}
	sort.Strings(stations)
	return stations
}

// Coverage returns the earliest and latest reading timestamps matching
// the optional city/station filter, for seeding date pickers. ok is
// false when nothing matches.
func (s *MemoryStore) Coverage(city, station string) (time.Time, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var from, to time.Time
	found := false
	for _, r := range s.readings {
		if r.Timestamp.IsZero() {
			continue
		}
		if city != "" && r.City != city {
			continue
		}
		if station != "" && r.Station != station {
			continue
		}
		ts := r.Timestamp.UTC()
		if !found {
			from, to = ts, ts
			found = true
			continue
		}
		if ts.Before(from) {
			from = ts
		}
		if ts.After(to) {
			to = ts
		}
	}
	return from, to, found
}
