package store

import (
	"testing"
	"time"

	"github.com/aqinsight/air-quality-insight/internal/airquality"
)

func reading(ts time.Time, city, station string, conc float64) airquality.Reading {
	return airquality.Reading{
		Timestamp:     ts,
		City:          city,
		Station:       station,
		Pollutant:     airquality.PM25,
		Concentration: &conc,
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewMemoryStore()
	ts := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	s.ReplaceAll([]airquality.Reading{reading(ts, "Lisbon", "centro", 10)})

	snap := s.Snapshot()
	snap[0].City = "mutated"

	if got := s.Snapshot()[0].City; got != "Lisbon" {
		t.Fatalf("store was mutated through a snapshot: city = %q", got)
	}
}

func TestCitiesSortedDistinct(t *testing.T) {
	s := NewMemoryStore()
	ts := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	s.ReplaceAll([]airquality.Reading{
		reading(ts, "Porto", "ribeira", 10),
		reading(ts, "Lisbon", "centro", 10),
		reading(ts, "Porto", "foz", 10),
	})

	cities := s.Cities()
	if len(cities) != 2 || cities[0] != "Lisbon" || cities[1] != "Porto" {
		t.Fatalf("cities = %v, want [Lisbon Porto]", cities)
	}
}

func TestStationsForCity(t *testing.T) {
	s := NewMemoryStore()
	ts := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	s.ReplaceAll([]airquality.Reading{
		reading(ts, "Porto", "ribeira", 10),
		reading(ts, "Porto", "foz", 10),
		reading(ts, "Lisbon", "centro", 10),
	})

	stations := s.Stations("Porto")
	if len(stations) != 2 || stations[0] != "foz" || stations[1] != "ribeira" {
		t.Fatalf("stations = %v, want [foz ribeira]", stations)
	}
}

func TestCoverage(t *testing.T) {
	s := NewMemoryStore()
	early := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 0, 10)
	s.ReplaceAll([]airquality.Reading{
		reading(late, "Lisbon", "centro", 10),
		reading(early, "Lisbon", "centro", 10),
		reading(early.AddDate(0, 1, 0), "Porto", "ribeira", 10),
	})

	from, to, ok := s.Coverage("Lisbon", "")
	if !ok {
		t.Fatal("expected coverage for Lisbon")
	}
	if !from.Equal(early) || !to.Equal(late) {
		t.Fatalf("coverage = [%v, %v], want [%v, %v]", from, to, early, late)
	}

	if _, _, ok := s.Coverage("Madrid", ""); ok {
		t.Fatal("expected no coverage for an unknown city")
	}
}

func TestAppend(t *testing.T) {
	s := NewMemoryStore()
	ts := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	s.Append([]airquality.Reading{reading(ts, "Lisbon", "centro", 10)})
	s.Append([]airquality.Reading{reading(ts.Add(time.Hour), "Lisbon", "centro", 12)})

	if got := len(s.Snapshot()); got != 2 {
		t.Fatalf("expected 2 readings after appends, got %d", got)
	}
}
