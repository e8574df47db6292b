package airquality

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeStore is a minimal Store for exercising the service without the
// real storage package.
type fakeStore struct {
	mu       sync.Mutex
	readings []Reading
}

func (s *fakeStore) Append(readings []Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, readings...)
}

func (s *fakeStore) Snapshot() []Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Reading, len(s.readings))
	copy(out, s.readings)
	return out
}

func (s *fakeStore) Cities() []string { return nil }

func (s *fakeStore) Stations(string) []string { return nil }

func (s *fakeStore) Coverage(string, string) (time.Time, time.Time, bool) {
	return time.Time{}, time.Time{}, false
}

type fakeProvider struct {
	name     string
	readings []Reading
	err      error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(context.Context, Location) ([]Reading, error) {
	return p.readings, p.err
}

func TestQueryReturnsFullReport(t *testing.T) {
	base := day(2024, time.March, 4)
	svc := NewService(&fakeStore{readings: []Reading{
		testReading(base.Add(6*time.Hour), "Lisbon", "centro", PM25, 10),
		testReading(base.Add(7*time.Hour), "Lisbon", "centro", O3, 60),
		testReading(base.AddDate(0, 0, 1), "Lisbon", "centro", PM25, 40),
	}}, nil)

	report, err := svc.Query(QueryParams{
		City:        "Lisbon",
		Pollutants:  []Pollutant{PM25, O3},
		Granularity: Daily,
		Threshold:   100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(report.Buckets))
	}
	if report.Summary.AverageIndex == nil {
		t.Fatal("expected a defined average index")
	}
	if len(report.PollutantMeans) != 2 {
		t.Fatalf("expected 2 pollutant means, got %d", len(report.PollutantMeans))
	}
	if len(report.Categories) != len(CategoryLabels()) {
		t.Fatalf("expected %d category counts, got %d", len(CategoryLabels()), len(report.Categories))
	}
}

func TestQueryNoDataOnEmptyFilteredSet(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)

	_, err := svc.Query(QueryParams{
		Pollutants:  []Pollutant{PM25},
		Granularity: Daily,
		Threshold:   100,
	})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

// TestQueryNoDataWhenNothingIndexes: readings survive the filters but
// every concentration sits below the lowest breakpoint, so no index
// exists anywhere. That is a "no data" result, not an all-undefined
// report.
func TestQueryNoDataWhenNothingIndexes(t *testing.T) {
	base := day(2024, time.March, 4)
	svc := NewService(&fakeStore{readings: []Reading{
		testReading(base, "Lisbon", "centro", PM25, -5),
		testReading(base.AddDate(0, 0, 1), "Lisbon", "centro", PM25, -3),
	}}, nil)

	_, err := svc.Query(QueryParams{
		City:        "Lisbon",
		Pollutants:  []Pollutant{PM25},
		Granularity: Daily,
		Threshold:   100,
	})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestFetchAndStoreKeepsPartialSuccess(t *testing.T) {
	st := &fakeStore{}
	base := day(2024, time.March, 4)
	svc := NewService(st, []Provider{
		&fakeProvider{name: "broken", err: errors.New("upstream down")},
		&fakeProvider{name: "working", readings: []Reading{
			testReading(base, "Lisbon", "working", PM25, 10),
		}},
	})

	if err := svc.FetchAndStore(context.Background(), Location{City: "Lisbon", Country: "PT"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(st.Snapshot()); got != 1 {
		t.Fatalf("expected 1 stored reading, got %d", got)
	}
}

func TestFetchAndStoreWithoutProviders(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	if err := svc.FetchAndStore(context.Background(), Location{City: "Lisbon", Country: "PT"}); err == nil {
		t.Fatal("expected an error when no providers are configured")
	}
}
