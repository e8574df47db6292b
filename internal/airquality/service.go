package airquality

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrNoData signals that a query matched no readings, or that no
// requested pollutant produced a single defined index. It is the
// explicit "no data" result, distinct from a report full of undefined
// buckets.
var ErrNoData = errors.New("no data for the selected filters")

// QueryParams are the knobs of one dashboard query, as supplied by the
// request layer.
type QueryParams struct {
	City        string
	Station     string
	Start       time.Time
	End         time.Time
	Pollutants  []Pollutant
	Granularity Granularity
	Threshold   float64
}

// Service orchestrates the readings store, the upstream providers, and
// the index pipeline.
type Service struct {
	store     Store
	providers []Provider
}

// NewService creates a new Service.
func NewService(store Store, providers []Provider) *Service {
	return &Service{
		store:     store,
		providers: providers,
	}
}

// Query runs the full pipeline over the current reading snapshot:
// filter, aggregate, index, summarize, and bin into categories. Each
// call is an independent pure computation; nothing is cached between
// queries.
func (s *Service) Query(params QueryParams) (*Report, error) {
	snapshot := s.store.Snapshot()

	buckets := Aggregate(snapshot, Filter{
		City:       params.City,
		Station:    params.Station,
		Start:      params.Start,
		End:        params.End,
		Pollutants: params.Pollutants,
	}, params.Granularity)
	if len(buckets) == 0 {
		return nil, ErrNoData
	}

	means := MeanIndexByPollutant(buckets, params.Pollutants)
	anyDefined := false
	for _, pm := range means {
		if pm.Mean != nil {
			anyDefined = true
			break
		}
	}
	if !anyDefined {
		// Readings survived the filters but none of them maps onto
		// the index scale.
		return nil, ErrNoData
	}

	return &Report{
		Buckets:        buckets,
		Summary:        Summarize(buckets, params.Pollutants, params.Threshold),
		PollutantMeans: means,
		Categories:     Distribute(buckets),
	}, nil
}

// FetchAndStore fetches readings from all providers concurrently for
// the given location and appends whatever they returned to the store.
// Partial success is fine; provider failures are logged and skipped.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) error {
	if len(s.providers) == 0 {
		return errors.New("no air-quality providers configured")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		fetched []Reading
	)

	for _, p := range s.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			readings, err := p.Fetch(ctx, loc)
			if err != nil {
				log.Printf("provider %s fetch failed for %s: %v", p.Name(), loc.Key(), err)
				return
			}

			mu.Lock()
			fetched = append(fetched, readings...)
			mu.Unlock()
		}()
	}

	wg.Wait()

	if len(fetched) == 0 {
		log.Printf("no successful provider readings for %s; keeping stored snapshot as is", loc.Key())
		return nil
	}

	s.store.Append(fetched)
	return nil
}

// Cities delegates to the underlying store.
func (s *Service) Cities() []string {
	return s.store.Cities()
}

// Stations delegates to the underlying store.
func (s *Service) Stations(city string) []string {
	return s.store.Stations(city)
}

// Coverage delegates to the underlying store.
func (s *Service) Coverage(city, station string) (time.Time, time.Time, bool) {
	return s.store.Coverage(city, station)
}
