package airquality

import (
	"fmt"
	"time"
)

// Pollutant is a closed enumeration of the pollutant codes the index
// tables know about. Readings carrying any other code are ignored.
type Pollutant string

const (
	PM25 Pollutant = "pm25"
	O3   Pollutant = "o3"
)

// Pollutants lists the known codes in canonical order.
var Pollutants = []Pollutant{PM25, O3}

// ParsePollutant validates a raw pollutant code.
func ParsePollutant(s string) (Pollutant, error) {
	switch Pollutant(s) {
	case PM25:
		return PM25, nil
	case O3:
		return O3, nil
	}
	return "", fmt.Errorf("unknown pollutant code %q", s)
}

// Label returns the human-readable name used in ranking displays.
func (p Pollutant) Label() string {
	switch p {
	case PM25:
		return "PM2.5"
	case O3:
		return "O₃"
	}
	return string(p)
}

// Granularity selects the fixed bucket width for resampling.
type Granularity string

const (
	Hourly Granularity = "hour"
	Daily  Granularity = "day"
	Weekly Granularity = "week"
)

// ParseGranularity validates a raw granularity value.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Hourly, Daily, Weekly:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// Location identifies a place readings can be fetched for.
// Lat/Lon are optional; providers that need coordinates geocode the
// city when they are absent.
type Location struct {
	City    string   `json:"city"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns a canonical string key for indexing this location.
func (l Location) Key() string {
	return l.City + ":" + l.Country
}

// Reading is one time-stamped concentration measurement as supplied by
// the loading layer. It is never mutated by the core; a nil
// Concentration or zero Timestamp marks the field as missing and the
// reading is dropped during aggregation.
type Reading struct {
	Timestamp     time.Time `json:"timestamp"` // always UTC
	City          string    `json:"city"`
	Station       string    `json:"station"`
	Pollutant     Pollutant `json:"pollutant"`
	Concentration *float64  `json:"concentration"`
}

// Filter narrows the reading snapshot before aggregation.
// Zero-valued fields are treated as absent; Start/End are calendar
// dates and End covers its whole day. Pollutants must be non-empty and
// its order is the canonical tie-break order for the top driver.
type Filter struct {
	City       string
	Station    string
	Start      time.Time
	End        time.Time
	Pollutants []Pollutant
}

// Bucket is one fixed-width aggregation window. Index holds an entry
// for every requested pollutant; nil means no reading contributed.
// OverallIndex is the maximum of the defined per-pollutant indices,
// nil when none is defined.
type Bucket struct {
	Timestamp    time.Time              `json:"timestamp"`
	Index        map[Pollutant]*float64 `json:"index"`
	OverallIndex *float64               `json:"overallIndex"`
}

// WorstBucket is the bucket with the highest overall index.
type WorstBucket struct {
	Timestamp time.Time `json:"timestamp"`
	Index     float64   `json:"index"`
}

// PollutantMean is one entry of the contribution ranking: the mean
// index of a pollutant across all buckets where it was defined.
type PollutantMean struct {
	Pollutant Pollutant `json:"pollutant"`
	Label     string    `json:"label"`
	Mean      *float64  `json:"mean"`
}

// SummaryResult carries the four headline statistics. Every field is
// computed independently; nil means it could not be derived from the
// buckets at hand.
type SummaryResult struct {
	AverageIndex   *float64     `json:"averageIndex"`
	ExceedanceRate *float64     `json:"exceedanceRate"` // fraction of defined buckets at or above threshold
	WorstBucket    *WorstBucket `json:"worstBucket"`
	TopDriver      *Pollutant   `json:"topDriver"`
}

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Report bundles everything one dashboard query produces.
type Report struct {
	Buckets        []Bucket        `json:"buckets"`
	Summary        SummaryResult   `json:"summary"`
	PollutantMeans []PollutantMean `json:"pollutantMeans"`
	Categories     []CategoryCount `json:"categories"`
}

func ptr(v float64) *float64 { return &v }
