package airquality

import (
	"sort"
	"time"
)

// meanAcc accumulates a running mean.
type meanAcc struct {
	sum   float64
	count int
}

func (a *meanAcc) add(v float64) {
	a.sum += v
	a.count++
}

func (a meanAcc) mean() float64 {
	return a.sum / float64(a.count)
}

// Aggregate filters a reading snapshot, pivots it into one row per
// unique timestamp, and resamples into fixed-width, left-aligned UTC
// buckets. Every bucket between the first and last populated one is
// emitted, in strictly increasing order, with nil entries where no
// reading contributed. An empty filtered set yields an empty slice.
//
// The input is never mutated; two calls with identical inputs produce
// identical bucket sequences.
func Aggregate(readings []Reading, filter Filter, granularity Granularity) []Bucket {
	if _, err := ParseGranularity(string(granularity)); err != nil {
		// An unknown width cannot partition the time axis; yield the
		// empty-result signal instead of guessing a default.
		return []Bucket{}
	}

	station := filter.Station
	if filter.City != "" && station != "" && !stationInCity(readings, filter.City, station) {
		// A station that does not belong to the selected city is
		// treated as no station filter at all.
		station = ""
	}

	requested := make(map[Pollutant]bool, len(filter.Pollutants))
	for _, p := range filter.Pollutants {
		requested[p] = true
	}

	var start, endExclusive time.Time
	if !filter.Start.IsZero() {
		start = dateOf(filter.Start)
	}
	if !filter.End.IsZero() {
		// The end date is inclusive of its whole day.
		endExclusive = dateOf(filter.End).AddDate(0, 0, 1)
	}

	// Pivot: per exact timestamp, per pollutant, average duplicate
	// readings.
	cells := make(map[time.Time]map[Pollutant]*meanAcc)
	for _, r := range readings {
		if r.Concentration == nil || r.Timestamp.IsZero() {
			continue
		}
		if filter.City != "" && r.City != filter.City {
			continue
		}
		if station != "" && r.Station != station {
			continue
		}
		if !requested[r.Pollutant] {
			continue
		}
		ts := r.Timestamp.UTC()
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !endExclusive.IsZero() && !ts.Before(endExclusive) {
			continue
		}

		row, ok := cells[ts]
		if !ok {
			row = make(map[Pollutant]*meanAcc)
			cells[ts] = row
		}
		acc, ok := row[r.Pollutant]
		if !ok {
			acc = &meanAcc{}
			row[r.Pollutant] = acc
		}
		acc.add(*r.Concentration)
	}

	if len(cells) == 0 {
		return []Bucket{}
	}

	// Resample: the bucket value is the mean of the per-timestamp
	// means falling into it. Timestamps are walked in order so float
	// accumulation stays deterministic.
	timestamps := make([]time.Time, 0, len(cells))
	for ts := range cells {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	buckets := make(map[time.Time]map[Pollutant]*meanAcc)
	for _, ts := range timestamps {
		bs := bucketStart(ts, granularity)
		row, ok := buckets[bs]
		if !ok {
			row = make(map[Pollutant]*meanAcc)
			buckets[bs] = row
		}
		for p, cell := range cells[ts] {
			acc, ok := row[p]
			if !ok {
				acc = &meanAcc{}
				row[p] = acc
			}
			acc.add(cell.mean())
		}
	}

	first := bucketStart(timestamps[0], granularity)
	last := bucketStart(timestamps[len(timestamps)-1], granularity)

	var out []Bucket
	for bs := first; !bs.After(last); bs = nextBucket(bs, granularity) {
		b := Bucket{
			Timestamp: bs,
			Index:     make(map[Pollutant]*float64, len(filter.Pollutants)),
		}
		row := buckets[bs]
		for _, p := range filter.Pollutants {
			b.Index[p] = nil
			acc, ok := row[p]
			if !ok {
				continue
			}
			if index, defined := IndexFor(p, acc.mean()); defined {
				b.Index[p] = ptr(index)
			}
		}
		b.OverallIndex = maxDefined(b.Index, filter.Pollutants)
		out = append(out, b)
	}
	return out
}

// stationInCity reports whether any reading pairs the station with the
// city.
func stationInCity(readings []Reading, city, station string) bool {
	for _, r := range readings {
		if r.City == city && r.Station == station {
			return true
		}
	}
	return false
}

// maxDefined returns the worst (highest) defined per-pollutant index,
// nil when none is defined.
func maxDefined(index map[Pollutant]*float64, order []Pollutant) *float64 {
	var max *float64
	for _, p := range order {
		v := index[p]
		if v == nil {
			continue
		}
		if max == nil || *v > *max {
			max = ptr(*v)
		}
	}
	return max
}

// dateOf truncates an instant to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// bucketStart returns the left edge of the bucket containing ts.
// Weeks start on Monday 00:00 UTC.
func bucketStart(ts time.Time, g Granularity) time.Time {
	ts = ts.UTC()
	switch g {
	case Hourly:
		return ts.Truncate(time.Hour)
	case Daily:
		return dateOf(ts)
	case Weekly:
		day := dateOf(ts)
		offset := (int(day.Weekday()) + 6) % 7 // days since Monday
		return day.AddDate(0, 0, -offset)
	}
	return ts
}

// nextBucket returns the left edge of the bucket after bs.
func nextBucket(bs time.Time, g Granularity) time.Time {
	switch g {
	case Hourly:
		return bs.Add(time.Hour)
	case Daily:
		return bs.AddDate(0, 0, 1)
	case Weekly:
		return bs.AddDate(0, 0, 7)
	}
	return bs
}
