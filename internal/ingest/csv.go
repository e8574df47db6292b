package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aqinsight/air-quality-insight/internal/airquality"
)

// Required columns of the processed readings CSV. Column order is
// free; the header decides.
var requiredColumns = []string{"city", "station", "datetime_local", "pollutant", "value"}

// timestampLayouts are tried in order when parsing datetime_local.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadFile reads a processed readings CSV from disk.
func LoadFile(path string) ([]airquality.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open readings csv: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses readings from a CSV stream. Rows with an unknown
// pollutant code are skipped. Unparsable cells do not fail the load:
// a bad value becomes a nil concentration and a bad datetime a zero
// timestamp, both of which the aggregator drops later. Only a
// malformed header or a missing required column is an error.
func Load(r io.Reader) ([]airquality.Reading, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("readings csv is missing column %q", c)
		}
	}

	var readings []airquality.Reading
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep going; a torn line loses one reading, not the load.
			continue
		}

		pollutant, err := airquality.ParsePollutant(field(record, cols["pollutant"]))
		if err != nil {
			continue
		}

		reading := airquality.Reading{
			City:      field(record, cols["city"]),
			Station:   field(record, cols["station"]),
			Pollutant: pollutant,
		}
		if ts, ok := parseTimestamp(field(record, cols["datetime_local"])); ok {
			reading.Timestamp = ts
		}
		if v, err := strconv.ParseFloat(field(record, cols["value"]), 64); err == nil {
			reading.Concentration = &v
		}

		readings = append(readings, reading)
	}
	return readings, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
