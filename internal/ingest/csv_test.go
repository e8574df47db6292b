package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/aqinsight/air-quality-insight/internal/airquality"
)

func TestLoadParsesReadings(t *testing.T) {
	csv := strings.Join([]string{
		"city,station,datetime_local,pollutant,value",
		"Lisbon,centro,2024-03-04 06:00:00,pm25,12.5",
		"Lisbon,centro,2024-03-04T07:00:00Z,o3,48",
	}, "\n")

	readings, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}

	first := readings[0]
	if first.City != "Lisbon" || first.Station != "centro" || first.Pollutant != airquality.PM25 {
		t.Fatalf("unexpected first reading: %+v", first)
	}
	want := time.Date(2024, time.March, 4, 6, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", first.Timestamp, want)
	}
	if first.Concentration == nil || *first.Concentration != 12.5 {
		t.Fatalf("concentration = %v, want 12.5", first.Concentration)
	}
}

// TestLoadKeepsRowsWithBadCells: unparsable value or datetime cells do
// not fail the load; the reading is kept with the field marked missing
// so the aggregator drops it later.
func TestLoadKeepsRowsWithBadCells(t *testing.T) {
	csv := strings.Join([]string{
		"city,station,datetime_local,pollutant,value",
		"Lisbon,centro,2024-03-04 06:00:00,pm25,not-a-number",
		"Lisbon,centro,not-a-date,pm25,12.5",
	}, "\n")

	readings, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}
	if readings[0].Concentration != nil {
		t.Fatalf("bad value must yield nil concentration, got %v", *readings[0].Concentration)
	}
	if !readings[1].Timestamp.IsZero() {
		t.Fatalf("bad datetime must yield zero timestamp, got %v", readings[1].Timestamp)
	}
}

func TestLoadSkipsUnknownPollutants(t *testing.T) {
	csv := strings.Join([]string{
		"city,station,datetime_local,pollutant,value",
		"Lisbon,centro,2024-03-04 06:00:00,so2,5.0",
		"Lisbon,centro,2024-03-04 06:00:00,pm25,12.5",
	}, "\n")

	readings, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 1 || readings[0].Pollutant != airquality.PM25 {
		t.Fatalf("expected only the pm25 reading, got %+v", readings)
	}
}

func TestLoadRejectsMissingColumns(t *testing.T) {
	csv := "city,station,pollutant,value\nLisbon,centro,pm25,12.5"

	if _, err := Load(strings.NewReader(csv)); err == nil {
		t.Fatal("expected an error for a header without datetime_local")
	}
}

func TestLoadHeaderIsCaseInsensitive(t *testing.T) {
	csv := strings.Join([]string{
		"City, Station, Datetime_Local, Pollutant, Value",
		"Lisbon, centro, 2024-03-04 06:00:00, pm25, 12.5",
	}, "\n")

	readings, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(readings))
	}
}
