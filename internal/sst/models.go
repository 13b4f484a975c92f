package sst

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownDataset is returned when a dataset key does not match any
	// supported dataset.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrInvalidDateFormat is returned when a date string cannot be parsed
	// as an ISO calendar date (YYYY-MM-DD).
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// DateLayout is the ISO calendar date layout used for all begin/end inputs.
const DateLayout = "2006-01-02"

// Dataset identifies one of the supported SST data sources. The set is
// closed: each variant is wired to its fetch/normalize pair at startup.
type Dataset string

const (
	// DatasetPortal is the geospatial open-data portal (GeoJSON endpoint).
	DatasetPortal Dataset = "portal"
	// DatasetBuoy is the oceanographic shore-station buoy telemetry feed.
	DatasetBuoy Dataset = "buoy"
)

// ParseDataset resolves a case-insensitive dataset key to its variant.
func ParseDataset(key string) (Dataset, error) {
	switch Dataset(strings.ToLower(strings.TrimSpace(key))) {
	case DatasetPortal:
		return DatasetPortal, nil
	case DatasetBuoy:
		return DatasetBuoy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDataset, key)
	}
}

// Granularity selects between raw sub-daily readings and daily aggregates.
type Granularity string

const (
	GranularityHourly Granularity = "hourly"
	GranularityDaily  Granularity = "daily"
)

// ParseGranularity resolves a case-insensitive granularity selector.
// An empty selector defaults to hourly.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return GranularityHourly, nil
	case GranularityHourly:
		return GranularityHourly, nil
	case GranularityDaily:
		return GranularityDaily, nil
	default:
		return "", fmt.Errorf("unknown granularity %q (want hourly or daily)", s)
	}
}

// Reading is a single timestamped temperature observation. The timestamp is
// timezone-aware; Temp is nil when the source reported no usable value.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Temp      *float64  `json:"temp"`
}

// DailySummary is the per-date aggregate of all Readings sharing one calendar
// date. Date is midnight UTC of that calendar date. Min, Max and Mean are all
// nil when the date had zero present readings; that nil triple is the
// documented empty-group sentinel, not an error.
type DailySummary struct {
	Date time.Time `json:"collection_date"`
	Min  *float64  `json:"temp_min"`
	Max  *float64  `json:"temp_max"`
	Mean *float64  `json:"temp_avg"`
}

// Provenance records where a table's rows came from. It is set once at table
// construction and never mutated.
type Provenance struct {
	Name      string `json:"name"`
	LongName  string `json:"long_name"`
	SourceURI string `json:"source_uri"`
}

// SSTTable pairs row data with its provenance. Exactly one of Readings or
// Summaries is populated, matching Granularity. Rows are ordered ascending by
// timestamp/date; a daily table has unique dates. Tables are never mutated in
// place, only replaced.
type SSTTable struct {
	Provenance  Provenance     `json:"provenance"`
	Granularity Granularity    `json:"granularity"`
	Readings    []Reading      `json:"readings,omitempty"`
	Summaries   []DailySummary `json:"summaries,omitempty"`
}
