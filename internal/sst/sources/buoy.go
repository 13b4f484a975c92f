package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/oceanobs/sst-data-aggregation/internal/sst"
)

// Buoy telemetry column positions. The feed has a fixed header row
// (station, time, site description, conductivity +/- qc, temperature +/- qc,
// salinity +/- qc, sigma-t +/- qc, longitude, latitude, depth).
const (
	buoyColTime = 1
	buoyColTemp = 5
)

// BuoySource fetches sub-daily temperature readings from a shore-station
// telemetry endpoint. The query URI is a fixed template with [BEGIN] and
// [END] date tokens.
type BuoySource struct {
	name     string
	longName string
	template string
	client   *http.Client
}

func NewBuoySource(client *http.Client, template string) *BuoySource {
	return &BuoySource{
		name:     string(sst.DatasetBuoy),
		longName: "Shore station buoy telemetry, sea surface temperature",
		template: template,
		client:   client,
	}
}

func (b *BuoySource) Dataset() sst.Dataset {
	return sst.DatasetBuoy
}

func (b *BuoySource) Fetch(ctx context.Context, begin, end string) (sst.SSTTable, error) {
	uri, err := BuildRangeURI(b.template, begin, end)
	if err != nil {
		return sst.SSTTable{}, err
	}

	resp, err := doGet(ctx, b.client, uri)
	if err != nil {
		return sst.SSTTable{}, err
	}
	defer resp.Body.Close()

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return sst.SSTTable{}, fmt.Errorf("parse buoy response: %w", err)
	}

	return sst.SSTTable{
		Provenance: sst.Provenance{
			Name:      b.name,
			LongName:  b.longName,
			SourceURI: uri,
		},
		Granularity: sst.GranularityHourly,
		Readings:    normalizeBuoyRecords(records),
	}, nil
}

// normalizeBuoyRecords converts raw telemetry rows into readings, ordered
// ascending by timestamp. The header row and the first data row (a known
// units/metadata artifact of the source format) are discarded. A temperature
// that fails numeric coercion — including rows truncated before the
// temperature column — becomes an absent value; only rows without a usable
// timestamp are skipped, since they cannot be grouped. Pure; no I/O.
func normalizeBuoyRecords(records [][]string) []sst.Reading {
	// Header plus the units row.
	if len(records) <= 2 {
		return []sst.Reading{}
	}
	records = records[2:]

	readings := make([]sst.Reading, 0, len(records))
	for _, rec := range records {
		if len(rec) <= buoyColTime {
			continue
		}

		ts, err := parseBuoyTime(rec[buoyColTime])
		if err != nil {
			continue
		}

		r := sst.Reading{Timestamp: ts}
		if len(rec) > buoyColTemp {
			// The feed writes literal NaN for missing samples; treat it as absent.
			if v, err := strconv.ParseFloat(rec[buoyColTemp], 64); err == nil && !math.IsNaN(v) {
				r.Temp = &v
			}
		}
		readings = append(readings, r)
	}

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
	return readings
}

// parseBuoyTime accepts the RFC3339 timestamps the feed normally emits plus
// the space-separated variant seen in older exports (taken as UTC).
func parseBuoyTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
