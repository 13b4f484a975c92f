package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/oceanobs/sst-data-aggregation/internal/sst"
)

// portalTimeLayout is the collection-date format used by the portal feed.
const portalTimeLayout = "2006-01-02T15:04:05Z"

// PortalSource fetches daily SST summaries from a geospatial open-data
// portal. The endpoint serves a GeoJSON feature collection whose per-feature
// properties carry the tabular payload; the feed is daily-native, so the
// begin/end range is ignored.
type PortalSource struct {
	name     string
	longName string
	url      string
	client   *http.Client
}

func NewPortalSource(client *http.Client, url string) *PortalSource {
	return &PortalSource{
		name:     string(sst.DatasetPortal),
		longName: "Open-data portal sea surface temperature, daily",
		url:      url,
		client:   client,
	}
}

func (p *PortalSource) Dataset() sst.Dataset {
	return sst.DatasetPortal
}

// portalFeature is the subset of a GeoJSON feature we consume. The upstream
// identifier is decoded only to be dropped during normalization.
type portalFeature struct {
	Properties struct {
		ObjectID       int64    `json:"objectid"`
		CollectionDate string   `json:"collection_date"`
		TempMin        *float64 `json:"temp_min"`
		TempMax        *float64 `json:"temp_max"`
		TempAvg        *float64 `json:"temp_avg"`
	} `json:"properties"`
}

func (p *PortalSource) Fetch(ctx context.Context, begin, end string) (sst.SSTTable, error) {
	resp, err := doGet(ctx, p.client, p.url)
	if err != nil {
		return sst.SSTTable{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Features []portalFeature `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return sst.SSTTable{}, fmt.Errorf("decode portal response: %w", err)
	}

	summaries, err := normalizePortalFeatures(payload.Features)
	if err != nil {
		return sst.SSTTable{}, err
	}

	return sst.SSTTable{
		Provenance: sst.Provenance{
			Name:      p.name,
			LongName:  p.longName,
			SourceURI: p.url,
		},
		Granularity: sst.GranularityDaily,
		Summaries:   summaries,
	}, nil
}

// normalizePortalFeatures maps raw portal features onto the canonical
// summary schema, dropping the source identifier column and ordering rows
// ascending by collection date. Pure; no I/O.
func normalizePortalFeatures(features []portalFeature) ([]sst.DailySummary, error) {
	summaries := make([]sst.DailySummary, 0, len(features))
	for _, f := range features {
		ts, err := time.Parse(portalTimeLayout, f.Properties.CollectionDate)
		if err != nil {
			return nil, fmt.Errorf("portal collection_date %q: %w", f.Properties.CollectionDate, err)
		}
		summaries = append(summaries, sst.DailySummary{
			Date: time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Min:  f.Properties.TempMin,
			Max:  f.Properties.TempMax,
			Mean: f.Properties.TempAvg,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date.Before(summaries[j].Date)
	})
	return summaries, nil
}
