package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oceanobs/sst-data-aggregation/internal/sst"
)

const portalBody = `{
  "type": "FeatureCollection",
  "features": [
    {"properties": {"objectid": 2, "collection_date": "2020-01-02T00:00:00Z",
      "temp_min": 11.0, "temp_max": 13.0, "temp_avg": 12.0}},
    {"properties": {"objectid": 1, "collection_date": "2020-01-01T00:00:00Z",
      "temp_min": 10.0, "temp_max": 14.0, "temp_avg": 12.5}},
    {"properties": {"objectid": 3, "collection_date": "2020-01-03T00:00:00Z"}}
  ]
}`

func TestPortalFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write([]byte(portalBody))
	}))
	defer srv.Close()

	src := NewPortalSource(srv.Client(), srv.URL)

	table, err := src.Fetch(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if table.Granularity != sst.GranularityDaily {
		t.Fatalf("expected daily table, got %s", table.Granularity)
	}
	if len(table.Summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(table.Summaries))
	}

	// Rows reordered ascending by collection date.
	if table.Summaries[0].Date.Format(sst.DateLayout) != "2020-01-01" {
		t.Fatalf("expected first row 2020-01-01, got %s",
			table.Summaries[0].Date.Format(sst.DateLayout))
	}
	if *table.Summaries[0].Mean != 12.5 {
		t.Fatalf("expected mean 12.5, got %v", *table.Summaries[0].Mean)
	}

	// A feature without temperature fields keeps absent values.
	last := table.Summaries[2]
	if last.Min != nil || last.Max != nil || last.Mean != nil {
		t.Fatalf("expected absent temps for bare feature, got %+v", last)
	}

	if table.Provenance.Name != "portal" || table.Provenance.SourceURI != srv.URL {
		t.Fatalf("expected provenance to carry source URI, got %+v", table.Provenance)
	}
}

func TestPortalFetchUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := NewPortalSource(srv.Client(), srv.URL)

	_, err := src.Fetch(context.Background(), "", "")
	if !errors.Is(err, ErrUpstreamStatus) {
		t.Fatalf("expected ErrUpstreamStatus, got %v", err)
	}
}

func TestNormalizePortalFeaturesBadDate(t *testing.T) {
	var f portalFeature
	f.Properties.CollectionDate = "01/02/2020"

	if _, err := normalizePortalFeatures([]portalFeature{f}); err == nil {
		t.Fatal("expected error for malformed collection date")
	}
}
