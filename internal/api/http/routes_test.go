package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oceanobs/sst-data-aggregation/internal/datadir"
	"github.com/oceanobs/sst-data-aggregation/internal/sst"
	"github.com/oceanobs/sst-data-aggregation/internal/sst/sources"
	"github.com/oceanobs/sst-data-aggregation/internal/store"
)

const portalFixture = `{
  "type": "FeatureCollection",
  "features": [
    {"properties": {"objectid": 1, "collection_date": "2020-01-01T00:00:00Z",
      "temp_min": 10.0, "temp_max": 14.0, "temp_avg": 12.5}}
  ]
}`

// newTestApp wires a fiber app against an httptest upstream and returns the
// app plus a pointer to the upstream request counter.
func newTestApp(t *testing.T) (*fiber.App, *sst.Service, *datadir.Dir, *int) {
	t.Helper()

	calls := new(int)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Write([]byte(portalFixture))
	}))
	t.Cleanup(upstream.Close)

	memStore := store.NewMemoryStore(10, time.Hour)
	svc := sst.NewService(memStore,
		sources.NewPortalSource(upstream.Client(), upstream.URL),
		sources.NewBuoySource(upstream.Client(), upstream.URL+"/q?b=[BEGIN]&e=[END]"),
	)

	dir, err := datadir.New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, svc, dir)
	return app, svc, dir, calls
}

func TestFetchUnknownDataset(t *testing.T) {
	app, _, _, calls := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sst/xyz", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
	if *calls != 0 {
		t.Fatalf("expected no upstream call for unknown dataset, got %d", *calls)
	}
}

func TestFetchRejectsBadDates(t *testing.T) {
	app, _, _, calls := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sst/buoy?begin=07-09-2001&end=2001-07-10", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if *calls != 0 {
		t.Fatalf("expected no upstream call for bad dates, got %d", *calls)
	}
}

func TestFetchPortal(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sst/portal?granularity=daily", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var table sst.SSTTable
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(table.Summaries))
	}
	if table.Provenance.Name != "portal" {
		t.Fatalf("expected portal provenance, got %+v", table.Provenance)
	}
}

func TestLatestEmptyStore(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sst/portal/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestHistory(t *testing.T) {
	app, svc, _, _ := newTestApp(t)

	// Empty store yields 404.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sst/portal/history", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	for i := 0; i < 2; i++ {
		if err := svc.FetchAndStore(context.Background(), sst.DatasetPortal, sst.GranularityDaily, "", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sst/portal/history", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Dataset string         `json:"dataset"`
		Tables  []sst.SSTTable `json:"tables"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Dataset != "portal" {
		t.Fatalf("expected portal dataset, got %q", payload.Dataset)
	}
	if len(payload.Tables) != 2 {
		t.Fatalf("expected 2 retained tables, got %d", len(payload.Tables))
	}
}

func TestExportWritesCSV(t *testing.T) {
	app, svc, dir, _ := newTestApp(t)

	// Seed the store through the service.
	if err := svc.FetchAndStore(context.Background(), sst.DatasetPortal, sst.GranularityDaily, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exportReq := httptest.NewRequest(http.MethodPost, "/api/v1/sst/portal/export", nil)
	resp, err := app.Test(exportReq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	want := dir.Resolve("portal.csv")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected exported file at %s: %v", want, err)
	}
	if filepath.Ext(want) != ".csv" {
		t.Fatalf("unexpected export path %s", want)
	}
}
