package sst

import (
	"context"
	"fmt"
	"log"
)

// Source abstracts one remote SST data source. Fetch performs a single
// blocking round-trip and returns the normalized table at the source's native
// granularity; begin and end are ISO calendar dates and are ignored by
// sources that do not take a date range.
type Source interface {
	Dataset() Dataset
	Fetch(ctx context.Context, begin, end string) (SSTTable, error)
}

// Store is the contract the in-memory store (and any future persistent store)
// must satisfy.
type Store interface {
	SaveTable(ds Dataset, table SSTTable)
	GetLatest(ds Dataset) (SSTTable, error)
	History(ds Dataset) ([]SSTTable, error)
}

// Service routes dataset requests to the source registered for each variant
// and applies daily aggregation where requested.
type Service struct {
	store   Store
	sources map[Dataset]Source
}

// NewService creates a Service. Each source is registered under its own
// dataset variant; the set of variants is fixed at construction.
func NewService(store Store, sources ...Source) *Service {
	m := make(map[Dataset]Source, len(sources))
	for _, s := range sources {
		m[s.Dataset()] = s
	}
	return &Service{store: store, sources: m}
}

// Fetch retrieves and normalizes the requested dataset. For the buoy feed a
// daily granularity aggregates the sub-daily readings into per-date
// summaries; the portal feed is daily-native and returns its summaries for
// either selector. Unknown datasets fail before any network call is made.
func (s *Service) Fetch(ctx context.Context, ds Dataset, gran Granularity, begin, end string) (SSTTable, error) {
	src, ok := s.sources[ds]
	if !ok {
		return SSTTable{}, fmt.Errorf("%w: %q", ErrUnknownDataset, ds)
	}

	table, err := src.Fetch(ctx, begin, end)
	if err != nil {
		return SSTTable{}, err
	}

	if gran == GranularityDaily && table.Granularity == GranularityHourly {
		table = SSTTable{
			Provenance:  table.Provenance,
			Granularity: GranularityDaily,
			Summaries:   AggregateDaily(table.Readings),
		}
	}
	return table, nil
}

// FetchAndStore fetches a dataset and saves the resulting table as the
// latest snapshot for that dataset. Fetch failures are propagated; the last
// good table is never overwritten on failure.
func (s *Service) FetchAndStore(ctx context.Context, ds Dataset, gran Granularity, begin, end string) error {
	table, err := s.Fetch(ctx, ds, gran, begin, end)
	if err != nil {
		return err
	}
	log.Printf("service: storing %s table with %d rows", ds, len(table.Readings)+len(table.Summaries))
	s.store.SaveTable(ds, table)
	return nil
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(ds Dataset) (SSTTable, error) {
	return s.store.GetLatest(ds)
}

// History delegates to the underlying store.
func (s *Service) History(ds Dataset) ([]SSTTable, error) {
	return s.store.History(ds)
}
