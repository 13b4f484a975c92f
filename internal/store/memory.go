package store

import (
	"errors"
	"sync"
	"time"

	"github.com/oceanobs/sst-data-aggregation/internal/sst"
)

var (
	// ErrNotFound is returned when no table is available for a dataset.
	ErrNotFound = errors.New("no table for dataset")
)

// tableEntry is one stored table with the time it was saved, used for
// age-based retention.
type tableEntry struct {
	table    sst.SSTTable
	storedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory store of fetched SST tables,
// keyed by dataset.
type MemoryStore struct {
	mu sync.RWMutex

	data map[sst.Dataset][]tableEntry

	// retention configuration
	maxHistory int           // max number of tables per dataset
	maxAge     time.Duration // optional max age for tables
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[sst.Dataset][]tableEntry),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveTable appends a new table for a dataset and enforces retention.
func (s *MemoryStore) SaveTable(ds sst.Dataset, table sst.SSTTable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.data[ds], tableEntry{table: table, storedAt: time.Now()})

	// Enforce retention by count.
	if s.maxHistory > 0 && len(entries) > s.maxHistory {
		entries = entries[len(entries)-s.maxHistory:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(entries); i++ {
			if !entries[i].storedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(entries) {
			entries = entries[i:]
		}
	}

	s.data[ds] = entries
}

// GetLatest returns the most recently saved table for a dataset.
func (s *MemoryStore) GetLatest(ds sst.Dataset) (sst.SSTTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.data[ds]
	if len(entries) == 0 {
		return sst.SSTTable{}, ErrNotFound
	}
	return entries[len(entries)-1].table, nil
}

// History returns all retained tables for a dataset, oldest first.
func (s *MemoryStore) History(ds sst.Dataset) ([]sst.SSTTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.data[ds]
	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	tables := make([]sst.SSTTable, 0, len(entries))
	for _, e := range entries {
		tables = append(tables, e.table)
	}
	return tables, nil
}
