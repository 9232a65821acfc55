package iers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNotLoaded is returned by lookups before any table has been loaded.
var ErrNotLoaded = errors.New("iers: no table loaded")

// Store provides thread-safe access to the current Earth orientation table.
type Store struct {
	table atomic.Pointer[Table]
	mu    sync.Mutex // serializes refreshes
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current table, or nil if none has been loaded.
func (s *Store) Get() *Table {
	return s.table.Load()
}

// Set atomically replaces the current table.
func (s *Store) Set(t *Table) {
	s.table.Store(t)
}

// AgeSeconds returns the age of the current table in seconds, or -1 if no
// table is loaded.
func (s *Store) AgeSeconds() float64 {
	t := s.table.Load()
	if t == nil {
		return -1
	}
	return time.Since(t.FetchedAt).Seconds()
}

// DeltaT returns TT-UT1 at instant at, using the loaded table when it
// covers the instant and the ΔT polynomial otherwise.
func (s *Store) DeltaT(at time.Time) float64 {
	return s.table.Load().DeltaT(at)
}

// DUT1 returns UT1-UTC at instant at from the loaded table.
func (s *Store) DUT1(at time.Time) (float64, error) {
	t := s.table.Load()
	if t == nil {
		return 0, ErrNotLoaded
	}
	return t.DUT1(at)
}

// LoadCache publishes the newest usable cached snapshot.
func (s *Store) LoadCache(c *Cache, logger *slog.Logger) error {
	t, err := c.Load(logger)
	if err != nil {
		return err
	}
	s.Set(t)
	return nil
}

// Refresh fetches, parses and caches a new table and publishes it.
// Concurrent calls are serialized.
func (s *Store) Refresh(ctx context.Context, f *Fetcher, c *Cache, logger *slog.Logger) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := Parse(bytes.NewReader(data), logger)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no usable rows from %s", f.SourceURL())
	}

	now := time.Now()
	if c != nil {
		if err := c.Write(data, now); err != nil {
			logger.Warn("failed to write IERS cache", "component", "iers", "error", err)
		}
	}

	t := NewTable(f.SourceURL(), now, entries)
	s.Set(t)
	return t, nil
}

// RunRefresher refreshes the store every interval until ctx is cancelled.
// A refresh happens immediately when the store is empty or older than
// interval. onResult, if non-nil, is called after each attempt with either
// the new table or the error.
func (s *Store) RunRefresher(ctx context.Context, interval time.Duration, f *Fetcher, c *Cache, logger *slog.Logger, onResult func(*Table, error)) {
	logger = logger.With("component", "iers")

	refresh := func() {
		t, err := s.Refresh(ctx, f, c, logger)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("IERS refresh failed", "error", err)
			if onResult != nil {
				onResult(nil, err)
			}
			return
		}
		logger.Info("IERS table updated",
			"rows", len(t.Entries),
			"predicted", t.Predicted(),
			"from", t.Range.Min.Format(time.DateOnly),
			"to", t.Range.Max.Format(time.DateOnly),
		)
		if onResult != nil {
			onResult(t, nil)
		}
	}

	if age := s.AgeSeconds(); age < 0 || age > interval.Seconds() {
		refresh()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			refresh()
		case <-ctx.Done():
			return
		}
	}
}
