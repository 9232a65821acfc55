package iers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// TestFetcherBodyLimit verifies that oversized responses return an error
// instead of consuming unbounded memory.
func TestFetcherBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		chunk := strings.Repeat("A", 1024*1024)
		for i := 0; i < 10; i++ {
			if _, err := w.Write([]byte(chunk)); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, testLogger)
	_, err := fetcher.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for oversized response, got nil")
	}
	if !strings.Contains(err.Error(), "byte limit") {
		t.Errorf("expected body limit error, got: %v", err)
	}
}

func TestFetcherSuccess(t *testing.T) {
	body := sampleFinals()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, testLogger)
	data, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != body {
		t.Errorf("body mismatch: got %d bytes, want %d", len(data), len(body))
	}
}

func TestFetcherHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, testLogger)
	if _, err := fetcher.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 500 response, got nil")
	}
}

func TestFetcherDefaultURL(t *testing.T) {
	if got := NewFetcher("", testLogger).SourceURL(); got != DefaultSourceURL {
		t.Errorf("SourceURL() = %q, want %q", got, DefaultSourceURL)
	}
}

func TestCacheWritePrunesOldSnapshots(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, 2)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if err := c.Write([]byte{byte('a' + i)}, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	// Unrelated files are left alone.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	snaps, err := c.Snapshots()
	if err != nil {
		t.Fatalf("Snapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("kept %d snapshots, want 2", len(snaps))
	}
	if !snaps[0].FetchedAt.Equal(base.Add(3*time.Hour)) || !snaps[1].FetchedAt.Equal(base.Add(2*time.Hour)) {
		t.Errorf("snapshots not newest first: %v, %v", snaps[0].FetchedAt, snaps[1].FetchedAt)
	}
	if got := filepath.Base(snaps[0].Path); got != "finals2000A.20240601T150000Z.daily" {
		t.Errorf("snapshot name = %q", got)
	}
	data, err := os.ReadFile(snaps[0].Path)
	if err != nil || string(data) != "d" {
		t.Errorf("newest snapshot = %q, %v; want %q", data, err, "d")
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".finals-*"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

func TestCacheLoadEmpty(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "missing"), 0)
	if _, err := c.Load(testLogger); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Load on missing dir = %v, want ErrNoSnapshot", err)
	}
}

func TestCacheLoadFallsBackToOlderSnapshot(t *testing.T) {
	c := NewCache(t.TempDir(), 5)
	good := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	if err := c.Write([]byte(sampleFinals()), good); err != nil {
		t.Fatal(err)
	}
	if err := c.Write([]byte("<html>maintenance</html>\n"), good.Add(24*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := c.Write([]byte(sampleFinals()[:40]), good.Add(48*time.Hour)); err != nil {
		t.Fatal(err)
	}

	tbl, err := c.Load(testLogger)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !tbl.FetchedAt.Equal(good) {
		t.Errorf("loaded snapshot from %v, want %v", tbl.FetchedAt, good)
	}
	if len(tbl.Entries) != 4 {
		t.Errorf("loaded %d entries, want 4", len(tbl.Entries))
	}

	store := NewStore()
	if err := store.LoadCache(c, testLogger); err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if got := store.Get(); got == nil || !got.FetchedAt.Equal(good) {
		t.Errorf("store table = %+v", got)
	}
}

func TestCacheLoadAllUnusable(t *testing.T) {
	c := NewCache(t.TempDir(), 3)
	if err := c.Write([]byte("not a finals file\n"), time.Now()); err != nil {
		t.Fatal(err)
	}

	store := NewStore()
	if err := store.LoadCache(c, testLogger); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("LoadCache = %v, want ErrNoSnapshot", err)
	}
	if store.Get() != nil {
		t.Error("store should stay empty")
	}
}

func TestStoreRefreshAndLoadCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(sampleFinals()))
	}))
	defer server.Close()

	dir := t.TempDir()
	c := NewCache(dir, 3)
	f := NewFetcher(server.URL, testLogger)

	store := NewStore()
	if store.Get() != nil || store.AgeSeconds() != -1 {
		t.Fatal("new store should be empty")
	}
	if _, err := store.DUT1(day(2017, 1, 1)); err != ErrNotLoaded {
		t.Errorf("DUT1 on empty store = %v, want ErrNotLoaded", err)
	}

	tbl, err := store.Refresh(context.Background(), f, c, testLogger)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(tbl.Entries) != 4 || store.Get() != tbl {
		t.Fatalf("store not updated: %d entries", len(tbl.Entries))
	}
	if tbl.Source != server.URL {
		t.Errorf("Source = %q, want %q", tbl.Source, server.URL)
	}
	if !tbl.Range.Min.Equal(day(2016, 12, 30)) || !tbl.Range.Max.Equal(day(2017, 1, 2)) {
		t.Errorf("Range = %+v", tbl.Range)
	}

	// A fresh store recovers the same table from disk.
	reloaded := NewStore()
	if err := reloaded.LoadCache(c, testLogger); err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if got := len(reloaded.Get().Entries); got != 4 {
		t.Errorf("reloaded %d entries, want 4", got)
	}
	if got, err := reloaded.DUT1(day(2017, 1, 2)); err != nil || got != 0.59 {
		t.Errorf("reloaded DUT1 = %v, %v", got, err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestRunRefresherStopsOnCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFinals()))
	}))
	defer server.Close()

	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	updated := make(chan *Table, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		store.RunRefresher(ctx, time.Hour, NewFetcher(server.URL, testLogger), nil, testLogger, func(t *Table, err error) {
			if err == nil {
				updated <- t
			}
		})
	}()

	select {
	case tbl := <-updated:
		if len(tbl.Entries) != 4 {
			t.Errorf("refreshed table has %d entries", len(tbl.Entries))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("refresher did not publish a table")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresher did not stop after cancel")
	}
}

func TestRunRefresherReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	failures := make(chan error, 1)

	go store.RunRefresher(ctx, time.Hour, NewFetcher(server.URL, testLogger), nil, testLogger, func(t *Table, err error) {
		if err != nil {
			failures <- err
		}
	})

	select {
	case err := <-failures:
		if !strings.Contains(err.Error(), "502") {
			t.Errorf("err = %v, want status 502", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("refresher did not report the failure")
	}
	if store.Get() != nil {
		t.Error("store should stay empty after a failed refresh")
	}
}
