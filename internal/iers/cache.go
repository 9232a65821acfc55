package iers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Snapshot files are named finals2000A.<fetch time>.daily with the fetch
// time in UTC basic format, e.g. finals2000A.20240601T120000Z.daily.
const (
	snapshotPrefix = "finals2000A."
	snapshotSuffix = ".daily"
	snapshotStamp  = "20060102T150405Z"
)

// ErrNoSnapshot is returned by Cache.Load when no cached snapshot parses
// into a usable table.
var ErrNoSnapshot = errors.New("iers: no usable cached snapshot")

// Snapshot is one cached copy of the finals file.
type Snapshot struct {
	Path      string
	FetchedAt time.Time
}

// Cache keeps the most recent raw finals downloads on disk so the service
// can start with Earth orientation data before the first fetch completes.
type Cache struct {
	dir  string
	keep int
}

// NewCache returns a Cache rooted at dir that keeps the newest keep
// snapshots. keep <= 0 means 3.
func NewCache(dir string, keep int) *Cache {
	if keep <= 0 {
		keep = 3
	}
	return &Cache{dir: dir, keep: keep}
}

// Write stores data as the snapshot fetched at ts. The file is written
// under a temporary name and renamed into place, so a crash never leaves a
// partial snapshot behind. Older snapshots beyond the keep limit are
// removed.
func (c *Cache) Write(data []byte, ts time.Time) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".finals-*")
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}

	name := snapshotPrefix + ts.UTC().Format(snapshotStamp) + snapshotSuffix
	if err := os.Rename(tmp.Name(), filepath.Join(c.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing snapshot: %w", err)
	}

	snaps, err := c.Snapshots()
	if err != nil {
		return err
	}
	for _, s := range snaps[min(len(snaps), c.keep):] {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("removing old snapshot: %w", err)
		}
	}
	return nil
}

// Snapshots lists the cached snapshots, newest first. A missing cache
// directory yields an empty list. Files that do not follow the snapshot
// naming scheme are ignored.
func (c *Cache) Snapshots() ([]Snapshot, error) {
	entries, err := os.ReadDir(c.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing cache dir: %w", err)
	}

	var snaps []Snapshot
	for _, e := range entries {
		stamp, ok := strings.CutPrefix(e.Name(), snapshotPrefix)
		if !ok || e.IsDir() {
			continue
		}
		stamp, ok = strings.CutSuffix(stamp, snapshotSuffix)
		if !ok {
			continue
		}
		ts, err := time.Parse(snapshotStamp, stamp)
		if err != nil {
			continue
		}
		snaps = append(snaps, Snapshot{Path: filepath.Join(c.dir, e.Name()), FetchedAt: ts})
	}

	slices.SortFunc(snaps, func(a, b Snapshot) int {
		return b.FetchedAt.Compare(a.FetchedAt)
	})
	return snaps, nil
}

// Load returns a table built from the newest snapshot that parses into at
// least one entry. Unreadable or empty snapshots are logged and skipped.
func (c *Cache) Load(logger *slog.Logger) (*Table, error) {
	snaps, err := c.Snapshots()
	if err != nil {
		return nil, err
	}

	for _, s := range snaps {
		data, err := os.ReadFile(s.Path)
		if err != nil {
			logger.Warn("skipping unreadable IERS snapshot", "component", "iers", "path", s.Path, "error", err)
			continue
		}
		entries, err := Parse(bytes.NewReader(data), logger)
		if err != nil || len(entries) == 0 {
			logger.Warn("skipping unusable IERS snapshot", "component", "iers", "path", s.Path, "rows", len(entries), "error", err)
			continue
		}
		return NewTable("cache:"+filepath.Base(s.Path), s.FetchedAt, entries), nil
	}
	return nil, fmt.Errorf("%w in %s (%d files)", ErrNoSnapshot, c.dir, len(snaps))
}
