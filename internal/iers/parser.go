package iers

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// Column positions (0-based, end exclusive) in the IERS finals2000A format.
const (
	colMJDStart    = 7
	colMJDEnd      = 15
	colUT1Flag     = 57
	colUT1UTCStart = 58
	colUT1UTCEnd   = 68
)

// Parse reads IERS finals2000A rows from r. Rows without a UT1-UTC value
// (the far prediction tail) are skipped silently; malformed rows are
// skipped with a warning log. Entries are returned sorted by MJD.
func Parse(r io.Reader, logger *slog.Logger) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) < colUT1UTCEnd {
			continue
		}

		ut1Str := strings.TrimSpace(line[colUT1UTCStart:colUT1UTCEnd])
		if ut1Str == "" {
			continue
		}

		mjdStr := strings.TrimSpace(line[colMJDStart:colMJDEnd])
		mjd, err := strconv.ParseFloat(mjdStr, 64)
		if err != nil {
			logger.Warn("skipping row with invalid MJD", "line", lineNo, "mjd_str", mjdStr)
			continue
		}

		ut1, err := strconv.ParseFloat(ut1Str, 64)
		if err != nil {
			logger.Warn("skipping row with invalid UT1-UTC", "line", lineNo, "ut1_str", ut1Str)
			continue
		}
		if ut1 <= -1 || ut1 >= 1 {
			logger.Warn("skipping row with UT1-UTC out of range", "line", lineNo, "ut1_utc", ut1)
			continue
		}

		entries = append(entries, Entry{
			MJD:       mjd,
			UT1UTC:    ut1,
			Predicted: line[colUT1Flag] == 'P',
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading IERS data: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].MJD < entries[j].MJD
	})

	return entries, nil
}
