package iers

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrOutOfRange is returned when an instant falls outside the table.
var ErrOutOfRange = errors.New("iers: instant outside table range")

// Table is an immutable, MJD-sorted set of Earth orientation entries.
type Table struct {
	Source    string
	FetchedAt time.Time
	Range     DateRange
	Entries   []Entry
}

// NewTable builds a Table from entries sorted by MJD.
func NewTable(source string, fetchedAt time.Time, entries []Entry) *Table {
	t := &Table{
		Source:    source,
		FetchedAt: fetchedAt,
		Entries:   entries,
	}
	if len(entries) > 0 {
		t.Range = DateRange{
			Min: entries[0].Time(),
			Max: entries[len(entries)-1].Time(),
		}
	}
	return t
}

// Predicted returns the number of entries that are predictions.
func (t *Table) Predicted() int {
	n := 0
	for _, e := range t.Entries {
		if e.Predicted {
			n++
		}
	}
	return n
}

// DUT1 returns UT1-UTC at instant at, interpolated linearly between daily
// rows. A leap-second step between two rows is removed before
// interpolating.
func (t *Table) DUT1(at time.Time) (float64, error) {
	n := len(t.Entries)
	if n == 0 {
		return 0, ErrOutOfRange
	}
	mjd := timeToMJD(at.UTC())
	if mjd < t.Entries[0].MJD || mjd > t.Entries[n-1].MJD {
		return 0, ErrOutOfRange
	}

	i := sort.Search(n, func(i int) bool { return t.Entries[i].MJD > mjd })
	if i == n {
		return t.Entries[n-1].UT1UTC, nil
	}
	lo, hi := t.Entries[i-1], t.Entries[i]

	v0, v1 := lo.UT1UTC, hi.UT1UTC
	if math.Abs(v1-v0) > 0.5 {
		// Leap second between the rows.
		v1 -= math.Copysign(1, v1-v0)
	}
	f := (mjd - lo.MJD) / (hi.MJD - lo.MJD)
	v := v0 + f*(v1-v0)

	return math.Max(-0.9999, math.Min(0.9999, v)), nil
}

// DeltaT returns TT-UT1 in seconds at instant at. Inside the table it is
// 32.184 + (TAI-UTC) - DUT1; elsewhere the Espenak-Meeus polynomial for
// the decimal year is used.
func (t *Table) DeltaT(at time.Time) float64 {
	if t != nil {
		if dut1, err := t.DUT1(at); err == nil {
			if tai, ok := TAIMinusUTC(at); ok {
				return 32.184 + tai - dut1
			}
		}
	}
	return PolynomialDeltaT(DecimalYear(at))
}
