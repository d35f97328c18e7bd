/*
Copyright © 2026 the WERP authors.
This file is part of WERP.

WERP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

WERP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with WERP.  If not, see <http://www.gnu.org/licenses/>.
*/

package werp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNoTimeAxis is returned when a calendar-based operation is requested
// on a Timeseries without timestamps.
var ErrNoTimeAxis = errors.New("werp: timeseries has no time axis")

// CutoffDate is a calendar month and day used to sample one
// observation per year.
type CutoffDate struct {
	Month time.Month
	Day   int
}

// DefaultCutoff is the end of the Australian water year, June 30.
var DefaultCutoff = CutoffDate{Month: time.June, Day: 30}

func (c CutoffDate) String() string {
	return fmt.Sprintf("%02d-%02d", int(c.Month), c.Day)
}

// Valid returns an error if c could not occur in any year.
func (c CutoffDate) Valid() error {
	if c.Month < time.January || c.Month > time.December {
		return fmt.Errorf("werp: invalid cutoff month %d", int(c.Month))
	}
	// 2000 is a leap year, so February 29 is accepted.
	last := time.Date(2000, c.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if c.Day < 1 || c.Day > last {
		return fmt.Errorf("werp: invalid cutoff day %d for %s", c.Day, c.Month)
	}
	return nil
}

// Matches returns whether t falls on the cutoff month and day.
func (c CutoffDate) Matches(t time.Time) bool {
	return t.Month() == c.Month && t.Day() == c.Day
}

// ParseCutoff parses a cutoff date in MM-DD format, e.g. "06-30".
func ParseCutoff(s string) (CutoffDate, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return CutoffDate{}, fmt.Errorf("werp: cutoff date %q is not in MM-DD format", s)
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil {
		return CutoffDate{}, fmt.Errorf("werp: parsing cutoff month in %q: %v", s, err)
	}
	d, err := strconv.Atoi(parts[1])
	if err != nil {
		return CutoffDate{}, fmt.Errorf("werp: parsing cutoff day in %q: %v", s, err)
	}
	c := CutoffDate{Month: time.Month(m), Day: d}
	if err := c.Valid(); err != nil {
		return CutoffDate{}, err
	}
	return c, nil
}

// FilterCutoff returns the observations of ts whose month and day equal
// those of c, in chronological order. ts is not modified.
func FilterCutoff(ts Timeseries, c CutoffDate) (Timeseries, error) {
	if !ts.HasTimes() {
		return Timeseries{}, ErrNoTimeAxis
	}
	if err := ts.Validate(); err != nil {
		return Timeseries{}, err
	}
	out := Timeseries{Times: []time.Time{}, Values: []float64{}}
	for i, t := range ts.Times {
		if c.Matches(t) {
			out.Times = append(out.Times, t)
			out.Values = append(out.Values, ts.Values[i])
		}
	}
	return out, nil
}
