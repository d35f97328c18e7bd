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
	"fmt"
	"time"
)

// Timeseries is an ordered sequence of observations.
type Timeseries struct {
	// Times holds the observation instants. It is nil when the
	// source data has no calendar time axis.
	Times []time.Time

	// Values holds the observed values. Missing observations are NaN.
	Values []float64
}

// Len returns the number of observations in ts.
func (ts Timeseries) Len() int { return len(ts.Values) }

// HasTimes returns whether ts carries calendar timestamps.
func (ts Timeseries) HasTimes() bool { return ts.Times != nil }

// Validate checks that the timestamps, if any, match the values
// one-to-one and are strictly increasing.
func (ts Timeseries) Validate() error {
	if ts.Times == nil {
		return nil
	}
	if len(ts.Times) != len(ts.Values) {
		return fmt.Errorf("werp: timeseries has %d times but %d values", len(ts.Times), len(ts.Values))
	}
	for i := 1; i < len(ts.Times); i++ {
		if !ts.Times[i].After(ts.Times[i-1]) {
			return fmt.Errorf("werp: timeseries times are not strictly increasing at index %d (%v after %v)",
				i, ts.Times[i], ts.Times[i-1])
		}
	}
	return nil
}
