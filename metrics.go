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
	"math"

	"gonum.org/v1/gonum/stat"
)

// PerfectResilience is the resilience of a series without any
// recovered failure runs.
const PerfectResilience = 100.0

// MetricsConfig holds the settings for a metrics calculation.
type MetricsConfig struct {
	// Threshold is the value at or above which the system is
	// considered to be meeting its target.
	Threshold float64

	// Cutoff, if not nil, restricts the calculation to the
	// observations made on the cutoff date of each year.
	Cutoff *CutoffDate

	// RecoveryOffset is added to the mean recovery time before it is
	// inverted, so that resilience = 100 / (RecoveryOffset + mean).
	// The default of 0 gives 100 / mean; 1 gives the
	// 100 / (1 + mean) normalization used by earlier versions.
	RecoveryOffset float64

	// CountOpenRuns specifies whether a failure run that is still in
	// progress at the end of the series counts as a recovery run.
	// By default it does not: only runs followed by a recovery are counted.
	CountOpenRuns bool
}

// Formula returns a human readable description of the resilience
// formula selected by c.
func (c MetricsConfig) Formula() string {
	if c.RecoveryOffset == 0 {
		return "100 / mean(recovery time)"
	}
	return fmt.Sprintf("100 / (%g + mean(recovery time))", c.RecoveryOffset)
}

// Result holds the outcome of a metrics calculation.
type Result struct {
	// Points is the number of observations the metrics were
	// calculated from, after any cutoff filtering.
	Points int

	// Reliability is the percentage of Points at or above the threshold.
	Reliability float64

	// Resilience is the resilience score, in the range (0, 100].
	Resilience float64

	// FailureRuns are the lengths of the failure runs that
	// contributed to Resilience.
	FailureRuns []int
}

// Reliability returns the percentage of values that are greater than
// or equal to threshold. It returns 0 when values is empty.
// NaN values count toward the total but never meet the threshold.
func Reliability(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var above int
	for _, v := range values {
		if v >= threshold {
			above++
		}
	}
	return 100 * float64(above) / float64(len(values))
}

// FailureRuns returns the lengths of the runs of consecutive values that
// are strictly less than threshold. A run is recorded when it is followed
// by a value that is not a failure. If countOpen is true, a run that is
// still in progress at the end of values is recorded as well.
func FailureRuns(values []float64, threshold float64, countOpen bool) []int {
	var runs []int
	var length int
	for _, v := range values {
		if v < threshold {
			length++
		} else if length > 0 {
			runs = append(runs, length)
			length = 0
		}
	}
	if countOpen && length > 0 {
		runs = append(runs, length)
	}
	return runs
}

// Resilience returns 100 / (offset + mean(runs)), where runs are the
// failure runs found by FailureRuns. It returns PerfectResilience when
// there are no runs.
func Resilience(values []float64, threshold, offset float64, countOpen bool) float64 {
	return resilienceFromRuns(FailureRuns(values, threshold, countOpen), offset)
}

func resilienceFromRuns(runs []int, offset float64) float64 {
	if len(runs) == 0 {
		return PerfectResilience
	}
	r := make([]float64, len(runs))
	for i, n := range runs {
		r[i] = float64(n)
	}
	return PerfectResilience / (offset + stat.Mean(r, nil))
}

// Calculate calculates reliability and resilience for ts. If c.Cutoff is
// set, both indicators are calculated from the same cutoff-filtered
// observations; otherwise all observations are used.
func Calculate(ts Timeseries, c MetricsConfig) (Result, error) {
	if math.IsNaN(c.Threshold) {
		return Result{}, fmt.Errorf("werp: threshold is NaN")
	}
	if c.RecoveryOffset < 0 || math.IsNaN(c.RecoveryOffset) {
		return Result{}, fmt.Errorf("werp: recovery offset must be >= 0 but is %g", c.RecoveryOffset)
	}
	values := ts.Values
	if c.Cutoff != nil {
		if err := c.Cutoff.Valid(); err != nil {
			return Result{}, err
		}
		filtered, err := FilterCutoff(ts, *c.Cutoff)
		if err != nil {
			return Result{}, err
		}
		values = filtered.Values
	}
	runs := FailureRuns(values, c.Threshold, c.CountOpenRuns)
	return Result{
		Points:      len(values),
		Reliability: Reliability(values, c.Threshold),
		Resilience:  resilienceFromRuns(runs, c.RecoveryOffset),
		FailureRuns: runs,
	}, nil
}
