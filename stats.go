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
	"math"

	"github.com/GaryBoone/GoStats/stats"
)

// Statistics summarizes the values of a variable.
type Statistics struct {
	Mean float64
	// Std is the population standard deviation.
	Std     float64
	Min     float64
	Max     float64
	Missing int
}

// Summarize calculates summary statistics over the defined (non-NaN)
// entries of values and counts the NaN entries. If there are no defined
// entries, Mean, Std, Min, and Max are NaN.
func Summarize(values []float64) Statistics {
	defined := make([]float64, 0, len(values))
	var missing int
	for _, v := range values {
		if math.IsNaN(v) {
			missing++
			continue
		}
		defined = append(defined, v)
	}
	if len(defined) == 0 {
		nan := math.NaN()
		return Statistics{Mean: nan, Std: nan, Min: nan, Max: nan, Missing: missing}
	}
	return Statistics{
		Mean:    stats.StatsMean(defined),
		Std:     stats.StatsPopulationStandardDeviation(defined),
		Min:     stats.StatsMin(defined),
		Max:     stats.StatsMax(defined),
		Missing: missing,
	}
}
