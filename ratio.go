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
	"time"

	"gonum.org/v1/gonum/floats"
)

// DeliveryRatio calculates, for each calendar year, the running totals of
// orders and deliveries and returns the ratio of delivered to ordered
// volume at the end of each month. Months within the span of the data
// that contain no observations are NaN. The timestamp of each output
// value is the last day of its month.
func DeliveryRatio(times []time.Time, orders, delivered []float64) (Timeseries, error) {
	if times == nil {
		return Timeseries{}, ErrNoTimeAxis
	}
	if len(orders) != len(times) || len(delivered) != len(times) {
		return Timeseries{}, fmt.Errorf("werp: delivery ratio: %d times, %d orders, and %d deliveries",
			len(times), len(orders), len(delivered))
	}
	if err := (Timeseries{Times: times, Values: orders}).Validate(); err != nil {
		return Timeseries{}, err
	}
	out := Timeseries{Times: []time.Time{}, Values: []float64{}}
	if len(times) == 0 {
		return out, nil
	}

	ratio := make([]float64, len(times))
	cumOrders := make([]float64, len(times))
	cumDelivered := make([]float64, len(times))
	for start := 0; start < len(times); {
		end := start + 1
		for end < len(times) && times[end].Year() == times[start].Year() {
			end++
		}
		floats.CumSum(cumOrders[start:end], orders[start:end])
		floats.CumSum(cumDelivered[start:end], delivered[start:end])
		start = end
	}
	for i := range ratio {
		ratio[i] = cumDelivered[i] / cumOrders[i]
	}

	first, last := monthEnd(times[0]), monthEnd(times[len(times)-1])
	var i int
	for m := first; !m.After(last); m = monthEnd(m.AddDate(0, 0, 1)) {
		v := math.NaN()
		for i < len(times) && !monthEnd(times[i]).After(m) {
			v = ratio[i]
			i++
		}
		out.Times = append(out.Times, m)
		out.Values = append(out.Values, v)
	}
	return out, nil
}

// monthEnd returns midnight UTC on the last day of the month containing t.
func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}
