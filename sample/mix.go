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

package sample

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spatialmodel/werp/ncdata"
	"golang.org/x/exp/rand"
)

// MixYears builds a dataset in which the records of each calendar year
// are taken from one of sources chosen at random among those that
// contain that year. The result contains the timeseries variables that
// all sources share and is ordered by date. Every source must have a
// time axis.
func MixYears(sources []*ncdata.Dataset, seed int64) (*ncdata.Frame, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("sample: no datasets to mix")
	}
	names, err := commonSeries(sources)
	if err != nil {
		return nil, err
	}

	type yearSpan struct{ begin, end int }
	times := make([][]time.Time, len(sources))
	spans := make([]map[int]yearSpan, len(sources))
	years := make(map[int]bool)
	for i, d := range sources {
		t, err := d.Times()
		if err != nil {
			return nil, fmt.Errorf("sample: mixing %s: %v", d.Path(), err)
		}
		times[i] = t
		spans[i] = make(map[int]yearSpan)
		for j, tt := range t {
			y := tt.Year()
			s, ok := spans[i][y]
			if !ok {
				s.begin = j
			}
			s.end = j + 1
			spans[i][y] = s
			years[y] = true
		}
	}
	sortedYears := make([]int, 0, len(years))
	for y := range years {
		sortedYears = append(sortedYears, y)
	}
	sort.Ints(sortedYears)

	data := make([]map[string][]float64, len(sources))
	for i, d := range sources {
		data[i] = make(map[string][]float64, len(names))
		for _, name := range names {
			ts, err := d.ReadVariable(name)
			if err != nil {
				return nil, fmt.Errorf("sample: mixing %s: %v", d.Path(), err)
			}
			data[i][name] = ts.Values
		}
	}

	rng := rand.New(rand.NewSource(uint64(seed)))
	fr := &ncdata.Frame{
		Names:     names,
		Variables: make(map[string][]float64, len(names)),
	}
	var paths []string
	for _, d := range sources {
		paths = append(paths, d.Path())
	}
	fr.Attributes = map[string]string{
		"description": "Years mixed at random from several datasets",
		"sources":     strings.Join(paths, ", "),
		"created":     time.Now().UTC().Format(time.RFC3339),
	}
	for _, y := range sortedYears {
		var candidates []int
		for i := range sources {
			if _, ok := spans[i][y]; ok {
				candidates = append(candidates, i)
			}
		}
		i := candidates[rng.Intn(len(candidates))]
		s := spans[i][y]
		fr.Times = append(fr.Times, times[i][s.begin:s.end]...)
		for _, name := range names {
			fr.Variables[name] = append(fr.Variables[name], data[i][name][s.begin:s.end]...)
		}
	}
	return fr, nil
}

// commonSeries returns the sorted names of the variables that are
// timeseries along the time axis in every one of sources.
func commonSeries(sources []*ncdata.Dataset) ([]string, error) {
	count := make(map[string]int)
	for _, d := range sources {
		if !d.HasTimeAxis() {
			return nil, fmt.Errorf("sample: mixing %s: %v", d.Path(),
				&ncdata.MissingTimeAxisError{Path: d.Path(), Reason: "no coordinate variable has time units"})
		}
		for _, v := range d.Variables() {
			dims, err := d.Dimensions(v)
			if err != nil {
				return nil, err
			}
			if len(dims) == 1 && dims[0] == d.TimeDimension() {
				count[v]++
			}
		}
	}
	var names []string
	for v, n := range count {
		if n == len(sources) && v != ncdata.TimeVariable {
			names = append(names, v)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("sample: the datasets have no timeseries variables in common")
	}
	sort.Strings(names)
	return names, nil
}
