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

package ncdata

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/ctessum/cdf"
)

// TimeVariable is the name of the time coordinate written by Write.
const TimeVariable = "Date"

// Frame is an in-memory set of timeseries variables that share a time
// coordinate.
type Frame struct {
	Times []time.Time

	// Names gives the order in which the variables are written.
	Names []string

	// Variables holds the values of each variable, indexed by time.
	Variables map[string][]float64

	// Attributes are global text attributes.
	Attributes map[string]string
}

// Validate checks that every named variable exists and matches the
// length of the time coordinate, and that the times are strictly
// increasing.
func (fr *Frame) Validate() error {
	if len(fr.Times) == 0 {
		return fmt.Errorf("ncdata: frame has no times")
	}
	for i := 1; i < len(fr.Times); i++ {
		if !fr.Times[i].After(fr.Times[i-1]) {
			return fmt.Errorf("ncdata: frame times are not strictly increasing at index %d", i)
		}
	}
	seen := make(map[string]bool)
	for _, name := range fr.Names {
		if name == TimeVariable {
			return fmt.Errorf("ncdata: variable name %s is reserved for the time coordinate", name)
		}
		if seen[name] {
			return fmt.Errorf("ncdata: repeated variable %s", name)
		}
		seen[name] = true
		v, ok := fr.Variables[name]
		if !ok {
			return fmt.Errorf("ncdata: variable %s has no data", name)
		}
		if len(v) != len(fr.Times) {
			return fmt.Errorf("ncdata: variable %s has %d values but there are %d times", name, len(v), len(fr.Times))
		}
	}
	return nil
}

// Write writes fr to a new NetCDF classic file at path. The time
// coordinate is stored in days since the first time, and the variables
// are stored as single precision floating point numbers with NaN as the
// fill value.
func Write(path string, fr *Frame) error {
	if err := fr.Validate(); err != nil {
		return err
	}
	ref := fr.Times[0].UTC()

	h := cdf.NewHeader([]string{TimeVariable}, []int{len(fr.Times)})
	h.AddVariable(TimeVariable, []string{TimeVariable}, []float64{0})
	h.AddAttribute(TimeVariable, "units", "days since "+ref.Format("2006-01-02 15:04:05"))
	h.AddAttribute(TimeVariable, "calendar", "proleptic_gregorian")
	for _, name := range fr.Names {
		h.AddVariable(name, []string{TimeVariable}, []float32{0})
		h.AddAttribute(name, "_FillValue", []float32{float32(math.NaN())})
	}
	attrs := make([]string, 0, len(fr.Attributes))
	for a := range fr.Attributes {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)
	for _, a := range attrs {
		h.AddAttribute("", a, fr.Attributes[a])
	}
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ncdata: creating %s: %v", path, err)
	}
	f, err := cdf.Create(ff, h) // writes the header to ff
	if err != nil {
		ff.Close()
		return fmt.Errorf("ncdata: writing header to %s: %v", path, err)
	}

	days := make([]float64, len(fr.Times))
	for i, t := range fr.Times {
		days[i] = daysSince(ref, t)
	}
	if err := writeVar(f, TimeVariable, days); err != nil {
		ff.Close()
		return fmt.Errorf("ncdata: writing %s to %s: %v", TimeVariable, path, err)
	}
	for _, name := range fr.Names {
		data32 := make([]float32, len(fr.Times))
		for i, v := range fr.Variables[name] {
			data32[i] = float32(v)
		}
		if err := writeVar(f, name, data32); err != nil {
			ff.Close()
			return fmt.Errorf("ncdata: writing %s to %s: %v", name, path, err)
		}
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		ff.Close()
		return fmt.Errorf("ncdata: writing %s: %v", path, err)
	}
	return ff.Close()
}

// writeVar writes all of the values of variable v. The end index
// passed to the writer is one past the last element so that a complete
// write does not report io.EOF.
func writeVar(f *cdf.File, v string, data interface{}) error {
	end := f.Header.Lengths(v)
	start := make([]int, len(end))
	_, err := f.Writer(v, start, end).Write(data)
	if err == io.EOF {
		return nil
	}
	return err
}
