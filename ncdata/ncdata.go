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

// Package ncdata reads timeseries of hydrological variables from
// NetCDF classic files (NetCDF 4 and greater not supported) and writes
// timeseries datasets in the same format.
//
// A dataset is opened once with Open, which returns an immutable
// handle; all queries are methods on that handle. The time coordinate
// is identified by CF/COARDS-style units, e.g. "days since 1889-01-01".
package ncdata

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ctessum/cdf"
)

// Dataset is a handle to an open NetCDF dataset. It is not modified
// after Open returns, and must be closed with Close when it is no longer
// needed.
type Dataset struct {
	path    string
	f       *os.File
	nc      *cdf.File
	numRecs int

	vars map[string]bool

	// timeVar is the name of the time coordinate variable (and
	// dimension), or "" if the dataset does not have one.
	timeVar string
	times   []time.Time
}

// Open opens the NetCDF dataset at path.
func Open(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("ncdata: opening %s: %v", path, err)
	}
	nc, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, &FormatError{Path: path, Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ncdata: opening %s: %v", path, err)
	}
	d := &Dataset{
		path:    path,
		f:       f,
		nc:      nc,
		numRecs: int(nc.Header.NumRecs(fi.Size())),
		vars:    make(map[string]bool),
	}
	for _, v := range nc.Header.Variables() {
		d.vars[v] = true
	}
	if err := d.loadTimeAxis(); err != nil {
		f.Close()
		return nil, &FormatError{Path: path, Err: err}
	}
	return d, nil
}

// Close releases the file underlying d.
func (d *Dataset) Close() error {
	return d.f.Close()
}

// Path returns the location d was opened from.
func (d *Dataset) Path() string { return d.path }

// Variables returns the sorted names of the data variables in d.
// Coordinate variables (one-dimensional variables with the same name as
// their dimension) are not included.
func (d *Dataset) Variables() []string {
	var o []string
	for _, v := range d.nc.Header.Variables() {
		if !d.isCoordinate(v) {
			o = append(o, v)
		}
	}
	sort.Strings(o)
	return o
}

// HasVariable returns whether d contains a variable called name.
func (d *Dataset) HasVariable(name string) bool { return d.vars[name] }

// Dimensions returns the dimension names of variable name.
func (d *Dataset) Dimensions(name string) ([]string, error) {
	if !d.vars[name] {
		return nil, d.variableNotFound(name)
	}
	return d.nc.Header.Dimensions(name), nil
}

// Attribute returns the text attribute attr of variable v, or the
// global attribute attr if v is "".
func (d *Dataset) Attribute(v, attr string) (string, bool) {
	s, ok := d.nc.Header.GetAttribute(v, attr).(string)
	if !ok {
		return "", false
	}
	return strings.TrimRight(s, "\x00 "), true
}

// HasTimeAxis returns whether d has a time coordinate.
func (d *Dataset) HasTimeAxis() bool { return d.timeVar != "" }

// TimeDimension returns the name of the time dimension, or "" if there
// is none.
func (d *Dataset) TimeDimension() string { return d.timeVar }

// Times returns a copy of the values of the time coordinate.
func (d *Dataset) Times() ([]time.Time, error) {
	if d.timeVar == "" {
		return nil, &MissingTimeAxisError{Path: d.path, Reason: "no coordinate variable has time units"}
	}
	return append([]time.Time{}, d.times...), nil
}

// DateRange returns the first and last values of the time coordinate.
func (d *Dataset) DateRange() (start, end time.Time, err error) {
	if d.timeVar == "" {
		return start, end, &MissingTimeAxisError{Path: d.path, Reason: "no coordinate variable has time units"}
	}
	if len(d.times) == 0 {
		return start, end, &MissingTimeAxisError{Path: d.path, Reason: fmt.Sprintf("time coordinate %s is empty", d.timeVar)}
	}
	return d.times[0], d.times[len(d.times)-1], nil
}

func (d *Dataset) isCoordinate(v string) bool {
	dims := d.nc.Header.Dimensions(v)
	return len(dims) == 1 && dims[0] == v
}

func (d *Dataset) variableNotFound(name string) error {
	return &VariableNotFoundError{Name: name, Available: d.Variables()}
}

// loadTimeAxis finds and decodes the time coordinate, if there is one.
func (d *Dataset) loadTimeAxis() error {
	var candidates []string
	for _, v := range d.nc.Header.Variables() {
		if !d.isCoordinate(v) {
			continue
		}
		if units, ok := d.Attribute(v, "units"); ok && isTimeUnits(units) {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	name := candidates[0]
	for _, preferred := range timeNames {
		if d.vars[preferred] && contains(candidates, preferred) {
			name = preferred
			break
		}
	}
	values, _, err := d.readVar(name)
	if err != nil {
		return fmt.Errorf("reading time coordinate %s: %v", name, err)
	}
	units, _ := d.Attribute(name, "units")
	calendar, _ := d.Attribute(name, "calendar")
	times, err := decodeTimes(values, units, calendar)
	if err != nil {
		return fmt.Errorf("decoding time coordinate %s: %v", name, err)
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return fmt.Errorf("time coordinate %s is not strictly increasing at index %d", name, i)
		}
	}
	d.timeVar = name
	d.times = times
	return nil
}

func contains(s []string, v string) bool {
	for _, ss := range s {
		if ss == v {
			return true
		}
	}
	return false
}
