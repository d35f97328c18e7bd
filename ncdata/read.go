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
	"math"
	"time"

	"github.com/spatialmodel/werp"
	"gonum.org/v1/gonum/floats"
)

var (
	latNames = []string{"lat", "latitude"}
	lonNames = []string{"lon", "longitude"}
)

// ReadVariable reads variable name as a timeseries along its outermost
// dimension. If that dimension is the time coordinate, the series
// carries its timestamps. Variables with other dimensions longer than one
// (for example gridded variables) must be read with
// ReadVariableAtLocation.
func (d *Dataset) ReadVariable(name string) (werp.Timeseries, error) {
	if !d.vars[name] {
		return werp.Timeseries{}, d.variableNotFound(name)
	}
	dims := d.nc.Header.Dimensions(name)
	if len(dims) == 0 {
		return werp.Timeseries{}, fmt.Errorf("ncdata: variable %s is a scalar, not a timeseries", name)
	}
	values, shape, err := d.readVar(name)
	if err != nil {
		return werp.Timeseries{}, fmt.Errorf("ncdata: reading variable %s: %v", name, err)
	}
	for i := 1; i < len(shape); i++ {
		if shape[i] != 1 {
			return werp.Timeseries{}, fmt.Errorf("ncdata: variable %s has dimensions %v with lengths %v; "+
				"select a single location with ReadVariableAtLocation", name, dims, shape)
		}
	}
	return d.timeseries(dims[0], values)
}

// ReadVariableAtLocation reads the timeseries of variable name at the
// grid cell whose latitude and longitude are nearest to lat and lon.
// The variable must have latitude ("lat" or "latitude") and longitude
// ("lon" or "longitude") dimensions with coordinate variables.
func (d *Dataset) ReadVariableAtLocation(name string, lat, lon float64) (werp.Timeseries, error) {
	if !d.vars[name] {
		return werp.Timeseries{}, d.variableNotFound(name)
	}
	dims := d.nc.Header.Dimensions(name)
	latDim, lonDim := indexOf(dims, latNames), indexOf(dims, lonNames)
	if latDim < 0 || lonDim < 0 {
		return werp.Timeseries{}, &LocationError{Variable: name, Dimensions: dims,
			Reason: "the variable has no latitude and longitude dimensions"}
	}
	lats, err := d.coordinate(name, dims, dims[latDim])
	if err != nil {
		return werp.Timeseries{}, err
	}
	lons, err := d.coordinate(name, dims, dims[lonDim])
	if err != nil {
		return werp.Timeseries{}, err
	}
	j, err := nearest(lats, lat)
	if err != nil {
		return werp.Timeseries{}, &LocationError{Variable: name, Dimensions: dims, Reason: err.Error()}
	}
	i, err := nearest(lons, lon)
	if err != nil {
		return werp.Timeseries{}, &LocationError{Variable: name, Dimensions: dims, Reason: err.Error()}
	}

	values, shape, err := d.readVar(name)
	if err != nil {
		return werp.Timeseries{}, fmt.Errorf("ncdata: reading variable %s: %v", name, err)
	}
	seriesDim := -1
	for k := range dims {
		if k == latDim || k == lonDim {
			continue
		}
		if seriesDim < 0 {
			seriesDim = k
		} else if shape[k] != 1 {
			return werp.Timeseries{}, fmt.Errorf("ncdata: variable %s has more than one non-spatial dimension "+
				"longer than one: %v with lengths %v", name, dims, shape)
		}
	}

	strides := make([]int, len(shape))
	stride := 1
	for k := len(shape) - 1; k >= 0; k-- {
		strides[k] = stride
		stride *= shape[k]
	}
	base := j*strides[latDim] + i*strides[lonDim]
	if seriesDim < 0 {
		return werp.Timeseries{Values: []float64{values[base]}}, nil
	}
	series := make([]float64, shape[seriesDim])
	for t := range series {
		series[t] = values[base+t*strides[seriesDim]]
	}
	return d.timeseries(dims[seriesDim], series)
}

// VariableStatistics returns summary statistics over all values of
// variable name, ignoring missing values.
func (d *Dataset) VariableStatistics(name string) (werp.Statistics, error) {
	if !d.vars[name] {
		return werp.Statistics{}, d.variableNotFound(name)
	}
	values, _, err := d.readVar(name)
	if err != nil {
		return werp.Statistics{}, fmt.Errorf("ncdata: reading variable %s: %v", name, err)
	}
	return werp.Summarize(values), nil
}

// timeseries attaches timestamps to values if dim is the time dimension.
func (d *Dataset) timeseries(dim string, values []float64) (werp.Timeseries, error) {
	ts := werp.Timeseries{Values: values}
	if d.timeVar != "" && dim == d.timeVar {
		if len(d.times) != len(values) {
			return werp.Timeseries{}, fmt.Errorf("ncdata: time coordinate has %d values but series has %d",
				len(d.times), len(values))
		}
		ts.Times = make([]time.Time, len(d.times))
		copy(ts.Times, d.times)
	}
	return ts, nil
}

// coordinate reads the coordinate variable for dimension dim of variable v.
func (d *Dataset) coordinate(v string, dims []string, dim string) ([]float64, error) {
	if !d.vars[dim] || !d.isCoordinate(dim) {
		return nil, &LocationError{Variable: v, Dimensions: dims,
			Reason: fmt.Sprintf("dimension %s has no coordinate variable", dim)}
	}
	c, _, err := d.readVar(dim)
	if err != nil {
		return nil, fmt.Errorf("ncdata: reading coordinate %s: %v", dim, err)
	}
	return c, nil
}

// nearest returns the index of the element of coords closest to x.
func nearest(coords []float64, x float64) (int, error) {
	if len(coords) == 0 {
		return 0, fmt.Errorf("coordinate is empty")
	}
	if math.IsNaN(x) {
		return 0, fmt.Errorf("requested coordinate is NaN")
	}
	dist := make([]float64, len(coords))
	for i, c := range coords {
		dist[i] = math.Abs(c - x)
		if math.IsNaN(dist[i]) {
			dist[i] = math.Inf(1)
		}
	}
	return floats.MinIdx(dist), nil
}

func indexOf(dims, names []string) int {
	for i, d := range dims {
		if contains(names, d) {
			return i
		}
	}
	return -1
}

// shape returns the dimension lengths of variable v, with the record
// dimension, if any, replaced by the number of records.
func (d *Dataset) shape(v string) []int {
	l := d.nc.Header.Lengths(v)
	shape := make([]int, len(l))
	copy(shape, l)
	if d.nc.Header.IsRecordVariable(v) {
		shape[0] = d.numRecs
	}
	return shape
}

// readVar reads all values of the numeric variable v, converting them
// to float64. Values equal to the _FillValue or missing_value
// attributes are returned as NaN, and the scale_factor and add_offset
// attributes are applied if present.
func (d *Dataset) readVar(v string) ([]float64, []int, error) {
	if _, ok := d.nc.Header.ZeroValue(v, 0).(string); ok {
		return nil, nil, fmt.Errorf("variable %s is a character variable", v)
	}
	shape := d.shape(v)
	n := 1
	for _, l := range shape {
		n *= l
	}
	if n == 0 {
		return []float64{}, shape, nil
	}
	var end []int
	if d.nc.Header.IsRecordVariable(v) {
		end = make([]int, len(shape))
		for i, l := range shape {
			end[i] = l - 1
		}
	}
	r := d.nc.Reader(v, nil, end)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, nil, err
	}
	data, err := toFloat64(buf)
	if err != nil {
		return nil, nil, err
	}

	for _, attr := range []string{"_FillValue", "missing_value"} {
		noData, ok, err := d.floatAttribute(v, attr)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}
		for i, x := range data {
			if x == noData {
				data[i] = math.NaN()
			}
		}
	}
	scale, hasScale, err := d.floatAttribute(v, "scale_factor")
	if err != nil {
		return nil, nil, err
	}
	offset, hasOffset, err := d.floatAttribute(v, "add_offset")
	if err != nil {
		return nil, nil, err
	}
	if hasScale || hasOffset {
		if !hasScale {
			scale = 1
		}
		for i := range data {
			data[i] = data[i]*scale + offset
		}
	}
	return data, shape, nil
}

// floatAttribute returns the first value of numeric attribute a of
// variable v.
func (d *Dataset) floatAttribute(v, a string) (float64, bool, error) {
	val := d.nc.Header.GetAttribute(v, a)
	if val == nil {
		return 0, false, nil
	}
	if _, ok := val.(string); ok {
		return 0, false, fmt.Errorf("attribute %s:%s is text, not a number", v, a)
	}
	f, err := toFloat64(val)
	if err != nil {
		return 0, false, fmt.Errorf("attribute %s:%s: %v", v, a, err)
	}
	if len(f) == 0 {
		return 0, false, nil
	}
	return f[0], true, nil
}

// toFloat64 converts a slice of one of the NetCDF numeric types to float64.
func toFloat64(dataI interface{}) ([]float64, error) {
	switch data := dataI.(type) {
	case []float64:
		return data, nil
	case []float32:
		o := make([]float64, len(data))
		for i, v := range data {
			o[i] = float64(v)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(data))
		for i, v := range data {
			o[i] = float64(v)
		}
		return o, nil
	case []int16:
		o := make([]float64, len(data))
		for i, v := range data {
			o[i] = float64(v)
		}
		return o, nil
	case []uint8:
		// NetCDF BYTE is signed.
		o := make([]float64, len(data))
		for i, v := range data {
			o[i] = float64(int8(v))
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported data type %T", dataI)
	}
}
