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
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ctessum/cdf"
	"github.com/kr/pretty"
	"gonum.org/v1/gonum/floats"
)

const tolerance = 1.e-6

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "ncdata")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

// writeTestFrame writes a daily dataset with two variables and returns
// its path.
func writeTestFrame(t *testing.T, dir string) (string, *Frame) {
	start := time.Date(1999, time.June, 28, 0, 0, 0, 0, time.UTC)
	fr := &Frame{
		Names:      []string{"MACQ_CC_EFR01.aal", "Orders"},
		Variables:  map[string][]float64{},
		Attributes: map[string]string{"description": "test dataset"},
	}
	var a, o []float64
	for i := 0; i < 10; i++ {
		fr.Times = append(fr.Times, start.AddDate(0, 0, i))
		a = append(a, float64(i)/2)
		o = append(o, 1)
	}
	a[3] = math.NaN()
	fr.Variables["MACQ_CC_EFR01.aal"] = a
	fr.Variables["Orders"] = o
	path := filepath.Join(dir, "frame.nc")
	if err := Write(path, fr); err != nil {
		t.Fatal(err)
	}
	return path, fr
}

// writeGridded writes a dataset with a record time dimension and
// a [time, lat, lon] variable "flow" where
// flow[t][j][i] = 100*t + 10*j + i.
func writeGridded(t *testing.T, dir string) string {
	path := filepath.Join(dir, "gridded.nc")
	h := cdf.NewHeader([]string{"time", "lat", "lon"}, []int{0, 2, 3})
	h.AddVariable("time", []string{"time"}, []int32{0})
	h.AddAttribute("time", "units", "hours since 2000-01-01 00:00:00")
	h.AddVariable("lat", []string{"lat"}, []float32{0})
	h.AddVariable("lon", []string{"lon"}, []float32{0})
	h.AddVariable("flow", []string{"time", "lat", "lon"}, []float32{0})
	h.Define()
	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := writeVar(f, "lat", []float32{-30, -35}); err != nil {
		t.Fatal(err)
	}
	if err := writeVar(f, "lon", []float32{145, 146, 147}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Writer("time", nil, nil).Write([]int32{0, 6, 12, 18}); err != nil {
		t.Fatal(err)
	}
	flow := make([]float32, 4*2*3)
	for tt := 0; tt < 4; tt++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 3; i++ {
				flow[tt*6+j*3+i] = float32(100*tt + 10*j + i)
			}
		}
	}
	if _, err := f.Writer("flow", nil, nil).Write(flow); err != nil {
		t.Fatal(err)
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeNoTime writes a dataset without a time coordinate containing a
// packed int16 variable "level" with a fill value.
func writeNoTime(t *testing.T, dir string) string {
	path := filepath.Join(dir, "notime.nc")
	h := cdf.NewHeader([]string{"x"}, []int{3})
	h.AddVariable("level", []string{"x"}, []int16{0})
	h.AddAttribute("level", "_FillValue", []int16{-999})
	h.AddAttribute("level", "scale_factor", []float64{0.5})
	h.AddAttribute("level", "add_offset", []float64{1})
	h.Define()
	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := writeVar(f, "level", []int16{2, -999, 4}); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWriteAndRead(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path, fr := writeTestFrame(t, dir)

	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if vars := d.Variables(); !reflect.DeepEqual(vars, []string{"MACQ_CC_EFR01.aal", "Orders"}) {
		t.Errorf("variables: %v", vars)
	}
	if desc, ok := d.Attribute("", "description"); !ok || desc != "test dataset" {
		t.Errorf("description: %q", desc)
	}
	if d.TimeDimension() != TimeVariable {
		t.Errorf("time dimension: %s", d.TimeDimension())
	}

	start, end, err := d.DateRange()
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(fr.Times[0]) || !end.Equal(fr.Times[len(fr.Times)-1]) {
		t.Errorf("date range: %v, %v", start, end)
	}

	ts, err := d.ReadVariable("MACQ_CC_EFR01.aal")
	if err != nil {
		t.Fatal(err)
	}
	if len(ts.Times) != len(fr.Times) {
		t.Fatalf("times: %d != %d", len(ts.Times), len(fr.Times))
	}
	for i := range fr.Times {
		if !ts.Times[i].Equal(fr.Times[i]) {
			t.Errorf("time %d: %v != %v", i, ts.Times[i], fr.Times[i])
		}
	}
	want := fr.Variables["MACQ_CC_EFR01.aal"]
	for i, v := range ts.Values {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(v) {
				t.Errorf("value %d: %g != NaN", i, v)
			}
			continue
		}
		if !floats.EqualWithinAbs(v, want[i], tolerance) {
			t.Errorf("value %d: %g != %g", i, v, want[i])
		}
	}

	s, err := d.VariableStatistics("MACQ_CC_EFR01.aal")
	if err != nil {
		t.Fatal(err)
	}
	if s.Missing != 1 || s.Min != 0 || s.Max != 4.5 {
		t.Errorf("statistics: %# v", pretty.Formatter(s))
	}
}

func TestOpenErrors(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	_, err := Open(filepath.Join(dir, "missing.nc"))
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("missing file: %T %v", err, err)
	}

	bad := filepath.Join(dir, "bad.nc")
	if err := ioutil.WriteFile(bad, []byte("this is not a netcdf file"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = Open(bad)
	if _, ok := err.(*FormatError); !ok {
		t.Errorf("bad file: %T %v", err, err)
	}
}

func TestVariableNotFound(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path, _ := writeTestFrame(t, dir)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	_, err = d.ReadVariable("X")
	vnf, ok := err.(*VariableNotFoundError)
	if !ok {
		t.Fatalf("%T %v", err, err)
	}
	if !reflect.DeepEqual(vnf.Available, []string{"MACQ_CC_EFR01.aal", "Orders"}) {
		t.Errorf("available: %v", vnf.Available)
	}
	for _, name := range vnf.Available {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error message %q does not list %s", err.Error(), name)
		}
	}
	if _, err := d.VariableStatistics("X"); err == nil {
		t.Error("statistics: expected an error")
	}
	if _, err := d.ReadVariableAtLocation("X", 0, 0); err == nil {
		t.Error("location: expected an error")
	}
}

func TestReadVariableAtLocation(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	d, err := Open(writeGridded(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if vars := d.Variables(); !reflect.DeepEqual(vars, []string{"flow"}) {
		t.Errorf("variables: %v", vars)
	}
	if _, err := d.ReadVariable("flow"); err == nil {
		t.Error("expected an error reading a gridded variable without a location")
	}

	ts, err := d.ReadVariableAtLocation("flow", -34.2, 146.6)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ts.Values, []float64{12, 112, 212, 312}) {
		t.Errorf("values: %v", ts.Values)
	}
	t0 := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	wantTimes := []time.Time{t0, t0.Add(6 * time.Hour), t0.Add(12 * time.Hour), t0.Add(18 * time.Hour)}
	if len(ts.Times) != len(wantTimes) {
		t.Fatalf("times: %v", ts.Times)
	}
	for i := range wantTimes {
		if !ts.Times[i].Equal(wantTimes[i]) {
			t.Errorf("time %d: %v != %v", i, ts.Times[i], wantTimes[i])
		}
	}

	ts, err = d.ReadVariableAtLocation("flow", -10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ts.Values, []float64{0, 100, 200, 300}) {
		t.Errorf("values: %v", ts.Values)
	}
}

func TestNoTimeAxis(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	d, err := Open(writeNoTime(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if d.HasTimeAxis() {
		t.Error("dataset should not have a time axis")
	}
	_, _, err = d.DateRange()
	if _, ok := err.(*MissingTimeAxisError); !ok {
		t.Errorf("date range: %T %v", err, err)
	}
	if _, err := d.Times(); err == nil {
		t.Error("times: expected an error")
	}

	ts, err := d.ReadVariable("level")
	if err != nil {
		t.Fatal(err)
	}
	if ts.HasTimes() {
		t.Error("series should not have times")
	}
	if len(ts.Values) != 3 || ts.Values[0] != 2 || !math.IsNaN(ts.Values[1]) || ts.Values[2] != 3 {
		t.Errorf("values: %v", ts.Values)
	}

	_, err = d.ReadVariableAtLocation("level", 0, 0)
	if _, ok := err.(*LocationError); !ok {
		t.Errorf("location: %T %v", err, err)
	}

	s, err := d.VariableStatistics("level")
	if err != nil {
		t.Fatal(err)
	}
	if s.Mean != 2.5 || s.Missing != 1 {
		t.Errorf("statistics: %+v", s)
	}
}

func TestFrameValidate(t *testing.T) {
	t0 := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		fr   Frame
	}{
		{name: "no times", fr: Frame{}},
		{name: "unordered", fr: Frame{Times: []time.Time{t0, t0}}},
		{name: "missing data", fr: Frame{Times: []time.Time{t0}, Names: []string{"a"}}},
		{name: "wrong length", fr: Frame{Times: []time.Time{t0}, Names: []string{"a"},
			Variables: map[string][]float64{"a": {1, 2}}}},
		{name: "reserved", fr: Frame{Times: []time.Time{t0}, Names: []string{TimeVariable},
			Variables: map[string][]float64{TimeVariable: {1}}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.fr.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
