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
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/werp/ncdata"
	"gonum.org/v1/gonum/floats"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Start = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	cfg.End = time.Date(2000, time.December, 31, 0, 0, 0, 0, time.UTC)
	return cfg
}

func TestGenerate(t *testing.T) {
	fr, err := Generate(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := fr.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(fr.Times) != 366 {
		t.Errorf("have %d days, want 366", len(fr.Times))
	}
	if !reflect.DeepEqual(fr.Names, Variables) {
		t.Errorf("variables: %v", fr.Names)
	}
	for _, name := range fr.Names {
		v := fr.Variables[name]
		if min, max := floats.Min(v), floats.Max(v); min < 0 || max > 200 {
			t.Errorf("%s: values range from %g to %g", name, min, max)
		}
	}
	if fr.Attributes["description"] == "" || fr.Attributes["created"] == "" {
		t.Errorf("attributes: %v", fr.Attributes)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	cfg := smallConfig()
	cfg.Seed = 2
	c, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range Variables {
		if !floats.Equal(a.Variables[name], b.Variables[name]) {
			t.Errorf("%s: same seed gave different values", name)
		}
		if floats.Equal(a.Variables[name], c.Variables[name]) {
			t.Errorf("%s: different seeds gave the same values", name)
		}
	}
}

func TestGenerateNoNoise(t *testing.T) {
	cfg := smallConfig()
	cfg.NoiseLevel = 0
	fr, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	const day = 100.
	seasonal := 0.2 * math.Sin(2*math.Pi*day/365.25)
	want := map[string]float64{
		"MACQ_CC_EFR01.aal": (0.8 + 1.e-4*day + seasonal) * 100,
		"MACQ_CC_EFR01.eal": (0.8 - 1.e-4*day + seasonal) * 100,
		"MACQ_CC_EFR02.hal": (0.8 + seasonal) * 100,
		"MACQ_CC_EFR02.ehl": (0.8 + 5.e-5*math.Sin(2*math.Pi*day/3652.5) + seasonal) * 100,
	}
	for name, w := range want {
		if have := fr.Variables[name][int(day)]; !floats.EqualWithinAbs(have, w, 1.e-10) {
			t.Errorf("%s: have %g, want %g", name, have, w)
		}
	}
	if have := fr.Variables["MACQ_CC_EFR01.hal"][0]; have != 80 {
		t.Errorf("first value: have %g, want 80", have)
	}
}

func TestGenerateErrors(t *testing.T) {
	cfg := smallConfig()
	cfg.End = cfg.Start.AddDate(0, 0, -1)
	if _, err := Generate(cfg); err == nil {
		t.Error("expected an error for an end date before the start date")
	}
	cfg = smallConfig()
	cfg.NoiseLevel = -1
	if _, err := Generate(cfg); err == nil {
		t.Error("expected an error for a negative noise level")
	}
}

// writeYears writes a dataset with records on January 1 and July 1 of
// each year from first to last. Every value of every variable equals
// value.
func writeYears(t *testing.T, path string, first, last int, value float64, vars ...string) *ncdata.Dataset {
	fr := &ncdata.Frame{Names: vars, Variables: make(map[string][]float64)}
	for y := first; y <= last; y++ {
		fr.Times = append(fr.Times,
			time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(y, time.July, 1, 0, 0, 0, 0, time.UTC))
	}
	for _, v := range vars {
		d := make([]float64, len(fr.Times))
		for i := range d {
			d[i] = value
		}
		fr.Variables[v] = d
	}
	if err := ncdata.Write(path, fr); err != nil {
		t.Fatal(err)
	}
	d, err := ncdata.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestMixYears(t *testing.T) {
	dir, err := ioutil.TempDir("", "sample")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	a := writeYears(t, filepath.Join(dir, "a.nc"), 2000, 2002, 1, "x", "y")
	defer a.Close()
	b := writeYears(t, filepath.Join(dir, "b.nc"), 2001, 2003, 2, "x")
	defer b.Close()

	fr, err := MixYears([]*ncdata.Dataset{a, b}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := fr.Validate(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fr.Names, []string{"x"}) {
		t.Errorf("variables: %v", fr.Names)
	}
	if len(fr.Times) != 8 {
		t.Fatalf("have %d records, want 8", len(fr.Times))
	}
	x := fr.Variables["x"]
	for i := 0; i < len(x); i += 2 {
		if x[i] != x[i+1] {
			t.Errorf("year %d mixes sources: %v", fr.Times[i].Year(), x[i:i+2])
		}
	}
	if x[0] != 1 {
		t.Errorf("2000 is only in the first dataset but has value %g", x[0])
	}
	if x[6] != 2 {
		t.Errorf("2003 is only in the second dataset but has value %g", x[6])
	}

	again, err := MixYears([]*ncdata.Dataset{a, b}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(x, again.Variables["x"]) {
		t.Error("same seed gave different results")
	}
}

func TestMixYearsErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "sample")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	if _, err := MixYears(nil, 1); err == nil {
		t.Error("expected an error for no datasets")
	}

	a := writeYears(t, filepath.Join(dir, "a.nc"), 2000, 2001, 1, "x")
	defer a.Close()
	b := writeYears(t, filepath.Join(dir, "b.nc"), 2000, 2001, 1, "y")
	defer b.Close()
	if _, err := MixYears([]*ncdata.Dataset{a, b}, 1); err == nil {
		t.Error("expected an error for datasets without common variables")
	}

	path := filepath.Join(dir, "notime.nc")
	h := cdf.NewHeader([]string{"x"}, []int{2})
	h.AddVariable("x", []string{"x"}, []float32{0})
	h.Define()
	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cdf.Create(ff, h); err != nil {
		t.Fatal(err)
	}
	ff.Close()
	c, err := ncdata.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, err := MixYears([]*ncdata.Dataset{a, c}, 1); err == nil {
		t.Error("expected an error for a dataset without a time axis")
	}
}
