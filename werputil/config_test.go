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

package werputil

import (
	"context"
	"testing"
	"time"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/werp"
)

func TestCheckThreshold(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
		err  bool
	}{
		{in: "50", want: 50},
		{in: " 0.5 ", want: 0.5},
		{in: 75.0, want: 75},
		{in: int64(20), want: 20},
		{in: "", err: true},
		{in: "high", err: true},
	}
	for _, test := range tests {
		have, err := checkThreshold(test.in)
		if (err != nil) != test.err {
			t.Errorf("%v: error %v", test.in, err)
			continue
		}
		if have != test.want {
			t.Errorf("%v: have %g, want %g", test.in, have, test.want)
		}
	}
}

func TestCheckLocation(t *testing.T) {
	tests := []struct {
		lat, lon interface{}
		ok, err  bool
	}{
		{lat: "", lon: "", ok: false},
		{lat: "-34.5", lon: "146.1", ok: true},
		{lat: -34.5, lon: 146.1, ok: true},
		{lat: "-34.5", lon: "", err: true},
		{lat: "north", lon: "146", err: true},
		{lat: "-34.5", lon: "east", err: true},
		{lat: "95", lon: "146", err: true},
	}
	for _, test := range tests {
		lat, lon, ok, err := checkLocation(test.lat, test.lon)
		if (err != nil) != test.err {
			t.Errorf("%v, %v: error %v", test.lat, test.lon, err)
			continue
		}
		if ok != test.ok {
			t.Errorf("%v, %v: ok=%v", test.lat, test.lon, ok)
		}
		if ok && (lat != -34.5 || lon != 146.1) {
			t.Errorf("%v, %v: have %g, %g", test.lat, test.lon, lat, lon)
		}
	}
}

func TestMetricsConfig(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Threshold", "40")
	cfg.Set("UseCutoff", true)
	cfg.Set("Cutoff", "07-01")
	cfg.Set("RecoveryOffset", 1.0)
	cfg.Set("CountOpenRuns", true)
	c, err := MetricsConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := werp.MetricsConfig{
		Threshold:      40,
		Cutoff:         &werp.CutoffDate{Month: time.July, Day: 1},
		RecoveryOffset: 1,
		CountOpenRuns:  true,
	}
	if c.Threshold != want.Threshold || *c.Cutoff != *want.Cutoff ||
		c.RecoveryOffset != want.RecoveryOffset || c.CountOpenRuns != want.CountOpenRuns {
		t.Errorf("have %+v, want %+v", c, want)
	}

	cfg.Set("UseCutoff", false)
	c, err = MetricsConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.Cutoff != nil {
		t.Errorf("cutoff should not be used: %v", c.Cutoff)
	}

	cfg.Set("UseCutoff", true)
	cfg.Set("Cutoff", "02-30")
	if _, err := MetricsConfig(cfg); err == nil {
		t.Error("expected an error for an invalid cutoff")
	}
	cfg.Set("Cutoff", "06-30")
	cfg.Set("RecoveryOffset", -1.0)
	if _, err := MetricsConfig(cfg); err == nil {
		t.Error("expected an error for a negative recovery offset")
	}
}

func TestSampleConfig(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Sample.Start", "2000-01-01")
	cfg.Set("Sample.End", "2001-12-31")
	cfg.Set("Sample.BaseValue", 0.5)
	cfg.Set("Sample.SeasonalAmplitude", 0.1)
	cfg.Set("Sample.NoiseLevel", 0.05)
	cfg.Set("Seed", 7)
	c, err := SampleConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Start.Equal(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)) ||
		!c.End.Equal(time.Date(2001, time.December, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("dates: %v, %v", c.Start, c.End)
	}
	if c.BaseValue != 0.5 || c.SeasonalAmplitude != 0.1 || c.NoiseLevel != 0.05 || c.Seed != 7 {
		t.Errorf("have %+v", c)
	}

	cfg.Set("Sample.End", "someday")
	if _, err := SampleConfig(cfg); err == nil {
		t.Error("expected an error for an invalid date")
	}
}

func TestCheckInputFile(t *testing.T) {
	if _, err := checkInputFile(context.Background(), ""); err == nil {
		t.Error("expected an error for a missing input file")
	}
}
