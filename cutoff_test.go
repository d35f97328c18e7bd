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
	"testing"
	"time"
)

func TestParseCutoff(t *testing.T) {
	tests := []struct {
		in      string
		want    CutoffDate
		wantErr bool
	}{
		{in: "06-30", want: CutoffDate{Month: time.June, Day: 30}},
		{in: " 12-31 ", want: CutoffDate{Month: time.December, Day: 31}},
		{in: "2-29", want: CutoffDate{Month: time.February, Day: 29}},
		{in: "02-30", wantErr: true},
		{in: "13-01", wantErr: true},
		{in: "06-00", wantErr: true},
		{in: "0630", wantErr: true},
		{in: "jun-30", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			c, err := ParseCutoff(test.in)
			if test.wantErr {
				if err == nil {
					t.Errorf("expected an error, got %v", c)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if c != test.want {
				t.Errorf("%v != %v", c, test.want)
			}
		})
	}
	if s := DefaultCutoff.String(); s != "06-30" {
		t.Errorf("default cutoff string: %s", s)
	}
}

func TestFilterCutoff(t *testing.T) {
	ts := dailySeries(time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC), 366*3)
	filtered, err := FilterCutoff(ts, DefaultCutoff)
	if err != nil {
		t.Fatal(err)
	}
	if filtered.Len() != 3 {
		t.Fatalf("length: %d != 3", filtered.Len())
	}
	if filtered.Len() > ts.Len() {
		t.Errorf("filtered series is longer than the original")
	}
	for i, tt := range filtered.Times {
		if !DefaultCutoff.Matches(tt) {
			t.Errorf("%v does not match the cutoff", tt)
		}
		if tt.Year() != 1999+i {
			t.Errorf("year %d != %d", tt.Year(), 1999+i)
		}
		// Values equal the day index in the original series.
		if want := float64(tt.Sub(ts.Times[0]).Hours() / 24); filtered.Values[i] != want {
			t.Errorf("value %g != %g", filtered.Values[i], want)
		}
	}
	if ts.Len() != 366*3 {
		t.Errorf("original series was modified")
	}

	leap := CutoffDate{Month: time.February, Day: 29}
	filtered, err = FilterCutoff(ts, leap)
	if err != nil {
		t.Fatal(err)
	}
	if filtered.Len() != 1 || filtered.Times[0].Year() != 2000 {
		t.Errorf("leap day filter: %v", filtered.Times)
	}
}

func TestFilterCutoffErrors(t *testing.T) {
	if _, err := FilterCutoff(Timeseries{Values: []float64{1}}, DefaultCutoff); err != ErrNoTimeAxis {
		t.Errorf("no time axis: %v", err)
	}
	t0 := time.Date(2000, time.June, 30, 0, 0, 0, 0, time.UTC)
	unordered := Timeseries{
		Times:  []time.Time{t0, t0.AddDate(-1, 0, 0)},
		Values: []float64{1, 2},
	}
	if _, err := FilterCutoff(unordered, DefaultCutoff); err == nil {
		t.Error("expected an error for unordered times")
	}
	mismatched := Timeseries{Times: []time.Time{t0}, Values: []float64{1, 2}}
	if _, err := FilterCutoff(mismatched, DefaultCutoff); err == nil {
		t.Error("expected an error for mismatched lengths")
	}
}
