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
	"strings"
	"time"
)

// timeNames are the preferred names of the time coordinate, in order.
var timeNames = []string{"Date", "time", "Time", "date"}

// secondsPerUnit gives the length of the CF time units in seconds.
var secondsPerUnit = map[string]float64{
	"days": 86400, "day": 86400, "d": 86400,
	"hours": 3600, "hour": 3600, "hrs": 3600, "hr": 3600, "h": 3600,
	"minutes": 60, "minute": 60, "mins": 60, "min": 60,
	"seconds": 1, "second": 1, "secs": 1, "sec": 1, "s": 1,
}

var referenceLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-1-2 15:4:5",
	"2006-1-2",
}

// isTimeUnits returns whether units has the "<unit> since <reference>" form.
func isTimeUnits(units string) bool {
	return strings.Contains(units, " since ")
}

// parseTimeUnits parses CF time units such as "days since 1889-01-01",
// returning the length of one unit in seconds and the reference time.
// Reference times are interpreted as UTC.
func parseTimeUnits(units string) (float64, time.Time, error) {
	parts := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(parts) != 2 {
		return 0, time.Time{}, fmt.Errorf("time units %q are not in '<unit> since <date>' format", units)
	}
	step, ok := secondsPerUnit[strings.ToLower(strings.TrimSpace(parts[0]))]
	if !ok {
		return 0, time.Time{}, fmt.Errorf("unsupported time unit %q in %q", parts[0], units)
	}
	ref := strings.TrimSpace(parts[1])
	for _, suffix := range []string{"Z", " UTC", " GMT", " +00:00", "+00:00"} {
		ref = strings.TrimSuffix(ref, suffix)
	}
	for _, layout := range referenceLayouts {
		t, err := time.ParseInLocation(layout, ref, time.UTC)
		if err == nil {
			return step, t, nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("unable to parse reference time %q in %q", ref, units)
}

// checkCalendar returns an error for calendars other than the
// Gregorian calendar.
func checkCalendar(calendar string) error {
	switch strings.ToLower(strings.TrimSpace(calendar)) {
	case "", "standard", "gregorian", "proleptic_gregorian":
		return nil
	default:
		return fmt.Errorf("unsupported calendar %q", calendar)
	}
}

// decodeTimes converts time coordinate values in the given units to
// calendar times.
func decodeTimes(values []float64, units, calendar string) ([]time.Time, error) {
	if err := checkCalendar(calendar); err != nil {
		return nil, err
	}
	step, ref, err := parseTimeUnits(units)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("time coordinate value %d is undefined", i)
		}
		times[i] = offsetTime(ref, v*step)
	}
	return times, nil
}

// offsetTime adds seconds to ref, rounding to the nearest millisecond.
// Whole days are added separately so that spans longer than the range of
// time.Duration do not overflow.
func offsetTime(ref time.Time, seconds float64) time.Time {
	days := math.Floor(seconds / 86400)
	rem := seconds - days*86400
	return ref.AddDate(0, 0, int(days)).Add(time.Duration(math.Round(rem*1e3)) * time.Millisecond)
}

// daysSince returns the number of days from ref to t.
func daysSince(ref, t time.Time) float64 {
	return float64(t.Unix()-ref.Unix())/86400 + float64(t.Nanosecond()-ref.Nanosecond())/86400e9
}
