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

// Package sample generates synthetic allocation datasets for testing and
// demonstrations, and builds mixed datasets from the years of several
// existing datasets.
package sample

import (
	"fmt"
	"math"
	"time"

	"github.com/spatialmodel/werp/ncdata"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config holds the parameters of a synthetic dataset.
type Config struct {
	// Start and End are the first and last days of the dataset.
	Start, End time.Time

	// BaseValue is the mean of the series before trends are applied,
	// as a fraction of the full allocation.
	BaseValue float64

	// SeasonalAmplitude is the amplitude of the annual cycle.
	SeasonalAmplitude float64

	// NoiseLevel is the standard deviation of the Gaussian noise.
	NoiseLevel float64

	// Seed initializes the random number generator. Datasets generated
	// with the same configuration and seed are identical.
	Seed int64
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Start:             time.Date(1889, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:               time.Date(2018, time.December, 31, 0, 0, 0, 0, time.UTC),
		BaseValue:         0.8,
		SeasonalAmplitude: 0.2,
		NoiseLevel:        0.1,
		Seed:              1,
	}
}

// Variables are the environmental flow rule variables in a generated
// dataset.
var Variables = []string{
	"MACQ_CC_EFR01.aal", "MACQ_CC_EFR01.eal", "MACQ_CC_EFR01.hal", "MACQ_CC_EFR01.ehl",
	"MACQ_CC_EFR02.aal", "MACQ_CC_EFR02.eal", "MACQ_CC_EFR02.hal", "MACQ_CC_EFR02.ehl",
}

// trends give the long-term component of each allocation type as a
// function of the number of days since the start of the dataset.
var trends = map[string]func(t float64) float64{
	"aal": func(t float64) float64 { return 1.e-4 * t },
	"eal": func(t float64) float64 { return -1.e-4 * t },
	"hal": func(t float64) float64 { return 0 },
	"ehl": func(t float64) float64 { return 5.e-5 * math.Sin(2*math.Pi*t/3652.5) },
}

const (
	minFraction = 0.
	maxFraction = 2.
	percent     = 100.
)

// Generate creates a daily dataset containing each of Variables. Each
// value is the sum of BaseValue, a trend that depends on the allocation
// type, an annual cycle and Gaussian noise, clipped to between 0 and 2
// and expressed as a percentage.
func Generate(cfg Config) (*ncdata.Frame, error) {
	start := truncateDay(cfg.Start)
	end := truncateDay(cfg.End)
	if end.Before(start) {
		return nil, fmt.Errorf("sample: end date %s is before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if cfg.NoiseLevel < 0 || math.IsNaN(cfg.NoiseLevel) {
		return nil, fmt.Errorf("sample: invalid noise level %g", cfg.NoiseLevel)
	}

	var times []time.Time
	for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
		times = append(times, t)
	}

	noise := distuv.Normal{
		Mu:    0,
		Sigma: cfg.NoiseLevel,
		Src:   rand.NewSource(uint64(cfg.Seed)),
	}

	fr := &ncdata.Frame{
		Times:     times,
		Names:     append([]string{}, Variables...),
		Variables: make(map[string][]float64, len(Variables)),
		Attributes: map[string]string{
			"description": "Synthetic environmental flow allocation data",
			"created":     time.Now().UTC().Format(time.RFC3339),
		},
	}
	for _, name := range Variables {
		trend := trends[suffix(name)]
		v := make([]float64, len(times))
		for i := range times {
			t := float64(i)
			x := cfg.BaseValue + trend(t) + cfg.SeasonalAmplitude*math.Sin(2*math.Pi*t/365.25)
			if cfg.NoiseLevel > 0 {
				x += noise.Rand()
			}
			v[i] = math.Max(minFraction, math.Min(maxFraction, x)) * percent
		}
		fr.Variables[name] = v
	}
	return fr, nil
}

// suffix returns the allocation type of variable name, e.g. "aal".
func suffix(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
