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
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/werp"
	"github.com/spatialmodel/werp/ncdata"
)

// AnalyzeOptions specify a metrics calculation for a single variable.
type AnalyzeOptions struct {
	InputFile string
	Variable  string

	// Location, if not nil, selects the grid cell nearest to the given
	// latitude and longitude.
	Location *[2]float64

	Metrics werp.MetricsConfig

	// PlotFile and OutputFile are optional locations for a plot of the
	// timeseries and a TOML report of the results.
	PlotFile   string
	OutputFile string
}

// Report holds the results of a metrics calculation.
type Report struct {
	InputFile   string
	Variable    string
	Latitude    *float64 `toml:",omitempty"`
	Longitude   *float64 `toml:",omitempty"`
	Threshold   float64
	Cutoff      string `toml:",omitempty"`
	Points      int
	Reliability float64
	Resilience  float64
	Formula     string
	FailureRuns []int
	Statistics  ReportStatistics
	Created     time.Time
}

// ReportStatistics holds the descriptive statistics of the variable.
// Undefined statistics are left out.
type ReportStatistics struct {
	Mean    *float64 `toml:",omitempty"`
	Std     *float64 `toml:",omitempty"`
	Min     *float64 `toml:",omitempty"`
	Max     *float64 `toml:",omitempty"`
	Missing int
}

// Analyze calculates the reliability and resilience of a variable and
// writes a summary of the results to w.
func Analyze(ctx context.Context, w io.Writer, o AnalyzeOptions) (*Report, error) {
	log := Log.WithFields(logrus.Fields{"file": o.InputFile, "variable": o.Variable})
	if o.Variable == "" {
		return nil, fmt.Errorf(`you need to specify a variable configuration variable (for example: Variable="MACQ_CC_EFR01.aal")`)
	}
	d, err := ncdata.Open(o.InputFile)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	var ts werp.Timeseries
	if o.Location != nil {
		log = log.WithFields(logrus.Fields{"lat": o.Location[0], "lon": o.Location[1]})
		ts, err = d.ReadVariableAtLocation(o.Variable, o.Location[0], o.Location[1])
	} else {
		ts, err = d.ReadVariable(o.Variable)
	}
	if err != nil {
		return nil, err
	}
	log.WithField("points", ts.Len()).Debug("read timeseries")

	res, err := werp.Calculate(ts, o.Metrics)
	if err != nil {
		return nil, fmt.Errorf("werp: calculating metrics for %s: %v", o.Variable, err)
	}
	stats, err := d.VariableStatistics(o.Variable)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"reliability": res.Reliability,
		"resilience":  res.Resilience,
		"failures":    len(res.FailureRuns),
	}).Info("calculated metrics")

	r := &Report{
		InputFile:   o.InputFile,
		Variable:    o.Variable,
		Threshold:   o.Metrics.Threshold,
		Points:      res.Points,
		Reliability: res.Reliability,
		Resilience:  res.Resilience,
		Formula:     o.Metrics.Formula(),
		FailureRuns: res.FailureRuns,
		Statistics: ReportStatistics{
			Mean:    defined(stats.Mean),
			Std:     defined(stats.Std),
			Min:     defined(stats.Min),
			Max:     defined(stats.Max),
			Missing: stats.Missing,
		},
		Created: time.Now().UTC(),
	}
	if o.Location != nil {
		r.Latitude, r.Longitude = &o.Location[0], &o.Location[1]
	}
	if o.Metrics.Cutoff != nil {
		r.Cutoff = o.Metrics.Cutoff.String()
	}
	printResults(w, r, stats)

	var u uploader
	if o.PlotFile != "" {
		f, err := u.maybeUpload(o.PlotFile)
		if err != nil {
			return nil, err
		}
		plotTS := ts
		if o.Metrics.Cutoff != nil {
			if plotTS, err = werp.FilterCutoff(ts, *o.Metrics.Cutoff); err != nil {
				return nil, err
			}
		}
		if err := PlotTimeseries(f, o.Variable, plotTS, o.Metrics.Threshold); err != nil {
			return nil, err
		}
		log.WithField("plot", o.PlotFile).Info("saved plot")
	}
	if o.OutputFile != "" {
		f, err := u.maybeUpload(o.OutputFile)
		if err != nil {
			return nil, err
		}
		if err := r.Save(f); err != nil {
			return nil, err
		}
		log.WithField("report", o.OutputFile).Info("saved report")
	}
	if err := u.upload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func printResults(w io.Writer, r *Report, s werp.Statistics) {
	fmt.Fprintf(w, "\nResults for variable: %s\n", r.Variable)
	if r.Latitude != nil {
		fmt.Fprintf(w, "Location: %.4f, %.4f\n", *r.Latitude, *r.Longitude)
	}
	if r.Cutoff != "" {
		fmt.Fprintf(w, "Cutoff date: %s\n", r.Cutoff)
	}
	fmt.Fprintf(w, "Threshold: %.2f\n", r.Threshold)
	fmt.Fprintf(w, "Reliability: %.1f%%\n", r.Reliability)
	fmt.Fprintf(w, "Resilience: %.1f%%\n", r.Resilience)
	fmt.Fprintf(w, "Resilience formula: %s\n", r.Formula)
	fmt.Fprintf(w, "\nVariable Statistics:\n")
	fmt.Fprintf(w, "mean: %.2f\n", s.Mean)
	fmt.Fprintf(w, "std: %.2f\n", s.Std)
	fmt.Fprintf(w, "min: %.2f\n", s.Min)
	fmt.Fprintf(w, "max: %.2f\n", s.Max)
	fmt.Fprintf(w, "missing: %d\n", s.Missing)
}

// Save writes r to file in TOML format.
func (r *Report) Save(file string) error {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("werputil: creating report file: %v", err)
	}
	if err := toml.NewEncoder(f).Encode(r); err != nil {
		f.Close()
		return fmt.Errorf("werputil: writing report: %v", err)
	}
	return f.Close()
}

// LoadReport reads a report saved by Report.Save.
func LoadReport(file string) (*Report, error) {
	r := new(Report)
	if _, err := toml.DecodeFile(file, r); err != nil {
		return nil, fmt.Errorf("werputil: reading report %s: %v", file, err)
	}
	return r, nil
}

func defined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
