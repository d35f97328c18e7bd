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
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/spatialmodel/werp"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotTimeseries saves a line plot of ts with a dashed horizontal line
// at threshold to file. The format is chosen by the file extension
// (e.g. .png, .svg, .pdf). Missing values are not drawn. If ts has no
// times, values are plotted against their index.
func PlotTimeseries(file, variable string, ts werp.Timeseries, threshold float64) error {
	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("werputil: creating plot: %v", err)
	}
	p.Title.Text = fmt.Sprintf("Timeseries for %s", variable)
	p.Y.Label.Text = variable
	if ts.HasTimes() {
		p.X.Label.Text = "Year"
	} else {
		p.X.Label.Text = "Index"
	}

	xy := make(plotter.XYs, 0, ts.Len())
	for i, v := range ts.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		var x float64
		if ts.HasTimes() {
			x = decimalYear(ts.Times[i])
		} else {
			x = float64(i)
		}
		xy = append(xy, struct{ X, Y float64 }{X: x, Y: v})
	}
	if len(xy) == 0 {
		return fmt.Errorf("werputil: variable %s has no values to plot", variable)
	}

	series, err := plotter.NewLine(xy)
	if err != nil {
		return fmt.Errorf("werputil: plotting %s: %v", variable, err)
	}
	series.LineStyle.Width = vg.Points(0.5)
	series.LineStyle.Color = color.RGBA{B: 180, A: 255}

	xmin, xmax := xy[0].X, xy[len(xy)-1].X
	if xmin == xmax {
		xmax = xmin + 1
	}
	thresh, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: threshold}, {X: xmax, Y: threshold}})
	if err != nil {
		return fmt.Errorf("werputil: plotting threshold: %v", err)
	}
	thresh.LineStyle.Color = color.RGBA{R: 220, A: 255}
	thresh.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	p.Add(series, thresh)
	p.Legend.Add(variable, series)
	p.Legend.Add("Threshold", thresh)
	p.Legend.Top = true

	if err := p.Save(12*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("werputil: saving plot to %s: %v", file, err)
	}
	return nil
}

// decimalYear returns t as a fractional year, e.g. 2000.5 for the middle
// of 2000.
func decimalYear(t time.Time) float64 {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return float64(t.Year()) + t.Sub(start).Hours()/end.Sub(start).Hours()
}
