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

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/werp"
	"github.com/spatialmodel/werp/ncdata"
	"github.com/spatialmodel/werp/sample"
)

// ListVariables writes the data variables in inputFile, their
// dimensions, and the range of the time coordinate to w.
func ListVariables(w io.Writer, inputFile string) error {
	d, err := ncdata.Open(inputFile)
	if err != nil {
		return err
	}
	defer d.Close()
	vars := d.Variables()
	fmt.Fprintf(w, "Variables in %s:\n", inputFile)
	for _, v := range vars {
		dims, err := d.Dimensions(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s %v\n", v, dims)
	}
	start, end, err := d.DateRange()
	switch err.(type) {
	case nil:
		fmt.Fprintf(w, "Date range: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	case *ncdata.MissingTimeAxisError:
		fmt.Fprintf(w, "Date range: none (%v)\n", err)
	default:
		return err
	}
	Log.WithFields(logrus.Fields{"file": inputFile, "variables": len(vars)}).Debug("listed variables")
	return nil
}

// Ratio writes the month-end ratio of cumulative deliveries to
// cumulative orders within each year to w.
func Ratio(w io.Writer, inputFile, ordersVar, deliveredVar string) (werp.Timeseries, error) {
	if ordersVar == "" || deliveredVar == "" {
		return werp.Timeseries{}, fmt.Errorf("you need to specify both the OrdersVariable and DeliveredVariable configuration variables")
	}
	d, err := ncdata.Open(inputFile)
	if err != nil {
		return werp.Timeseries{}, err
	}
	defer d.Close()
	orders, err := d.ReadVariable(ordersVar)
	if err != nil {
		return werp.Timeseries{}, err
	}
	delivered, err := d.ReadVariable(deliveredVar)
	if err != nil {
		return werp.Timeseries{}, err
	}
	ratio, err := werp.DeliveryRatio(orders.Times, orders.Values, delivered.Values)
	if err != nil {
		return werp.Timeseries{}, fmt.Errorf("werp: calculating delivery ratio: %v", err)
	}
	fmt.Fprintf(w, "Month\t%s/%s\n", deliveredVar, ordersVar)
	for i, t := range ratio.Times {
		v := ratio.Values[i]
		if math.IsNaN(v) {
			fmt.Fprintf(w, "%s\tNaN\n", t.Format("2006-01-02"))
			continue
		}
		fmt.Fprintf(w, "%s\t%.4f\n", t.Format("2006-01-02"), v)
	}
	Log.WithFields(logrus.Fields{"file": inputFile, "months": ratio.Len()}).Debug("calculated delivery ratio")
	return ratio, nil
}

// GenerateSample writes a synthetic dataset to outputFile.
func GenerateSample(ctx context.Context, outputFile string, cfg sample.Config) error {
	fr, err := sample.Generate(cfg)
	if err != nil {
		return err
	}
	var u uploader
	f, err := u.maybeUpload(outputFile)
	if err != nil {
		return err
	}
	if err := ncdata.Write(f, fr); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{
		"file":      outputFile,
		"variables": len(fr.Names),
		"days":      len(fr.Times),
		"seed":      cfg.Seed,
	}).Info("wrote synthetic dataset")
	return u.upload(ctx)
}

// Mix writes a dataset to outputFile in which each year is taken from
// one of inputFiles chosen at random.
func Mix(ctx context.Context, inputFiles []string, outputFile string, seed int64) error {
	if len(inputFiles) == 0 {
		return fmt.Errorf("you need to specify at least one input file in the MixInputs configuration variable")
	}
	var sources []*ncdata.Dataset
	defer func() {
		for _, d := range sources {
			d.Close()
		}
	}()
	for _, in := range inputFiles {
		p, err := checkInputFile(ctx, in)
		if err != nil {
			return err
		}
		d, err := ncdata.Open(p)
		if err != nil {
			return err
		}
		sources = append(sources, d)
	}
	fr, err := sample.MixYears(sources, seed)
	if err != nil {
		return err
	}
	var u uploader
	f, err := u.maybeUpload(outputFile)
	if err != nil {
		return err
	}
	if err := ncdata.Write(f, fr); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{
		"file":    outputFile,
		"sources": len(sources),
		"days":    len(fr.Times),
		"seed":    seed,
	}).Info("wrote mixed dataset")
	return u.upload(ctx)
}

