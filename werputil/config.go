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
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/werp"
	"github.com/spatialmodel/werp/sample"
	"github.com/spf13/cast"
)

// expandStringSlice expands the environment variables in a slice of strings.
func expandStringSlice(s []string) []string {
	for i := 0; i < len(s); i++ {
		s[i] = os.ExpandEnv(s[i])
	}
	return s
}

// checkInputFile makes sure that the input file is specified, expands
// any environment variables, and downloads the file if it is remote.
func checkInputFile(ctx context.Context, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an input file configuration variable (for example: InputFile="allocations.nc")`)
	}
	return maybeDownload(ctx, os.ExpandEnv(f))
}

// checkOutputFile expands any environment variables in an optional
// output file path and makes sure its directory exists.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", nil
	}
	f = os.ExpandEnv(f)
	if IsBlob(f) {
		return f, nil
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("werp: the output file directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkNewFile expands any environment variables in a required output
// file path and creates its directory if necessary.
func checkNewFile(option, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("you need to specify the %s configuration variable", option)
	}
	f = os.ExpandEnv(f)
	if IsBlob(f) {
		return f, nil
	}
	if err := os.MkdirAll(filepath.Dir(f), 0755); err != nil {
		return f, fmt.Errorf("werp: creating the %s directory: %v", option, err)
	}
	return f, nil
}

// checkThreshold converts the threshold configuration value to a number.
func checkThreshold(v interface{}) (float64, error) {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf(`you need to specify a threshold configuration variable (for example: Threshold=50)`)
	}
	t, err := cast.ToFloat64E(trimString(v))
	if err != nil || math.IsNaN(t) {
		return 0, fmt.Errorf("werp: the Threshold variable needs to be a number, but is currently set to `%v`", v)
	}
	return t, nil
}

// checkLocation converts the latitude and longitude configuration values
// to numbers. ok is false if neither is specified.
func checkLocation(latV, lonV interface{}) (lat, lon float64, ok bool, err error) {
	latS := strings.TrimSpace(cast.ToString(latV))
	lonS := strings.TrimSpace(cast.ToString(lonV))
	if latS == "" && lonS == "" {
		return 0, 0, false, nil
	}
	if latS == "" || lonS == "" {
		return 0, 0, false, fmt.Errorf("werp: Lat and Lon need to be specified together, but Lat=`%s` and Lon=`%s`", latS, lonS)
	}
	lat, err = cast.ToFloat64E(latS)
	if err != nil {
		return 0, 0, false, fmt.Errorf("werp: the Lat variable needs to be a number, but is currently set to `%s`", latS)
	}
	lon, err = cast.ToFloat64E(lonS)
	if err != nil {
		return 0, 0, false, fmt.Errorf("werp: the Lon variable needs to be a number, but is currently set to `%s`", lonS)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, false, fmt.Errorf("werp: Lat needs to be between -90 and 90 but is %g", lat)
	}
	return lat, lon, true, nil
}

// checkCutoff parses the cutoff date if it is to be used.
func checkCutoff(use bool, s string) (*werp.CutoffDate, error) {
	if !use {
		return nil, nil
	}
	c, err := werp.ParseCutoff(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("werp: the Cutoff variable: %v", err)
	}
	return &c, nil
}

// MetricsConfig unmarshals a viper configuration for a metrics
// calculation.
func MetricsConfig(cfg *viper.Viper) (werp.MetricsConfig, error) {
	var c werp.MetricsConfig
	var err error
	if c.Threshold, err = checkThreshold(cfg.Get("Threshold")); err != nil {
		return c, err
	}
	if c.Cutoff, err = checkCutoff(cfg.GetBool("UseCutoff"), cfg.GetString("Cutoff")); err != nil {
		return c, err
	}
	c.RecoveryOffset = cfg.GetFloat64("RecoveryOffset")
	if c.RecoveryOffset < 0 {
		return c, fmt.Errorf("werp: RecoveryOffset needs to be zero or greater but is %g", c.RecoveryOffset)
	}
	c.CountOpenRuns = cfg.GetBool("CountOpenRuns")
	return c, nil
}

// checkDate converts a configuration value to a date.
func checkDate(option string, v interface{}) (time.Time, error) {
	t, err := cast.ToTimeE(trimString(v))
	if err != nil {
		return t, fmt.Errorf("werp: the %s variable needs to be a date (for example 1889-01-01), but is currently set to `%v`", option, v)
	}
	return t.UTC(), nil
}

// SampleConfig unmarshals a viper configuration for synthetic data
// generation.
func SampleConfig(cfg *viper.Viper) (sample.Config, error) {
	c := sample.DefaultConfig()
	var err error
	if c.Start, err = checkDate("Sample.Start", cfg.Get("Sample.Start")); err != nil {
		return c, err
	}
	if c.End, err = checkDate("Sample.End", cfg.Get("Sample.End")); err != nil {
		return c, err
	}
	c.BaseValue = cfg.GetFloat64("Sample.BaseValue")
	c.SeasonalAmplitude = cfg.GetFloat64("Sample.SeasonalAmplitude")
	c.NoiseLevel = cfg.GetFloat64("Sample.NoiseLevel")
	c.Seed = cast.ToInt64(cfg.Get("Seed"))
	return c, nil
}

func trimString(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}
