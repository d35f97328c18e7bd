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
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/ctessum/gobra"
	"github.com/lnashier/viper"
	"github.com/skratchdot/open-golang/open"
	"github.com/spatialmodel/werp"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to WERP.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose specifies whether to print debugging messages.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to the NetCDF dataset to read. It can be
              a local file, an http(s) URL, or a blob storage location
              starting with gs://, s3://, or file://.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags(), varsCmd.Flags(), ratioCmd.Flags()},
		},
		{
			name: "Variable",
			usage: `
              Variable is the name of the variable to analyze,
              for example MACQ_CC_EFR01.aal.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Threshold",
			usage: `
              Threshold is the value at or above which the variable is
              considered to be in a satisfactory state.`,
			shorthand:  "t",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "UseCutoff",
			usage: `
              UseCutoff specifies whether to calculate the metrics using
              only the values on the Cutoff day of each year.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Cutoff",
			usage: `
              Cutoff is the day of the year, in MM-DD format, used when
              UseCutoff is true.`,
			defaultVal: werp.DefaultCutoff.String(),
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Lat",
			usage: `
              Lat is the latitude of the location to analyze for gridded
              variables. It must be specified together with Lon.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Lon",
			usage: `
              Lon is the longitude of the location to analyze for gridded
              variables. It must be specified together with Lat.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "RecoveryOffset",
			usage: `
              RecoveryOffset is added to the mean recovery time before
              calculating resilience. 0 gives 100 / mean(recovery time);
              1 gives the formula used by earlier versions.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "CountOpenRuns",
			usage: `
              CountOpenRuns specifies whether a failure period that is still
              ongoing at the end of the record counts as a recovery period.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is an optional location (.png, .svg, or .pdf) to save
              a plot of the timeseries and threshold to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is an optional location to save a TOML report
              of the results to.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "OrdersVariable",
			usage: `
              OrdersVariable is the name of the variable holding
              ordered volumes.`,
			defaultVal: "Orders",
			flagsets:   []*pflag.FlagSet{ratioCmd.Flags()},
		},
		{
			name: "DeliveredVariable",
			usage: `
              DeliveredVariable is the name of the variable holding
              delivered volumes.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{ratioCmd.Flags()},
		},
		{
			name: "SampleFile",
			usage: `
              SampleFile is the location to write the synthetic dataset to.`,
			defaultVal: "data/sample_data.nc",
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
		{
			name: "Sample.Start",
			usage: `
              Sample.Start is the first day of the synthetic dataset.`,
			defaultVal: "1889-01-01",
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
		{
			name: "Sample.End",
			usage: `
              Sample.End is the last day of the synthetic dataset.`,
			defaultVal: "2018-12-31",
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
		{
			name: "Sample.BaseValue",
			usage: `
              Sample.BaseValue is the mean allocation before trends are
              applied, as a fraction of the full allocation.`,
			defaultVal: 0.8,
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
		{
			name: "Sample.SeasonalAmplitude",
			usage: `
              Sample.SeasonalAmplitude is the amplitude of the annual cycle.`,
			defaultVal: 0.2,
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
		{
			name: "Sample.NoiseLevel",
			usage: `
              Sample.NoiseLevel is the standard deviation of the random noise.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
		{
			name: "Seed",
			usage: `
              Seed initializes the random number generator. The same seed
              gives the same result.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags(), mixCmd.Flags()},
		},
		{
			name: "MixInputs",
			usage: `
              MixInputs is the list of datasets to take years from.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{mixCmd.Flags()},
		},
		{
			name: "MixOutput",
			usage: `
              MixOutput is the location to write the mixed dataset to.`,
			defaultVal: "data/mixed_data.nc",
			flagsets:   []*pflag.FlagSet{mixCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("WERP")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(analyzeCmd)
	Root.AddCommand(varsCmd)
	Root.AddCommand(ratioCmd)
	Root.AddCommand(sampleCmd)
	Root.AddCommand(mixCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("werp: problem reading configuration file: %v", err)
		}
	}
	setVerbosity(Cfg.GetBool("verbose"))
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "werp",
	Short: "Reliability and resilience of water resources.",
	Long: `WERP calculates the reliability and resilience of environmental water
allocations from timeseries stored in NetCDF files.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'WERP_var' where 'var' is the
name of the variable to be set (with '.' replaced by '_'). File path variables
are additionally allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of WERP.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "WERP v%s\n", werp.Version)
	},
	DisableAutoGenTag: true,
}

// analyzeCmd calculates the metrics for a single variable.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Calculate reliability and resilience.",
	Long: `analyze calculates the reliability and resilience of a variable with
respect to a threshold, along with descriptive statistics of the variable.
Gridded variables require a location to be selected with Lat and Lon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		inputFile, err := checkInputFile(ctx, Cfg.GetString("InputFile"))
		if err != nil {
			return err
		}
		mc, err := MetricsConfig(Cfg)
		if err != nil {
			return err
		}
		lat, lon, hasLocation, err := checkLocation(Cfg.Get("Lat"), Cfg.Get("Lon"))
		if err != nil {
			return err
		}
		plotFile, err := checkOutputFile(Cfg.GetString("PlotFile"))
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		o := AnalyzeOptions{
			InputFile:  inputFile,
			Variable:   Cfg.GetString("Variable"),
			Metrics:    mc,
			PlotFile:   plotFile,
			OutputFile: outputFile,
		}
		if hasLocation {
			o.Location = &[2]float64{lat, lon}
		}
		_, err = Analyze(ctx, cmd.OutOrStdout(), o)
		return err
	},
	DisableAutoGenTag: true,
}

// varsCmd lists the variables in a dataset.
var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "List the variables in a dataset.",
	Long: `vars lists the data variables in a dataset, their dimensions, and
the range of dates that the dataset covers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, err := checkInputFile(context.Background(), Cfg.GetString("InputFile"))
		if err != nil {
			return err
		}
		return ListVariables(cmd.OutOrStdout(), inputFile)
	},
	DisableAutoGenTag: true,
}

// ratioCmd calculates the delivery ratio.
var ratioCmd = &cobra.Command{
	Use:   "ratio",
	Short: "Calculate the ratio of deliveries to orders.",
	Long: `ratio calculates the cumulative delivered volume divided by the
cumulative ordered volume within each year, reported at the end of each month.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, err := checkInputFile(context.Background(), Cfg.GetString("InputFile"))
		if err != nil {
			return err
		}
		_, err = Ratio(cmd.OutOrStdout(), inputFile,
			Cfg.GetString("OrdersVariable"), Cfg.GetString("DeliveredVariable"))
		return err
	},
	DisableAutoGenTag: true,
}

// sampleCmd writes a synthetic dataset.
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a synthetic dataset.",
	Long: `sample generates a synthetic dataset of daily environmental flow
allocations with trends, an annual cycle, and random noise, for testing
and demonstration without real data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := SampleConfig(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkNewFile("SampleFile", Cfg.GetString("SampleFile"))
		if err != nil {
			return err
		}
		return GenerateSample(context.Background(), outputFile, cfg)
	},
	DisableAutoGenTag: true,
}

// mixCmd combines years from several datasets.
var mixCmd = &cobra.Command{
	Use:   "mix",
	Short: "Mix years from several datasets.",
	Long: `mix creates a dataset in which the records for each year are taken
from one of the MixInputs datasets chosen at random.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkNewFile("MixOutput", Cfg.GetString("MixOutput"))
		if err != nil {
			return err
		}
		return Mix(context.Background(), expandStringSlice(Cfg.GetStringSlice("MixInputs")),
			outputFile, cast.ToInt64(Cfg.Get("Seed")))
	},
	DisableAutoGenTag: true,
}

// StartWebServer starts the web server.
func StartWebServer() {
	setConfig() // Ignore any errors for now.

	http.HandleFunc("/setConfig", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		configFile := r.Form.Get("config")
		Root.PersistentFlags().Set("config", configFile)
		err := setConfig()
		if err != nil {
			http.Error(w, err.Error(), 204)
			return
		}
		config := make(map[string]interface{})
		for _, option := range options {
			config[option.name] = Cfg.Get(option.name)
		}
		e := json.NewEncoder(w)
		if err := e.Encode(config); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
	})

	Log.Info("loading front-end")

	for _, cmd := range []*cobra.Command{Root, versionCmd, analyzeCmd, varsCmd,
		ratioCmd, sampleCmd, mixCmd} {
		cmd.SilenceUsage = true // We don't want the usage messages in the GUI.
	}

	const address = "localhost:7171"
	const tmpl = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>WERP</title>
	<style>
		html, body {padding: 0; margin: 2% 0; font-family: sans-serif;}
		.container { max-width: 700px; margin: 0 auto; padding: 10px; }
		div[id^="gobra-"] blockquote { border-left: 3px solid #bbb; margin: .3em; color: #333; padding-left: 5px; font-size: 75%; }
		div[id^="gobra-"] code { font-weight: bold; }
		div[id^="gobra-"] input { font-family: monospace; margin-left: .2em; width: 50%; outline:none; }
		.red-border{ border: 1px solid #c35; }
		.green-border{ border: 1px solid #3c5; }
		.blue-border{ border: 1px solid #35c; }
	</style>
</head>
<body>
<div class="container">
	<h1>WERP</h1>
	<p>Configure the analysis below.</p>
	<p>
		Color key: black=default;
		<font color="red">red</font>=error;
		<font color="green">green</font>=value from config file;
		<font color="blue">blue</font>=user entered
	</p>
	<div>
		{{.}}
	</div>
	<footer>
		© 2026 WERP Authors
	</footer>
</div>

<script>
// If the configuration file is changed, send the new file path
// to the server and update fields

let allFlags = [...document.querySelectorAll('[data-name]')];
allFlags.forEach(x => {
	let inputField = x.children[0];
	inputField.addEventListener("input", e => {
		inputField.classList.remove("green-border");
		inputField.classList.add("blue-border");
	})
})

let configInput = allFlags.filter(x => x.dataset.name == "config")[0].children[0];
configInput.addEventListener("input", e => {
	fetch("http://` + address + `/setConfig?config="+encodeURIComponent(configInput.value))
		.then( res => {
			if (res.status !== 200) {
				if (res.status == 204) {
					configInput.classList.remove("blue-border");
					configInput.classList.remove("green-border");
					configInput.classList.add("red-border");
				} else {
					console.log("Error fetching /setConfig: ", res.statusText);
				}
			} else {
				res.json().then( data => {
					configInput.classList.remove("red-border");
					for (let key in data)
						for(let f of allFlags)
							if (f.dataset.name == key) {
								let input = f.children[0];
								var newValue = JSON.stringify(data[key]).replace(/^"+|"+$/g,'');
								if (input.value != newValue) {
									input.value = newValue
									input.classList.remove("blue-border");
									input.classList.add("green-border");
								}
							}
				})
			}
		})
		.catch( err => {
			console.log("Error fetching /setConfig", err)
		})
})
</script>
</body>
</html>`

	output := template.Must(template.New("").Parse(tmpl))
	server := gobra.Server{Root: Root, ServerAddress: address, AllowCORS: false, HTML: output}
	Log.Info("server starting")
	open.Run("http://" + address)
	fmt.Println("If not opened automatically, please visit http://" + address)
	server.Start()
}
