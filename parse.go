package spc

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/go-yaml/yaml"
	"github.com/spf13/pflag"
)

type options struct {
	options []ConfigOption
	err     error
}

// ParseCommandLine configures the analysis from command line options or from
// a YAML configuration file passed with the -c flag.  Returns a slice of
// functional options that can be applied to the configuration.
func ParseCommandLine() ([]ConfigOption, error) {
	pf := createFlagSet()
	return parse(os.Args[1:], pf)
}

func parse(args []string, pf *pflag.FlagSet) ([]ConfigOption, error) {
	options := options{}
	if err := pf.ParseAll(args, parseFlag(&options, pf)); err != nil {
		return options.options, err
	}
	if len(pf.Args()) > 0 {
		return options.options, fmt.Errorf("unexpected arguments: %v", pf.Args())
	}
	return options.options, options.err
}

func createFlagSet() *pflag.FlagSet {
	pf := pflag.NewFlagSet("spc", pflag.ContinueOnError)
	pf.Usage = func() {
		fmt.Printf("Usage of spc:\nspc -d <measurements.csv> -s <spec.csv> <options>\nspc -d <measurements.csv> --nominal 10 --lsl 9.5 --usl 10.5 <options>\n")
		fmt.Printf("\n%s", pf.FlagUsagesWrapped(10))
	}

	pf.StringP("config", "c", "", "Use yaml configuration file")
	pf.StringP("data", "d", "", "CSV file of measurements in production order (required)")
	pf.StringP("spec", "s", "", "CSV file with Nominal, LSL and USL columns and a single row")
	pf.String("column", "value", "Column of the measurement file to analyze.  A file with a single column is used as is.")
	pf.String("characteristic", "measurement", "Name of the measured characteristic used in reports")
	pf.Int("subgroup-size", 5, "Number of consecutive measurements in each rational subgroup")
	pf.Int("min-subgroups", 25, "Minimum number of subgroups required for the analysis")
	pf.Float64("alpha", 0.05, "Significance level of the normality tests")
	pf.Float64("meets", 1.67, "Capability index above which the process meets requirements")
	pf.Float64("review", 1.33, "Capability index at or above which the process needs review")
	pf.String("nominal", "", "Nominal value, overrides the specification file")
	pf.String("lsl", "", "Lower specification limit, overrides the specification file")
	pf.String("usl", "", "Upper specification limit, overrides the specification file")
	pf.StringP("format", "f", "table", "Output format (table, logfmt, prometheus)")
	pf.String("host", "", "Host to which to send the reports as host:port")
	pf.Bool("insecure", false, "Do not use TLS to secure connection for reports")
	pf.Bool("no-error-reports", false, "Do not send reports when there are unexpected errors in the client")

	return pf
}

func parseFlag(o *options, pf *pflag.FlagSet) func(*pflag.Flag, string) error {
	return func(flag *pflag.Flag, value string) error {
		switch flag.Name {
		case "config":
			opts, err := parseFromFile(value, pf)
			if err != nil {
				o.err = err
				return err
			}
			o.options = append(o.options, opts...)
		default:
			if err := flag.Value.Set(value); err != nil {
				o.err = fmt.Errorf("invalid value %q for --%s: %v", value, flag.Name, err)
				return o.err
			}
			option, err := handleOption(flag.Name, value)
			if err != nil {
				o.err = err
				return err
			}
			o.options = append(o.options, option)
		}
		return nil
	}
}

func handleOption(name string, value string) (ConfigOption, error) {
	switch name {
	case "data":
		return DataFile(value), nil
	case "spec":
		return SpecFile(value), nil
	case "column":
		return Column(value), nil
	case "characteristic":
		return Characteristic(value), nil
	case "subgroup-size":
		return SubgroupSize(value), nil
	case "min-subgroups":
		return MinSubgroups(value), nil
	case "alpha":
		return Alpha(value), nil
	case "meets":
		return MeetsThreshold(value), nil
	case "review":
		return ReviewThreshold(value), nil
	case "nominal":
		return Nominal(value), nil
	case "lsl":
		return LSL(value), nil
	case "usl":
		return USL(value), nil
	case "format":
		return Format(value), nil
	case "host":
		return Host(value), nil
	case "insecure":
		return Insecure(), nil
	case "no-error-reports":
		return NoErrorReports(), nil
	default:
		return nil, fmt.Errorf("Unknown option: %s", name)
	}
}

// parseFromFile converts each key of a YAML file to the option of the flag with the same name.  Values are
// checked against the flag's type, so a file fails the same way the command line would.
func parseFromFile(fpath string, pf *pflag.FlagSet) ([]ConfigOption, error) {
	var options []ConfigOption
	data, err := ioutil.ReadFile(fpath)
	if err != nil {
		return options, err
	}

	cfg := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return options, err
	}
	for k, v := range cfg {
		var value string
		switch v := v.(type) {
		case string:
			value = v
		case int:
			value = strconv.Itoa(v)
		case float64:
			value = strconv.FormatFloat(v, 'g', -1, 64)
		case bool:
			if !v {
				continue
			}
			value = "true"
		default:
			return options, fmt.Errorf("Could not process config key %s, unknown type", k)
		}
		flag := pf.Lookup(k)
		if flag == nil || k == "config" {
			return options, fmt.Errorf("Unknown option: %s", k)
		}
		if err := flag.Value.Set(value); err != nil {
			return options, fmt.Errorf("invalid value %q for %s in %s: %v", value, k, fpath, err)
		}
		opt, err := handleOption(k, value)
		if err != nil {
			return options, err
		}
		options = append(options, opt)
	}
	return options, nil
}
