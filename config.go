package spc

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/BTBurke/spc/pkg/chart"
	"github.com/BTBurke/spc/pkg/classify"
	"github.com/BTBurke/spc/pkg/metric"
)

const (
	defaultSubgroupSize int    = 5
	defaultMinSubgroups int    = 25
	defaultColumn       string = "value"
	defaultPort         string = "443"
)

// Output formats for the summary
const (
	FormatTable      string = "table"
	FormatLogfmt     string = "logfmt"
	FormatPrometheus string = "prometheus"
)

// Config holds every parameter of one analysis.  It is passed explicitly to each stage so that analyses with
// different parameters can run side by side.
type Config struct {
	Characteristic string
	SubgroupSize   int
	MinSubgroups   int
	Alpha          float64
	Thresholds     classify.Thresholds
	Constants      chart.Table
	DataFile       string
	SpecFile       string
	Column         string
	Format         string

	limits         partialLimits
	host           string
	port           string
	useTLS         bool
	noErrorReports bool
}

// partialLimits records limits set one at a time from flags or a config file
type partialLimits struct {
	nominal *float64
	lsl     *float64
	usl     *float64
}

func (p partialLimits) count() int {
	n := 0
	for _, v := range []*float64{p.nominal, p.lsl, p.usl} {
		if v != nil {
			n++
		}
	}
	return n
}

type ConfigOption func(c *Config) error

func newConfig(options ...ConfigOption) (Config, []error) {
	c := Config{
		Characteristic: "measurement",
		SubgroupSize:   defaultSubgroupSize,
		MinSubgroups:   defaultMinSubgroups,
		Alpha:          classify.Alpha,
		Thresholds:     classify.DefaultThresholds,
		Constants:      chart.Standard,
		Column:         defaultColumn,
		Format:         FormatTable,
		port:           defaultPort,
		useTLS:         true,
	}

	var errors []error
	for _, option := range options {
		err := option(&c)
		if err != nil {
			errors = append(errors, err)
		}
	}
	if _, err := c.Constants.Lookup(c.SubgroupSize); err != nil {
		errors = append(errors, err)
	}
	if c.MinSubgroups < 1 {
		errors = append(errors, fmt.Errorf("min-subgroups must be at least 1"))
	}
	if !(c.Alpha > 0 && c.Alpha < 1) {
		errors = append(errors, fmt.Errorf("alpha must be between 0 and 1, got %v", c.Alpha))
	}
	if c.Thresholds.Review > c.Thresholds.Meets {
		errors = append(errors, fmt.Errorf("review threshold %v must not exceed meets threshold %v", c.Thresholds.Review, c.Thresholds.Meets))
	}
	if n := c.limits.count(); n > 0 && n < 3 {
		errors = append(errors, fmt.Errorf("nominal, lsl and usl must be set together"))
	}
	if c.limits.count() == 3 {
		if _, err := c.Limits(); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return Config{}, errors
	}
	return c, nil
}

// Limits returns specification limits set through options.  It fails when they were not set, in which case the
// limits must come from a specification file.
func (c Config) Limits() (metric.Limits, error) {
	if c.limits.count() != 3 {
		return metric.Limits{}, fmt.Errorf("specification limits not configured, use --nominal, --lsl and --usl or --spec")
	}
	return metric.NewLimits(*c.limits.nominal, *c.limits.lsl, *c.limits.usl)
}

// HasLimits is true when limits were set through options
func (c Config) HasLimits() bool {
	return c.limits.count() == 3
}

func Characteristic(name string) ConfigOption {
	return func(c *Config) error {
		if name == "" {
			return fmt.Errorf("characteristic name must be the non-empty string")
		}
		if !utf8.ValidString(name) {
			return fmt.Errorf("characteristic name %q is not valid UTF-8", name)
		}
		c.Characteristic = name
		return nil
	}
}

func SubgroupSize(size string) ConfigOption {
	return func(c *Config) error {
		k, err := strconv.Atoi(size)
		if err != nil {
			return fmt.Errorf("could not convert subgroup-size to integer")
		}
		c.SubgroupSize = k
		return nil
	}
}

func MinSubgroups(min string) ConfigOption {
	return func(c *Config) error {
		m, err := strconv.Atoi(min)
		if err != nil {
			return fmt.Errorf("could not convert min-subgroups to integer")
		}
		c.MinSubgroups = m
		return nil
	}
}

func Alpha(alpha string) ConfigOption {
	return func(c *Config) error {
		a, err := strconv.ParseFloat(alpha, 64)
		if err != nil {
			return fmt.Errorf("could not convert alpha to a number")
		}
		c.Alpha = a
		return nil
	}
}

func MeetsThreshold(value string) ConfigOption {
	return func(c *Config) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("could not convert meets-threshold to a number")
		}
		c.Thresholds.Meets = v
		return nil
	}
}

func ReviewThreshold(value string) ConfigOption {
	return func(c *Config) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("could not convert review-threshold to a number")
		}
		c.Thresholds.Review = v
		return nil
	}
}

func Nominal(value string) ConfigOption {
	return limitOption("nominal", value, func(c *Config, v float64) { c.limits.nominal = &v })
}

func LSL(value string) ConfigOption {
	return limitOption("lsl", value, func(c *Config, v float64) { c.limits.lsl = &v })
}

func USL(value string) ConfigOption {
	return limitOption("usl", value, func(c *Config, v float64) { c.limits.usl = &v })
}

func limitOption(name string, value string, set func(c *Config, v float64)) ConfigOption {
	return func(c *Config) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("could not convert %s to a number: %s", name, value)
		}
		set(c, v)
		return nil
	}
}

// WithLimits sets all three specification limits at once
func WithLimits(l metric.Limits) ConfigOption {
	return func(c *Config) error {
		nominal, lsl, usl := l.Nominal, l.LSL, l.USL
		c.limits = partialLimits{nominal: &nominal, lsl: &lsl, usl: &usl}
		return l.Validate()
	}
}

// WithConstants replaces the standard control chart constant table
func WithConstants(t chart.Table) ConfigOption {
	return func(c *Config) error {
		c.Constants = t
		return nil
	}
}

func DataFile(path string) ConfigOption {
	return func(c *Config) error {
		c.DataFile = path
		return nil
	}
}

func SpecFile(path string) ConfigOption {
	return func(c *Config) error {
		c.SpecFile = path
		return nil
	}
}

func Column(name string) ConfigOption {
	return func(c *Config) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("column name must be the non-empty string")
		}
		c.Column = name
		return nil
	}
}

func Format(format string) ConfigOption {
	return func(c *Config) error {
		switch format {
		case FormatTable, FormatLogfmt, FormatPrometheus:
			c.Format = format
			return nil
		default:
			return fmt.Errorf("unknown format %s, use %s, %s or %s", format, FormatTable, FormatLogfmt, FormatPrometheus)
		}
	}
}

// Host sets the collector that receives published results as host:port
func Host(pathWithPort string) ConfigOption {
	return func(c *Config) error {
		host, port, err := net.SplitHostPort(pathWithPort)
		if err != nil || host == "" || port == "" {
			return fmt.Errorf("unknown host %s, use host:port or [ipv6]:port", pathWithPort)
		}
		c.host = host
		c.port = port
		return nil
	}
}

func Insecure() ConfigOption {
	return func(c *Config) error {
		c.useTLS = false
		return nil
	}
}

func NoErrorReports() ConfigOption {
	return func(c *Config) error {
		c.noErrorReports = true
		return nil
	}
}
