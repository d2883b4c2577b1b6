package spc

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BTBurke/spc/pkg/capability"
	"github.com/BTBurke/spc/pkg/chart"
	"github.com/BTBurke/spc/pkg/classify"
	"github.com/BTBurke/spc/pkg/metric"
	"github.com/BTBurke/spc/pkg/normality"
	"github.com/BTBurke/spc/pkg/subgroup"
)

// Analysis runs capability analyses with a fixed configuration
type Analysis struct {
	Config Config

	report ReportSender
	errors ErrorReporter
}

// Result is the complete outcome of one analysis.  It is never returned partially populated.  ID is unique to
// each run so a collector can discard duplicate reports after a retry.
type Result struct {
	ID             string
	Characteristic string
	Limits         metric.Limits
	N              int
	Subgroups      []subgroup.Subgroup
	Chart          chart.Statistics
	Capability     capability.Result
	Normality      normality.Report
	Cpk            classify.Capability
	Ppk            classify.Capability
	Finished       time.Time
}

// InControl is true when no subgroup plots outside the X-bar or R chart limits
func (r *Result) InControl() bool {
	return r.Chart.InControl()
}

// New returns an analysis configured by the options.  All option errors are returned together.
func New(options ...ConfigOption) (*Analysis, []error) {
	cfg, err := newConfig(options...)
	if len(err) > 0 {
		return nil, err
	}
	errors := newErrorService(cfg.noErrorReports)
	return &Analysis{
		Config: cfg,
		errors: errors,
		report: &Report{
			sender: &senderService{
				host:   cfg.host,
				port:   cfg.port,
				useTLS: cfg.useTLS,
			},
			timeout: defaultSendTimeout,
			errors:  errors,
		},
	}, nil
}

// Run performs subgrouping, charting, capability and normality analysis of the series against the limits.  The
// first failure stops the analysis and is returned as is.
func (a *Analysis) Run(s *metric.Series, l metric.Limits) (*Result, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	name := a.characteristic(s)
	groups, err := subgroup.Partition(s, a.Config.SubgroupSize, a.Config.MinSubgroups)
	if err != nil {
		return nil, fmt.Errorf("subgrouping %s: %w", name, err)
	}
	cs, err := chart.Compute(groups, a.Config.Constants)
	if err != nil {
		return nil, fmt.Errorf("control chart %s: %w", name, err)
	}
	cr, err := capability.Compute(cs, l, s)
	if err != nil {
		return nil, fmt.Errorf("capability %s: %w", name, err)
	}
	nr, err := normality.Evaluate(s.Values(), a.Config.Alpha)
	if err != nil {
		return nil, fmt.Errorf("normality %s: %w", name, err)
	}

	return &Result{
		ID:             uuid.NewString(),
		Characteristic: name,
		Limits:         l,
		N:              s.Len(),
		Subgroups:      groups,
		Chart:          cs,
		Capability:     cr,
		Normality:      nr,
		Cpk:            a.Config.Thresholds.Classify(cr.Within.Cpk),
		Ppk:            a.Config.Thresholds.Classify(cr.Overall.Ppk),
		Finished:       time.Now(),
	}, nil
}

// characteristic names the result after the series when it is named, otherwise after the configuration
func (a *Analysis) characteristic(s *metric.Series) string {
	if s != nil && s.Name().Base() != "" {
		return s.Name().Base()
	}
	return a.Config.Characteristic
}

// Inputs loads the measurement series and the specification limits named by the configuration.  Limits set by
// options take precedence over a specification file.
func (a *Analysis) Inputs() (*metric.Series, metric.Limits, error) {
	if a.Config.DataFile == "" {
		return nil, metric.Limits{}, fmt.Errorf("no measurement file, use --data")
	}
	s, err := LoadSeries(a.Config.DataFile, a.Config.Column, metric.WithName(a.Config.Characteristic, nil))
	if err != nil {
		return nil, metric.Limits{}, err
	}

	var l metric.Limits
	switch {
	case a.Config.HasLimits():
		l, err = a.Config.Limits()
	case a.Config.SpecFile != "":
		l, err = LoadLimits(a.Config.SpecFile)
	default:
		err = fmt.Errorf("no specification limits, use --spec or --nominal, --lsl and --usl")
	}
	if err != nil {
		return nil, metric.Limits{}, err
	}
	return s, l, nil
}

// Publish sends the result to the configured collector.  It is a no-op when no host is configured.
func (a *Analysis) Publish(r *Result) error {
	if a.Config.host == "" {
		return nil
	}
	return a.report.Send(r)
}

// Wait blocks until queued error reports are delivered
func (a *Analysis) Wait() {
	a.errors.Wait()
}

// ReportError forwards an unexpected error to the error reporting service
func (a *Analysis) ReportError(err error) {
	a.errors.ReportError(err)
}

// Measurement is one reported quantity and its metric name
type Measurement struct {
	Name  metric.Name
	Value float64
}

// Measurements returns every reported quantity sorted by metric name.  It defines the following names with the
// characteristic as metadata:
//
//	cp cpl cpu cpk cpm pp ppl ppu ppk mean sigma[type=(within|overall)]
//	xbar[value=(center|lcl|ucl)] range[value=(center|lcl|ucl)]
//	out_of_spec_pct[source=(expected|observed) side=(lsl|usl|total)]
//	normality_statistic[test=...] normality_p[test=...]
//
// Example: cpk[characteristic=diameter] 1.3912
func (r *Result) Measurements() []Measurement {
	base := metric.NewName("", map[string]string{"characteristic": r.Characteristic})
	var out []Measurement
	put := func(n metric.Name, v float64) {
		out = append(out, Measurement{Name: n, Value: v})
	}

	c := r.Capability
	for name, v := range map[string]float64{
		"cp": c.Within.Cp, "cpl": c.Within.Cpl, "cpu": c.Within.Cpu, "cpk": c.Within.Cpk, "cpm": c.Within.Cpm,
		"pp": c.Overall.Pp, "ppl": c.Overall.Ppl, "ppu": c.Overall.Ppu, "ppk": c.Overall.Ppk,
		"mean": c.Mean,
	} {
		put(base.Rename(name), v)
	}
	put(base.Rename("sigma").With("type", "within"), c.Within.Sigma)
	put(base.Rename("sigma").With("type", "overall"), c.Overall.Sigma)

	for name, l := range map[string]chart.Limits{"xbar": r.Chart.XBar, "range": r.Chart.Range} {
		n := base.Rename(name)
		put(n.With("value", "center"), l.Center)
		put(n.With("value", "lcl"), l.Lower)
		put(n.With("value", "ucl"), l.Upper)
	}

	for source, e := range map[string]capability.Exceedance{"expected": c.Expected, "observed": c.Observed} {
		n := base.Rename("out_of_spec_pct").With("source", source)
		put(n.With("side", "lsl"), e.BelowLSL)
		put(n.With("side", "usl"), e.AboveUSL)
		put(n.With("side", "total"), e.Total())
	}

	for _, t := range r.Normality.Results() {
		put(base.Rename("normality_statistic").With("test", string(t.Test)), t.Statistic)
		put(base.Rename("normality_p").With("test", string(t.Test)), t.PValue)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name.String() < out[j].Name.String()
	})
	return out
}

// Metric returns the measurements keyed by their encoded metric name
func (r *Result) Metric() map[string]float64 {
	out := make(map[string]float64)
	for _, m := range r.Measurements() {
		out[m.Name.String()] = m.Value
	}
	return out
}
