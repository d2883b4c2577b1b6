package spc

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-logfmt/logfmt"
)

// Write renders the result in the configured format
func (a *Analysis) Write(w io.Writer, r *Result) error {
	switch a.Config.Format {
	case FormatLogfmt:
		return r.WriteLogfmt(w)
	case FormatPrometheus:
		return r.WritePrometheus(w)
	default:
		return r.WriteTable(w)
	}
}

// WriteLogfmt writes one line per metric in sorted name order, e.g.
// metric=cpk characteristic=diameter value=1.3912
func (r *Result) WriteLogfmt(w io.Writer) error {
	e := logfmt.NewEncoder(w)
	for _, m := range r.Measurements() {
		kv := append([]interface{}{"metric", m.Name.Base()}, m.Name.Keyvals()...)
		kv = append(kv, "value", m.Value)
		if err := e.EncodeKeyvals(kv...); err != nil {
			return err
		}
		if err := e.EndRecord(); err != nil {
			return err
		}
	}
	for _, v := range []struct {
		name  string
		value string
	}{
		{"cpk_verdict", r.Cpk.Text()},
		{"ppk_verdict", r.Ppk.Text()},
		{"in_control", fmt.Sprintf("%t", r.InControl())},
	} {
		if err := e.EncodeKeyvals("metric", v.name, "characteristic", r.Characteristic, "value", v.value); err != nil {
			return err
		}
		if err := e.EndRecord(); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable writes the chart, indices, exceedance, normality and summary tables
func (r *Result) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	c := r.Capability

	fmt.Fprintf(tw, "Characteristic:\t%s\n", r.Characteristic)
	fmt.Fprintf(tw, "Specification:\tnominal=%g\tLSL=%g\tUSL=%g\n", r.Limits.Nominal, r.Limits.LSL, r.Limits.USL)
	fmt.Fprintf(tw, "Measurements:\t%d\tsubgroups=%d\tsize=%d\n", r.N, len(r.Subgroups), r.Chart.Size)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Chart\tCenter\tLCL\tUCL")
	fmt.Fprintf(tw, "X-bar\t%.4f\t%.4f\t%.4f\n", r.Chart.XBar.Center, r.Chart.XBar.Lower, r.Chart.XBar.Upper)
	fmt.Fprintf(tw, "Range\t%.4f\t%.4f\t%.4f\n", r.Chart.Range.Center, r.Chart.Range.Lower, r.Chart.Range.Upper)
	fmt.Fprintf(tw, "In control:\t%t\n", r.InControl())
	for _, v := range r.Chart.Violations {
		fmt.Fprintf(tw, "\t%s\n", v)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Index\tValue\tIndex\tValue")
	fmt.Fprintf(tw, "Cp\t%.3f\tPp\t%.3f\n", c.Within.Cp, c.Overall.Pp)
	fmt.Fprintf(tw, "Cpl\t%.3f\tPpl\t%.3f\n", c.Within.Cpl, c.Overall.Ppl)
	fmt.Fprintf(tw, "Cpu\t%.3f\tPpu\t%.3f\n", c.Within.Cpu, c.Overall.Ppu)
	fmt.Fprintf(tw, "Cpk\t%.3f\tPpk\t%.3f\n", c.Within.Cpk, c.Overall.Ppk)
	fmt.Fprintf(tw, "Cpm\t%.3f\t\t\n", c.Within.Cpm)
	fmt.Fprintf(tw, "Sigma (within)\t%.4f\tSigma (overall)\t%.4f\n", c.Within.Sigma, c.Overall.Sigma)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Out of spec %\t< LSL\t> USL\tTotal")
	fmt.Fprintf(tw, "Expected\t%.4f\t%.4f\t%.4f\n", c.Expected.BelowLSL, c.Expected.AboveUSL, c.Expected.Total())
	fmt.Fprintf(tw, "Observed\t%.4f\t%.4f\t%.4f\n", c.Observed.BelowLSL, c.Observed.AboveUSL, c.Observed.Total())
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Normality test\tStatistic\tp-value\tConclusion")
	for _, t := range r.Normality.Results() {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4g\t%s\n", t.Test, t.Statistic, t.PValue, t.Conclusion.Text())
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Summary\tValue\tConclusion")
	fmt.Fprintf(tw, "Cpk\t%.3f\t%s\n", c.Within.Cpk, r.Cpk.Text())
	fmt.Fprintf(tw, "Ppk\t%.3f\t%s\n", c.Overall.Ppk, r.Ppk.Text())
	return tw.Flush()
}
