package spc

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/BTBurke/spc/pkg/classify"
)

const metricsNamespace = "spc"

// WritePrometheus writes the result in the Prometheus text exposition format for the node exporter textfile
// collector.  Each metric name becomes a gauge in the spc namespace and its metadata become labels, e.g.
// spc_normality_p{characteristic="diameter",test="shapiro-wilk"} 0.41
func (r *Result) WritePrometheus(w io.Writer) error {
	reg := prometheus.NewRegistry()
	gauges := make(map[string]*prometheus.GaugeVec)
	gauge := func(name string, help string, labels []string) *prometheus.GaugeVec {
		if g, ok := gauges[name]; ok {
			return g
		}
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		}, labels)
		reg.MustRegister(g)
		gauges[name] = g
		return g
	}

	for _, m := range r.Measurements() {
		kv := m.Name.Keyvals()
		labels := make(prometheus.Labels, len(kv)/2)
		keys := make([]string, 0, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			k := kv[i].(string)
			labels[k] = kv[i+1].(string)
			keys = append(keys, k)
		}
		base := m.Name.Base()
		gauge(base, "Capability analysis value "+base, keys).With(labels).Set(m.Value)
	}

	verdicts := gauge("capability_verdict", "Set to 1 for the acceptance tier of each capability index", []string{"characteristic", "index", "verdict"})
	for index, c := range map[string]classify.Capability{"cpk": r.Cpk, "ppk": r.Ppk} {
		verdicts.With(prometheus.Labels{"characteristic": r.Characteristic, "index": index, "verdict": c.String()}).Set(1)
	}
	inControl := 0.0
	if r.InControl() {
		inControl = 1
	}
	gauge("in_control", "Set to 1 when no subgroup is outside the X-bar or R chart limits", []string{"characteristic"}).
		With(prometheus.Labels{"characteristic": r.Characteristic}).Set(inControl)

	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
