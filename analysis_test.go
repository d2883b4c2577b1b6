package spc

import (
	"bytes"
	"errors"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/BTBurke/spc/pkg/classify"
	"github.com/BTBurke/spc/pkg/metric"
	"github.com/BTBurke/spc/pkg/rng"
	"github.com/BTBurke/spc/pkg/stat"
)

// standardized returns n normal draws rescaled to exactly the given sample mean and standard deviation
func standardized(n int, mean float64, sd float64, seed int64) []float64 {
	v := rng.NewNormalRNG(0, 1, seed).Sample(n)
	m, s := stat.Mean(v), stat.StdDev(v)
	for i := range v {
		v[i] = mean + sd*(v[i]-m)/s
	}
	return v
}

func testAnalysis(t *testing.T, opts ...ConfigOption) *Analysis {
	opts = append(opts, NoErrorReports())
	a, errs := New(opts...)
	if len(errs) > 0 {
		t.Fatalf("unexpected config errors: %v", errs)
	}
	return a
}

func sampleResult(t *testing.T) *Result {
	return namedResult(t, "diameter")
}

// namedResult analyzes the standard sample with the characteristic set in the configuration and optional series
// options
func namedResult(t *testing.T, characteristic string, opts ...metric.SeriesOption) *Result {
	a := testAnalysis(t, Characteristic(characteristic))
	s, err := metric.NewSeries(standardized(125, 10, 0.15, 7), opts...)
	if err != nil {
		t.Fatalf("unexpected error creating series: %s", err)
	}
	r, err := a.Run(s, metric.Limits{Nominal: 10, LSL: 9.5, USL: 10.5})
	if err != nil {
		t.Fatalf("unexpected analysis error: %s", err)
	}
	return r
}

func TestRunEndToEnd(t *testing.T) {
	r := sampleResult(t)
	c := r.Capability

	assert.Equal(t, "diameter", r.Characteristic)
	assert.Equal(t, 125, r.N)
	assert.Len(t, r.Subgroups, 25)
	assert.Equal(t, 5, r.Chart.Size)

	assert.InDelta(t, 10, c.Mean, 1e-9)
	assert.InDelta(t, 0.15, c.Overall.Sigma, 1e-9)
	assert.InDelta(t, 1/(6*0.15), c.Overall.Pp, 1e-9)
	assert.InDelta(t, c.Overall.Pp, c.Overall.Ppk, 1e-9)
	assert.InDelta(t, c.Within.Cp, c.Within.Cpm, 1e-9)
	assert.InDelta(t, r.Chart.Sigma, c.Within.Sigma, 1e-12)
	assert.True(t, c.Within.Cpk <= c.Within.Cp)

	tail := 100 * stat.StandardSurvival(0.5/0.15)
	assert.InDelta(t, tail, c.Expected.BelowLSL, 1e-9)
	assert.InDelta(t, tail, c.Expected.AboveUSL, 1e-9)
	assert.InDelta(t, 100, c.Expected.Total()+c.Expected.Within, 1e-9)
	assert.InDelta(t, 100, c.Observed.Total()+c.Observed.Within, 1e-9)

	assert.Equal(t, classify.FailsReview, r.Ppk)
	assert.Equal(t, classify.DefaultThresholds.Classify(c.Within.Cpk), r.Cpk)
	assert.Equal(t, 125, r.Normality.ShapiroWilk.N)
	assert.Equal(t, 125, r.Normality.AndersonDarling.N)
	assert.False(t, r.Finished.IsZero())
}

func TestRunErrors(t *testing.T) {
	limits := metric.Limits{Nominal: 10, LSL: 9.5, USL: 10.5}
	constant := make([]float64, 125)
	for i := range constant {
		constant[i] = 10
	}

	tt := []struct {
		Name   string
		Values []float64
		Limits metric.Limits
		Opts   []ConfigOption
		Check  func(err error) bool
	}{
		{Name: "reversed limits", Values: standardized(125, 10, .15, 1), Limits: metric.Limits{Nominal: 10, LSL: 10.5, USL: 9.5}, Check: func(err error) bool {
			var e stat.InvalidInputError
			return errors.As(err, &e)
		}},
		{Name: "ragged", Values: standardized(124, 10, .15, 1), Limits: limits, Check: func(err error) bool {
			var e stat.InvalidInputError
			return errors.As(err, &e)
		}},
		{Name: "too few subgroups", Values: standardized(120, 10, .15, 1), Limits: limits, Check: func(err error) bool {
			var e stat.InvalidInputError
			return errors.As(err, &e)
		}},
		{Name: "constant", Values: constant, Limits: limits, Check: func(err error) bool {
			var e stat.DegenerateVarianceError
			return errors.As(err, &e)
		}},
		{Name: "too many for shapiro-wilk", Values: standardized(5005, 10, .15, 1), Limits: limits, Check: func(err error) bool {
			var e stat.SampleSizeUnsupportedError
			return errors.As(err, &e) && e.Max == 5000
		}},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			a := testAnalysis(t, tc.Opts...)
			s, err := metric.NewSeries(tc.Values)
			assert.NoError(t, err)
			r, err := a.Run(s, tc.Limits)
			assert.Nil(t, r)
			assert.True(t, tc.Check(err), "unexpected error %v", err)
		})
	}
}

func TestInputs(t *testing.T) {
	dir, err := ioutil.TempDir("", "spcinputs")
	if err != nil {
		t.Fatalf("unexpected error creating temp dir: %s", err)
	}
	defer os.RemoveAll(dir)

	data := filepath.Join(dir, "data.csv")
	spec := filepath.Join(dir, "spec.csv")
	assert.NoError(t, ioutil.WriteFile(data, []byte("part,bore\n1,10.1\n2,9.9\n"), 0644))
	assert.NoError(t, ioutil.WriteFile(spec, []byte("Nominal,LSL,USL\n10,9,11\n"), 0644))

	tt := []struct {
		Name     string
		Opts     []ConfigOption
		Expected metric.Limits
		Error    bool
	}{
		{Name: "spec file", Opts: []ConfigOption{DataFile(data), Column("bore"), SpecFile(spec)}, Expected: metric.Limits{Nominal: 10, LSL: 9, USL: 11}},
		{Name: "options override file", Opts: []ConfigOption{DataFile(data), Column("bore"), SpecFile(spec), Nominal("10"), LSL("9.5"), USL("10.5")}, Expected: metric.Limits{Nominal: 10, LSL: 9.5, USL: 10.5}},
		{Name: "no limits", Opts: []ConfigOption{DataFile(data), Column("bore")}, Error: true},
		{Name: "no data", Opts: []ConfigOption{SpecFile(spec)}, Error: true},
		{Name: "wrong column", Opts: []ConfigOption{DataFile(data), SpecFile(spec)}, Error: true},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			a := testAnalysis(t, tc.Opts...)
			s, l, err := a.Inputs()
			if tc.Error {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, []float64{10.1, 9.9}, s.Values())
			assert.Equal(t, tc.Expected, l)
		})
	}
}

func TestMetricNames(t *testing.T) {
	r := sampleResult(t)
	m := r.Metric()

	for _, name := range []string{
		"cp", "cpl", "cpu", "cpk", "cpm", "pp", "ppl", "ppu", "ppk", "mean",
	} {
		_, ok := m[name+"[characteristic=diameter]"]
		assert.True(t, ok, "missing %s", name)
	}
	assert.Equal(t, r.Capability.Within.Cpk, m["cpk[characteristic=diameter]"])
	assert.Equal(t, r.Capability.Within.Sigma, m["sigma[characteristic=diameter type=within]"])
	assert.Equal(t, r.Chart.XBar.Upper, m["xbar[characteristic=diameter value=ucl]"])
	assert.Equal(t, r.Chart.Range.Center, m["range[characteristic=diameter value=center]"])
	assert.Equal(t, r.Capability.Observed.Total(), m["out_of_spec_pct[characteristic=diameter side=total source=observed]"])
	assert.Equal(t, r.Normality.ShapiroWilk.PValue, m["normality_p[characteristic=diameter test=shapiro-wilk]"])
	assert.Len(t, m, 10+2+6+6+4)
}

func TestWriteLogfmt(t *testing.T) {
	r := sampleResult(t)
	var b bytes.Buffer
	assert.NoError(t, r.WriteLogfmt(&b))

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	assert.Len(t, lines, len(r.Metric())+3)
	assert.Contains(t, b.String(), "metric=normality_p characteristic=diameter test=shapiro-wilk value=")
	assert.Contains(t, b.String(), "metric=ppk_verdict characteristic=diameter value=\"Does not meet criteria; review required\"")
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "metric="), l)
	}
}

func TestWriteTable(t *testing.T) {
	r := sampleResult(t)
	var b bytes.Buffer
	assert.NoError(t, r.WriteTable(&b))
	out := b.String()
	for _, s := range []string{"Characteristic:", "X-bar", "Cpk", "Ppk", "shapiro-wilk", "anderson-darling", "Expected", "Observed"} {
		assert.Contains(t, out, s)
	}
	assert.False(t, math.IsNaN(r.Capability.Within.Cp))
}

func TestPublish(t *testing.T) {
	r := sampleResult(t)

	t.Run("no host", func(t *testing.T) {
		mocks := new(mockReportSender)
		a := testAnalysis(t)
		a.report = mocks
		assert.NoError(t, a.Publish(r))
		mocks.AssertNotCalled(t, "Send", mock.Anything)
	})

	t.Run("host", func(t *testing.T) {
		mocks := new(mockReportSender)
		mocks.On("Send", r).Return(nil)
		a := testAnalysis(t, Host("localhost:8080"))
		a.report = mocks
		assert.NoError(t, a.Publish(r))
		mocks.AssertExpectations(silenceT(t))
	})
}

type mockReportSender struct {
	mock.Mock
}

func (m *mockReportSender) Send(r *Result) error {
	args := m.Called(r)
	return args.Error(0)
}

func TestWritePrometheus(t *testing.T) {
	r := sampleResult(t)
	var b bytes.Buffer
	assert.NoError(t, r.WritePrometheus(&b))
	out := b.String()

	assert.Contains(t, out, "# TYPE spc_cpk gauge")
	assert.Contains(t, out, `spc_cpk{characteristic="diameter"}`)
	assert.Contains(t, out, `spc_normality_p{characteristic="diameter",test="anderson-darling"}`)
	assert.Contains(t, out, `spc_out_of_spec_pct{characteristic="diameter",side="total",source="expected"}`)
	assert.Contains(t, out, `spc_capability_verdict{characteristic="diameter",index="ppk",verdict="FailsReview"} 1`)
	assert.Contains(t, out, `spc_in_control{characteristic="diameter"}`)
}

func TestRunID(t *testing.T) {
	a, b := sampleResult(t), sampleResult(t)
	_, err := uuid.Parse(a.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRunNamedSeries(t *testing.T) {
	tt := []struct {
		Name     string
		Opts     []metric.SeriesOption
		Expected string
	}{
		{Name: "unnamed series uses configuration", Opts: nil, Expected: "measurement"},
		{Name: "named series", Opts: []metric.SeriesOption{metric.WithName("bore", nil)}, Expected: "bore"},
		{Name: "metadata is not part of the name", Opts: []metric.SeriesOption{metric.WithName("bore", map[string]string{"line": "3"})}, Expected: "bore"},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			r := namedResult(t, "measurement", tc.Opts...)
			assert.Equal(t, tc.Expected, r.Characteristic)
			_, ok := r.Metric()["cpk[characteristic="+tc.Expected+"]"]
			assert.True(t, ok)
		})
	}
}

func TestMeasurements(t *testing.T) {
	r := sampleResult(t)
	ms := r.Measurements()
	assert.Len(t, ms, len(r.Metric()))
	for i := 1; i < len(ms); i++ {
		assert.True(t, ms[i-1].Name.String() < ms[i].Name.String())
	}
	for _, m := range ms {
		assert.Equal(t, r.Metric()[m.Name.String()], m.Value)
		assert.Equal(t, []interface{}{"characteristic", "diameter"}, m.Name.Keyvals()[:2])
	}
}

func TestWriteQuotedCharacteristic(t *testing.T) {
	r := namedResult(t, "bore [mm] = 1")

	var lf bytes.Buffer
	assert.NoError(t, r.WriteLogfmt(&lf))
	assert.Contains(t, lf.String(), `metric=cpk characteristic="bore [mm] = 1" value=`)
	assert.Contains(t, lf.String(), `metric=normality_p characteristic="bore [mm] = 1" test=shapiro-wilk value=`)

	var prom bytes.Buffer
	assert.NoError(t, r.WritePrometheus(&prom))
	assert.Contains(t, prom.String(), `spc_cpk{characteristic="bore [mm] = 1"}`)
}
