package chart

import (
	"errors"
	"math"
	"testing"

	"github.com/BTBurke/spc/pkg/metric"
	"github.com/BTBurke/spc/pkg/rng"
	"github.com/BTBurke/spc/pkg/stat"
	"github.com/BTBurke/spc/pkg/subgroup"
	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tt := []struct {
		name string
		k    int
		exp  Constants
		err  bool
	}{
		{name: "k=2", k: 2, exp: Constants{A2: 1.880, D2: 1.128, D3: 0, D4: 3.267}},
		{name: "k=5", k: 5, exp: Constants{A2: 0.577, D2: 2.326, D3: 0, D4: 2.114}},
		{name: "k=25", k: 25, exp: Constants{A2: 0.153, D2: 3.931, D3: 0.459, D4: 1.541}},
		{name: "k=1", k: 1, err: true},
		{name: "k=26", k: 26, err: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Standard.Lookup(tc.k)
			if tc.err {
				var e stat.UnsupportedSubgroupSizeError
				assert.True(t, errors.As(err, &e))
				assert.Equal(t, tc.k, e.Size)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.exp, c)
		})
	}
}

func TestTableCopy(t *testing.T) {
	src := map[int]Constants{3: {A2: 1}}
	table := NewTable(src)
	src[3] = Constants{A2: 2}
	c, err := table.Lookup(3)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, c.A2)
	assert.Equal(t, []int{3}, table.Sizes())
	assert.Len(t, Standard.Sizes(), 24)
}

func TestCompute(t *testing.T) {
	groups := []subgroup.Subgroup{
		{Index: 1, Values: []float64{1, 2, 3, 4, 5}},
		{Index: 2, Values: []float64{2, 3, 4, 5, 6}},
	}
	s, err := Compute(groups, Standard)
	assert.NoError(t, err)
	assert.Equal(t, 5, s.Size)
	assert.Equal(t, []float64{3, 4}, s.Means)
	assert.Equal(t, []float64{4, 4}, s.Ranges)
	assert.InDelta(t, 3.5, s.GrandMean, 1e-12)
	assert.InDelta(t, 4.0, s.MeanRange, 1e-12)
	assert.InDelta(t, 3.5, s.XBar.Center, 1e-12)
	assert.InDelta(t, 3.5-0.577*4, s.XBar.Lower, 1e-12)
	assert.InDelta(t, 3.5+0.577*4, s.XBar.Upper, 1e-12)
	assert.InDelta(t, 4.0, s.Range.Center, 1e-12)
	assert.InDelta(t, 0.0, s.Range.Lower, 1e-12)
	assert.InDelta(t, 2.114*4, s.Range.Upper, 1e-12)
	assert.InDelta(t, 4/2.326, s.Sigma, 1e-12)
	assert.True(t, s.InControl())
}

func TestGrandMeanEqualsSeriesMean(t *testing.T) {
	r := rng.NewNormalRNG(10.0, 0.15, 7)
	series, err := metric.NewSeries(r.Sample(125))
	assert.NoError(t, err)
	groups, err := subgroup.Partition(series, 5, 25)
	assert.NoError(t, err)

	s, err := Compute(groups, Standard)
	assert.NoError(t, err)
	assert.InDelta(t, stat.Mean(series.Values()), s.GrandMean, 1e-12)
}

func TestViolations(t *testing.T) {
	var groups []subgroup.Subgroup
	for i := 1; i <= 25; i++ {
		offset := 0.0
		if i == 12 {
			offset = 10.0
		}
		groups = append(groups, subgroup.Subgroup{Index: i, Values: []float64{offset, offset + 1, offset + 2, offset + 3, offset + 4}})
	}
	s, err := Compute(groups, Standard)
	assert.NoError(t, err)
	assert.False(t, s.InControl())
	assert.Equal(t, []Violation{{Chart: XBar, Subgroup: 12, Value: 12, Above: true}}, s.Violations)
	assert.Equal(t, "xbar subgroup 12 = 12 above UCL", s.Violations[0].String())
}

func TestComputeErrors(t *testing.T) {
	tt := []struct {
		name   string
		groups []subgroup.Subgroup
		check  func(err error) bool
	}{
		{name: "no groups", groups: nil, check: isInvalid},
		{name: "unequal sizes", groups: []subgroup.Subgroup{
			{Index: 1, Values: []float64{1, 2, 3}},
			{Index: 2, Values: []float64{1, 2}},
		}, check: isInvalid},
		{name: "non-finite", groups: []subgroup.Subgroup{
			{Index: 1, Values: []float64{1, 2, 3}},
			{Index: 2, Values: []float64{1, math.NaN(), 3}},
		}, check: isInvalid},
		{name: "unsupported size", groups: []subgroup.Subgroup{
			{Index: 1, Values: []float64{1}},
		}, check: func(err error) bool {
			var e stat.UnsupportedSubgroupSizeError
			return errors.As(err, &e)
		}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.groups, Standard)
			assert.True(t, tc.check(err), "unexpected error %v", err)
		})
	}
}

func isInvalid(err error) bool {
	var e stat.InvalidInputError
	return errors.As(err, &e)
}
