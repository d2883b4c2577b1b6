package chart

import (
	"fmt"
	"sort"

	"github.com/BTBurke/spc/pkg/stat"
)

// Constants are the X-bar/R control chart factors for one subgroup size.  D2 relates the mean range to the process
// standard deviation (sigma = Rbar / d2).  A2, D3 and D4 place the control limits.
type Constants struct {
	A2 float64
	D2 float64
	D3 float64
	D4 float64
}

// Table is an immutable lookup of control chart constants keyed by subgroup size
type Table struct {
	c map[int]Constants
}

// NewTable copies the constants into a new table
func NewTable(c map[int]Constants) Table {
	t := Table{c: make(map[int]Constants, len(c))}
	for k, v := range c {
		t.c[k] = v
	}
	return t
}

// Lookup returns the constants for subgroup size k
func (t Table) Lookup(k int) (Constants, error) {
	c, ok := t.c[k]
	if !ok {
		return Constants{}, stat.UnsupportedSubgroupSizeError{
			Msg:  fmt.Sprintf("no control chart constants for subgroup size %d, supported sizes are %v", k, t.Sizes()),
			Size: k,
		}
	}
	return c, nil
}

// Sizes returns the supported subgroup sizes in ascending order
func (t Table) Sizes() []int {
	out := make([]int, 0, len(t.c))
	for k := range t.c {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Standard is the published table of X-bar/R constants for subgroup sizes 2 through 25
var Standard = NewTable(map[int]Constants{
	2:  {A2: 1.880, D2: 1.128, D3: 0, D4: 3.267},
	3:  {A2: 1.023, D2: 1.693, D3: 0, D4: 2.574},
	4:  {A2: 0.729, D2: 2.059, D3: 0, D4: 2.282},
	5:  {A2: 0.577, D2: 2.326, D3: 0, D4: 2.114},
	6:  {A2: 0.483, D2: 2.534, D3: 0, D4: 2.004},
	7:  {A2: 0.419, D2: 2.704, D3: 0.076, D4: 1.924},
	8:  {A2: 0.373, D2: 2.847, D3: 0.136, D4: 1.864},
	9:  {A2: 0.337, D2: 2.970, D3: 0.184, D4: 1.816},
	10: {A2: 0.308, D2: 3.078, D3: 0.223, D4: 1.777},
	11: {A2: 0.285, D2: 3.173, D3: 0.256, D4: 1.744},
	12: {A2: 0.266, D2: 3.258, D3: 0.283, D4: 1.717},
	13: {A2: 0.249, D2: 3.336, D3: 0.307, D4: 1.693},
	14: {A2: 0.235, D2: 3.407, D3: 0.328, D4: 1.672},
	15: {A2: 0.223, D2: 3.472, D3: 0.347, D4: 1.653},
	16: {A2: 0.212, D2: 3.532, D3: 0.363, D4: 1.637},
	17: {A2: 0.203, D2: 3.588, D3: 0.378, D4: 1.622},
	18: {A2: 0.194, D2: 3.640, D3: 0.391, D4: 1.608},
	19: {A2: 0.187, D2: 3.689, D3: 0.403, D4: 1.597},
	20: {A2: 0.180, D2: 3.735, D3: 0.415, D4: 1.585},
	21: {A2: 0.173, D2: 3.778, D3: 0.425, D4: 1.575},
	22: {A2: 0.167, D2: 3.819, D3: 0.434, D4: 1.566},
	23: {A2: 0.162, D2: 3.858, D3: 0.443, D4: 1.557},
	24: {A2: 0.157, D2: 3.895, D3: 0.451, D4: 1.548},
	25: {A2: 0.153, D2: 3.931, D3: 0.459, D4: 1.541},
})
