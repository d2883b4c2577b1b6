// Package subgroup partitions a measurement series into rational subgroups of consecutive values
package subgroup

import (
	"fmt"

	"github.com/BTBurke/spc/pkg/metric"
	"github.com/BTBurke/spc/pkg/stat"
)

// Subgroup is k consecutive measurements.  Index is one based.
type Subgroup struct {
	Index  int
	Values []float64
}

// Mean of the measurements in the subgroup
func (g Subgroup) Mean() float64 {
	return stat.Mean(g.Values)
}

// Range is max - min of the measurements in the subgroup
func (g Subgroup) Range() float64 {
	return stat.Range(g.Values)
}

// Partition splits the series into len/size subgroups in input order.  Every measurement belongs to exactly one
// subgroup.  The series length must be a multiple of size and yield at least minSubgroups subgroups.
func Partition(s *metric.Series, size int, minSubgroups int) ([]Subgroup, error) {
	if s == nil {
		return nil, stat.InvalidInputError{Msg: "no measurement series to partition"}
	}
	if size < 1 {
		return nil, stat.InvalidInputError{Msg: fmt.Sprintf("subgroup size must be at least 1, got %d", size)}
	}
	n := s.Len()
	if n%size != 0 {
		return nil, stat.InvalidInputError{Msg: fmt.Sprintf("series length %d is not a multiple of subgroup size %d", n, size)}
	}
	m := n / size
	if m < minSubgroups {
		return nil, stat.InvalidInputError{Msg: fmt.Sprintf("series of %d measurements yields %d subgroups of %d, at least %d subgroups (%d measurements) are required", n, m, size, minSubgroups, minSubgroups*size)}
	}

	out := make([]Subgroup, 0, m)
	for i := 0; i < m; i++ {
		out = append(out, Subgroup{
			Index:  i + 1,
			Values: s.Slice(i*size, (i+1)*size),
		})
	}
	return out, nil
}
