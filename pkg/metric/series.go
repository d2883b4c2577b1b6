package metric

import (
	"fmt"

	"github.com/BTBurke/spc/pkg/stat"
)

// Series is an ordered, immutable sequence of measurements of a single characteristic.  Values are copied in on
// construction and copied out on read so that no consumer can alter another's view of the data.
type Series struct {
	name   Name
	values []float64
}

type SeriesOption func(s *Series) error

// NewSeries creates a series from measurements in their original order.  The series must be non-empty and
// every value must be finite.
func NewSeries(values []float64, opts ...SeriesOption) (*Series, error) {
	if len(values) == 0 {
		return nil, stat.InvalidInputError{Msg: "measurement series must contain at least one value"}
	}
	if err := stat.CheckFinite(values); err != nil {
		return nil, err
	}
	s := &Series{
		values: append([]float64(nil), values...),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Values returns a copy of the measurements in input order
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Len is the number of measurements N
func (s *Series) Len() int {
	return len(s.values)
}

// Slice returns a copy of the measurements in [from, to)
func (s *Series) Slice(from, to int) []float64 {
	out := make([]float64, to-from)
	copy(out, s.values[from:to])
	return out
}

// Name returns the name of the series and associated metadata.  An unnamed series has an empty base name.
func (s *Series) Name() Name {
	return s.name
}

// WithName names the series, typically after the measured characteristic
func WithName(name string, md map[string]string) SeriesOption {
	return func(s *Series) error {
		if name == "" {
			return fmt.Errorf("series name must be the non-empty string")
		}
		s.name = NewName(name, md)
		return nil
	}
}
