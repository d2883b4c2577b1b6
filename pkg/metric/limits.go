package metric

import (
	"fmt"
	"math"

	"github.com/BTBurke/spc/pkg/stat"
)

// Limits are the engineering specification limits of a characteristic.  Nominal is the target value and is
// usually, but not necessarily, the midpoint of LSL and USL.
type Limits struct {
	Nominal float64 `json:"nominal" yaml:"nominal"`
	LSL     float64 `json:"lsl" yaml:"lsl"`
	USL     float64 `json:"usl" yaml:"usl"`
}

// NewLimits validates and returns specification limits.  LSL must be strictly less than USL.
func NewLimits(nominal, lsl, usl float64) (Limits, error) {
	l := Limits{Nominal: nominal, LSL: lsl, USL: usl}
	return l, l.Validate()
}

// Validate checks that all limits are finite and LSL < USL
func (l Limits) Validate() error {
	for _, v := range []float64{l.Nominal, l.LSL, l.USL} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return stat.InvalidInputError{Msg: fmt.Sprintf("specification limits must be finite: %s", l)}
		}
	}
	if !(l.LSL < l.USL) {
		return stat.InvalidInputError{Msg: fmt.Sprintf("lower specification limit must be less than upper: %s", l)}
	}
	return nil
}

// Tolerance is the width of the specification USL - LSL
func (l Limits) Tolerance() float64 {
	return l.USL - l.LSL
}

func (l Limits) String() string {
	return fmt.Sprintf("nominal=%g lsl=%g usl=%g", l.Nominal, l.LSL, l.USL)
}
