package rng

import (
	"math/rand"
)

var _ RNG = &NormalRNG{}

// NormalRNG generates normally distributed measurements.  Generators with the same seed produce the same sequence,
// which makes simulated measurement series reproducible.
type NormalRNG struct {
	mean  float64
	stdev float64
	r     *rand.Rand
}

func (r *NormalRNG) Rand() float64 {
	return r.r.NormFloat64()*r.stdev + r.mean
}

// Sample returns n consecutive draws
func (r *NormalRNG) Sample(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Rand()
	}
	return out
}

func NewNormalRNG(mean float64, stdev float64, seed int64) *NormalRNG {
	return &NormalRNG{
		mean:  mean,
		stdev: stdev,
		r:     rand.New(rand.NewSource(seed)),
	}
}

// UniformRNG generates uniformly distributed measurements on [min, max).  It is used to simulate a process
// that is not normally distributed.
type UniformRNG struct {
	min float64
	max float64
	r   *rand.Rand
}

func (r *UniformRNG) Rand() float64 {
	return r.min + r.r.Float64()*(r.max-r.min)
}

func NewUniformRNG(min float64, max float64, seed int64) *UniformRNG {
	return &UniformRNG{
		min: min,
		max: max,
		r:   rand.New(rand.NewSource(seed)),
	}
}
