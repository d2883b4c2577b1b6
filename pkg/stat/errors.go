package stat

// InvalidInputError is returned when a measurement series cannot be analyzed as supplied, such as a length
// that is not a multiple of the subgroup size, too few subgroups, or values that are not finite
type InvalidInputError struct {
	Msg string
}

func (e InvalidInputError) Error() string {
	return e.Msg
}

// UnsupportedSubgroupSizeError is returned when no control chart constants are tabulated for the subgroup size
type UnsupportedSubgroupSizeError struct {
	Msg  string
	Size int
}

func (e UnsupportedSubgroupSizeError) Error() string {
	return e.Msg
}

// DegenerateVarianceError is returned when a sigma estimate is zero and an index or test statistic
// would be undefined.  Which is the case for a constant process.
type DegenerateVarianceError struct {
	Msg string
}

func (e DegenerateVarianceError) Error() string {
	return e.Msg
}

// SampleSizeUnsupportedError is returned when a goodness of fit test is asked to evaluate a sample outside
// of the range of sizes where its approximations hold
type SampleSizeUnsupportedError struct {
	Msg string
	N   int
	Min int
	Max int
}

func (e SampleSizeUnsupportedError) Error() string {
	return e.Msg
}
