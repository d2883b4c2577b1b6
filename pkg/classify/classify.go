//go:generate stringer -type=Capability,Normality -output classify_string.go

// Package classify turns capability indices and normality test p-values into categorical conclusions
package classify

// Capability is the acceptance tier of a capability index such as Cpk or Ppk
type Capability int

const (
	_ Capability = iota
	// Meets is an index above the upper threshold
	Meets
	// Review is an index between the thresholds, inclusive
	Review
	// FailsReview is an index below the lower threshold
	FailsReview
)

// Normality is the conclusion of a goodness of fit test against the normal distribution
type Normality int

const (
	_ Normality = iota
	Normal
	NotNormal
)

// Default thresholds and significance level
const (
	MeetsThreshold  float64 = 1.67
	ReviewThreshold float64 = 1.33
	Alpha           float64 = 0.05
)

// Thresholds bound the three capability tiers.  Values strictly above Meets are acceptable, values in
// [Review, Meets] need review, values strictly below Review fail.
type Thresholds struct {
	Meets  float64
	Review float64
}

// DefaultThresholds are the 1.67 / 1.33 acceptance limits
var DefaultThresholds = Thresholds{Meets: MeetsThreshold, Review: ReviewThreshold}

// Classify applies the three tier rule to a single capability index
func (t Thresholds) Classify(value float64) Capability {
	switch {
	case value > t.Meets:
		return Meets
	case value >= t.Review:
		return Review
	default:
		return FailsReview
	}
}

// ClassifyCapability applies the default thresholds.  The same rule is used for Cpk and Ppk.
func ClassifyCapability(value float64) Capability {
	return DefaultThresholds.Classify(value)
}

// ClassifyNormality concludes Normal only if the p-value is strictly greater than alpha
func ClassifyNormality(p float64, alpha float64) Normality {
	if p > alpha {
		return Normal
	}
	return NotNormal
}

// Text is the conclusion as written in the summary table
func (c Capability) Text() string {
	switch c {
	case Meets:
		return "Meets acceptance criteria"
	case Review:
		return "May be acceptable; review required"
	case FailsReview:
		return "Does not meet criteria; review required"
	default:
		return "Unknown"
	}
}

// Text is the conclusion as written in the summary table
func (n Normality) Text() string {
	switch n {
	case Normal:
		return "Normal"
	case NotNormal:
		return "Not Normal"
	default:
		return "Unknown"
	}
}
