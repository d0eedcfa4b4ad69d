package xivmath

import "math"

// ValueWithDeviation is a random quantity described by its expectation and
// variance. Variance is stored instead of the deviation so that sums of
// independent values stay exact.
type ValueWithDeviation struct {
	Expected float64 `json:"expected"`
	Variance float64 `json:"variance"`
}

func Fixed(v float64) ValueWithDeviation {
	return ValueWithDeviation{Expected: v}
}

// Bernoulli describes a two-outcome variable: success with probability p,
// failure otherwise. p is clamped to [0, 1].
func Bernoulli(p, success, failure float64) ValueWithDeviation {
	if p <= 0 {
		return Fixed(failure)
	}
	if p >= 1 {
		return Fixed(success)
	}
	diff := success - failure
	return ValueWithDeviation{
		Expected: failure + p*diff,
		Variance: p * (1 - p) * diff * diff,
	}
}

func (v ValueWithDeviation) StdDev() float64 {
	return math.Sqrt(v.Variance)
}

// MultiplyFixed scales v by a constant.
func MultiplyFixed(v ValueWithDeviation, k float64) ValueWithDeviation {
	return ValueWithDeviation{
		Expected: v.Expected * k,
		Variance: v.Variance * k * k,
	}
}

// MultiplyIndependent returns the product of independent random values.
func MultiplyIndependent(vs ...ValueWithDeviation) ValueWithDeviation {
	out := Fixed(1)
	for _, v := range vs {
		out = ValueWithDeviation{
			Expected: out.Expected * v.Expected,
			Variance: out.Variance*v.Variance +
				out.Variance*v.Expected*v.Expected +
				v.Variance*out.Expected*out.Expected,
		}
	}
	return out
}

// AddValues returns the sum of independent random values. The variance of
// the sum is the sum of the variances.
func AddValues(vs ...ValueWithDeviation) ValueWithDeviation {
	var out ValueWithDeviation
	for _, v := range vs {
		out.Expected += v.Expected
		out.Variance += v.Variance
	}
	return out
}

// RepeatIndependent is the sum of n independent draws of v. n may be
// fractional (count-based sims use averaged usage counts).
func RepeatIndependent(v ValueWithDeviation, n float64) ValueWithDeviation {
	if n <= 0 {
		return ValueWithDeviation{}
	}
	return ValueWithDeviation{
		Expected: v.Expected * n,
		Variance: v.Variance * n,
	}
}

// ApplyStdDev shifts the expectation by n standard deviations. Negative n
// gives a pessimistic figure.
func ApplyStdDev(v ValueWithDeviation, n float64) float64 {
	if n == 0 {
		return v.Expected
	}
	return v.Expected + n*v.StdDev()
}
