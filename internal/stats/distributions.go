package stats

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// The three evaluators below are pure functions. Discrete evaluators floor
// the line to the previous integer: a half-integer line reads as "at least
// the next whole unit". Over and under are computed independently; callers
// must not assume the pair is complementary across the rounding boundary.

// NormalProbability returns the tail probability of Normal(mean, std)
// beyond line: P(X > line) for over, P(X < line) for under. A degenerate
// std (no variance to model) yields the neutral 0.5.
func NormalProbability(mean, std, line float64, over bool) float64 {
	if std <= 0 {
		return 0.5
	}

	dist := distuv.Normal{Mu: mean, Sigma: std}
	if over {
		return 1 - dist.CDF(line)
	}
	return dist.CDF(line)
}

// PoissonProbability returns P(X > line) or P(X < line) for X ~
// Poisson(lambda). A non-positive rate yields 0. Over is 1 - CDF(floor(line));
// under is CDF(floor(line) - 1), or 0 when line <= 0.
func PoissonProbability(lambda, line float64, over bool) float64 {
	if lambda <= 0 {
		return 0
	}

	if over {
		return 1 - poissonCDF(math.Floor(line), lambda)
	}
	if line <= 0 {
		return 0
	}
	return poissonCDF(math.Floor(line)-1, lambda)
}

// NegativeBinomialProbability evaluates the same tails under a negative
// binomial with the given mean and variance. Without over-dispersion
// (variance <= mean) the parameterization is invalid and the Poisson
// evaluator takes over with the same mean; likewise when the derived
// (r, p) fall outside their domains.
func NegativeBinomialProbability(mean, variance, line float64, over bool) float64 {
	if mean <= 0 || variance <= mean {
		return PoissonProbability(mean, line, over)
	}

	p := mean / variance
	r := (mean * p) / (1 - p)
	if r <= 0 || p <= 0 || p >= 1 {
		return PoissonProbability(mean, line, over)
	}

	if over {
		return 1 - negBinomialCDF(math.Floor(line), r, p)
	}
	if line <= 0 {
		return 0
	}
	return negBinomialCDF(math.Floor(line)-1, r, p)
}

func poissonCDF(k, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	return distuv.Poisson{Lambda: lambda}.CDF(k)
}

// negBinomialCDF is P(X <= k) for the number of failures before the r-th
// success with success probability p: the regularized incomplete beta
// I_p(r, k+1).
func negBinomialCDF(k, r, p float64) float64 {
	if k < 0 {
		return 0
	}
	return mathext.RegIncBeta(r, math.Floor(k)+1, p)
}
