package stats

import "math"

// Distribution identifies which probability model was selected for a
// statistic. The value is reported verbatim in projection output.
type Distribution string

const (
	DistNormal           Distribution = "normal"
	DistPoisson          Distribution = "poisson"
	DistNegativeBinomial Distribution = "negative_binomial"
	DistBlended          Distribution = "blended"
	DistAveraged         Distribution = "averaged"
	DistInsufficient     Distribution = "insufficient_data"
)

type statCategory int

const (
	categoryOther statCategory = iota
	categoryCount
	categoryDiscreteBounded
	categoryContinuous
)

// Closed category sets. The same table drives both probability selection
// and the reported distribution name, so the two can never diverge.
var statCategories = map[string]statCategory{
	"rushing_attempts":     categoryCount,
	"passing_attempts":     categoryCount,
	"passing_completions":  categoryCount,
	"receptions":           categoryCount,
	"targets":              categoryCount,
	"passing_touchdowns":   categoryDiscreteBounded,
	"rushing_touchdowns":   categoryDiscreteBounded,
	"receiving_touchdowns": categoryDiscreteBounded,
	"passing_yards":        categoryContinuous,
	"rushing_yards":        categoryContinuous,
	"receiving_yards":      categoryContinuous,
	"rushing_long":         categoryContinuous,
	"receiving_long":       categoryContinuous,
}

// longPlayStats have heavy right tails regardless of observed dispersion.
var longPlayStats = map[string]bool{
	"rushing_long":   true,
	"receiving_long": true,
}

// Select decides which distribution family to price a statistic with,
// based on its category, coefficient of variation, and sample size. The
// cascade is a deliberate heuristic tuned for sparse in-season samples.
func Select(statType string, weightedMean, weightedStd float64, sampleSize int) Distribution {
	if sampleSize < 3 {
		return DistInsufficient
	}

	cv := math.Inf(1)
	if weightedMean > 0 {
		cv = weightedStd / weightedMean
	}

	switch statCategories[statType] {
	case categoryCount:
		if cv <= 1.2 {
			return DistPoisson
		}
		return DistNegativeBinomial

	case categoryDiscreteBounded:
		// Very low rate events stay Poisson; anything else is over-dispersed.
		if weightedMean < 0.5 {
			return DistPoisson
		}
		return DistNegativeBinomial

	case categoryContinuous:
		if longPlayStats[statType] {
			return DistNegativeBinomial
		}
		if sampleSize >= 10 && cv <= 0.8 {
			return DistNormal
		}
		if cv > 1.5 {
			return DistNegativeBinomial
		}
		if sampleSize >= 8 {
			return DistNegativeBinomial
		}
		return DistBlended
	}

	if sampleSize >= 10 {
		return DistNegativeBinomial
	}
	return DistAveraged
}

// Pick maps the selected distribution plus the three evaluator outputs to
// the reported probability, rounded to 4 decimal places. Blended and
// averaged modes mix families, so an over/under pair picked this way is
// not guaranteed to sum to exactly 1.
func Pick(d Distribution, normalProb, poissonProb, negBinProb float64) float64 {
	switch d {
	case DistInsufficient:
		return 0.5
	case DistNormal:
		return Round4(normalProb)
	case DistPoisson:
		return Round4(poissonProb)
	case DistBlended:
		return Round4((normalProb + negBinProb) / 2)
	case DistAveraged:
		return Round4((normalProb + poissonProb + negBinProb) / 3)
	default:
		return Round4(negBinProb)
	}
}

// Round4 rounds to 4 decimal places, the reporting precision for all
// probabilities.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
