package evaluator

import (
	"math"

	"analytics-eval/internal/domain/entity"
)

// Tolerances is the deviation budget for numeric matching. Percentage
// answers are matched in points; plain numbers get the larger of a fixed
// floor and a relative fraction of the truth's magnitude.
type Tolerances struct {
	PercentagePoints float64
	NumericRelative  float64
	NumericFloor     float64
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		PercentagePoints: 1.0,
		NumericRelative:  0.02,
		NumericFloor:     0.5,
	}
}

// For returns the allowed absolute deviation for a given truth value.
func (t Tolerances) For(truth entity.Value) float64 {
	switch truth.Kind {
	case entity.KindPercentage:
		return t.PercentagePoints
	case entity.KindNumber:
		return math.Max(t.NumericFloor, t.NumericRelative*math.Abs(truth.Number))
	default:
		return 0
	}
}

type verdict struct {
	correct   bool
	absError  *float64
	tolerance float64
	kind      entity.ErrorKind
}

// match compares a normalized extracted value against the truth under the
// per-type rule. The variant tags should already agree by the time this
// runs; a mismatch is still checked and reported rather than assumed away.
func match(extracted, truth entity.Value, tol Tolerances) verdict {
	if extracted.Kind != truth.Kind {
		return verdict{kind: entity.ErrorTypeMismatch}
	}

	switch truth.Kind {
	case entity.KindNumber, entity.KindPercentage:
		diff := math.Abs(extracted.Number - truth.Number)
		allowed := tol.For(truth)
		v := verdict{absError: &diff, tolerance: allowed}
		if diff <= allowed {
			v.correct = true
			v.kind = entity.ErrorNone
		} else {
			v.kind = entity.ErrorOutOfTolerance
		}
		return v

	case entity.KindDate:
		return exactVerdict(extracted.Date.Equal(truth.Date))

	case entity.KindToken:
		return exactVerdict(extracted.Token == truth.Token)

	case entity.KindRanking:
		return exactVerdict(rankingsEqual(extracted.Ranking, truth.Ranking))

	default:
		return verdict{kind: entity.ErrorTypeMismatch}
	}
}

func exactVerdict(equal bool) verdict {
	if equal {
		return verdict{correct: true, kind: entity.ErrorNone}
	}
	return verdict{kind: entity.ErrorOutOfTolerance}
}

// rankingsEqual is order-sensitive on purpose: a ranking differing in any
// position is incorrect, with no distance scoring.
func rankingsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
