package evaluator

import (
	"math"
	"time"

	"analytics-eval/internal/domain/entity"
)

// Bounds are the explicit plausibility limits behind the hallucination
// verdict. A wrong answer inside these bounds is imprecise; outside them
// it is fabricated.
type Bounds struct {
	PercentMin   float64
	PercentMax   float64
	NumberAbsMax float64
	// WindowStart/WindowEnd delimit the dataset's calendar coverage; a
	// date answer outside the window cannot come from the data.
	WindowStart time.Time
	WindowEnd   time.Time
}

func DefaultBounds() Bounds {
	return Bounds{
		PercentMin:   -100,
		PercentMax:   100,
		NumberAbsMax: 1000,
		WindowStart:  time.Date(2025, time.May, 25, 0, 0, 0, 0, time.UTC),
		WindowEnd:    time.Date(2025, time.June, 23, 0, 0, 0, 0, time.UTC),
	}
}

// isHallucination decides whether a wrong, successfully-extracted value is
// implausible. It is never consulted for missing or correct results.
func isHallucination(v entity.Value, b Bounds) bool {
	switch v.Kind {
	case entity.KindPercentage:
		return v.Number < b.PercentMin || v.Number > b.PercentMax
	case entity.KindNumber:
		return math.Abs(v.Number) > b.NumberAbsMax
	case entity.KindDate:
		return v.Date.Before(b.WindowStart) || v.Date.After(b.WindowEnd)
	case entity.KindToken:
		return !entity.IsValidToken(v.Token)
	case entity.KindRanking:
		for _, sym := range v.Ranking {
			if !entity.IsValidToken(sym) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
