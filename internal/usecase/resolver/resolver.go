// Package resolver maps a query onto the value kind its answer must carry.
// Resolution is total: every query ends with exactly one kind, so every
// downstream component can switch over a closed set instead of re-reading
// question strings.
package resolver

import (
	"strings"

	"analytics-eval/internal/domain/entity"
)

// Resolve decides the expected value kind from the category first, falling
// back to keyword inspection of the question only where a category admits
// more than one answer shape or is unrecognized.
func Resolve(category entity.Category, question string) entity.ValueKind {
	q := strings.ToLower(question)

	switch category {
	case entity.CategoryPercentageThreshold, entity.CategoryConditionalThreshold:
		return entity.KindPercentage

	case entity.CategoryPriceChange:
		return entity.KindNumber

	case entity.CategoryVolatility, entity.CategoryVolatilityStat,
		entity.CategoryStreakAnalysis, entity.CategoryRollingStats:
		if asksForToken(q) {
			return entity.KindToken
		}
		return entity.KindNumber

	case entity.CategoryVolumeAnalysis, entity.CategoryPerformanceComparison,
		entity.CategoryConditionalVolume:
		if asksForRanking(q) {
			return entity.KindRanking
		}
		return entity.KindToken

	case entity.CategoryPriceAnalysis:
		switch {
		case asksForDate(q):
			return entity.KindDate
		case asksForRanking(q):
			return entity.KindRanking
		default:
			return entity.KindToken
		}
	}

	return resolveByKeywords(q)
}

// resolveByKeywords handles unrecognized categories. The chain ends in
// number so resolution never fails.
func resolveByKeywords(q string) entity.ValueKind {
	switch {
	case strings.Contains(q, "percentage") || strings.Contains(q, "percent") || strings.Contains(q, "%"):
		return entity.KindPercentage
	case asksForDate(q):
		return entity.KindDate
	case asksForRanking(q):
		return entity.KindRanking
	case asksForToken(q):
		return entity.KindToken
	default:
		return entity.KindNumber
	}
}

func asksForRanking(q string) bool {
	return strings.Contains(q, "rank") || strings.Contains(q, "order")
}

func asksForDate(q string) bool {
	return strings.Contains(q, "date") || strings.Contains(q, "when") || strings.Contains(q, "which day")
}

func asksForToken(q string) bool {
	return strings.Contains(q, "which token") || strings.Contains(q, "which asset") ||
		strings.Contains(q, "most volatile") || strings.Contains(q, "least volatile")
}
