// Package grader turns a Summary into a GradeReport: weighted per-query
// composite scores, letter grades, and category breakdowns.
package grader

import (
	"fmt"
	"math"
	"strings"

	"analytics-eval/internal/application/port/output"
	"analytics-eval/internal/domain/entity"
)

const (
	weightAccuracy  = 0.60
	weightPrecision = 0.25
	weightQuality   = 0.15

	// Partial credit on numeric misses runs out at this multiple of the
	// matcher's tolerance.
	zeroCreditMultiple = 10.0

	hedgePenalty    = 10.0
	hedgeFloor      = 40.0
	fallbackPenalty = 25.0
)

// hedgeWords are qualifiers that mark an answer as hedged rather than
// directly stated.
var hedgeWords = []string{
	"about", "approximately", "roughly", "around",
	"maybe", "perhaps", "probably", "likely",
	"i think", "i believe", "estimated", "estimate",
}

type Grader struct {
	logger output.LoggerPort
}

func New(logger output.LoggerPort) *Grader {
	return &Grader{logger: logger}
}

// Grade derives a report from the summary. The summary is read, never
// mutated.
func (g *Grader) Grade(summary *entity.Summary) *entity.GradeReport {
	report := &entity.GradeReport{
		TotalQuestions: summary.Total,
		PerCategory:    make(map[entity.Category]entity.CategoryGrade),
		Distribution:   make(map[entity.GradeLevel]int),
		Questions:      make([]entity.QuestionScore, 0, summary.Total),
	}
	for _, level := range entity.GradeLevels() {
		report.Distribution[level] = 0
	}

	categoryScores := make(map[entity.Category][]float64)
	var scoreSum, accSum, preSum, quaSum float64

	for _, r := range summary.Results {
		qs := scoreQuestion(r)
		report.Questions = append(report.Questions, qs)
		report.Distribution[qs.Grade]++
		categoryScores[r.Category] = append(categoryScores[r.Category], qs.Score)

		scoreSum += qs.Score
		accSum += qs.Components.Accuracy
		preSum += qs.Components.Precision
		quaSum += qs.Components.Quality
	}

	if summary.Total > 0 {
		n := float64(summary.Total)
		report.OverallScore = round2(scoreSum / n)
		report.ComponentScores = entity.ComponentScores{
			Accuracy:  round2(accSum / n),
			Precision: round2(preSum / n),
			Quality:   round2(quaSum / n),
		}
	}
	report.OverallGrade = entity.GradeFor(report.OverallScore)

	for category, scores := range categoryScores {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		avg := sum / float64(len(scores))
		report.PerCategory[category] = entity.CategoryGrade{
			AverageScore: round2(avg),
			Grade:        entity.GradeFor(avg),
			Count:        len(scores),
		}
	}

	if g.logger != nil {
		g.logger.Info("Grading completed",
			"agent", summary.AgentName,
			"overall_score", report.OverallScore,
			"overall_grade", string(report.OverallGrade),
		)
	}

	return report
}

func scoreQuestion(r entity.EvaluationResult) entity.QuestionScore {
	qs := entity.QuestionScore{
		QueryID:  r.QueryID,
		Category: r.Category,
		Grade:    entity.GradeF,
	}

	switch r.ErrorKind {
	case entity.ErrorMissing:
		qs.Feedback = append(qs.Feedback, "no extractable answer")
		return qs
	case entity.ErrorHallucination:
		// Hallucination pins the composite to the failing floor no
		// matter how the sub-scores would have landed.
		fb := "hallucinated value"
		if r.Extracted != nil {
			fb += ": " + r.Extracted.String()
		}
		qs.Feedback = append(qs.Feedback, fb)
		return qs
	}

	acc := round2(accuracyScore(r))
	pre := round2(precisionScore(r))
	qua := round2(qualityScore(r))

	qs.Components = entity.ComponentScores{Accuracy: acc, Precision: pre, Quality: qua}
	qs.Score = round2(weightAccuracy*acc + weightPrecision*pre + weightQuality*qua)
	qs.Grade = entity.GradeFor(qs.Score)

	if r.Correct {
		qs.Feedback = append(qs.Feedback, "correct answer")
	}
	if r.AbsoluteError != nil && !r.Correct {
		qs.Feedback = append(qs.Feedback, fmt.Sprintf("error magnitude: %.2f", *r.AbsoluteError))
	}
	if r.ErrorKind == entity.ErrorTypeMismatch {
		qs.Feedback = append(qs.Feedback, "extracted value type does not match the expected type")
	}
	if r.Source == entity.SourceFallback {
		qs.Feedback = append(qs.Feedback, "value recovered by pattern fallback")
	}

	return qs
}

// accuracyScore is 100 when correct; numeric misses earn partial credit
// that decays linearly with the error relative to tolerance; everything
// else wrong is 0.
func accuracyScore(r entity.EvaluationResult) float64 {
	if r.Correct {
		return 100
	}
	if r.AbsoluteError != nil && r.Tolerance > 0 {
		limit := zeroCreditMultiple * r.Tolerance
		if *r.AbsoluteError >= limit {
			return 0
		}
		return 100 * (1 - *r.AbsoluteError/limit)
	}
	return 0
}

// precisionScore rewards specific, directly-stated answers. Hedged
// phrasing costs points, and so does having needed the pattern fallback
// to pry a value out at all.
func precisionScore(r entity.EvaluationResult) float64 {
	if r.Extracted == nil {
		return 0
	}

	score := 100.0
	lower := strings.ToLower(r.RawResponse)
	for _, hedge := range hedgeWords {
		if strings.Contains(lower, hedge) {
			score -= hedgePenalty
		}
	}
	if score < hedgeFloor {
		score = hedgeFloor
	}

	if r.Source == entity.SourceFallback {
		score -= fallbackPenalty
	}
	if score < 0 {
		score = 0
	}
	return score
}

// qualityScore is neutral except for the structural failures it is meant
// to penalize.
func qualityScore(r entity.EvaluationResult) float64 {
	if r.Extracted == nil || r.ErrorKind == entity.ErrorTypeMismatch {
		return 0
	}
	return 100
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
