// Package report holds the reporting sinks: a console printer and a JSON
// file writer. Both only read the engine's output structures.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"analytics-eval/internal/application/port/output"
	"analytics-eval/internal/domain/entity"
)

var _ output.Reporter = (*ConsoleReporter)(nil)

type ConsoleReporter struct {
	w io.Writer
}

func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

func (r *ConsoleReporter) Report(summary *entity.Summary, report *entity.GradeReport) error {
	line := strings.Repeat("=", 80)

	fmt.Fprintf(r.w, "\n%s\n", line)
	fmt.Fprintf(r.w, "EVALUATION SUMMARY: %s\n", summary.AgentName)
	fmt.Fprintf(r.w, "%s\n", line)
	fmt.Fprintf(r.w, "Correct answers:    %d/%d (%.1f%%)\n", summary.CorrectCount, summary.Total, summary.AccuracyPct)
	fmt.Fprintf(r.w, "Hallucinations:     %d (%.1f%%)\n", summary.HallucinationCount, summary.HallucinationRatePct)
	fmt.Fprintf(r.w, "Avg absolute error: %.2f\n", summary.AvgAbsoluteError)

	fmt.Fprintf(r.w, "\nPerformance by category:\n")
	for _, category := range sortedCategories(summary.Categories) {
		stats := summary.Categories[category]
		pct := 0.0
		if stats.Total > 0 {
			pct = 100 * float64(stats.Correct) / float64(stats.Total)
		}
		fmt.Fprintf(r.w, "  %-24s %d/%d (%.1f%%)\n", string(category)+":", stats.Correct, stats.Total, pct)
	}

	if report == nil {
		return nil
	}

	fmt.Fprintf(r.w, "\n%s\n", line)
	fmt.Fprintf(r.w, "GRADING REPORT\n")
	fmt.Fprintf(r.w, "%s\n", line)
	fmt.Fprintf(r.w, "Overall grade: %s (%.1f/100)\n", report.OverallGrade, report.OverallScore)
	fmt.Fprintf(r.w, "Components:    accuracy %.1f, precision %.1f, quality %.1f\n",
		report.ComponentScores.Accuracy, report.ComponentScores.Precision, report.ComponentScores.Quality)

	fmt.Fprintf(r.w, "\nGrade distribution:\n")
	for _, level := range entity.GradeLevels() {
		count := report.Distribution[level]
		if count == 0 {
			continue
		}
		fmt.Fprintf(r.w, "  %-3s %d\n", level, count)
	}

	fmt.Fprintf(r.w, "\nCategory grades:\n")
	for _, category := range sortedCategoryGrades(report.PerCategory) {
		grade := report.PerCategory[category]
		fmt.Fprintf(r.w, "  %-24s %s (%.1f/100) - %d questions\n",
			string(category)+":", grade.Grade, grade.AverageScore, grade.Count)
	}

	lowScoring := make([]entity.QuestionScore, 0)
	for _, qs := range report.Questions {
		if qs.Score < 60 {
			lowScoring = append(lowScoring, qs)
		}
	}
	if len(lowScoring) > 0 {
		fmt.Fprintf(r.w, "\nLow-scoring questions:\n")
		for i, qs := range lowScoring {
			if i == 5 {
				break
			}
			fmt.Fprintf(r.w, "  %s: %s (%.1f/100)\n", qs.QueryID, qs.Grade, qs.Score)
			for _, fb := range qs.Feedback {
				fmt.Fprintf(r.w, "    - %s\n", fb)
			}
		}
	}

	return nil
}

func sortedCategories(m map[entity.Category]entity.CategoryStats) []entity.Category {
	keys := make([]entity.Category, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedCategoryGrades(m map[entity.Category]entity.CategoryGrade) []entity.Category {
	keys := make([]entity.Category, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
