package grader

import (
	"strings"
	"testing"

	"analytics-eval/internal/domain/entity"
)

func ptr(f float64) *float64 { return &f }

func correctResult(id string, category entity.Category) entity.EvaluationResult {
	v := entity.NewNumber(42)
	return entity.EvaluationResult{
		QueryID:       id,
		Category:      category,
		RawResponse:   "The answer is 42.",
		Extracted:     &v,
		Truth:         entity.NewNumber(42),
		Correct:       true,
		AbsoluteError: ptr(0),
		Tolerance:     0.84,
		ErrorKind:     entity.ErrorNone,
		Source:        entity.SourceDelegated,
	}
}

func summaryOf(results ...entity.EvaluationResult) *entity.Summary {
	return &entity.Summary{
		AgentName: "test-agent",
		Total:     len(results),
		Results:   results,
	}
}

func TestGrade_CorrectDirectAnswerScoresFull(t *testing.T) {
	report := New(nil).Grade(summaryOf(correctResult("q1", entity.CategoryPriceChange)))

	if report.OverallScore != 100 {
		t.Errorf("Expected 100, got %v", report.OverallScore)
	}
	if report.OverallGrade != entity.GradeAPlus {
		t.Errorf("Expected A+, got %s", report.OverallGrade)
	}
	if report.Distribution[entity.GradeAPlus] != 1 {
		t.Errorf("Expected one A+ in the distribution, got %d", report.Distribution[entity.GradeAPlus])
	}
}

func TestGrade_HallucinationForcesZero(t *testing.T) {
	v := entity.NewToken("BTC")
	r := entity.EvaluationResult{
		QueryID:     "q1",
		Category:    entity.CategoryVolatility,
		RawResponse: "Bitcoin, without question.",
		Extracted:   &v,
		Truth:       entity.NewToken("SOL"),
		ErrorKind:   entity.ErrorHallucination,
		Source:      entity.SourceDelegated,
	}

	report := New(nil).Grade(summaryOf(r))

	qs := report.Questions[0]
	if qs.Score != 0 {
		t.Errorf("Expected composite 0, got %v", qs.Score)
	}
	if qs.Grade != entity.GradeF {
		t.Errorf("Expected F, got %s", qs.Grade)
	}
	found := false
	for _, fb := range qs.Feedback {
		if strings.Contains(fb, "hallucinated") && strings.Contains(fb, "BTC") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected hallucination feedback naming BTC, got %v", qs.Feedback)
	}
}

func TestGrade_HallucinationWithoutExtractedValue(t *testing.T) {
	// Grade accepts any summary, including hand-built ones that carry a
	// hallucination verdict with no extracted value attached.
	r := entity.EvaluationResult{
		QueryID:   "q1",
		Category:  entity.CategoryVolatility,
		Truth:     entity.NewToken("SOL"),
		ErrorKind: entity.ErrorHallucination,
		Source:    entity.SourceNone,
	}

	report := New(nil).Grade(summaryOf(r))

	qs := report.Questions[0]
	if qs.Score != 0 || qs.Grade != entity.GradeF {
		t.Errorf("Expected 0/F, got %v/%s", qs.Score, qs.Grade)
	}
	if len(qs.Feedback) == 0 || !strings.Contains(qs.Feedback[0], "hallucinated") {
		t.Errorf("Expected hallucination feedback, got %v", qs.Feedback)
	}
}

func TestGrade_MissingAnswerScoresZero(t *testing.T) {
	r := entity.EvaluationResult{
		QueryID:   "q1",
		Category:  entity.CategoryPriceChange,
		Truth:     entity.NewNumber(42),
		ErrorKind: entity.ErrorMissing,
		Source:    entity.SourceNone,
	}

	report := New(nil).Grade(summaryOf(r))

	if report.Questions[0].Score != 0 {
		t.Errorf("Expected 0, got %v", report.Questions[0].Score)
	}
	if len(report.Questions[0].Feedback) == 0 {
		t.Error("Expected feedback explaining the zero")
	}
}

func TestGrade_PartialCreditDecaysWithError(t *testing.T) {
	v := entity.NewNumber(44)
	near := entity.EvaluationResult{
		QueryID:       "q1",
		Category:      entity.CategoryPriceChange,
		RawResponse:   "44",
		Extracted:     &v,
		Truth:         entity.NewNumber(42),
		AbsoluteError: ptr(2),
		Tolerance:     1.0,
		ErrorKind:     entity.ErrorOutOfTolerance,
		Source:        entity.SourceDelegated,
	}
	far := near
	far.QueryID = "q2"
	far.AbsoluteError = ptr(8)

	hopeless := near
	hopeless.QueryID = "q3"
	hopeless.AbsoluteError = ptr(10)

	report := New(nil).Grade(summaryOf(near, far, hopeless))

	nearAcc := report.Questions[0].Components.Accuracy
	farAcc := report.Questions[1].Components.Accuracy

	// err 2 against a 10x-tolerance limit of 10 leaves 80% credit.
	if nearAcc != 80 {
		t.Errorf("Expected accuracy 80 for the near miss, got %v", nearAcc)
	}
	if farAcc != 20 {
		t.Errorf("Expected accuracy 20 for the far miss, got %v", farAcc)
	}
	if report.Questions[2].Components.Accuracy != 0 {
		t.Errorf("Expected accuracy 0 at the credit limit, got %v", report.Questions[2].Components.Accuracy)
	}
}

func TestGrade_HedgingAndFallbackCostPrecision(t *testing.T) {
	hedged := correctResult("q1", entity.CategoryPriceChange)
	hedged.RawResponse = "It was probably around 42, I think."

	report := New(nil).Grade(summaryOf(hedged))

	// Three hedge words at 10 points each.
	if got := report.Questions[0].Components.Precision; got != 70 {
		t.Errorf("Expected precision 70, got %v", got)
	}

	viaFallback := correctResult("q2", entity.CategoryPriceChange)
	viaFallback.Source = entity.SourceFallback

	report = New(nil).Grade(summaryOf(viaFallback))
	if got := report.Questions[0].Components.Precision; got != 75 {
		t.Errorf("Expected precision 75 after fallback penalty, got %v", got)
	}
}

func TestGrade_PrecisionFloorBeforeFallbackPenalty(t *testing.T) {
	r := correctResult("q1", entity.CategoryPriceChange)
	r.RawResponse = "Maybe about 42, roughly, approximately, around there, probably, perhaps, likely."
	r.Source = entity.SourceFallback

	report := New(nil).Grade(summaryOf(r))

	// Hedging bottoms out at 40, then the fallback penalty applies.
	if got := report.Questions[0].Components.Precision; got != 15 {
		t.Errorf("Expected precision 15, got %v", got)
	}
}

func TestGrade_TypeMismatchZeroesQuality(t *testing.T) {
	v := entity.NewNumber(7)
	r := entity.EvaluationResult{
		QueryID:     "q1",
		Category:    entity.CategoryVolatility,
		RawResponse: "7",
		Extracted:   &v,
		Truth:       entity.NewToken("SOL"),
		ErrorKind:   entity.ErrorTypeMismatch,
		Source:      entity.SourceDelegated,
	}

	report := New(nil).Grade(summaryOf(r))

	qs := report.Questions[0]
	if qs.Components.Quality != 0 {
		t.Errorf("Expected quality 0, got %v", qs.Components.Quality)
	}
	if qs.Components.Accuracy != 0 {
		t.Errorf("Expected accuracy 0 on a type mismatch, got %v", qs.Components.Accuracy)
	}
}

func TestGrade_ComponentWeights(t *testing.T) {
	r := correctResult("q1", entity.CategoryPriceChange)
	r.RawResponse = "Probably 42." // one hedge word
	report := New(nil).Grade(summaryOf(r))

	qs := report.Questions[0]
	// 0.60*100 + 0.25*90 + 0.15*100
	if qs.Score != 97.5 {
		t.Errorf("Expected composite 97.5, got %v", qs.Score)
	}
}

func TestGrade_CategoryAverages(t *testing.T) {
	good := correctResult("q1", entity.CategoryPriceChange)
	bad := entity.EvaluationResult{
		QueryID:   "q2",
		Category:  entity.CategoryPriceChange,
		Truth:     entity.NewNumber(1),
		ErrorKind: entity.ErrorMissing,
		Source:    entity.SourceNone,
	}
	other := correctResult("q3", entity.CategoryVolatility)

	report := New(nil).Grade(summaryOf(good, bad, other))

	pc := report.PerCategory[entity.CategoryPriceChange]
	if pc.Count != 2 || pc.AverageScore != 50 {
		t.Errorf("price_change: got count=%d avg=%v, want 2/50", pc.Count, pc.AverageScore)
	}
	if pc.Grade != entity.GradeDPlus {
		t.Errorf("price_change: expected D+, got %s", pc.Grade)
	}

	vol := report.PerCategory[entity.CategoryVolatility]
	if vol.Count != 1 || vol.AverageScore != 100 {
		t.Errorf("volatility: got count=%d avg=%v, want 1/100", vol.Count, vol.AverageScore)
	}
}

func TestGrade_DistributionCoversAllLevels(t *testing.T) {
	report := New(nil).Grade(summaryOf(correctResult("q1", entity.CategoryPriceChange)))

	for _, level := range entity.GradeLevels() {
		if _, ok := report.Distribution[level]; !ok {
			t.Errorf("Distribution missing level %s", level)
		}
	}
}

func TestGrade_EmptySummary(t *testing.T) {
	report := New(nil).Grade(summaryOf())

	if report.OverallScore != 0 {
		t.Errorf("Expected 0, got %v", report.OverallScore)
	}
	if report.OverallGrade != entity.GradeF {
		t.Errorf("Expected F, got %s", report.OverallGrade)
	}
}
