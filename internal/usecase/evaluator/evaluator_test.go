package evaluator

import (
	"context"
	"math"
	"testing"
	"time"

	"analytics-eval/internal/application/port/input"
	"analytics-eval/internal/application/port/output"
	"analytics-eval/internal/domain/entity"
	"analytics-eval/internal/usecase/extractor"
)

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}
func (noopLogger) Close() error                  { return nil }

func (l noopLogger) WithField(key string, value any) output.LoggerPort  { return l }
func (l noopLogger) WithFields(fields map[string]any) output.LoggerPort { return l }

// stubExtractor returns a fixed value regardless of input.
type stubExtractor struct {
	value  *entity.Value
	source entity.ExtractionSource
}

func (s stubExtractor) Extract(ctx context.Context, q entity.Query, raw string) (*entity.Value, entity.ExtractionSource) {
	return s.value, s.source
}

func newPatternRunner() *UseCase {
	chain := extractor.New(nil, nil, extractor.DefaultConfig())
	return New(chain, noopLogger{}, DefaultConfig())
}

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluate_FullRun(t *testing.T) {
	queries := []entity.Query{
		{ID: "q01", Question: "On what percentage of days did SOL move more than 5%?", Category: entity.CategoryPercentageThreshold, Type: entity.KindPercentage, Truth: entity.NewPercentage(9.7)},
		{ID: "q02", Question: "What percentage did ETH lose on its worst day?", Category: entity.CategoryPercentageThreshold, Type: entity.KindPercentage, Truth: entity.NewPercentage(-2.3)},
		{ID: "q03", Question: "What was the net change in SOL price over the window?", Category: entity.CategoryPriceChange, Type: entity.KindNumber, Truth: entity.NewNumber(-13.57)},
		{ID: "q04", Question: "What was the highest close of SOL?", Category: entity.CategoryPriceAnalysis, Type: entity.KindNumber, Truth: entity.NewNumber(172.79)},
		{ID: "q05", Question: "How long was the longest losing streak for TAO?", Category: entity.CategoryStreakAnalysis, Type: entity.KindNumber, Truth: entity.NewNumber(4)},
		{ID: "q06", Question: "When did SOL reach its highest close?", Category: entity.CategoryPriceAnalysis, Type: entity.KindDate, Truth: entity.NewDate(day(11))},
		{ID: "q07", Question: "Which token was the most volatile?", Category: entity.CategoryVolatility, Type: entity.KindToken, Truth: entity.NewToken("SOL")},
		{ID: "q08", Question: "Rank the tokens by total volume.", Category: entity.CategoryVolumeAnalysis, Type: entity.KindRanking, Truth: entity.NewRanking([]string{"SOL", "ETH", "TAO"})},
		{ID: "q09", Question: "Order the tokens by total return.", Category: entity.CategoryPerformanceComparison, Type: entity.KindRanking, Truth: entity.NewRanking([]string{"SOL", "ETH", "TAO"})},
		{ID: "q10", Question: "When did ETH reach its lowest close?", Category: entity.CategoryPriceAnalysis, Type: entity.KindDate, Truth: entity.NewDate(day(11))},
		{ID: "q11", Question: "On what percentage of days did TAO close green?", Category: entity.CategoryConditionalThreshold, Type: entity.KindPercentage, Truth: entity.NewPercentage(9.7)},
		{ID: "q12", Question: "Which token had the highest total volume?", Category: entity.CategoryVolumeAnalysis, Type: entity.KindToken, Truth: entity.NewToken("ETH")},
		{ID: "q13", Question: "What was the highest 7-day rolling average close for ETH?", Category: entity.CategoryRollingStats, Type: entity.KindNumber, Truth: entity.NewNumber(100)},
		{ID: "q14", Question: "When did TAO bottom out?", Category: entity.CategoryPriceAnalysis, Type: entity.KindDate, Truth: entity.NewDate(time.Date(2025, time.May, 30, 0, 0, 0, 0, time.UTC))},
		{ID: "q15", Question: "On what percentage of days did volume exceed its mean?", Category: entity.CategoryConditionalVolume, Type: entity.KindPercentage, Truth: entity.NewPercentage(50)},
	}

	responses := map[string]string{
		"q01": "SOL moved more than 5% on 9.68% of days.",
		"q02": "On its worst day ETH dropped 2.3%.",
		"q03": "SOL fell 13.5 over the month.",
		"q04": "It peaked at $172.79.",
		"q05": "The longest losing streak lasted 4 days.",
		"q06": "The high came on June 11, 2025.",
		"q07": "Solana was clearly the most volatile.",
		"q08": "SOL > ETH > TAO",
		"q09": "ETH, SOL, TAO",       // swapped, plausible but wrong
		"q10": "2024-06-11",          // outside the dataset window
		"q11": "I could not determine this from the data.",
		"q12": "Ethereum had the highest total volume.",
		"q13": "It reached about 101.",
		"q14": "2025-05-30",
		"q15": "Volume exceeded its mean on exactly 50% of days.",
	}

	summary, err := newPatternRunner().Evaluate(context.Background(), input.EvaluationRun{
		AgentName: "test-agent",
		Queries:   queries,
		Responses: responses,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if summary.Total != 15 {
		t.Fatalf("Expected 15 results, got %d", summary.Total)
	}
	if summary.CorrectCount != 12 {
		for _, r := range summary.Results {
			t.Logf("%s: correct=%v kind=%s extracted=%v", r.QueryID, r.Correct, r.ErrorKind, r.Extracted)
		}
		t.Fatalf("Expected 12 correct, got %d", summary.CorrectCount)
	}
	if summary.AccuracyPct != 80.0 {
		t.Errorf("Expected accuracy 80.0, got %v", summary.AccuracyPct)
	}
	if summary.HallucinationCount != 1 {
		t.Errorf("Expected 1 hallucination, got %d", summary.HallucinationCount)
	}
	if math.Abs(summary.HallucinationRatePct-100.0/15.0) > 1e-9 {
		t.Errorf("Expected hallucination rate %v, got %v", 100.0/15.0, summary.HallucinationRatePct)
	}

	// Results come back in catalog order even though workers run concurrently.
	for i, r := range summary.Results {
		if r.QueryID != queries[i].ID {
			t.Fatalf("Result %d out of order: got %s, want %s", i, r.QueryID, queries[i].ID)
		}
	}

	byID := make(map[string]entity.EvaluationResult, len(summary.Results))
	for _, r := range summary.Results {
		byID[r.QueryID] = r
	}

	if byID["q09"].ErrorKind != entity.ErrorOutOfTolerance {
		t.Errorf("q09: expected out_of_tolerance, got %s", byID["q09"].ErrorKind)
	}
	if byID["q10"].ErrorKind != entity.ErrorHallucination {
		t.Errorf("q10: expected hallucination, got %s", byID["q10"].ErrorKind)
	}
	if byID["q11"].ErrorKind != entity.ErrorMissing {
		t.Errorf("q11: expected missing, got %s", byID["q11"].ErrorKind)
	}
	if byID["q11"].Source != entity.SourceNone {
		t.Errorf("q11: expected no extraction source, got %s", byID["q11"].Source)
	}

	stats := summary.Categories[entity.CategoryPriceAnalysis]
	if stats.Total != 4 || stats.Correct != 3 {
		t.Errorf("price_analysis stats: got %d/%d, want 3/4", stats.Correct, stats.Total)
	}
}

func TestEvaluate_AbsentResponseIsMissingNotHallucination(t *testing.T) {
	queries := []entity.Query{
		{ID: "q1", Question: "What was the highest close of SOL?", Category: entity.CategoryPriceAnalysis, Type: entity.KindNumber, Truth: entity.NewNumber(172.79)},
	}

	summary, err := newPatternRunner().Evaluate(context.Background(), input.EvaluationRun{
		AgentName: "test-agent",
		Queries:   queries,
		Responses: map[string]string{},
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	r := summary.Results[0]
	if r.ErrorKind != entity.ErrorMissing {
		t.Errorf("Expected missing, got %s", r.ErrorKind)
	}
	if summary.HallucinationCount != 0 {
		t.Errorf("A missing answer must never count as a hallucination, got %d", summary.HallucinationCount)
	}
	if r.Extracted != nil {
		t.Error("Expected no extracted value for a missing answer")
	}
}

func TestEvaluate_BlankResponseSkipsExtraction(t *testing.T) {
	queries := []entity.Query{
		{ID: "q1", Question: "What was the highest close?", Category: entity.CategoryPriceAnalysis, Type: entity.KindNumber, Truth: entity.NewNumber(1)},
	}

	summary, err := newPatternRunner().Evaluate(context.Background(), input.EvaluationRun{
		AgentName: "test-agent",
		Queries:   queries,
		Responses: map[string]string{"q1": "   \n\t"},
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if summary.Results[0].ErrorKind != entity.ErrorMissing {
		t.Errorf("Expected missing for blank response, got %s", summary.Results[0].ErrorKind)
	}
}

func TestEvaluate_FabricatedTokenIsHallucination(t *testing.T) {
	v := entity.NewToken("BTC")
	uc := New(stubExtractor{value: &v, source: entity.SourceDelegated}, noopLogger{}, DefaultConfig())

	summary, err := uc.Evaluate(context.Background(), input.EvaluationRun{
		AgentName: "test-agent",
		Queries: []entity.Query{
			{ID: "q1", Question: "Which token was the most volatile?", Category: entity.CategoryVolatility, Type: entity.KindToken, Truth: entity.NewToken("SOL")},
		},
		Responses: map[string]string{"q1": "Bitcoin, without question."},
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	r := summary.Results[0]
	if r.ErrorKind != entity.ErrorHallucination {
		t.Errorf("Expected hallucination, got %s", r.ErrorKind)
	}
	if r.Correct {
		t.Error("Expected incorrect")
	}
}

func TestEvaluate_TypeMismatchNeverUpgraded(t *testing.T) {
	// A wildly implausible value behind a type mismatch stays a type
	// mismatch; the plausibility check applies only to comparable values.
	v := entity.NewNumber(99999)
	uc := New(stubExtractor{value: &v, source: entity.SourceDelegated}, noopLogger{}, DefaultConfig())

	summary, err := uc.Evaluate(context.Background(), input.EvaluationRun{
		AgentName: "test-agent",
		Queries: []entity.Query{
			{ID: "q1", Question: "Which token was the most volatile?", Category: entity.CategoryVolatility, Type: entity.KindToken, Truth: entity.NewToken("SOL")},
		},
		Responses: map[string]string{"q1": "99999"},
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if summary.Results[0].ErrorKind != entity.ErrorTypeMismatch {
		t.Errorf("Expected type_mismatch, got %s", summary.Results[0].ErrorKind)
	}
}

func TestEvaluate_ResolvesMissingType(t *testing.T) {
	summary, err := newPatternRunner().Evaluate(context.Background(), input.EvaluationRun{
		AgentName: "test-agent",
		Queries: []entity.Query{
			{ID: "q1", Question: "On what percentage of days did SOL move more than 5%?", Category: entity.CategoryPercentageThreshold, Truth: entity.NewPercentage(9.7)},
		},
		Responses: map[string]string{"q1": "On 9.68% of days."},
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !summary.Results[0].Correct {
		t.Errorf("Expected resolver to supply the percentage kind, got %+v", summary.Results[0])
	}
}

func TestEvaluate_RejectsBrokenRuns(t *testing.T) {
	runner := newPatternRunner()
	truth := entity.NewNumber(1)

	broken := []input.EvaluationRun{
		{AgentName: "a", Queries: nil},
		{AgentName: "a", Queries: []entity.Query{{ID: "", Question: "q?", Truth: truth}}},
		{AgentName: "a", Queries: []entity.Query{
			{ID: "q1", Question: "q?", Truth: truth},
			{ID: "q1", Question: "q again?", Truth: truth},
		}},
		{AgentName: "a", Queries: []entity.Query{{ID: "q1", Question: "", Truth: truth}}},
		{AgentName: "a", Queries: []entity.Query{{ID: "q1", Question: "q?"}}},
	}

	for i, run := range broken {
		if _, err := runner.Evaluate(context.Background(), run); err == nil {
			t.Errorf("Case %d: expected a validation error", i)
		}
	}
}
