// Package evaluator runs the per-query pipeline (resolve, extract,
// normalize, match, classify) and folds the verdicts into a Summary.
package evaluator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"analytics-eval/internal/application/port/input"
	"analytics-eval/internal/application/port/output"
	"analytics-eval/internal/domain/entity"
	"analytics-eval/internal/usecase/resolver"
)

var _ input.EvaluationRunner = (*UseCase)(nil)

// Extractor is what the pipeline needs from the extraction chain.
type Extractor interface {
	Extract(ctx context.Context, q entity.Query, raw string) (*entity.Value, entity.ExtractionSource)
}

type Config struct {
	Tolerances Tolerances
	Bounds     Bounds
	// Workers bounds concurrent per-query pipelines. Queries are
	// independent; results are still collected in catalog order.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Tolerances: DefaultTolerances(),
		Bounds:     DefaultBounds(),
		Workers:    4,
	}
}

type UseCase struct {
	extractor Extractor
	logger    output.LoggerPort
	cfg       Config
}

func New(extractor Extractor, logger output.LoggerPort, cfg Config) *UseCase {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &UseCase{
		extractor: extractor,
		logger:    logger,
		cfg:       cfg,
	}
}

// Evaluate grades every query in the run against the agent's responses.
// Extraction-service trouble never fails the run; only a structurally
// invalid run does.
func (uc *UseCase) Evaluate(ctx context.Context, run input.EvaluationRun) (*entity.Summary, error) {
	if err := validateRun(run); err != nil {
		return nil, fmt.Errorf("invalid evaluation run: %w", err)
	}

	results := make([]entity.EvaluationResult, len(run.Queries))

	sem := make(chan struct{}, uc.cfg.Workers)
	var wg sync.WaitGroup
	for i := range run.Queries {
		wg.Add(1)
		go func(i int, q entity.Query) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			raw, ok := run.Responses[q.ID]
			results[i] = uc.evaluateOne(ctx, q, raw, ok)
		}(i, run.Queries[i])
	}
	wg.Wait()

	summary := fold(run.AgentName, results)

	uc.logger.Info("Evaluation completed",
		"agent", run.AgentName,
		"total", summary.Total,
		"correct", summary.CorrectCount,
		"hallucinations", summary.HallucinationCount,
	)

	return summary, nil
}

func (uc *UseCase) evaluateOne(ctx context.Context, q entity.Query, raw string, found bool) entity.EvaluationResult {
	res := entity.EvaluationResult{
		QueryID:     q.ID,
		Category:    q.Category,
		RawResponse: raw,
		Truth:       q.Truth,
		ErrorKind:   entity.ErrorMissing,
		Source:      entity.SourceNone,
	}

	// No entry in the response set means missing, without ever invoking
	// extraction.
	if !found || strings.TrimSpace(raw) == "" {
		return res
	}

	if q.Type == "" {
		q.Type = resolver.Resolve(q.Category, q.Question)
	}

	value, source := uc.extractor.Extract(ctx, q, raw)
	if value == nil {
		return res
	}

	norm := value.Normalize()
	if err := norm.Validate(); err != nil {
		uc.logger.Warn("Extracted value failed validation, treating as missing",
			"query", q.ID, "error", err)
		return res
	}

	res.Extracted = &norm
	res.Source = source

	v := match(norm, q.Truth, uc.cfg.Tolerances)
	res.Correct = v.correct
	res.AbsoluteError = v.absError
	res.Tolerance = v.tolerance
	res.ErrorKind = v.kind

	if !v.correct && v.kind != entity.ErrorTypeMismatch && isHallucination(norm, uc.cfg.Bounds) {
		res.ErrorKind = entity.ErrorHallucination
	}

	return res
}

func fold(agentName string, results []entity.EvaluationResult) *entity.Summary {
	s := &entity.Summary{
		AgentName:  agentName,
		Total:      len(results),
		Categories: make(map[entity.Category]entity.CategoryStats),
		Results:    results,
		Timestamp:  time.Now().UTC(),
	}

	var errSum float64
	var errCount int
	for _, r := range results {
		stats := s.Categories[r.Category]
		stats.Total++
		if r.Correct {
			s.CorrectCount++
			stats.Correct++
		}
		s.Categories[r.Category] = stats

		if r.ErrorKind == entity.ErrorHallucination {
			s.HallucinationCount++
		}
		if r.AbsoluteError != nil {
			errSum += *r.AbsoluteError
			errCount++
		}
	}

	if s.Total > 0 {
		s.AccuracyPct = 100 * float64(s.CorrectCount) / float64(s.Total)
		s.HallucinationRatePct = 100 * float64(s.HallucinationCount) / float64(s.Total)
	}
	if errCount > 0 {
		s.AvgAbsoluteError = errSum / float64(errCount)
	}

	return s
}

// validateRun rejects structurally broken input before any grading: these
// are configuration errors, not evaluation outcomes.
func validateRun(run input.EvaluationRun) error {
	if len(run.Queries) == 0 {
		return fmt.Errorf("no queries")
	}
	seen := make(map[string]bool, len(run.Queries))
	for _, q := range run.Queries {
		if q.ID == "" {
			return fmt.Errorf("query with empty id")
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate query id %q", q.ID)
		}
		seen[q.ID] = true
		if q.Question == "" {
			return fmt.Errorf("query %q has no question", q.ID)
		}
		if q.Truth.Kind == "" {
			return fmt.Errorf("query %q has no truth value", q.ID)
		}
	}
	return nil
}
