package input

import (
	"context"

	"analytics-eval/internal/domain/entity"
)

// EvaluationRun bundles everything one grading pass needs: the catalog,
// the agent's answers keyed by query id, and a display name for reports.
type EvaluationRun struct {
	AgentName string
	Queries   []entity.Query
	Responses map[string]string
}

type EvaluationRunner interface {
	Evaluate(ctx context.Context, run EvaluationRun) (*entity.Summary, error)
}
