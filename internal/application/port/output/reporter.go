package output

import "analytics-eval/internal/domain/entity"

// Reporter consumes the run's output structures. Reporters read; they
// have no mutation path back into the engine.
type Reporter interface {
	Report(summary *entity.Summary, report *entity.GradeReport) error
}
