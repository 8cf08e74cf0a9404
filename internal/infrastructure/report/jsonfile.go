package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"analytics-eval/internal/application/port/output"
	"analytics-eval/internal/domain/entity"
)

var _ output.Reporter = (*JSONReporter)(nil)

// JSONReporter persists the full summary and grade report to one file.
type JSONReporter struct {
	path   string
	logger output.LoggerPort
}

// NewJSONReporter writes to path; an empty path picks a timestamped
// filename in the working directory.
func NewJSONReporter(path string, logger output.LoggerPort) *JSONReporter {
	return &JSONReporter{
		path:   path,
		logger: logger,
	}
}

type resultsFile struct {
	Summary     *entity.Summary     `json:"summary"`
	GradeReport *entity.GradeReport `json:"grade_report,omitempty"`
}

func (r *JSONReporter) Report(summary *entity.Summary, report *entity.GradeReport) error {
	path := r.path
	if path == "" {
		path = fmt.Sprintf("evaluation_results_%s_%s.json",
			summary.AgentName, time.Now().Format("20060102_150405"))
	}

	data, err := json.MarshalIndent(resultsFile{Summary: summary, GradeReport: report}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results file: %w", err)
	}

	if r.logger != nil {
		r.logger.Info("Results saved", "path", path)
	}
	return nil
}
