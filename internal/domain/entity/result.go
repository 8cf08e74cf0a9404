package entity

import "time"

// ErrorKind classifies why (or that) an answer missed.
type ErrorKind string

const (
	ErrorNone           ErrorKind = "none"
	ErrorMissing        ErrorKind = "missing"
	ErrorTypeMismatch   ErrorKind = "type_mismatch"
	ErrorHallucination  ErrorKind = "hallucination"
	ErrorOutOfTolerance ErrorKind = "out_of_tolerance"
)

// ExtractionSource records which strategy produced the extracted value.
type ExtractionSource string

const (
	SourceDelegated ExtractionSource = "delegated"
	SourceFallback  ExtractionSource = "fallback"
	SourceNone      ExtractionSource = "none"
)

// EvaluationResult is the verdict for one query. Immutable after creation.
type EvaluationResult struct {
	QueryID     string           `json:"query_id"`
	Category    Category         `json:"category"`
	RawResponse string           `json:"raw_response"`
	Extracted   *Value           `json:"extracted,omitempty"`
	Truth       Value            `json:"truth"`
	Correct     bool             `json:"correct"`
	// AbsoluteError is set for numeric kinds only.
	AbsoluteError *float64 `json:"absolute_error,omitempty"`
	// Tolerance is the deviation the matcher allowed for this query,
	// kept so grading can relate the error to it without re-deriving config.
	Tolerance float64          `json:"tolerance,omitempty"`
	ErrorKind ErrorKind        `json:"error_kind"`
	Source    ExtractionSource `json:"extraction_source"`
}

// CategoryStats is the correct/total tally for one category.
type CategoryStats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Summary is the fold of all per-query results for one agent run.
type Summary struct {
	AgentName            string                     `json:"agent_name"`
	Total                int                        `json:"total_queries"`
	CorrectCount         int                        `json:"correct_answers"`
	AccuracyPct          float64                    `json:"accuracy_percentage"`
	HallucinationCount   int                        `json:"hallucination_count"`
	HallucinationRatePct float64                    `json:"hallucination_rate"`
	AvgAbsoluteError     float64                    `json:"average_absolute_error"`
	Categories           map[Category]CategoryStats `json:"category_breakdown"`
	Results              []EvaluationResult         `json:"results"`
	Timestamp            time.Time                  `json:"timestamp"`
}
