package output

import (
	"context"

	"analytics-eval/internal/domain/entity"
)

// QueryCatalog supplies the benchmark queries with their truth values.
// A structurally invalid catalog (duplicate ids, missing fields) is a
// fatal configuration error and must fail Load before any grading runs.
type QueryCatalog interface {
	Load(ctx context.Context) ([]entity.Query, error)
}

// ResponseSource supplies the agent's raw text answer per query id.
// Queries absent from the map are graded as missing.
type ResponseSource interface {
	Load(ctx context.Context) (map[string]string, error)
}
