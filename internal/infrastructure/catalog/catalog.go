// Package catalog loads the benchmark query file. The YAML layout is one
// `queries` list with id, question, category, truth, and optionally an
// explicit value type and an explanation.
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"analytics-eval/internal/application/port/output"
	"analytics-eval/internal/domain/entity"
	"analytics-eval/internal/usecase/resolver"

	"gopkg.in/yaml.v3"
)

var _ output.QueryCatalog = (*FileCatalog)(nil)

type FileCatalog struct {
	path   string
	logger output.LoggerPort
}

func NewFileCatalog(path string, logger output.LoggerPort) *FileCatalog {
	return &FileCatalog{
		path:   path,
		logger: logger,
	}
}

type queryFile struct {
	Queries []queryRecord `yaml:"queries"`
}

type queryRecord struct {
	ID          string    `yaml:"id"`
	Question    string    `yaml:"question"`
	Category    string    `yaml:"category"`
	Type        string    `yaml:"type"`
	Truth       yaml.Node `yaml:"truth"`
	Explanation string    `yaml:"explanation"`
}

// Load reads and validates the catalog. Any structural defect is a fatal
// configuration error: grading never starts on a broken catalog.
func (c *FileCatalog) Load(ctx context.Context) ([]entity.Query, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read queries file: %w", err)
	}

	var file queryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse queries file: %w", err)
	}
	if len(file.Queries) == 0 {
		return nil, fmt.Errorf("queries file %s contains no queries", c.path)
	}

	queries := make([]entity.Query, 0, len(file.Queries))
	seen := make(map[string]bool, len(file.Queries))
	for i, rec := range file.Queries {
		if rec.ID == "" {
			return nil, fmt.Errorf("query #%d has no id", i+1)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("duplicate query id %q", rec.ID)
		}
		seen[rec.ID] = true
		if rec.Question == "" {
			return nil, fmt.Errorf("query %q has no question", rec.ID)
		}

		kind := entity.ValueKind(rec.Type)
		if kind == "" {
			kind = resolver.Resolve(entity.Category(rec.Category), rec.Question)
		}

		truth, err := decodeTruth(kind, rec.Truth)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", rec.ID, err)
		}

		queries = append(queries, entity.Query{
			ID:          rec.ID,
			Question:    rec.Question,
			Category:    entity.Category(rec.Category),
			Type:        kind,
			Truth:       truth,
			Explanation: rec.Explanation,
		})
	}

	if c.logger != nil {
		c.logger.Info("Query catalog loaded", "path", c.path, "queries", len(queries))
	}
	return queries, nil
}

func decodeTruth(kind entity.ValueKind, node yaml.Node) (entity.Value, error) {
	if node.IsZero() {
		return entity.Value{}, fmt.Errorf("missing truth value")
	}

	switch kind {
	case entity.KindNumber:
		var f float64
		if err := node.Decode(&f); err != nil {
			return entity.Value{}, fmt.Errorf("truth is not a number: %w", err)
		}
		return entity.NewNumber(f), nil

	case entity.KindPercentage:
		var f float64
		if err := node.Decode(&f); err != nil {
			return entity.Value{}, fmt.Errorf("truth is not a percentage: %w", err)
		}
		return entity.NewPercentage(f), nil

	case entity.KindDate:
		var s string
		if err := node.Decode(&s); err != nil {
			return entity.Value{}, fmt.Errorf("truth is not a date string: %w", err)
		}
		d, err := time.Parse(entity.DateLayout, s)
		if err != nil {
			return entity.Value{}, fmt.Errorf("truth date %q: %w", s, err)
		}
		return entity.NewDate(d).Normalize(), nil

	case entity.KindToken:
		var s string
		if err := node.Decode(&s); err != nil {
			return entity.Value{}, fmt.Errorf("truth is not a token string: %w", err)
		}
		sym := strings.ToUpper(strings.TrimSpace(s))
		if !entity.IsValidToken(sym) {
			return entity.Value{}, fmt.Errorf("truth token %q is not in the valid set", s)
		}
		return entity.NewToken(sym), nil

	case entity.KindRanking:
		var order []string
		if err := node.Decode(&order); err != nil {
			return entity.Value{}, fmt.Errorf("truth is not a ranking list: %w", err)
		}
		v := entity.NewRanking(order).Normalize()
		if err := v.Validate(); err != nil {
			return entity.Value{}, fmt.Errorf("truth ranking: %w", err)
		}
		for _, sym := range v.Ranking {
			if !entity.IsValidToken(sym) {
				return entity.Value{}, fmt.Errorf("truth ranking member %q is not in the valid set", sym)
			}
		}
		return v, nil

	default:
		return entity.Value{}, fmt.Errorf("unknown value kind %q", kind)
	}
}
