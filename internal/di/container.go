package di

import (
	"context"
	"fmt"
	"os"
	"time"

	"analytics-eval/internal/application/port/input"
	"analytics-eval/internal/application/port/output"
	"analytics-eval/internal/infrastructure/catalog"
	"analytics-eval/internal/infrastructure/llm/langchain"
	"analytics-eval/internal/infrastructure/llm/openrouter"
	"analytics-eval/internal/infrastructure/logger"
	"analytics-eval/internal/infrastructure/report"
	"analytics-eval/internal/infrastructure/responses"
	"analytics-eval/internal/usecase/evaluator"
	"analytics-eval/internal/usecase/extractor"
	"analytics-eval/internal/usecase/grader"
)

type Container struct {
	Logger    output.LoggerPort
	LLM       output.LLMPort
	Catalog   output.QueryCatalog
	Responses output.ResponseSource
	Runner    input.EvaluationRunner
	Grader    *grader.Grader
	Reporters []output.Reporter
}

type Config struct {
	APIKey   string
	Model    string
	BaseURL  string
	Backend  string // "openrouter" (default) or "langchain"
	LogLevel string

	QueriesPath   string
	ResponsesPath string
	OutputPath    string

	ServiceTimeout           time.Duration
	Workers                  int
	PercentageTolerance      float64
	NumericRelativeTolerance float64
	NumericAbsoluteFloor     float64
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var llm output.LLMPort
	if cfg.APIKey == "" {
		log.Warn("No extraction service API key configured, pattern fallback only")
	} else {
		switch cfg.Backend {
		case "langchain":
			adapter, err := langchain.NewAdapter(langchain.Config{
				APIKey:  cfg.APIKey,
				Model:   cfg.Model,
				BaseURL: cfg.BaseURL,
				Logger:  log,
			})
			if err != nil {
				log.Close()
				return nil, fmt.Errorf("failed to create langchain adapter: %w", err)
			}
			llm = adapter
		default:
			llmCfg := openrouter.DefaultConfig(cfg.APIKey, cfg.Model)
			if cfg.BaseURL != "" {
				llmCfg.BaseURL = cfg.BaseURL
			}
			llmCfg.Logger = log
			llm = openrouter.NewOpenRouterAdapter(llmCfg)
		}
	}

	chain := extractor.New(llm, log, extractor.Config{
		ServiceTimeout: cfg.ServiceTimeout,
	})

	evalCfg := evaluator.DefaultConfig()
	if cfg.Workers > 0 {
		evalCfg.Workers = cfg.Workers
	}
	if cfg.PercentageTolerance > 0 {
		evalCfg.Tolerances.PercentagePoints = cfg.PercentageTolerance
	}
	if cfg.NumericRelativeTolerance > 0 {
		evalCfg.Tolerances.NumericRelative = cfg.NumericRelativeTolerance
	}
	if cfg.NumericAbsoluteFloor > 0 {
		evalCfg.Tolerances.NumericFloor = cfg.NumericAbsoluteFloor
	}

	runner := evaluator.New(chain, log, evalCfg)

	return &Container{
		Logger:    log,
		LLM:       llm,
		Catalog:   catalog.NewFileCatalog(cfg.QueriesPath, log),
		Responses: responses.NewFileSource(cfg.ResponsesPath, log),
		Runner:    runner,
		Grader:    grader.New(log),
		Reporters: []output.Reporter{
			report.NewConsoleReporter(os.Stdout),
			report.NewJSONReporter(cfg.OutputPath, log),
		},
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}
