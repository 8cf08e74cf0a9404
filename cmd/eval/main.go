package main

import (
	"context"
	"flag"
	"log"
	"time"

	"analytics-eval/internal/application/port/input"
	"analytics-eval/internal/di"
	"analytics-eval/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	queriesPath := flag.String("queries", "data/queries.yaml", "path to the query catalog YAML file")
	responsesPath := flag.String("responses", "", "path to the agent responses JSON file (required)")
	agentName := flag.String("agent", "agent", "name of the agent under evaluation")
	outputPath := flag.String("out", "", "results file path (default: timestamped file in the working directory)")
	flag.Parse()

	if *responsesPath == "" {
		flag.Usage()
		log.Fatal("-responses is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	container, err := di.NewContainer(ctx, di.Config{
		APIKey:   envService.Get("OPENROUTER_API_KEY"),
		Model:    envService.Get("OPENROUTER_MODEL_NAME"),
		BaseURL:  envService.Get("OPENROUTER_BASE_URL"),
		Backend:  envService.Get("LLM_BACKEND"),
		LogLevel: envService.Get("LOG_LEVEL"),

		QueriesPath:   *queriesPath,
		ResponsesPath: *responsesPath,
		OutputPath:    *outputPath,

		ServiceTimeout:           envService.GetDuration("EXTRACTION_TIMEOUT", 30*time.Second),
		Workers:                  envService.GetInt("EVAL_WORKERS", 4),
		PercentageTolerance:      envService.GetFloat("PERCENTAGE_TOLERANCE", 0),
		NumericRelativeTolerance: envService.GetFloat("NUMERIC_RELATIVE_TOLERANCE", 0),
		NumericAbsoluteFloor:     envService.GetFloat("NUMERIC_ABSOLUTE_FLOOR", 0),
	})
	if err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}
	defer container.Close()

	logger := container.Logger

	queries, err := container.Catalog.Load(ctx)
	if err != nil {
		logger.Error("Query catalog rejected", "path", *queriesPath, "error", err)
		container.Close()
		log.Fatalf("Query catalog rejected: %v", err)
	}

	responses, err := container.Responses.Load(ctx)
	if err != nil {
		logger.Error("Responses file rejected", "path", *responsesPath, "error", err)
		container.Close()
		log.Fatalf("Responses file rejected: %v", err)
	}

	logger.Info("Starting evaluation",
		"agent", *agentName,
		"queries", len(queries),
		"responses", len(responses))

	summary, err := container.Runner.Evaluate(ctx, input.EvaluationRun{
		AgentName: *agentName,
		Queries:   queries,
		Responses: responses,
	})
	if err != nil {
		logger.Error("Evaluation failed", "error", err)
		container.Close()
		log.Fatalf("Evaluation failed: %v", err)
	}

	report := container.Grader.Grade(summary)

	for _, reporter := range container.Reporters {
		if err := reporter.Report(summary, report); err != nil {
			logger.Error("Reporting failed", "error", err)
		}
	}
}
