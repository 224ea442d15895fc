package eval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// RunFunc runs the pipeline for one example input and returns its
// resolved joins.
type RunFunc func(ctx context.Context, in Input) ([]core.JoinRecord, error)

// Evaluate runs every example in order and scores the results. The first
// failed run aborts the evaluation.
func Evaluate(ctx context.Context, examples []Example, run RunFunc, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	predictions := make([][]core.JoinRecord, 0, len(examples))
	for _, ex := range examples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		joins, err := run(ctx, ex.Input)
		if err != nil {
			return nil, fmt.Errorf("example %s: %w", ex.Name, err)
		}
		logger.Info("example evaluated", "example", ex.Name, "repo", ex.Input.Repo, "predicted", len(joins))
		predictions = append(predictions, joins)
	}

	report, err := ComputeMetrics(examples, predictions)
	if err != nil {
		return nil, err
	}
	logger.Info("evaluation finished",
		"examples", len(examples),
		"precision", report.Metrics.Precision,
		"recall", report.Metrics.Recall,
		"f1", report.Metrics.F1)
	return report, nil
}
