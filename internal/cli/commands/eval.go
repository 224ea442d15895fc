package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/joinlineage/internal/cli/config"
	"github.com/leapstack-labs/joinlineage/internal/cli/output"
	"github.com/leapstack-labs/joinlineage/internal/eval"
	"github.com/leapstack-labs/joinlineage/internal/pipeline"
	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score the pipeline against labelled examples",
		Long: `Run the pipeline on every example of a dataset and report precision,
recall and F1 over the expected joins.

Without --dataset the built-in example set is used. A dataset file is YAML:

  examples:
    - name: shop
      input: {repo_url: ./fixtures/shop, branch: main, model: llama3.2}
      expected_output:
        joins:
          - {type: INNER, source_objects: [orders, customers]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dataset, _ := cmd.Flags().GetString("dataset")
			return runEval(cmd, dataset)
		},
	}

	cmd.Flags().String("dataset", "", "Path to a YAML dataset (default: built-in examples)")
	return cmd
}

func runEval(cmd *cobra.Command, dataset string) error {
	cmdCtx := NewCommandContext(cmd, output.ModeJSON)
	cfg := cmdCtx.Cfg

	examples := eval.DefaultDataset()
	if dataset != "" {
		var err error
		if examples, err = eval.LoadDataset(dataset); err != nil {
			return err
		}
	}

	report, err := eval.Evaluate(cmd.Context(), examples, examplePipeline(cfg, cmdCtx), cmdCtx.Logger)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.Mode() {
	case output.ModeTable, output.ModeText:
		renderReport(r, report)
		return nil
	default:
		return r.JSON(report.Metrics)
	}
}

// examplePipeline runs one example with its own branch and model, falling
// back to the configured ones.
func examplePipeline(cfg *config.Config, cmdCtx *CommandContext) eval.RunFunc {
	return func(ctx context.Context, in eval.Input) ([]core.JoinRecord, error) {
		branch, model := in.Branch, in.Model
		if branch == "" {
			branch = cfg.Branch
		}
		if model == "" {
			model = cfg.Model
		}

		p, err := NewPipeline(cfg, cmdCtx.Logger, NewOracle(cfg, model))
		if err != nil {
			return nil, err
		}
		state, err := p.Run(ctx, pipeline.Request{
			Repo:  core.RepoRef{Locator: in.Repo, Branch: branch},
			Model: model,
		})
		if err != nil {
			return nil, err
		}
		return state.ResolvedJoins, nil
	}
}

func renderReport(r *output.Renderer, report *eval.Report) {
	rows := make([]table.Row, 0, len(report.Examples))
	for _, ex := range report.Examples {
		rows = append(rows, table.Row{ex.Name, ex.Expected, ex.Predicted, ex.Hits, strings.Join(ex.Missed, "; ")})
	}
	r.Table(table.Row{"Example", "Expected", "Predicted", "Hits", "Missed"}, rows, nil)

	m := report.Metrics
	r.Println(r.Styles().Success.Render(fmt.Sprintf("precision %.3f  recall %.3f  f1 %.3f", m.Precision, m.Recall, m.F1)))
}
