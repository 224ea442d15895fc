package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/joinlineage/internal/cli/config"
	"github.com/leapstack-labs/joinlineage/internal/cli/output"
	"github.com/leapstack-labs/joinlineage/internal/pipeline"
	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <repo>",
		Short: "Extract joins and resolve their lineage",
		Long: `Load a repository, extract every JOIN with the text oracle and resolve
temp view operands back to the tables they were read from.

<repo> is a clone URL or a local directory. Resolved joins are printed to
stdout as a JSON array; logs go to stderr.`,
		Example: `  # Scan a remote repository
  joinlineage scan https://github.com/acme/etl.git --branch develop

  # Scan a local checkout with a different model
  joinlineage scan ./etl --model codellama

  # Render as a table
  joinlineage scan ./etl -o table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0])
		},
	}

	cmd.Flags().String("branch", config.DefaultBranch, "Branch to check out")
	cmd.Flags().String("model", config.DefaultModel, "Oracle model name")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Concurrent oracle calls")
	cmd.Flags().Duration("timeout", config.DefaultTimeout, "Per-call oracle timeout (0 disables)")
	cmd.Flags().StringSlice("ext", config.DefaultExtensions, "File extensions to scan")
	cmd.Flags().Int("chunk-size", config.DefaultChunkSize, "Chunk size in characters")
	cmd.Flags().Int("chunk-overlap", config.DefaultChunkOverlap, "Chunk overlap in characters")
	cmd.Flags().Float64("rps", 0, "Oracle requests per second (0 disables throttling)")
	cmd.Flags().Int("burst", config.DefaultOllamaBurst, "Oracle calls allowed in a burst when throttling")
	cmd.Flags().Bool("no-cache", false, "Do not reuse answers for identical prompts")

	return cmd
}

func runScan(cmd *cobra.Command, repo string) error {
	cmdCtx := NewCommandContext(cmd, output.ModeJSON)
	cfg := cmdCtx.Cfg

	p, err := NewPipeline(cfg, cmdCtx.Logger, NewOracle(cfg, cfg.Model))
	if err != nil {
		return err
	}

	state, err := p.Run(cmd.Context(), pipeline.Request{
		Repo:  core.RepoRef{Locator: repo, Branch: cfg.Branch},
		Model: cfg.Model,
	})
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if stats := state.JoinStats; stats.Failed+stats.Unparsable > 0 {
		r.Warnf("warning: %d of %d chunks produced no usable answer", stats.Failed+stats.Unparsable, stats.Chunks)
	}

	switch r.Mode() {
	case output.ModeTable, output.ModeText:
		renderJoinTable(r, state.ResolvedJoins)
		return nil
	default:
		return r.JSON(state.ResolvedJoins)
	}
}

func renderJoinTable(r *output.Renderer, joins []core.JoinRecord) {
	rows := make([]table.Row, 0, len(joins))
	for _, j := range joins {
		cond := ""
		if j.Condition != nil {
			cond = *j.Condition
		}
		rows = append(rows, table.Row{
			j.File,
			j.Type,
			strings.Join(j.SourceObjects, ", "),
			strings.Join(j.JoinKeys, ", "),
			cond,
			j.JoinStyle,
		})
	}
	r.Table(
		table.Row{"File", "Type", "Sources", "Keys", "Condition", "Style"},
		rows,
		table.Row{"", "", fmt.Sprintf("%d joins", len(joins))},
	)
}
