package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/joinlineage/internal/cli/output"
	"github.com/leapstack-labs/joinlineage/internal/dag"
	"github.com/leapstack-labs/joinlineage/internal/pipeline"
)

// NewStagesCommand creates the stages command.
func NewStagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "Show the pipeline stage graph",
		Long: `Display the fixed stage graph grouped by execution level.

Stages in the same level run concurrently; a stage starts only after every
state key it requires has been committed.`,
		Example: `  joinlineage stages
  joinlineage stages --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStages(cmd)
		},
	}
}

func runStages(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd, output.ModeText)

	graph := pipeline.Topology()
	levels, err := graph.Levels()
	if err != nil {
		return fmt.Errorf("failed to get execution levels: %w", err)
	}

	r := cmdCtx.Renderer
	if r.Mode() == output.ModeJSON {
		return stagesJSON(r, graph, levels)
	}
	stagesText(r, graph, levels)
	return nil
}

func stagesText(r *output.Renderer, graph *dag.Graph[pipeline.Stage], levels [][]string) {
	styles := r.Styles()

	r.Header(1, "Pipeline Stages")
	for i, level := range levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, id := range level {
			node, _ := graph.Node(id)
			r.Printf("  %s\n", styles.Name.Render(id))
			if deps := graph.Parents(id); len(deps) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("depends on:"), strings.Join(deps, ", "))
			}
			if req := keyNames(node.Data.Requires); len(req) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("requires:"), strings.Join(req, ", "))
			}
			r.Printf("    %s %s\n", styles.Muted.Render("provides:"), strings.Join(keyNames(node.Data.Provides), ", "))
		}
		r.Println("")
	}
	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d stages, %d dependencies", graph.NodeCount(), graph.EdgeCount())))
}

func stagesJSON(r *output.Renderer, graph *dag.Graph[pipeline.Stage], levels [][]string) error {
	out := output.StagesOutput{
		Levels:      make([]output.StageLevel, 0, len(levels)),
		TotalStages: graph.NodeCount(),
		TotalEdges:  graph.EdgeCount(),
	}
	for i, level := range levels {
		lvl := output.StageLevel{Level: i, Stages: make([]output.StageNode, 0, len(level))}
		for _, id := range level {
			node, _ := graph.Node(id)
			lvl.Stages = append(lvl.Stages, output.StageNode{
				Name:      id,
				DependsOn: orEmpty(graph.Parents(id)),
				UsedBy:    orEmpty(graph.Children(id)),
				Requires:  keyNames(node.Data.Requires),
				Provides:  keyNames(node.Data.Provides),
			})
		}
		out.Levels = append(out.Levels, lvl)
	}
	return r.JSON(out)
}

func keyNames(keys []pipeline.StateKey) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return names
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
