package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/joinlineage/internal/dag"
)

// CommitFunc writes a stage's outputs into the run state.
type CommitFunc func(*RunState)

// Stage is one node of the pipeline graph.
type Stage struct {
	Name      string
	DependsOn []string
	// Requires lists the keys that must be committed before Run starts
	Requires []StateKey
	// Provides lists the keys the commit writes
	Provides []StateKey
	// Run computes the stage outputs. It may read the keys in Requires but
	// must not write to the state; writes go in the returned commit.
	Run func(ctx context.Context, state *RunState) (CommitFunc, error)
}

func buildGraph(stages []Stage) (*dag.Graph[Stage], error) {
	g := dag.NewGraph[Stage]()
	for _, st := range stages {
		g.AddNode(st.Name, st)
	}
	for _, st := range stages {
		for _, dep := range st.DependsOn {
			if err := g.AddEdge(dep, st.Name); err != nil {
				return nil, fmt.Errorf("stage %s: %w", st.Name, err)
			}
		}
	}
	if cyclic, path := g.HasCycle(); cyclic {
		return nil, fmt.Errorf("stage graph has a cycle: %v", path)
	}
	return g, nil
}

// execute runs the graph level by level against state.
func execute(ctx context.Context, logger *slog.Logger, g *dag.Graph[Stage], state *RunState) error {
	levels, err := g.Levels()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	for _, level := range levels {
		batch := make([]Stage, 0, len(level))
		for _, id := range level {
			node, _ := g.Node(id)
			st := node.Data
			for _, key := range st.Requires {
				if !state.Has(key) {
					return fmt.Errorf("stage %s: %w: %s", st.Name, ErrMissingInput, key)
				}
			}
			batch = append(batch, st)
		}

		eg, egCtx := errgroup.WithContext(ctx)
		for _, st := range batch {
			eg.Go(func() error {
				start := time.Now()
				logger.Debug("stage started", "stage", st.Name)

				commit, err := st.Run(egCtx, state)
				if err != nil {
					logger.Error("stage failed", "stage", st.Name, "error", err)
					return fmt.Errorf("stage %s: %w", st.Name, err)
				}

				elapsed := time.Since(start)
				mu.Lock()
				if commit != nil {
					commit(state)
				}
				state.mark(st.Provides)
				state.Timings[st.Name] = elapsed
				mu.Unlock()

				logger.Debug("stage finished", "stage", st.Name, "duration", elapsed)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}
	return nil
}
