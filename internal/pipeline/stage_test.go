package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestBuildGraph_Rejects(t *testing.T) {
	_, err := buildGraph([]Stage{{Name: "a", DependsOn: []string{"ghost"}}})
	assert.Error(t, err)

	_, err = buildGraph([]Stage{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
	})
	assert.Error(t, err)
}

func TestExecute_MissingInput(t *testing.T) {
	var ran atomic.Bool
	g, err := buildGraph([]Stage{{
		Name:     "orphan",
		Requires: []StateKey{KeyJoins},
		Run: func(context.Context, *RunState) (CommitFunc, error) {
			ran.Store(true)
			return nil, nil
		},
	}})
	require.NoError(t, err)

	err = execute(context.Background(), discard(), g, newRunState(Request{}))
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.False(t, ran.Load())
}

func TestExecute_CommitsBeforeDependents(t *testing.T) {
	stages := []Stage{
		{
			Name:     "source",
			Provides: []StateKey{KeyDocuments},
			Run: func(context.Context, *RunState) (CommitFunc, error) {
				return func(s *RunState) { s.Documents = []core.Document{{Path: "a.py"}} }, nil
			},
		},
		{
			Name:      "fast",
			DependsOn: []string{"source"},
			Requires:  []StateKey{KeyDocuments},
			Provides:  []StateKey{KeyAliases},
			Run: func(context.Context, *RunState) (CommitFunc, error) {
				return func(s *RunState) { s.Aliases = core.AliasMap{"tmp_a": {"a"}} }, nil
			},
		},
		{
			Name:      "slow",
			DependsOn: []string{"source"},
			Requires:  []StateKey{KeyDocuments},
			Provides:  []StateKey{KeyJoins},
			Run: func(ctx context.Context, s *RunState) (CommitFunc, error) {
				time.Sleep(15 * time.Millisecond)
				joins := []core.JoinRecord{{File: s.Documents[0].Path}}
				return func(s *RunState) { s.Joins = joins }, nil
			},
		},
		{
			Name:      "sink",
			DependsOn: []string{"fast", "slow"},
			Requires:  []StateKey{KeyJoins, KeyAliases},
			Provides:  []StateKey{KeyResolvedJoins},
			Run: func(_ context.Context, s *RunState) (CommitFunc, error) {
				if s.Joins == nil || s.Aliases == nil {
					return nil, errors.New("sink ran before its inputs were committed")
				}
				return func(s *RunState) { s.ResolvedJoins = s.Joins }, nil
			},
		},
	}
	g, err := buildGraph(stages)
	require.NoError(t, err)

	state := newRunState(Request{})
	require.NoError(t, execute(context.Background(), discard(), g, state))
	assert.True(t, state.Has(KeyResolvedJoins))
	assert.Equal(t, "a.py", state.ResolvedJoins[0].File)
	assert.Len(t, state.Timings, 4)
}

func TestExecute_StageErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	var downstream atomic.Bool
	stages := []Stage{
		{
			Name: "fails",
			Run: func(context.Context, *RunState) (CommitFunc, error) {
				return nil, boom
			},
		},
		{
			Name: "waits",
			Run: func(ctx context.Context, _ *RunState) (CommitFunc, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		},
		{
			Name:      "after",
			DependsOn: []string{"fails", "waits"},
			Run: func(context.Context, *RunState) (CommitFunc, error) {
				downstream.Store(true)
				return nil, nil
			},
		},
	}
	g, err := buildGraph(stages)
	require.NoError(t, err)

	state := newRunState(Request{})
	err = execute(context.Background(), discard(), g, state)
	assert.ErrorIs(t, err, boom)
	assert.False(t, downstream.Load())
	assert.Empty(t, state.Keys())
}
