package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/joinlineage/internal/dag"
	"github.com/leapstack-labs/joinlineage/internal/extract"
	"github.com/leapstack-labs/joinlineage/internal/loader"
	"github.com/leapstack-labs/joinlineage/internal/oracle"
	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// Stage names.
const (
	StageLoadCorpus     = "load_corpus"
	StageExtractJoins   = "extract_joins"
	StageExtractLineage = "extract_lineage"
	StageResolveLineage = "resolve_lineage"
)

// Request is the input of one run.
type Request struct {
	Repo core.RepoRef
	// Model identifies the oracle model; it is recorded on the run state
	Model string
}

// Pipeline runs the fixed stage graph.
type Pipeline struct {
	loader   loader.Loader
	oracle   oracle.Oracle
	splitter *loader.Splitter
	exts     []string
	joinCfg  extract.JoinConfig
	logger   *slog.Logger

	stages []Stage
	graph  *dag.Graph[Stage]
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithConcurrency bounds concurrent oracle calls.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) { p.joinCfg.Concurrency = n }
}

// WithCallTimeout bounds each oracle call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.joinCfg.CallTimeout = d }
}

// WithSplitter replaces the default 2000/200 chunk splitter.
func WithSplitter(s *loader.Splitter) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.splitter = s
		}
	}
}

// WithExtensions sets the accepted file extensions.
func WithExtensions(exts []string) Option {
	return func(p *Pipeline) {
		if len(exts) > 0 {
			p.exts = append([]string(nil), exts...)
		}
	}
}

// New creates a pipeline from its two collaborators.
func New(l loader.Loader, o oracle.Oracle, opts ...Option) (*Pipeline, error) {
	if l == nil {
		return nil, ErrMissingLoader
	}
	if o == nil {
		return nil, ErrMissingOracle
	}

	splitter, err := loader.NewSplitter(loader.DefaultChunkSize, loader.DefaultChunkOverlap)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		loader:   l,
		oracle:   o,
		splitter: splitter,
		exts:     loader.DefaultExtensions,
		joinCfg: extract.JoinConfig{
			Concurrency: extract.DefaultConcurrency,
			CallTimeout: extract.DefaultCallTimeout,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.stages = p.buildStages()
	p.graph, err = buildGraph(p.stages)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Stages returns the stage definitions in declaration order.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Graph returns a copy of the stage graph.
func (p *Pipeline) Graph() *dag.Graph[Stage] {
	g, _ := buildGraph(p.stages)
	return g
}

// Topology returns the fixed stage graph without collaborators attached.
// Its stages are for inspection only.
func Topology() *dag.Graph[Stage] {
	g, _ := buildGraph((&Pipeline{}).buildStages())
	return g
}

// Run executes every stage once against a fresh state.
func (p *Pipeline) Run(ctx context.Context, req Request) (*RunState, error) {
	state := newRunState(req)
	logger := p.logger.With("run_id", state.RunID.String())
	logger.Info("pipeline started", "repo", req.Repo.Locator, "branch", req.Repo.Branch, "model", req.Model)

	start := time.Now()
	if err := execute(ctx, logger, p.graph, state); err != nil {
		return nil, fmt.Errorf("run %s: %w", state.RunID, err)
	}

	logger.Info("pipeline finished",
		"joins", len(state.ResolvedJoins),
		"aliases", state.Aliases.Len(),
		"duration", time.Since(start))
	return state, nil
}
