package pipeline

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/joinlineage/internal/extract"
	"github.com/leapstack-labs/joinlineage/internal/lineage"
	"github.com/leapstack-labs/joinlineage/internal/oracle"
	"github.com/leapstack-labs/joinlineage/pkg/core"
)

func (p *Pipeline) buildStages() []Stage {
	return []Stage{
		{
			Name:     StageLoadCorpus,
			Provides: []StateKey{KeyDocuments, KeyChunks},
			Run:      p.loadCorpus,
		},
		{
			Name:      StageExtractJoins,
			DependsOn: []string{StageLoadCorpus},
			Requires:  []StateKey{KeyChunks},
			Provides:  []StateKey{KeyJoins},
			Run:       p.extractJoins,
		},
		{
			Name:      StageExtractLineage,
			DependsOn: []string{StageLoadCorpus},
			Requires:  []StateKey{KeyDocuments},
			Provides:  []StateKey{KeyAliases},
			Run:       p.extractLineage,
		},
		{
			Name:      StageResolveLineage,
			DependsOn: []string{StageExtractJoins, StageExtractLineage},
			Requires:  []StateKey{KeyJoins, KeyAliases},
			Provides:  []StateKey{KeyResolvedJoins},
			Run:       p.resolveLineage,
		},
	}
}

func (p *Pipeline) loadCorpus(ctx context.Context, state *RunState) (CommitFunc, error) {
	docs, err := p.loader.Load(ctx, state.Repo, p.exts)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", ErrCollaboratorUnavailable, state.Repo.Locator, err)
	}
	chunks := p.splitter.Split(docs)

	p.logger.Info("corpus loaded", "run_id", state.RunID.String(), "documents", len(docs), "chunks", len(chunks))
	return func(s *RunState) {
		s.Documents = docs
		s.Chunks = chunks
	}, nil
}

func (p *Pipeline) extractJoins(ctx context.Context, state *RunState) (CommitFunc, error) {
	if len(state.Chunks) > 0 {
		if err := oracle.Ping(ctx, p.oracle); err != nil {
			return nil, fmt.Errorf("%w: oracle: %w", ErrCollaboratorUnavailable, err)
		}
	}

	cfg := p.joinCfg
	cfg.Logger = p.logger.With("run_id", state.RunID.String(), "stage", StageExtractJoins)
	cache, cached := p.oracle.(*oracle.Cached)
	var hitsBefore int
	if cached {
		hitsBefore = cache.Hits()
	}
	joins, stats, err := extract.NewJoinExtractor(p.oracle, cfg).Extract(ctx, state.Chunks)
	if err != nil {
		return nil, err
	}

	attrs := []any{"run_id", state.RunID.String(),
		"joins", stats.Joins, "chunks", stats.Chunks, "failed", stats.Failed, "unparsable", stats.Unparsable}
	if cached {
		attrs = append(attrs, "cache_hits", cache.Hits()-hitsBefore)
	}
	p.logger.Info("joins extracted", attrs...)
	return func(s *RunState) {
		s.Joins = joins
		s.JoinStats = stats
	}, nil
}

func (p *Pipeline) extractLineage(_ context.Context, state *RunState) (CommitFunc, error) {
	aliases := extract.NewAliasExtractor(p.logger.With("run_id", state.RunID.String())).Extract(state.Documents)

	p.logger.Info("alias lineage extracted", "run_id", state.RunID.String(), "aliases", aliases.Len())
	return func(s *RunState) {
		s.Aliases = aliases
	}, nil
}

func (p *Pipeline) resolveLineage(_ context.Context, state *RunState) (CommitFunc, error) {
	resolved := lineage.Resolve(cloneJoins(state.Joins), state.Aliases)
	return func(s *RunState) {
		s.ResolvedJoins = resolved
	}, nil
}

// cloneJoins copies the record slice so the raw joins stay intact in the
// state. Resolve replaces SourceObjects rather than editing it.
func cloneJoins(joins []core.JoinRecord) []core.JoinRecord {
	if joins == nil {
		return nil
	}
	return append([]core.JoinRecord(nil), joins...)
}
