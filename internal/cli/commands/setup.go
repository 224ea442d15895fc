// Package commands implements the joinlineage subcommands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/joinlineage/internal/cli/config"
	"github.com/leapstack-labs/joinlineage/internal/cli/output"
	"github.com/leapstack-labs/joinlineage/internal/loader"
	"github.com/leapstack-labs/joinlineage/internal/oracle"
	"github.com/leapstack-labs/joinlineage/internal/pipeline"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext reads the config and logger stored on cmd's context.
// fallback is the output mode used when none is configured.
func NewCommandContext(cmd *cobra.Command, fallback output.Mode) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output), fallback),
	}
}

// NewOracle builds the Ollama oracle for model with the configured
// throttling and caching.
func NewOracle(cfg *config.Config, model string) oracle.Oracle {
	var o oracle.Oracle = oracle.NewOllama(cfg.Ollama.URL, model)
	o = oracle.NewLimited(o, cfg.Ollama.RequestsPerSecond, cfg.Ollama.Burst)
	if cfg.Ollama.Cache {
		o = oracle.NewCached(o)
	}
	return o
}

// NewPipeline builds a pipeline over the git loader and o.
func NewPipeline(cfg *config.Config, logger *slog.Logger, o oracle.Oracle) (*pipeline.Pipeline, error) {
	splitter, err := loader.NewSplitter(cfg.Chunk.Size, cfg.Chunk.Overlap)
	if err != nil {
		return nil, err
	}
	return pipeline.New(loader.NewGitLoader(logger), o,
		pipeline.WithLogger(logger),
		pipeline.WithSplitter(splitter),
		pipeline.WithExtensions(cfg.Extensions),
		pipeline.WithConcurrency(cfg.Extract.Concurrency),
		pipeline.WithCallTimeout(cfg.Extract.Timeout),
	)
}
