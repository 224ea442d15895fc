package extract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/joinlineage/internal/oracle"
	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// Default extraction settings.
const (
	DefaultConcurrency = 4
	DefaultCallTimeout = 60 * time.Second
)

// JoinConfig holds join extractor configuration.
type JoinConfig struct {
	// Concurrency bounds in-flight oracle calls (default 4)
	Concurrency int
	// CallTimeout bounds a single oracle call; <= 0 disables it
	CallTimeout time.Duration
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// JoinStats summarizes one extraction.
type JoinStats struct {
	Chunks     int `json:"chunks"`
	Failed     int `json:"failed"`
	Unparsable int `json:"unparsable"`
	Joins      int `json:"joins"`
}

// JoinExtractor turns code chunks into raw join records via an oracle.
type JoinExtractor struct {
	oracle      oracle.Oracle
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

// NewJoinExtractor creates an extractor that queries o.
func NewJoinExtractor(o oracle.Oracle, cfg JoinConfig) *JoinExtractor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &JoinExtractor{
		oracle:      o,
		concurrency: concurrency,
		timeout:     cfg.CallTimeout,
		logger:      logger,
	}
}

type chunkOutcome int

const (
	outcomeOK chunkOutcome = iota
	outcomeFailed
	outcomeUnparsable
)

type chunkResult struct {
	joins   []core.JoinRecord
	outcome chunkOutcome
}

// Extract queries the oracle for every chunk and returns all parsed joins
// in chunk order. Failed calls and unparsable answers are logged and
// skipped. The only error returned is cancellation of ctx.
func (e *JoinExtractor) Extract(ctx context.Context, chunks []core.Chunk) ([]core.JoinRecord, JoinStats, error) {
	results := make([]chunkResult, len(chunks))

	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)
	for i, c := range chunks {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = e.extractChunk(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, JoinStats{}, err
	}

	stats := JoinStats{Chunks: len(chunks)}
	joins := make([]core.JoinRecord, 0, len(chunks))
	for _, r := range results {
		switch r.outcome {
		case outcomeFailed:
			stats.Failed++
		case outcomeUnparsable:
			stats.Unparsable++
		}
		joins = append(joins, r.joins...)
	}
	stats.Joins = len(joins)
	return joins, stats, nil
}

func (e *JoinExtractor) extractChunk(ctx context.Context, c core.Chunk) chunkResult {
	file := c.SourcePath
	if file == "" {
		file = "unknown"
	}

	prompt := JoinPrompt(file, c.Text)

	// Client-side queueing does not count against the call timeout.
	o, err := oracle.Admit(ctx, e.oracle, prompt)
	if err != nil {
		if ctx.Err() == nil {
			e.logger.Warn("oracle call not admitted, skipping chunk",
				"file", file, "chunk", c.Ordinal, "error", err)
		}
		return chunkResult{outcome: outcomeFailed}
	}

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	response, err := o.Query(callCtx, prompt)
	if err != nil {
		if ctx.Err() == nil {
			e.logger.Warn("oracle call failed, skipping chunk",
				"file", file, "chunk", c.Ordinal, "timeout", errors.Is(err, context.DeadlineExceeded), "error", err)
		}
		return chunkResult{outcome: outcomeFailed}
	}

	joins, err := ParseJoins(response)
	if err != nil {
		e.logger.Warn("unparsable oracle response, skipping chunk",
			"file", file, "chunk", c.Ordinal, "error", err)
		return chunkResult{outcome: outcomeUnparsable}
	}

	e.logger.Debug("extracted chunk", "file", file, "chunk", c.Ordinal, "joins", len(joins))
	return chunkResult{joins: joins, outcome: outcomeOK}
}
