package pipeline

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/joinlineage/internal/extract"
	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// StateKey names one stage output in a RunState.
type StateKey string

// State keys written by the built-in stages.
const (
	KeyDocuments     StateKey = "documents"
	KeyChunks        StateKey = "chunks"
	KeyJoins         StateKey = "joins"
	KeyAliases       StateKey = "aliases"
	KeyResolvedJoins StateKey = "resolved_joins"
)

// RunState accumulates the outputs of one run.
type RunState struct {
	RunID uuid.UUID
	Repo  core.RepoRef
	Model string

	Documents     []core.Document
	Chunks        []core.Chunk
	Joins         []core.JoinRecord
	JoinStats     extract.JoinStats
	Aliases       core.AliasMap
	ResolvedJoins []core.JoinRecord

	// Timings holds the wall time of each finished stage
	Timings map[string]time.Duration

	written map[StateKey]struct{}
}

func newRunState(req Request) *RunState {
	return &RunState{
		RunID:   uuid.New(),
		Repo:    req.Repo,
		Model:   req.Model,
		Timings: make(map[string]time.Duration),
		written: make(map[StateKey]struct{}),
	}
}

// Has reports whether key has been committed.
func (s *RunState) Has(key StateKey) bool {
	_, ok := s.written[key]
	return ok
}

// Keys returns the committed keys in sorted order.
func (s *RunState) Keys() []StateKey {
	keys := make([]StateKey, 0, len(s.written))
	for k := range s.written {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (s *RunState) mark(keys []StateKey) {
	for _, k := range keys {
		s.written[k] = struct{}{}
	}
}
