package pipeline

import "errors"

var (
	// ErrMissingLoader is returned by New when no corpus loader is given.
	ErrMissingLoader = errors.New("pipeline: corpus loader is required")
	// ErrMissingOracle is returned by New when no text oracle is given.
	ErrMissingOracle = errors.New("pipeline: text oracle is required")
	// ErrCollaboratorUnavailable wraps a loader or oracle failure that
	// aborts the run.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrMissingInput means a stage was scheduled before its inputs were
	// committed.
	ErrMissingInput = errors.New("missing stage input")
)
