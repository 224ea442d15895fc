package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// ErrUnavailable is returned by fakes configured to fail.
var ErrUnavailable = errors.New("collaborator unavailable")

// StaticLoader serves fixed documents per repository locator.
type StaticLoader struct {
	// Repos maps a locator to its documents
	Repos map[string][]core.Document
	// Err, when set, is returned for every load
	Err error

	mu    sync.Mutex
	calls []core.RepoRef
}

// Load returns the documents registered for repo.Locator.
func (l *StaticLoader) Load(_ context.Context, repo core.RepoRef, _ []string) ([]core.Document, error) {
	l.mu.Lock()
	l.calls = append(l.calls, repo)
	l.mu.Unlock()

	if l.Err != nil {
		return nil, l.Err
	}
	docs, ok := l.Repos[repo.Locator]
	if !ok {
		return nil, fmt.Errorf("repository %q: %w", repo.Locator, ErrUnavailable)
	}
	return docs, nil
}

// Calls returns the repositories loaded so far.
func (l *StaticLoader) Calls() []core.RepoRef {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.RepoRef(nil), l.calls...)
}

// ScriptedOracle answers prompts by matching substrings.
// The first rule whose Contains is found in the prompt wins.
type ScriptedOracle struct {
	Rules []Rule
	// Default is returned when no rule matches
	Default string
	// PingErr is returned by Ping
	PingErr error

	mu      sync.Mutex
	prompts []string
}

// Rule is one scripted answer.
type Rule struct {
	Contains string
	Response string
	Err      error
	// Block makes the call wait for context cancellation
	Block bool
}

// Query answers prompt according to the rules.
func (o *ScriptedOracle) Query(ctx context.Context, prompt string) (string, error) {
	o.mu.Lock()
	o.prompts = append(o.prompts, prompt)
	o.mu.Unlock()

	for _, r := range o.Rules {
		if !strings.Contains(prompt, r.Contains) {
			continue
		}
		if r.Block {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return r.Response, r.Err
	}
	return o.Default, nil
}

// Ping returns PingErr.
func (o *ScriptedOracle) Ping(context.Context) error {
	return o.PingErr
}

// Prompts returns every prompt received.
func (o *ScriptedOracle) Prompts() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.prompts...)
}
