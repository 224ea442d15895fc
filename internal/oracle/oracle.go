// Package oracle provides the text oracle used for join extraction.
//
// An Oracle answers a prompt with free-form text. The pipeline owns the
// prompt and the parsing of the answer; implementations only transport.
package oracle

import "context"

// Oracle answers a prompt with text.
type Oracle interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// Pinger is implemented by oracles that can check reachability up front.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Query calls f.
func (f Func) Query(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Ping checks o if it implements Pinger, otherwise it reports success.
func Ping(ctx context.Context, o Oracle) error {
	if p, ok := o.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Admitter is implemented by oracles that queue calls on the client side.
// Admit blocks until a call for prompt may start and returns the oracle that
// makes it without further queueing.
type Admitter interface {
	Admit(ctx context.Context, prompt string) (Oracle, error)
}

// Admit waits until o admits a call for prompt. Oracles without a queue
// admit immediately and are returned as is.
func Admit(ctx context.Context, o Oracle, prompt string) (Oracle, error) {
	if a, ok := o.(Admitter); ok {
		return a.Admit(ctx, prompt)
	}
	return o, nil
}
