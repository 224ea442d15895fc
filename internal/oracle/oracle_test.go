package oracle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingOracle struct {
	Func
	pingErr error
}

func (p pingOracle) Ping(context.Context) error { return p.pingErr }

func TestPing(t *testing.T) {
	plain := Func(func(context.Context, string) (string, error) { return "", nil })
	assert.NoError(t, Ping(context.Background(), plain))

	down := pingOracle{Func: plain, pingErr: errors.New("down")}
	assert.EqualError(t, Ping(context.Background(), down), "down")

	assert.EqualError(t, Ping(context.Background(), NewCached(down)), "down")
	assert.EqualError(t, Ping(context.Background(), NewLimited(down, 5, 1)), "down")
}

func TestNewLimited_Disabled(t *testing.T) {
	var o Oracle = Func(func(context.Context, string) (string, error) { return "ok", nil })
	limited := NewLimited(o, 0, 0)
	_, isLimited := limited.(*Limited)
	assert.False(t, isLimited)
}

func TestLimited_ContextCanceled(t *testing.T) {
	calls := 0
	o := NewLimited(Func(func(context.Context, string) (string, error) {
		calls++
		return "ok", nil
	}), 0.001, 1)

	resp, err := o.Query(context.Background(), "first")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = o.Query(ctx, "second")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestAdmit(t *testing.T) {
	plain := Func(func(context.Context, string) (string, error) { return "ok", nil })
	o, err := Admit(context.Background(), plain, "p")
	require.NoError(t, err)
	resp, err := o.Query(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestLimited_AdmitWaitsOnCallerContext(t *testing.T) {
	var calls atomic.Int32
	o := NewLimited(Func(func(ctx context.Context, _ string) (string, error) {
		calls.Add(1)
		return "ok", ctx.Err()
	}), 10, 1)

	_, err := o.Query(context.Background(), "first")
	require.NoError(t, err)

	// The second token arrives after ~100ms; the admitted oracle then runs
	// under its own short deadline.
	next, err := Admit(context.Background(), o, "second")
	require.NoError(t, err)

	callCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	resp, err := next.Query(callCtx, "second")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCached_HitSkipsLimiter(t *testing.T) {
	var calls atomic.Int32
	c := NewCached(NewLimited(Func(func(context.Context, string) (string, error) {
		calls.Add(1)
		return "[]", nil
	}), 0.001, 1))

	_, err := c.Query(context.Background(), "p")
	require.NoError(t, err)

	// No token is left; a hit must not wait for one.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	resp, err := c.Query(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "[]", resp)

	_, err = c.Query(ctx, "miss")
	assert.Error(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Hits())
}

func TestCached_Query(t *testing.T) {
	var calls atomic.Int32
	c := NewCached(Func(func(_ context.Context, prompt string) (string, error) {
		calls.Add(1)
		return "answer:" + prompt, nil
	}))

	for i := 0; i < 3; i++ {
		resp, err := c.Query(context.Background(), "same prompt")
		require.NoError(t, err)
		assert.Equal(t, "answer:same prompt", resp)
	}
	resp, err := c.Query(context.Background(), "other prompt")
	require.NoError(t, err)
	assert.Equal(t, "answer:other prompt", resp)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, c.Hits())
}

func TestCached_ErrorsNotCached(t *testing.T) {
	var calls atomic.Int32
	c := NewCached(Func(func(context.Context, string) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("timeout")
		}
		return "[]", nil
	}))

	_, err := c.Query(context.Background(), "p")
	require.Error(t, err)

	resp, err := c.Query(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "[]", resp)
	assert.Equal(t, 0, c.Hits())
}

func TestCached_Concurrent(t *testing.T) {
	c := NewCached(Func(func(_ context.Context, prompt string) (string, error) {
		return prompt, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := fmt.Sprintf("prompt-%d", i%5)
			resp, err := c.Query(context.Background(), p)
			assert.NoError(t, err)
			assert.Equal(t, p, resp)
		}(i)
	}
	wg.Wait()
}
