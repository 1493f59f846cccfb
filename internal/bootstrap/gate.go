// Package bootstrap gates request handling on a one-time schema migration.
//
// A Gate starts Uninitialized. The first EnsureReady call runs the migrator
// while concurrent callers wait for that same outcome; the result is then
// memoized for the life of the process. A failure is terminal: the migrator
// is never invoked again and every caller receives the original error.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"todo_api/internal/domain"
	"todo_api/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateInitialized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

var initState = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "todo_init_state",
	Help: "Initialization state: 0 uninitialized, 1 initializing, 2 initialized, 3 failed",
})

// Migrator brings the record store schema up to date
type Migrator interface {
	Run(ctx context.Context) error
}

// MigratorFunc adapts a function to Migrator
type MigratorFunc func(ctx context.Context) error

func (f MigratorFunc) Run(ctx context.Context) error { return f(ctx) }

type Option func(*Gate)

// WithTimeout bounds the migration run. The run does not inherit the
// initiating caller's cancellation, so this is its only deadline.
func WithTimeout(d time.Duration) Option {
	return func(g *Gate) { g.timeout = d }
}

type Gate struct {
	migrator Migrator
	timeout  time.Duration

	// state is written under mu and read lock-free on the fast path
	state atomic.Int32

	mu   sync.Mutex
	err  *domain.InitError
	done chan struct{}
}

func NewGate(m Migrator, opts ...Option) *Gate {
	g := &Gate{migrator: m}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current initialization state
func (g *Gate) State() State {
	return State(g.state.Load())
}

// Err returns the terminal failure, or nil unless the gate is Failed
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err == nil {
		return nil
	}
	return g.err
}

// EnsureReady returns nil once migrations have succeeded. The first caller
// runs them; callers arriving while they run block until the outcome is known
// or their own ctx ends. Once Failed, the stored *domain.InitError is returned
// without retrying.
func (g *Gate) EnsureReady(ctx context.Context) error {
	if g.State() == StateInitialized {
		return nil
	}

	g.mu.Lock()
	switch g.State() {
	case StateInitialized:
		g.mu.Unlock()
		return nil
	case StateFailed:
		err := g.err
		g.mu.Unlock()
		return err
	case StateInitializing:
		done := g.done
		g.mu.Unlock()
		select {
		case <-done:
			return g.outcome()
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	g.done = make(chan struct{})
	g.setState(StateInitializing)
	g.mu.Unlock()

	return g.initialize(ctx)
}

func (g *Gate) initialize(ctx context.Context) (err error) {
	// an aborted first request must not fail the gate for everyone else
	ctx = context.WithoutCancel(ctx)
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	logger.Info("initializing: running migrations")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = g.finish(fmt.Errorf("migration panicked: %v", r))
			return
		}
		err = g.finish(err)
		if err == nil {
			logger.Info("initialized", "duration_ms", time.Since(start).Milliseconds())
		}
	}()

	return g.migrator.Run(ctx)
}

// finish records the terminal state and releases waiters
func (g *Gate) finish(runErr error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var result error
	if runErr != nil {
		if errors.Is(runErr, context.DeadlineExceeded) {
			runErr = fmt.Errorf("migrations timed out: %w", runErr)
		}
		g.err = &domain.InitError{Cause: runErr}
		g.setState(StateFailed)
		logger.Error("initialization failed", "error", runErr)
		result = g.err
	} else {
		g.setState(StateInitialized)
	}
	close(g.done)
	return result
}

func (g *Gate) outcome() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.State() == StateFailed {
		return g.err
	}
	return nil
}

func (g *Gate) setState(s State) {
	g.state.Store(int32(s))
	initState.Set(float64(s))
}
