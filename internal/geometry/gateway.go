package geometry

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Engine is the activation surface of a 2-D primitives library.
// Implementations are supplied by the library vendor; Planar is the
// in-process reference engine.
type Engine interface {
	Activate(key string)
	ActivationState() bool
	LastErrorCode() int
}

// Gateway guards the lazy, once-only activation of an Engine.
// One Gateway is shared by every figure of an application or session.
type Gateway struct {
	engine Engine
	log    *slog.Logger

	mu          sync.Mutex
	active      atomic.Bool
	activations atomic.Int64
}

// NewGateway wraps engine. A nil logger discards output.
func NewGateway(engine Engine, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gateway{engine: engine, log: log}
}

// ActivationState reports whether the engine has been activated.
func (g *Gateway) ActivationState() bool {
	if g.active.Load() {
		return true
	}
	return g.engine.ActivationState()
}

// EnsureActive activates the engine with key unless it is already active.
// Concurrent callers racing on first use produce a single Activate call
// on the engine; all of them observe the resulting state. A failed
// activation is recorded in LastErrorCode and may be retried by a later call.
func (g *Gateway) EnsureActive(key string) bool {
	if g.active.Load() {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active.Load() {
		return true
	}
	if g.engine.ActivationState() {
		g.active.Store(true)
		return true
	}

	g.activations.Add(1)
	g.engine.Activate(key)
	if !g.engine.ActivationState() {
		g.log.Warn("geometry engine activation failed", "error_code", g.engine.LastErrorCode())
		return false
	}
	g.active.Store(true)
	g.log.Info("geometry engine activated")
	return true
}

// LastErrorCode surfaces the engine's most recent activation failure.
func (g *Gateway) LastErrorCode() int {
	return g.engine.LastErrorCode()
}

// Activations returns how many activation calls reached the engine.
func (g *Gateway) Activations() int64 {
	return g.activations.Load()
}
