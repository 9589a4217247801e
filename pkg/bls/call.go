package bls

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/zmlAEQ/bls-signatures/internal/engine"
	"github.com/zmlAEQ/bls-signatures/pkg/logger"
	"github.com/zmlAEQ/bls-signatures/pkg/metrics"
)

// callMu serializes a fallible engine call together with the read of the
// engine's shared last-error slot.
var callMu sync.Mutex

func call[T any](op string, fn func(didErr *bool) T) (T, error) {
	out, msg, failed := locked(fn)
	if !failed {
		return out, nil
	}
	metrics.Inc("bls_engine_errors_total", map[string]string{"op": op})
	logger.WarnJ("bls_engine", map[string]any{"op": op, "result": "error", "err": msg})
	var zero T
	return zero, &EngineError{Op: op, Msg: msg}
}

// locked runs fn and copies the engine diagnostic under callMu. The lock is
// released even if fn panics.
func locked[T any](fn func(didErr *bool) T) (out T, msg string, didErr bool) {
	callMu.Lock()
	defer callMu.Unlock()
	out = fn(&didErr)
	if didErr {
		msg = engine.LastErrorMsg()
	}
	return out, msg, didErr
}

// resource owns exactly one engine handle.
type resource struct {
	h      engine.Handle
	once   sync.Once
	closed atomic.Bool
}

func newResource(h engine.Handle) *resource {
	r := &resource{h: h}
	metrics.SetGauge("bls_handles_open", nil, int64(engine.Live()))
	runtime.SetFinalizer(r, (*resource).release)
	return r
}

func (r *resource) handle() engine.Handle {
	if r == nil || r.closed.Load() {
		panic(ErrClosed)
	}
	return r.h
}

func (r *resource) release() {
	r.once.Do(func() {
		r.closed.Store(true)
		runtime.SetFinalizer(r, nil)
		engine.Free(r.h)
		metrics.SetGauge("bls_handles_open", nil, int64(engine.Live()))
	})
}

// LiveHandles reports how many engine objects are currently allocated.
func LiveHandles() int { return engine.Live() }
