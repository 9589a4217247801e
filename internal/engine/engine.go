// Package engine is the native boundary of the library. It owns every curve
// object behind an opaque Handle and exposes the narrow call surface the
// wrappers in pkg/bls are allowed to use: constructors from bytes, point and
// scalar arithmetic, signing and pairing-backed verification, a secure
// allocator, and a single process-wide last-error slot.
//
// The arithmetic itself is delegated to blst. Nothing in this package knows
// about schemes' augmentation rules or HD trees.
//
// Fallible calls follow one pattern: the caller passes didErr; on failure the
// engine sets it, stores a diagnostic in the shared slot and returns the zero
// Handle. The slot is overwritten by the next failure, so callers must read
// it before issuing another fallible call.
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	blst "github.com/supranational/blst/bindings/go"
)

// Handle is an opaque reference to an engine-owned object. The zero Handle
// never refers to a live object.
type Handle uint64

// Sizes of serialized objects.
const (
	PrivateKeySize = blst.BLST_SCALAR_BYTES
	G1Size         = blst.BLST_P1_COMPRESS_BYTES
	G2Size         = blst.BLST_P2_COMPRESS_BYTES
)

var (
	objects = xsync.NewMapOf[Handle, any]()
	nextID  atomic.Uint64
	calls   atomic.Uint64

	errMu   sync.Mutex
	lastErr string
)

// LastErrorMsg returns the diagnostic stored by the most recent failed call.
func LastErrorMsg() string {
	errMu.Lock()
	defer errMu.Unlock()
	return lastErr
}

// Calls reports how many engine entry points have been invoked since start.
func Calls() uint64 { return calls.Load() }

// Live reports how many objects are currently allocated in the handle table.
func Live() int { return objects.Size() }

// Free releases the object behind h. Secret scalars are zeroized first.
// Freeing an unknown or already released handle is a programmer error.
func Free(h Handle) {
	enter()
	v, ok := objects.LoadAndDelete(h)
	if !ok {
		panic(fmt.Sprintf("engine: free of unknown handle %d", h))
	}
	switch o := v.(type) {
	case *blst.SecretKey:
		o.Zeroize()
	case *schemeCtx:
		o.dst = nil
		o.popDST = nil
	}
}

func enter() { calls.Add(1) }

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func fail(didErr *bool, msg string) Handle {
	errMu.Lock()
	lastErr = msg
	errMu.Unlock()
	*didErr = true
	return 0
}

func put(v any) Handle {
	h := Handle(nextID.Add(1))
	objects.Store(h, v)
	return h
}

func lookup[T any](h Handle, kind string) T {
	v, ok := objects.Load(h)
	if !ok {
		panic(fmt.Sprintf("engine: use of unknown %s handle %d", kind, h))
	}
	o, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("engine: handle %d is not a %s", h, kind))
	}
	return o
}

func secretKey(h Handle) *blst.SecretKey { return lookup[*blst.SecretKey](h, "private key") }
func g1(h Handle) *blst.P1Affine        { return lookup[*blst.P1Affine](h, "G1 element") }
func g2(h Handle) *blst.P2Affine        { return lookup[*blst.P2Affine](h, "G2 element") }
func scheme(h Handle) *schemeCtx        { return lookup[*schemeCtx](h, "scheme") }
