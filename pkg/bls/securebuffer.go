package bls

import (
	"runtime"
	"sync"

	"github.com/zmlAEQ/bls-signatures/internal/engine"
)

// noCopy lets go vet's copylocks check flag SecureBuffer values being copied.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// SecureBuffer holds secret bytes in memory obtained from the engine's
// secure allocator. The contents are zeroed when the buffer is closed.
// Duplicates are only made through Clone.
type SecureBuffer struct {
	_    noCopy
	once sync.Once
	buf  []byte
}

func newSecureBuffer(b []byte) *SecureBuffer {
	s := &SecureBuffer{buf: b}
	runtime.SetFinalizer(s, (*SecureBuffer).Close)
	return s
}

// NewSecureBuffer copies b into secure memory. The caller still owns b.
func NewSecureBuffer(b []byte) *SecureBuffer {
	out := engine.SecAlloc(len(b))
	copy(out, b)
	return newSecureBuffer(out)
}

// Bytes returns a view that is valid until Close.
func (s *SecureBuffer) Bytes() []byte {
	if s.buf == nil {
		panic(ErrClosed)
	}
	return s.buf
}

func (s *SecureBuffer) Len() int { return len(s.buf) }

// Clone returns an independent copy in fresh secure memory.
func (s *SecureBuffer) Clone() *SecureBuffer { return NewSecureBuffer(s.Bytes()) }

// Close zeroes and releases the memory. Calling it again has no effect.
func (s *SecureBuffer) Close() {
	s.once.Do(func() {
		runtime.SetFinalizer(s, nil)
		engine.SecFree(s.buf)
		s.buf = nil
	})
}
