//go:build unix

package engine

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

var secLive atomic.Int64

// SecAlloc returns n bytes of anonymous memory kept out of swap where the
// platform allows it. The slice must be released with SecFree.
func SecAlloc(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		panic(fmt.Sprintf("engine: secure allocation of %d bytes: %v", n, err))
	}
	// mlock can fail under RLIMIT_MEMLOCK; the pages are still private.
	_ = unix.Mlock(b)
	secLive.Add(1)
	return b
}

// SecFree zeroes and releases memory obtained from SecAlloc.
func SecFree(b []byte) {
	if cap(b) == 0 {
		return
	}
	b = b[:cap(b)]
	wipe(b)
	_ = unix.Munlock(b)
	if err := unix.Munmap(b); err != nil {
		panic(fmt.Sprintf("engine: secure free: %v", err))
	}
	secLive.Add(-1)
}

// SecLive reports the number of outstanding secure allocations.
func SecLive() int64 { return secLive.Load() }
