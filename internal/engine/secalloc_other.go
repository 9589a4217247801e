//go:build !unix

package engine

import "sync/atomic"

var secLive atomic.Int64

// SecAlloc returns n zeroed bytes from the Go heap. The slice must be
// released with SecFree.
func SecAlloc(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	secLive.Add(1)
	return make([]byte, n)
}

// SecFree zeroes memory obtained from SecAlloc.
func SecFree(b []byte) {
	if cap(b) == 0 {
		return
	}
	wipe(b[:cap(b)])
	secLive.Add(-1)
}

// SecLive reports the number of outstanding secure allocations.
func SecLive() int64 { return secLive.Load() }
