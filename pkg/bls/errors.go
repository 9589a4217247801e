package bls

import (
	"errors"
	"fmt"
)

var (
	// ErrSeedTooShort is returned when key generation gets fewer than 32 bytes.
	ErrSeedTooShort = errors.New("seed size must be at least 32 bytes")
	// ErrEmptyAggregate is returned when aggregating zero elements.
	ErrEmptyAggregate = errors.New("nothing to aggregate")
	// ErrLengthMismatch is returned when parallel inputs differ in length.
	ErrLengthMismatch = errors.New("public keys and messages differ in length")
	// ErrClosed is the panic value for use of a wrapper after Close.
	ErrClosed = errors.New("bls: use of closed object")
)

// SizeMismatchError reports input of the wrong length. It is produced before
// any engine call.
type SizeMismatchError struct {
	Kind     string
	Expected int
	Actual   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d bytes, got %d", e.Kind, e.Expected, e.Actual)
}

func checkSize(kind string, b []byte, want int) error {
	if len(b) != want {
		return &SizeMismatchError{Kind: kind, Expected: want, Actual: len(b)}
	}
	return nil
}

// EngineError carries the diagnostic reported by the curve engine.
type EngineError struct {
	Op  string
	Msg string
}

func (e *EngineError) Error() string {
	if e.Op == "" {
		return "bls engine: " + e.Msg
	}
	return "bls engine: " + e.Op + ": " + e.Msg
}
