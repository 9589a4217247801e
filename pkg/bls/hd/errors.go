package hd

import "github.com/pkg/errors"

var (
	// ErrHardenedIndex is returned when a hardened index is used where only
	// unhardened derivation is possible.
	ErrHardenedIndex = errors.New("hd: hardened index not allowed for public derivation")
	// ErrMaxDepth is returned when deriving below depth 255.
	ErrMaxDepth = errors.New("hd: cannot go further than 255 levels")
	// ErrInvalidMnemonic is returned for mnemonics that fail the BIP39 checksum.
	ErrInvalidMnemonic = errors.New("hd: invalid mnemonic")
	// ErrVersion is returned when decoding a key with an unknown version.
	ErrVersion = errors.New("hd: unsupported version")
)
