package hd

import (
	"crypto/subtle"

	"github.com/zmlAEQ/bls-signatures/pkg/bls"
)

// ChainCodeSize is the size of a chain code.
const ChainCodeSize = 32

// ChainCode is the extra entropy carried by every node of the tree.
type ChainCode [ChainCodeSize]byte

// ChainCodeFromBytes copies exactly 32 bytes into a ChainCode.
func ChainCodeFromBytes(b []byte) (ChainCode, error) {
	var cc ChainCode
	if len(b) != ChainCodeSize {
		return cc, &bls.SizeMismatchError{Kind: "chain code", Expected: ChainCodeSize, Actual: len(b)}
	}
	copy(cc[:], b)
	return cc, nil
}

func (c ChainCode) Serialize() []byte { return append([]byte(nil), c[:]...) }

func (c ChainCode) Equal(o ChainCode) bool { return subtle.ConstantTimeCompare(c[:], o[:]) == 1 }
