package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"math/big"

	blst "github.com/supranational/blst/bindings/go"
)

// curveOrder is the order r of the BLS12-381 prime subgroups.
var curveOrder, _ = new(big.Int).SetString("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

var bip32SeedKey = []byte("BLS private key seed")

// reduce maps a big-endian integer of any length into [0, r).
func reduce(b []byte) [PrivateKeySize]byte {
	var out [PrivateKeySize]byte
	n := new(big.Int).SetBytes(b)
	n.Mod(n, curveOrder)
	n.FillBytes(out[:])
	n.SetInt64(0)
	return out
}

func isZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}

// KeyGen runs the IETF KeyGen over seed. Seeds shorter than 32 bytes fail.
func KeyGen(seed []byte, didErr *bool) Handle {
	enter()
	*didErr = false
	if len(seed) < 32 {
		return fail(didErr, "seed size must be at least 32 bytes")
	}
	sk := blst.KeyGen(seed)
	if sk == nil {
		return fail(didErr, "key generation failed")
	}
	return put(sk)
}

// PrivateKeyFromBytes loads a 32-byte big-endian scalar. With modOrder the
// value is reduced mod r; otherwise values >= r are rejected.
func PrivateKeyFromBytes(b []byte, modOrder bool, didErr *bool) Handle {
	enter()
	*didErr = false
	if len(b) != PrivateKeySize {
		return fail(didErr, fmt.Sprintf("private key must be %d bytes, got %d", PrivateKeySize, len(b)))
	}
	in := b
	if modOrder {
		r := reduce(b)
		defer clear(r[:])
		in = r[:]
	}
	if isZero(in) {
		return fail(didErr, "private key must not be zero")
	}
	sk := new(blst.SecretKey).Deserialize(in)
	if sk == nil {
		return fail(didErr, "private key must be less than the group order")
	}
	return put(sk)
}

// PrivateKeyFromSeedBIP32 hashes seed with HMAC-SHA256 and reduces it mod r.
func PrivateKeyFromSeedBIP32(seed []byte, didErr *bool) Handle {
	enter()
	*didErr = false
	mac := hmac.New(sha256.New, bip32SeedKey)
	mac.Write(seed)
	digest := mac.Sum(nil)
	defer clear(digest)
	r := reduce(digest)
	defer clear(r[:])
	if isZero(r[:]) {
		return fail(didErr, "private key must not be zero")
	}
	return put(new(blst.SecretKey).Deserialize(r[:]))
}

// PrivateKeySerialize writes the scalar into a SecAlloc'd buffer that the
// caller releases with SecFree.
func PrivateKeySerialize(h Handle) []byte {
	enter()
	raw := secretKey(h).Serialize()
	out := SecAlloc(PrivateKeySize)
	copy(out, raw)
	clear(raw)
	return out
}

// PrivateKeyIsEqual compares two scalars in constant time.
func PrivateKeyIsEqual(a, b Handle) bool {
	enter()
	x, y := secretKey(a).Serialize(), secretKey(b).Serialize()
	defer clear(x)
	defer clear(y)
	return subtle.ConstantTimeCompare(x, y) == 1
}

// PrivateKeyG1 returns the public key G·sk.
func PrivateKeyG1(h Handle) Handle {
	enter()
	return put(new(blst.P1Affine).From(secretKey(h)))
}

// PrivateKeyAggregate sums the scalars behind hs.
func PrivateKeyAggregate(hs []Handle, didErr *bool) Handle {
	enter()
	*didErr = false
	if len(hs) == 0 {
		return fail(didErr, "need at least one private key")
	}
	first := secretKey(hs[0]).Serialize()
	defer clear(first)
	acc := new(blst.Scalar)
	acc.Deserialize(first)
	for _, h := range hs[1:] {
		if _, ok := acc.AddAssign(secretKey(h)); !ok {
			return fail(didErr, "aggregated private key is zero")
		}
	}
	return put(acc)
}

// PrivateKeyMulG1 returns pk·sk.
func PrivateKeyMulG1(sk, pk Handle) Handle {
	enter()
	return put(mulG1(g1(pk), secretKey(sk)))
}

// DeriveChildSk performs hardened EIP-2333 derivation.
func DeriveChildSk(h Handle, index uint32) Handle {
	enter()
	return put(secretKey(h).DeriveChildEip2333(index))
}

// DeriveChildSkUnhardened returns sk + H(pk || index) mod r.
func DeriveChildSkUnhardened(h Handle, index uint32) Handle {
	enter()
	sk := secretKey(h)
	pk := new(blst.P1Affine).From(sk)
	tweak := unhardenedTweak(pk, index)
	raw := sk.Serialize()
	defer clear(raw)
	child := new(blst.Scalar)
	child.Deserialize(raw)
	child.AddAssign(tweak)
	tweak.Zeroize()
	return put(child)
}

// DeriveChildPkUnhardened returns pk + G·H(pk || index), matching
// DeriveChildSkUnhardened on the private side.
func DeriveChildPkUnhardened(h Handle, index uint32) Handle {
	enter()
	pk := g1(h)
	tweak := unhardenedTweak(pk, index)
	var p blst.P1
	p.FromAffine(pk)
	p.AddAssign(blst.P1Generator().Mult(tweak))
	return put(p.ToAffine())
}

func unhardenedTweak(pk *blst.P1Affine, index uint32) *blst.Scalar {
	buf := make([]byte, 0, G1Size+4)
	buf = append(buf, pk.Compress()...)
	buf = binary.BigEndian.AppendUint32(buf, index)
	digest := sha256.Sum256(buf)
	r := reduce(digest[:])
	s := new(blst.Scalar).Deserialize(r[:])
	clear(r[:])
	if s == nil {
		// Only a zero digest mod r lands here.
		s = new(blst.Scalar)
	}
	return s
}

func mulG1(pk *blst.P1Affine, s *blst.Scalar) *blst.P1Affine {
	var p blst.P1
	p.FromAffine(pk)
	return p.Mult(s).ToAffine()
}
