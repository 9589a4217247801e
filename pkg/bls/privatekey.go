package bls

import (
	"runtime"

	"github.com/zmlAEQ/bls-signatures/internal/engine"
)

// PrivateKey is a secret scalar owned by the engine. The scalar is zeroized
// when the key is closed.
type PrivateKey struct {
	res *resource
}

func newPrivateKey(h engine.Handle) *PrivateKey { return &PrivateKey{res: newResource(h)} }

// PrivateKeyFromBytes loads a 32-byte big-endian scalar. With modOrder set
// values at or above the group order are reduced; otherwise they fail.
func PrivateKeyFromBytes(b []byte, modOrder bool) (*PrivateKey, error) {
	if err := checkSize("private key", b, PrivateKeySize); err != nil {
		return nil, err
	}
	h, err := call("private_key_from_bytes", func(didErr *bool) engine.Handle {
		return engine.PrivateKeyFromBytes(b, modOrder, didErr)
	})
	if err != nil {
		return nil, err
	}
	return newPrivateKey(h), nil
}

// PrivateKeyFromSeedBIP32 derives a key from an arbitrary-length seed with
// HMAC-SHA256, reduced modulo the group order.
func PrivateKeyFromSeedBIP32(seed []byte) (*PrivateKey, error) {
	h, err := call("private_key_from_seed_bip32", func(didErr *bool) engine.Handle {
		return engine.PrivateKeyFromSeedBIP32(seed, didErr)
	})
	if err != nil {
		return nil, err
	}
	return newPrivateKey(h), nil
}

// AggregatePrivateKeys returns the scalar sum of sks.
func AggregatePrivateKeys(sks []*PrivateKey) (*PrivateKey, error) {
	if len(sks) == 0 {
		return nil, ErrEmptyAggregate
	}
	defer runtime.KeepAlive(sks)
	hs := make([]engine.Handle, len(sks))
	for i, sk := range sks {
		hs[i] = sk.res.handle()
	}
	h, err := call("private_key_aggregate", func(didErr *bool) engine.Handle {
		return engine.PrivateKeyAggregate(hs, didErr)
	})
	if err != nil {
		return nil, err
	}
	return newPrivateKey(h), nil
}

// Serialize returns the 32-byte scalar in secure memory. The caller closes
// the buffer.
func (k *PrivateKey) Serialize() *SecureBuffer {
	defer runtime.KeepAlive(k)
	return newSecureBuffer(engine.PrivateKeySerialize(k.res.handle()))
}

// Clone returns an independent key with the same scalar.
func (k *PrivateKey) Clone() *PrivateKey {
	buf := k.Serialize()
	defer buf.Close()
	out, err := PrivateKeyFromBytes(buf.Bytes(), false)
	if err != nil {
		panic(err)
	}
	return out
}

// G1Element returns the public key of k.
func (k *PrivateKey) G1Element() *G1Element {
	defer runtime.KeepAlive(k)
	return newG1(engine.PrivateKeyG1(k.res.handle()))
}

// Equal compares scalars in constant time.
func (k *PrivateKey) Equal(o *PrivateKey) bool {
	defer runtime.KeepAlive(k)
	defer runtime.KeepAlive(o)
	return engine.PrivateKeyIsEqual(k.res.handle(), o.res.handle())
}

// MulG1 returns pk·k; it equals pk.Mul(k).
func (k *PrivateKey) MulG1(pk *G1Element) *G1Element {
	defer runtime.KeepAlive(k)
	defer runtime.KeepAlive(pk)
	return newG1(engine.PrivateKeyMulG1(k.res.handle(), pk.res.handle()))
}

// DeriveChild derives a hardened child with the EIP-2333 tree.
func (k *PrivateKey) DeriveChild(index uint32) *PrivateKey {
	defer runtime.KeepAlive(k)
	return newPrivateKey(engine.DeriveChildSk(k.res.handle(), index))
}

// DeriveChildUnhardened derives a child whose public key can also be
// computed from the parent public key with G1Element.DeriveChildUnhardened.
func (k *PrivateKey) DeriveChildUnhardened(index uint32) *PrivateKey {
	defer runtime.KeepAlive(k)
	return newPrivateKey(engine.DeriveChildSkUnhardened(k.res.handle(), index))
}

// Close zeroizes and frees the scalar. Further use panics with ErrClosed.
func (k *PrivateKey) Close() { k.res.release() }
