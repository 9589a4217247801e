package engine

import (
	blst "github.com/supranational/blst/bindings/go"
)

type schemeCtx struct {
	dst    []byte
	popDST []byte
}

// NewScheme allocates a signing context bound to a domain separation tag.
// popDST may be empty for schemes without proofs of possession.
func NewScheme(dst, popDST string) Handle {
	enter()
	return put(&schemeCtx{dst: []byte(dst), popDST: []byte(popDST)})
}

// Sign hashes msg to G2 under the scheme's tag and multiplies by sk.
func Sign(s, sk Handle, msg []byte) Handle {
	enter()
	return put(new(blst.P2Affine).Sign(secretKey(sk), msg, scheme(s).dst))
}

// Verify checks one signature. Infinity public keys never verify.
func Verify(s, pk Handle, msg []byte, sig Handle) bool {
	enter()
	return g2(sig).Verify(false, g1(pk), true, msg, scheme(s).dst)
}

// AggregateVerify checks sig against n (pk, msg) pairs. Callers are
// responsible for any augmentation and for matching lengths.
func AggregateVerify(s Handle, pks []Handle, msgs [][]byte, sig Handle) bool {
	enter()
	if len(pks) == 0 || len(pks) != len(msgs) {
		return false
	}
	pts := make([]*blst.P1Affine, len(pks))
	for i, h := range pks {
		pts[i] = g1(h)
	}
	return g2(sig).AggregateVerify(false, pts, true, msgs, scheme(s).dst)
}

// FastAggregateVerify checks sig against many signers of a single message.
func FastAggregateVerify(s Handle, pks []Handle, msg []byte, sig Handle) bool {
	enter()
	if len(pks) == 0 {
		return false
	}
	pts := make([]*blst.P1Affine, len(pks))
	for i, h := range pks {
		pts[i] = g1(h)
	}
	return g2(sig).FastAggregateVerify(false, pts, msg, scheme(s).dst)
}

// PopProve signs the compressed public key of sk under the proof tag.
func PopProve(s, sk Handle) Handle {
	enter()
	k := secretKey(sk)
	pk := new(blst.P1Affine).From(k).Compress()
	return put(new(blst.P2Affine).Sign(k, pk, scheme(s).popDST))
}

// PopVerify checks a proof of possession for pk.
func PopVerify(s, pk Handle, proof Handle) bool {
	enter()
	p := g1(pk)
	return g2(proof).Verify(false, p, true, p.Compress(), scheme(s).popDST)
}
