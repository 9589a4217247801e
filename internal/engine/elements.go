package engine

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	blst "github.com/supranational/blst/bindings/go"
)

// G1FromBytes decodes a 48-byte public key in the requested encoding.
func G1FromBytes(b []byte, legacy bool, didErr *bool) Handle {
	enter()
	*didErr = false
	if len(b) != G1Size {
		return fail(didErr, fmt.Sprintf("G1 element must be %d bytes, got %d", G1Size, len(b)))
	}
	p, msg := decodeG1(b, legacy)
	if p == nil {
		return fail(didErr, msg)
	}
	return put(p)
}

// G1Generator returns the fixed G1 generator.
func G1Generator() Handle {
	enter()
	return put(blst.P1Generator().ToAffine())
}

// G1Serialize encodes the point in the requested encoding.
func G1Serialize(h Handle, legacy bool) []byte {
	enter()
	return encodeG1(g1(h), legacy)
}

func G1IsEqual(a, b Handle) bool {
	enter()
	return bytes.Equal(g1(a).Compress(), g1(b).Compress())
}

// G1Fingerprint is the first four bytes of SHA-256 over the encoded point.
func G1Fingerprint(h Handle, legacy bool) uint32 {
	enter()
	digest := sha256.Sum256(encodeG1(g1(h), legacy))
	return binary.BigEndian.Uint32(digest[:4])
}

// G1Add returns the sum of the points behind hs. An empty input fails.
func G1Add(hs []Handle, didErr *bool) Handle {
	enter()
	*didErr = false
	if len(hs) == 0 {
		return fail(didErr, "Number of public keys must be at least 1")
	}
	pts := make([]*blst.P1Affine, len(hs))
	for i, h := range hs {
		pts[i] = g1(h)
	}
	agg := new(blst.P1Aggregate)
	if !agg.Aggregate(pts, false) {
		return fail(didErr, "G1 aggregation failed")
	}
	return put(agg.ToAffine())
}

// G1Mul returns pk·sk.
func G1Mul(pk, sk Handle) Handle {
	enter()
	return put(mulG1(g1(pk), secretKey(sk)))
}

// G2FromBytes decodes a 96-byte signature in the requested encoding.
func G2FromBytes(b []byte, legacy bool, didErr *bool) Handle {
	enter()
	*didErr = false
	if len(b) != G2Size {
		return fail(didErr, fmt.Sprintf("G2 element must be %d bytes, got %d", G2Size, len(b)))
	}
	p, msg := decodeG2(b, legacy)
	if p == nil {
		return fail(didErr, msg)
	}
	return put(p)
}

// G2Generator returns the fixed G2 generator.
func G2Generator() Handle {
	enter()
	return put(blst.P2Generator().ToAffine())
}

func G2Serialize(h Handle, legacy bool) []byte {
	enter()
	return encodeG2(g2(h), legacy)
}

func G2IsEqual(a, b Handle) bool {
	enter()
	return bytes.Equal(g2(a).Compress(), g2(b).Compress())
}

// G2Add returns the sum of the signatures behind hs. An empty input fails.
func G2Add(hs []Handle, didErr *bool) Handle {
	enter()
	*didErr = false
	if len(hs) == 0 {
		return fail(didErr, "Number of signatures must be at least 1")
	}
	pts := make([]*blst.P2Affine, len(hs))
	for i, h := range hs {
		pts[i] = g2(h)
	}
	agg := new(blst.P2Aggregate)
	if !agg.Aggregate(pts, false) {
		return fail(didErr, "G2 aggregation failed")
	}
	return put(agg.ToAffine())
}

// G2Mul returns sig·sk.
func G2Mul(sig, sk Handle) Handle {
	enter()
	return put(mulG2(g2(sig), secretKey(sk)))
}

func mulG2(sig *blst.P2Affine, s *blst.Scalar) *blst.P2Affine {
	var p blst.P2
	p.FromAffine(sig)
	return p.Mult(s).ToAffine()
}
