package engine

import (
	blst "github.com/supranational/blst/bindings/go"
)

// Flag bits of the leading byte of a compressed point.
const (
	flagCompressed = 0x80
	flagInfinity   = 0x40
	flagSign       = 0x20
	flagMask       = 0xe0

	legacySign     = 0x80
	legacyInfinity = 0xc0
)

const fpSize = 48

// G1 legacy form keeps the x coordinate and carries the sign of y in the top
// bit without a compression marker.
func encodeG1(p *blst.P1Affine, legacy bool) []byte {
	out := p.Compress()
	if !legacy || out[0]&flagInfinity != 0 {
		return out
	}
	sign := out[0]&flagSign != 0
	out[0] &^= flagMask
	if sign {
		out[0] |= legacySign
	}
	return out
}

func decodeG1(b []byte, legacy bool) (*blst.P1Affine, string) {
	in := make([]byte, G1Size)
	copy(in, b)
	switch {
	case in[0]&legacyInfinity == legacyInfinity:
		if in[0] != legacyInfinity || !isZero(in[1:]) {
			return nil, "G1 infinity element has non-zero payload"
		}
	case legacy:
		if in[0]&0x60 != 0 {
			return nil, "Given G1 legacy element has reserved bits set"
		}
		sign := in[0]&legacySign != 0
		in[0] = in[0]&^flagMask | flagCompressed
		if sign {
			in[0] |= flagSign
		}
	default:
		if in[0]&flagCompressed == 0 {
			return nil, "Given G1 non-infinity element must start with 0b10"
		}
	}
	p := new(blst.P1Affine).Uncompress(in)
	if p == nil {
		return nil, "G1 element is invalid"
	}
	if !p.InG1() {
		return nil, "G1 element is not in the subgroup"
	}
	return p, ""
}

// G2 legacy form stores the coordinate halves in engine order (c0 then c1)
// with the sign of y in the top bit of the first byte.
func encodeG2(p *blst.P2Affine, legacy bool) []byte {
	cur := p.Compress()
	if !legacy || cur[0]&flagInfinity != 0 {
		return cur
	}
	sign := cur[0]&flagSign != 0
	cur[0] &^= flagMask
	out := make([]byte, 0, G2Size)
	out = append(out, cur[fpSize:]...)
	out = append(out, cur[:fpSize]...)
	if sign {
		out[0] |= legacySign
	}
	return out
}

func decodeG2(b []byte, legacy bool) (*blst.P2Affine, string) {
	in := make([]byte, G2Size)
	copy(in, b)
	switch {
	case in[0]&legacyInfinity == legacyInfinity:
		if in[0] != legacyInfinity || !isZero(in[1:]) {
			return nil, "G2 infinity element has non-zero payload"
		}
	case legacy:
		if in[0]&0x60 != 0 || in[fpSize]&flagMask != 0 {
			return nil, "Given G2 legacy element has reserved bits set"
		}
		sign := in[0]&legacySign != 0
		in[0] &^= flagMask
		swapped := make([]byte, 0, G2Size)
		swapped = append(swapped, in[fpSize:]...)
		swapped = append(swapped, in[:fpSize]...)
		in = swapped
		in[0] |= flagCompressed
		if sign {
			in[0] |= flagSign
		}
	default:
		if in[0]&flagCompressed == 0 {
			return nil, "Given G2 non-infinity element must start with 0b10"
		}
	}
	p := new(blst.P2Affine).Uncompress(in)
	if p == nil {
		return nil, "G2 element is invalid"
	}
	if !p.InG2() {
		return nil, "G2 element is not in the subgroup"
	}
	return p, ""
}
