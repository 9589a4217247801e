package engine

import (
	"bytes"

	blst "github.com/supranational/blst/bindings/go"
)

// IDSize is the size of a threshold participant id.
const IDSize = 32

func scalarFromInt(v uint64) *blst.Scalar {
	var buf [PrivateKeySize]byte
	for i := PrivateKeySize - 1; v > 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	var s blst.Scalar
	_ = s.FromBEndian(buf[:])
	return &s
}

func idScalar(id []byte) (*blst.Scalar, string) {
	if len(id) != IDSize {
		return nil, "threshold id must be 32 bytes"
	}
	r := reduce(id)
	if isZero(r[:]) {
		return nil, "threshold id must not be zero mod r"
	}
	var s blst.Scalar
	_ = s.FromBEndian(r[:])
	return &s, ""
}

func cloneScalar(s *blst.Scalar) *blst.Scalar {
	var out blst.Scalar
	_ = out.FromBEndian(s.Serialize())
	return &out
}

// evalPoly computes Σ coeffs[j]·x^j.
func evalPoly(coeffs []*blst.Scalar, x *blst.Scalar) (*blst.Scalar, bool) {
	acc := scalarFromInt(0)
	pow := scalarFromInt(1)
	for _, c := range coeffs {
		term, ok := c.Mul(pow)
		if !ok {
			return nil, false
		}
		if _, ok := acc.AddAssign(term); !ok {
			return nil, false
		}
		if pow, ok = pow.Mul(x); !ok {
			return nil, false
		}
	}
	return acc, true
}

func powers(x *blst.Scalar, n int) ([]*blst.Scalar, bool) {
	out := make([]*blst.Scalar, n)
	pow := scalarFromInt(1)
	for j := range out {
		out[j] = pow
		var ok bool
		if pow, ok = pow.Mul(x); !ok {
			return nil, false
		}
	}
	return out, true
}

// lagrangeAtZero computes λ_i(0) over the interpolation points xs.
func lagrangeAtZero(i int, xs []*blst.Scalar) (*blst.Scalar, bool) {
	num := scalarFromInt(1)
	den := scalarFromInt(1)
	zero := scalarFromInt(0)
	for j, xj := range xs {
		if j == i {
			continue
		}
		neg, ok := zero.Sub(xj)
		if !ok {
			return nil, false
		}
		if num, ok = num.Mul(neg); !ok {
			return nil, false
		}
		diff, ok := xs[i].Sub(xj)
		if !ok {
			return nil, false
		}
		if den, ok = den.Mul(diff); !ok {
			return nil, false
		}
	}
	return num.Mul(den.Inverse())
}

func lagrangeCoeffs(ids [][]byte, n int, didErr *bool) []*blst.Scalar {
	if n == 0 || len(ids) != n {
		fail(didErr, "number of shares must match number of ids and be at least 1")
		return nil
	}
	xs := make([]*blst.Scalar, n)
	for i, id := range ids {
		x, msg := idScalar(id)
		if x == nil {
			fail(didErr, msg)
			return nil
		}
		for _, prev := range xs[:i] {
			if bytes.Equal(prev.Serialize(), x.Serialize()) {
				fail(didErr, "duplicate threshold id")
				return nil
			}
		}
		xs[i] = x
	}
	out := make([]*blst.Scalar, n)
	for i := range xs {
		l, ok := lagrangeAtZero(i, xs)
		if !ok {
			fail(didErr, "lagrange coefficient is undefined")
			return nil
		}
		out[i] = l
	}
	return out
}

// ThresholdPrivateKeyShare evaluates the polynomial with coefficients sks at id.
func ThresholdPrivateKeyShare(sks []Handle, id []byte, didErr *bool) Handle {
	enter()
	*didErr = false
	if len(sks) == 0 {
		return fail(didErr, "polynomial must have at least one coefficient")
	}
	x, msg := idScalar(id)
	if x == nil {
		return fail(didErr, msg)
	}
	coeffs := make([]*blst.Scalar, len(sks))
	for i, h := range sks {
		coeffs[i] = secretKey(h)
	}
	share, ok := evalPoly(coeffs, x)
	if !ok {
		return fail(didErr, "share evaluation failed")
	}
	return put(share)
}

// ThresholdPublicKeyShare evaluates the G1 commitment polynomial at id.
func ThresholdPublicKeyShare(pks []Handle, id []byte, didErr *bool) Handle {
	enter()
	*didErr = false
	if len(pks) == 0 {
		return fail(didErr, "polynomial must have at least one coefficient")
	}
	x, msg := idScalar(id)
	if x == nil {
		return fail(didErr, msg)
	}
	pows, ok := powers(x, len(pks))
	if !ok {
		return fail(didErr, "share evaluation failed")
	}
	acc := new(blst.P1)
	for j, h := range pks {
		var p blst.P1
		p.FromAffine(g1(h))
		acc.AddAssign(p.Mult(pows[j]))
	}
	return put(acc.ToAffine())
}

// ThresholdSignatureShare evaluates the G2 polynomial at id.
func ThresholdSignatureShare(sigs []Handle, id []byte, didErr *bool) Handle {
	enter()
	*didErr = false
	if len(sigs) == 0 {
		return fail(didErr, "polynomial must have at least one coefficient")
	}
	x, msg := idScalar(id)
	if x == nil {
		return fail(didErr, msg)
	}
	pows, ok := powers(x, len(sigs))
	if !ok {
		return fail(didErr, "share evaluation failed")
	}
	acc := new(blst.P2)
	for j, h := range sigs {
		var p blst.P2
		p.FromAffine(g2(h))
		acc.AddAssign(p.Mult(pows[j]))
	}
	return put(acc.ToAffine())
}

// ThresholdPrivateKeyRecover interpolates the secret at zero.
func ThresholdPrivateKeyRecover(sks []Handle, ids [][]byte, didErr *bool) Handle {
	enter()
	*didErr = false
	ls := lagrangeCoeffs(ids, len(sks), didErr)
	if ls == nil {
		return 0
	}
	acc := scalarFromInt(0)
	for i, h := range sks {
		term, ok := cloneScalar(secretKey(h)).Mul(ls[i])
		if !ok {
			return fail(didErr, "share recovery failed")
		}
		if _, ok := acc.AddAssign(term); !ok {
			return fail(didErr, "share recovery failed")
		}
	}
	return put(acc)
}

// ThresholdPublicKeyRecover interpolates the public key at zero.
func ThresholdPublicKeyRecover(pks []Handle, ids [][]byte, didErr *bool) Handle {
	enter()
	*didErr = false
	ls := lagrangeCoeffs(ids, len(pks), didErr)
	if ls == nil {
		return 0
	}
	acc := new(blst.P1)
	for i, h := range pks {
		var p blst.P1
		p.FromAffine(g1(h))
		acc.AddAssign(p.Mult(ls[i]))
	}
	return put(acc.ToAffine())
}

// ThresholdSignatureRecover interpolates the signature at zero.
func ThresholdSignatureRecover(sigs []Handle, ids [][]byte, didErr *bool) Handle {
	enter()
	*didErr = false
	ls := lagrangeCoeffs(ids, len(sigs), didErr)
	if ls == nil {
		return 0
	}
	acc := new(blst.P2)
	for i, h := range sigs {
		var p blst.P2
		p.FromAffine(g2(h))
		acc.AddAssign(p.Mult(ls[i]))
	}
	return put(acc.ToAffine())
}
