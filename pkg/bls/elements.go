package bls

import (
	"runtime"

	"github.com/zmlAEQ/bls-signatures/internal/engine"
)

// G1Element is a point in G1, used as a public key.
type G1Element struct {
	res *resource
}

func newG1(h engine.Handle) *G1Element { return &G1Element{res: newResource(h)} }

// G1FromBytes decodes a 48-byte public key.
func G1FromBytes(b []byte, enc Encoding) (*G1Element, error) {
	if err := checkSize("G1 element", b, G1Size); err != nil {
		return nil, err
	}
	h, err := call("g1_from_bytes", func(didErr *bool) engine.Handle {
		return engine.G1FromBytes(b, enc.legacy(), didErr)
	})
	if err != nil {
		return nil, err
	}
	return newG1(h), nil
}

// G1Generator returns the group generator.
func G1Generator() *G1Element { return newG1(engine.G1Generator()) }

// Serialize encodes the point under enc.
func (p *G1Element) Serialize(enc Encoding) []byte {
	defer runtime.KeepAlive(p)
	return engine.G1Serialize(p.res.handle(), enc.legacy())
}

func (p *G1Element) Equal(o *G1Element) bool {
	defer runtime.KeepAlive(p)
	defer runtime.KeepAlive(o)
	return engine.G1IsEqual(p.res.handle(), o.res.handle())
}

// Fingerprint is the big-endian value of the first four bytes of SHA-256
// over the encoded point.
func (p *G1Element) Fingerprint(enc Encoding) uint32 {
	defer runtime.KeepAlive(p)
	return engine.G1Fingerprint(p.res.handle(), enc.legacy())
}

// Add returns p + o.
func (p *G1Element) Add(o *G1Element) *G1Element {
	out, err := aggregateG1([]*G1Element{p, o})
	if err != nil {
		panic(err)
	}
	return out
}

// Mul returns p·sk.
func (p *G1Element) Mul(sk *PrivateKey) *G1Element {
	defer runtime.KeepAlive(p)
	defer runtime.KeepAlive(sk)
	return newG1(engine.G1Mul(p.res.handle(), sk.res.handle()))
}

// DeriveChildUnhardened mirrors PrivateKey.DeriveChildUnhardened.
func (p *G1Element) DeriveChildUnhardened(index uint32) *G1Element {
	defer runtime.KeepAlive(p)
	return newG1(engine.DeriveChildPkUnhardened(p.res.handle(), index))
}

// Clone returns an independent copy of the point.
func (p *G1Element) Clone() *G1Element {
	out, err := G1FromBytes(p.Serialize(Current), Current)
	if err != nil {
		panic(err)
	}
	return out
}

func (p *G1Element) Close() { p.res.release() }

func aggregateG1(pks []*G1Element) (*G1Element, error) {
	if len(pks) == 0 {
		return nil, ErrEmptyAggregate
	}
	defer runtime.KeepAlive(pks)
	hs := make([]engine.Handle, len(pks))
	for i, pk := range pks {
		hs[i] = pk.res.handle()
	}
	h, err := call("g1_aggregate", func(didErr *bool) engine.Handle {
		return engine.G1Add(hs, didErr)
	})
	if err != nil {
		return nil, err
	}
	return newG1(h), nil
}

// G2Element is a point in G2, used as a signature.
type G2Element struct {
	res *resource
}

func newG2(h engine.Handle) *G2Element { return &G2Element{res: newResource(h)} }

// G2FromBytes decodes a 96-byte signature.
func G2FromBytes(b []byte, enc Encoding) (*G2Element, error) {
	if err := checkSize("G2 element", b, G2Size); err != nil {
		return nil, err
	}
	h, err := call("g2_from_bytes", func(didErr *bool) engine.Handle {
		return engine.G2FromBytes(b, enc.legacy(), didErr)
	})
	if err != nil {
		return nil, err
	}
	return newG2(h), nil
}

// G2Generator returns the group generator.
func G2Generator() *G2Element { return newG2(engine.G2Generator()) }

func (s *G2Element) Serialize(enc Encoding) []byte {
	defer runtime.KeepAlive(s)
	return engine.G2Serialize(s.res.handle(), enc.legacy())
}

func (s *G2Element) Equal(o *G2Element) bool {
	defer runtime.KeepAlive(s)
	defer runtime.KeepAlive(o)
	return engine.G2IsEqual(s.res.handle(), o.res.handle())
}

// Add returns s + o.
func (s *G2Element) Add(o *G2Element) *G2Element {
	out, err := aggregateG2([]*G2Element{s, o})
	if err != nil {
		panic(err)
	}
	return out
}

// Mul returns s·sk.
func (s *G2Element) Mul(sk *PrivateKey) *G2Element {
	defer runtime.KeepAlive(s)
	defer runtime.KeepAlive(sk)
	return newG2(engine.G2Mul(s.res.handle(), sk.res.handle()))
}

func (s *G2Element) Clone() *G2Element {
	out, err := G2FromBytes(s.Serialize(Current), Current)
	if err != nil {
		panic(err)
	}
	return out
}

func (s *G2Element) Close() { s.res.release() }

func aggregateG2(sigs []*G2Element) (*G2Element, error) {
	if len(sigs) == 0 {
		return nil, ErrEmptyAggregate
	}
	defer runtime.KeepAlive(sigs)
	hs := make([]engine.Handle, len(sigs))
	for i, sig := range sigs {
		hs[i] = sig.res.handle()
	}
	h, err := call("g2_aggregate", func(didErr *bool) engine.Handle {
		return engine.G2Add(hs, didErr)
	})
	if err != nil {
		return nil, err
	}
	return newG2(h), nil
}
