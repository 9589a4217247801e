package bls

import (
	"runtime"

	"github.com/zmlAEQ/bls-signatures/internal/engine"
	"github.com/zmlAEQ/bls-signatures/pkg/metrics"
)

// BasicScheme signs raw messages and rejects aggregates over repeated
// messages.
type BasicScheme struct{ *mpl }

func NewBasicScheme() *BasicScheme {
	return &BasicScheme{newMPL("basic", DSTBasic, "", Current, true, nil)}
}

// AugScheme prefixes every message with the signer's public key, which makes
// aggregates over repeated messages safe.
type AugScheme struct{ *mpl }

func NewAugScheme() *AugScheme {
	return &AugScheme{newMPL("augmented", DSTAug, "", Current, false, augmentWithPublicKey)}
}

func augmentWithPublicKey(pk *G1Element, msg []byte) []byte {
	out := make([]byte, 0, G1Size+len(msg))
	out = append(out, pk.Serialize(Current)...)
	return append(out, msg...)
}

// PopScheme relies on proofs of possession: once every key has passed
// PopVerify, signatures over one message can be checked against the sum of
// the keys.
type PopScheme struct{ *mpl }

func NewPopScheme() *PopScheme {
	return &PopScheme{newMPL("pop", DSTPop, DSTPopPrf, Current, false, nil)}
}

// PopProve signs the public key of sk under the proof tag.
func (s *PopScheme) PopProve(sk *PrivateKey) *G2Element {
	defer runtime.KeepAlive(s)
	defer runtime.KeepAlive(sk)
	return newG2(engine.PopProve(s.ctx.handle(), sk.res.handle()))
}

func (s *PopScheme) PopVerify(pk *G1Element, proof *G2Element) bool {
	defer runtime.KeepAlive(s)
	defer runtime.KeepAlive(pk)
	defer runtime.KeepAlive(proof)
	ok := engine.PopVerify(s.ctx.handle(), pk.res.handle(), proof.res.handle())
	s.countVerify("pop_verify", ok)
	return ok
}

// FastAggregateVerify checks sig for many signers of msg. Every key must have
// had its proof of possession verified beforehand.
func (s *PopScheme) FastAggregateVerify(pks []*G1Element, msg []byte, sig *G2Element) bool {
	if len(pks) == 0 {
		return false
	}
	defer runtime.KeepAlive(s)
	defer runtime.KeepAlive(pks)
	defer runtime.KeepAlive(sig)
	hs := make([]engine.Handle, len(pks))
	for i, pk := range pks {
		hs[i] = pk.res.handle()
	}
	ok := engine.FastAggregateVerify(s.ctx.handle(), hs, msg, sig.res.handle())
	s.countVerify("fast_aggregate_verify", ok)
	return ok
}

// LegacyScheme is the basic scheme as deployed before the distinct-message
// rule: same tag, no augmentation, repeated messages allowed, and elements
// exchanged in the legacy encoding.
type LegacyScheme struct{ *mpl }

func NewLegacyScheme() *LegacyScheme {
	return &LegacyScheme{newMPL("legacy", DSTBasic, "", Legacy, false, nil)}
}

// NewScheme returns the scheme registered under name: basic, augmented, pop
// or legacy.
func NewScheme(name string) (Scheme, bool) {
	var s Scheme
	switch name {
	case "basic":
		s = NewBasicScheme()
	case "augmented", "aug":
		s = NewAugScheme()
	case "pop":
		s = NewPopScheme()
	case "legacy":
		s = NewLegacyScheme()
	default:
		return nil, false
	}
	metrics.Inc("bls_scheme_open_total", map[string]string{"scheme": s.Name()})
	return s, true
}
