package bls

import (
	"runtime"
	"time"

	"github.com/zmlAEQ/bls-signatures/internal/engine"
	"github.com/zmlAEQ/bls-signatures/pkg/metrics"
)

// Domain separation tags.
const (
	DSTBasic  = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_"
	DSTAug    = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_AUG_"
	DSTPop    = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_"
	DSTPopPrf = "BLS_POP_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_"
)

// MinSeedSize is the smallest seed KeyGen accepts.
const MinSeedSize = 32

// Scheme is a BLS signing rule set. Implementations differ in domain
// separation tag, message augmentation and aggregate-verify preconditions.
type Scheme interface {
	Name() string
	// Encoding is the element encoding callers should use with this scheme.
	Encoding() Encoding
	KeyGen(seed []byte) (*PrivateKey, error)
	Sign(sk *PrivateKey, msg []byte) *G2Element
	Verify(pk *G1Element, msg []byte, sig *G2Element) bool
	AggregatePublicKeys(pks []*G1Element) (*G1Element, error)
	AggregateSigs(sigs []*G2Element) (*G2Element, error)
	AggregateVerify(pks []*G1Element, msgs [][]byte, sig *G2Element) (bool, error)
	Close()
}

// mpl holds what every variant shares: the engine context and the
// variant's augmentation rule.
type mpl struct {
	ctx     *resource
	name    string
	enc     Encoding
	augment func(pk *G1Element, msg []byte) []byte
	// distinct requires pairwise distinct messages in AggregateVerify.
	distinct bool
}

func newMPL(name, dst, popDST string, enc Encoding, distinct bool, augment func(*G1Element, []byte) []byte) *mpl {
	return &mpl{
		ctx:      newResource(engine.NewScheme(dst, popDST)),
		name:     name,
		enc:      enc,
		augment:  augment,
		distinct: distinct,
	}
}

func (m *mpl) Name() string       { return m.name }
func (m *mpl) Encoding() Encoding { return m.enc }
func (m *mpl) Close()             { m.ctx.release() }

// KeyGen derives a key from seed with the IETF KeyGen procedure.
func (m *mpl) KeyGen(seed []byte) (*PrivateKey, error) {
	if len(seed) < MinSeedSize {
		return nil, ErrSeedTooShort
	}
	h, err := call("keygen", func(didErr *bool) engine.Handle {
		return engine.KeyGen(seed, didErr)
	})
	if err != nil {
		return nil, err
	}
	metrics.Inc("bls_keygen_total", map[string]string{"scheme": m.name})
	return newPrivateKey(h), nil
}

func (m *mpl) Sign(sk *PrivateKey, msg []byte) *G2Element {
	defer runtime.KeepAlive(m)
	defer runtime.KeepAlive(sk)
	if m.augment != nil {
		pk := sk.G1Element()
		msg = m.augment(pk, msg)
		pk.Close()
	}
	metrics.Inc("bls_sign_total", map[string]string{"scheme": m.name})
	return newG2(engine.Sign(m.ctx.handle(), sk.res.handle(), msg))
}

func (m *mpl) Verify(pk *G1Element, msg []byte, sig *G2Element) bool {
	defer runtime.KeepAlive(m)
	defer runtime.KeepAlive(pk)
	defer runtime.KeepAlive(sig)
	if m.augment != nil {
		msg = m.augment(pk, msg)
	}
	ok := engine.Verify(m.ctx.handle(), pk.res.handle(), msg, sig.res.handle())
	m.countVerify("verify", ok)
	return ok
}

func (m *mpl) AggregatePublicKeys(pks []*G1Element) (*G1Element, error) {
	return aggregateG1(pks)
}

func (m *mpl) AggregateSigs(sigs []*G2Element) (*G2Element, error) {
	return aggregateG2(sigs)
}

// AggregateVerify checks sig against the pairs (pks[i], msgs[i]). Empty
// input verifies as false.
func (m *mpl) AggregateVerify(pks []*G1Element, msgs [][]byte, sig *G2Element) (bool, error) {
	if len(pks) != len(msgs) {
		return false, ErrLengthMismatch
	}
	if len(pks) == 0 {
		return false, nil
	}
	if m.distinct && !distinctMessages(msgs) {
		m.countVerify("aggregate_verify", false)
		return false, nil
	}
	defer runtime.KeepAlive(m)
	defer runtime.KeepAlive(pks)
	defer runtime.KeepAlive(sig)
	start := time.Now()
	hs := make([]engine.Handle, len(pks))
	augmented := make([][]byte, len(msgs))
	for i, pk := range pks {
		hs[i] = pk.res.handle()
		augmented[i] = msgs[i]
		if m.augment != nil {
			augmented[i] = m.augment(pk, msgs[i])
		}
	}
	ok := engine.AggregateVerify(m.ctx.handle(), hs, augmented, sig.res.handle())
	metrics.ObserveSummary("bls_aggregate_verify_ms", map[string]string{"scheme": m.name},
		float64(time.Since(start).Microseconds())/1000)
	m.countVerify("aggregate_verify", ok)
	return ok, nil
}

func (m *mpl) countVerify(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "fail"
	}
	metrics.Inc("bls_verify_total", map[string]string{"scheme": m.name, "op": op, "result": result})
}

func distinctMessages(msgs [][]byte) bool {
	seen := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		if _, dup := seen[string(m)]; dup {
			return false
		}
		seen[string(m)] = struct{}{}
	}
	return true
}
