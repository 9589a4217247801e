package bls

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"runtime"
	"sync"

	"lukechampine.com/frand"

	"github.com/zmlAEQ/bls-signatures/internal/engine"
	"github.com/zmlAEQ/bls-signatures/pkg/logger"
	"github.com/zmlAEQ/bls-signatures/pkg/metrics"
)

// HashSize is the size of threshold ids and sign hashes.
const HashSize = engine.IDSize

// Hash is a 32-byte digest used as a threshold id or message.
type Hash [HashSize]byte

var (
	errHashHex = errors.New("a hex string must contain 32 bytes")
	// ErrInvalidThreshold is returned for t == 0 or t > n.
	ErrInvalidThreshold = errors.New("threshold must satisfy 0 < t <= n")
)

// HashFromString decodes the last 32 bytes of a hex string in reversed byte
// order, the display order used for quorum and request hashes.
func HashFromString(s string) (Hash, error) {
	var h Hash
	data, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(data) < HashSize {
		return h, errHashHex
	}
	for i, d := range data[len(data)-HashSize:] {
		h[HashSize-(i+1)] = d
	}
	return h, nil
}

// BuildSignHash returns SHA256(SHA256(llmqType || quorumHash || id || msgHash)).
func BuildSignHash(llmqType uint8, quorumHash, id, msgHash Hash) Hash {
	hasher := sha256.New()
	hasher.Write([]byte{llmqType})
	hasher.Write(quorumHash[:])
	hasher.Write(id[:])
	hasher.Write(msgHash[:])
	return sha256.Sum256(hasher.Sum(nil))
}

// IDFromIndex encodes a 1-based participant index as a threshold id.
func IDFromIndex(i uint32) Hash {
	var h Hash
	binary.BigEndian.PutUint32(h[HashSize-4:], i)
	return h
}

var (
	thresholdOnce sync.Once
	thresholdCtx  *resource
)

// Threshold signatures use the basic tag without the distinct-message rule.
func thresholdScheme() engine.Handle {
	thresholdOnce.Do(func() {
		thresholdCtx = &resource{h: engine.NewScheme(DSTBasic, "")}
	})
	return thresholdCtx.handle()
}

func handlesOf[T any](xs []T, res func(T) *resource) []engine.Handle {
	hs := make([]engine.Handle, len(xs))
	for i, x := range xs {
		hs[i] = res(x).handle()
	}
	return hs
}

func skRes(k *PrivateKey) *resource { return k.res }
func g1Res(p *G1Element) *resource  { return p.res }
func g2Res(s *G2Element) *resource  { return s.res }

func checkIDs(ids [][]byte, n int) error {
	if len(ids) != n {
		return ErrLengthMismatch
	}
	for _, id := range ids {
		if err := checkSize("threshold id", id, HashSize); err != nil {
			return err
		}
	}
	return nil
}

// ThresholdPrivateKeyShare evaluates the polynomial whose coefficients are
// sks at id.
func ThresholdPrivateKeyShare(sks []*PrivateKey, id []byte) (*PrivateKey, error) {
	if err := checkSize("threshold id", id, HashSize); err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(sks)
	hs := handlesOf(sks, skRes)
	h, err := call("threshold_private_key_share", func(didErr *bool) engine.Handle {
		return engine.ThresholdPrivateKeyShare(hs, id, didErr)
	})
	if err != nil {
		return nil, err
	}
	return newPrivateKey(h), nil
}

// ThresholdPublicKeyShare evaluates the public polynomial at id.
func ThresholdPublicKeyShare(pks []*G1Element, id []byte) (*G1Element, error) {
	if err := checkSize("threshold id", id, HashSize); err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(pks)
	hs := handlesOf(pks, g1Res)
	h, err := call("threshold_public_key_share", func(didErr *bool) engine.Handle {
		return engine.ThresholdPublicKeyShare(hs, id, didErr)
	})
	if err != nil {
		return nil, err
	}
	return newG1(h), nil
}

// ThresholdSignatureShare evaluates the signature polynomial at id.
func ThresholdSignatureShare(sigs []*G2Element, id []byte) (*G2Element, error) {
	if err := checkSize("threshold id", id, HashSize); err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(sigs)
	hs := handlesOf(sigs, g2Res)
	h, err := call("threshold_signature_share", func(didErr *bool) engine.Handle {
		return engine.ThresholdSignatureShare(hs, id, didErr)
	})
	if err != nil {
		return nil, err
	}
	return newG2(h), nil
}

// ThresholdPrivateKeyRecover interpolates the shared secret from shares
// held by ids.
func ThresholdPrivateKeyRecover(sks []*PrivateKey, ids [][]byte) (*PrivateKey, error) {
	if err := checkIDs(ids, len(sks)); err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(sks)
	hs := handlesOf(sks, skRes)
	h, err := call("threshold_private_key_recover", func(didErr *bool) engine.Handle {
		return engine.ThresholdPrivateKeyRecover(hs, ids, didErr)
	})
	if err != nil {
		return nil, err
	}
	metrics.Inc("bls_threshold_recover_total", map[string]string{"kind": "private_key"})
	return newPrivateKey(h), nil
}

func ThresholdPublicKeyRecover(pks []*G1Element, ids [][]byte) (*G1Element, error) {
	if err := checkIDs(ids, len(pks)); err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(pks)
	hs := handlesOf(pks, g1Res)
	h, err := call("threshold_public_key_recover", func(didErr *bool) engine.Handle {
		return engine.ThresholdPublicKeyRecover(hs, ids, didErr)
	})
	if err != nil {
		return nil, err
	}
	metrics.Inc("bls_threshold_recover_total", map[string]string{"kind": "public_key"})
	return newG1(h), nil
}

func ThresholdSignatureRecover(sigs []*G2Element, ids [][]byte) (*G2Element, error) {
	if err := checkIDs(ids, len(sigs)); err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(sigs)
	hs := handlesOf(sigs, g2Res)
	h, err := call("threshold_signature_recover", func(didErr *bool) engine.Handle {
		return engine.ThresholdSignatureRecover(hs, ids, didErr)
	})
	if err != nil {
		return nil, err
	}
	metrics.Inc("bls_threshold_recover_total", map[string]string{"kind": "signature"})
	return newG2(h), nil
}

// ThresholdSign signs hash with sk. Shares of one polynomial produce
// signatures that recover like the keys do.
func ThresholdSign(sk *PrivateKey, hash []byte) *G2Element {
	defer runtime.KeepAlive(sk)
	return newG2(engine.Sign(thresholdScheme(), sk.res.handle(), hash))
}

func ThresholdVerify(pk *G1Element, hash []byte, sig *G2Element) bool {
	defer runtime.KeepAlive(pk)
	defer runtime.KeepAlive(sig)
	return engine.Verify(thresholdScheme(), pk.res.handle(), hash, sig.res.handle())
}

// Dealing is the output of a trusted Feldman dealer.
type Dealing struct {
	// Commitments[j] = G·a_j; Commitments[0] is the group public key.
	Commitments []*G1Element
	Shares      []*PrivateKey
	IDs         [][]byte
}

// PublicKey returns the group public key committed by the dealing.
func (d *Dealing) PublicKey() *G1Element { return d.Commitments[0] }

// Close releases every key and commitment of the dealing.
func (d *Dealing) Close() {
	for _, c := range d.Commitments {
		if c != nil {
			c.Close()
		}
	}
	for _, s := range d.Shares {
		if s != nil {
			s.Close()
		}
	}
}

// ThresholdDeal samples a random polynomial of degree t-1 and hands out
// shares for ids 1..n. The polynomial itself is wiped before returning.
func ThresholdDeal(t, n int) (*Dealing, error) {
	if t <= 0 || t > n {
		return nil, ErrInvalidThreshold
	}
	coeffs := make([]*PrivateKey, 0, t)
	defer func() {
		for _, c := range coeffs {
			c.Close()
		}
	}()
	seed := engine.SecAlloc(MinSeedSize)
	defer engine.SecFree(seed)
	for j := 0; j < t; j++ {
		frand.Read(seed)
		h, err := call("threshold_deal", func(didErr *bool) engine.Handle {
			return engine.KeyGen(seed, didErr)
		})
		if err != nil {
			return nil, err
		}
		coeffs = append(coeffs, newPrivateKey(h))
	}
	d := &Dealing{
		Commitments: make([]*G1Element, t),
		Shares:      make([]*PrivateKey, n),
		IDs:         make([][]byte, n),
	}
	for j, c := range coeffs {
		d.Commitments[j] = c.G1Element()
	}
	for i := 0; i < n; i++ {
		id := IDFromIndex(uint32(i + 1))
		d.IDs[i] = id[:]
		share, err := ThresholdPrivateKeyShare(coeffs, d.IDs[i])
		if err != nil {
			d.Close()
			return nil, err
		}
		d.Shares[i] = share
	}
	metrics.Inc("bls_threshold_deal_total", nil)
	logger.InfoJ("bls_threshold", map[string]any{"op": "deal", "t": t, "n": n, "result": "ok"})
	return d, nil
}

// ThresholdVerifyShare checks share against the dealer's commitments.
func ThresholdVerifyShare(share *PrivateKey, id []byte, commitments []*G1Element) (bool, error) {
	want, err := ThresholdPublicKeyShare(commitments, id)
	if err != nil {
		return false, err
	}
	defer want.Close()
	got := share.G1Element()
	defer got.Close()
	return got.Equal(want), nil
}
