package hd

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/zmlAEQ/bls-signatures/pkg/bls"
	"github.com/zmlAEQ/bls-signatures/pkg/logger"
	"github.com/zmlAEQ/bls-signatures/pkg/metrics"
)

// Serialized sizes of an extended private key.
const (
	ExtendedPrivateKeySize       = headerSize + bls.PrivateKeySize
	LegacyExtendedPrivateKeySize = headerSize + bls.G1Size
)

var seedKey = []byte("BLS HD seed")

// ExtendedPrivateKey is a node of the HD tree holding a private key.
type ExtendedPrivateKey struct {
	header
	sk *bls.PrivateKey
}

// FromSeed derives the master node from seed.
func FromSeed(seed []byte) (*ExtendedPrivateKey, error) {
	if len(seed) < bls.MinSeedSize {
		return nil, bls.ErrSeedTooShort
	}
	left, right := hmacPair(seedKey, seed)
	defer wipe(left)
	defer wipe(right)
	sk, err := bls.PrivateKeyFromBytes(left, true)
	if err != nil {
		return nil, errors.Wrap(err, "hd: master key")
	}
	cc, _ := ChainCodeFromBytes(right)
	metrics.Inc("bls_hd_derive_total", map[string]string{"kind": "master", "encoding": "none"})
	return &ExtendedPrivateKey{header: header{version: Version, chainCode: cc}, sk: sk}, nil
}

// ExtendedPrivateKeyFromBytes decodes a key serialized under enc.
func ExtendedPrivateKeyFromBytes(b []byte, enc bls.Encoding) (*ExtendedPrivateKey, error) {
	want := ExtendedPrivateKeySize
	if enc == bls.Legacy {
		want = LegacyExtendedPrivateKeySize
	}
	if len(b) != want {
		return nil, &bls.SizeMismatchError{Kind: "extended private key", Expected: want, Actual: len(b)}
	}
	h, err := parseHeader(b)
	if err != nil {
		return nil, err
	}
	raw := b[headerSize:]
	if enc == bls.Legacy {
		pad := raw[:len(raw)-bls.PrivateKeySize]
		for _, v := range pad {
			if v != 0 {
				return nil, errors.New("hd: legacy private key padding is not zero")
			}
		}
		raw = raw[len(pad):]
	}
	sk, err := bls.PrivateKeyFromBytes(raw, false)
	if err != nil {
		return nil, errors.Wrap(err, "hd: private key")
	}
	return &ExtendedPrivateKey{header: h, sk: sk}, nil
}

// PrivateChild derives child index. Indices at or above HardenedOffset use
// the private key as HMAC input; the others use the public key encoded under
// enc, so the two encodings produce different trees.
func (k *ExtendedPrivateKey) PrivateChild(index uint32, enc bls.Encoding) (*ExtendedPrivateKey, error) {
	if k.depth >= MaxDepth {
		return nil, ErrMaxDepth
	}
	pk := k.sk.G1Element()
	defer pk.Close()

	var data []byte
	if isHardened(index) {
		skb := k.sk.Serialize()
		defer skb.Close()
		data = make([]byte, 0, bls.PrivateKeySize+4)
		data = append(data, skb.Bytes()...)
		defer wipe(data)
	} else {
		data = pk.Serialize(enc)
	}
	data = binary.BigEndian.AppendUint32(data, index)

	left, right := hmacPair(k.chainCode[:], data)
	defer wipe(left)
	defer wipe(right)
	child, err := addTweak(k.sk, left)
	if err != nil {
		return nil, errors.Wrapf(err, "hd: derive child %d", index)
	}
	cc, _ := ChainCodeFromBytes(right)

	metrics.Inc("bls_hd_derive_total", map[string]string{"kind": "private", "encoding": enc.String()})
	logger.InfoJ("bls_hd", map[string]any{
		"op":       "private_child",
		"depth":    int(k.depth) + 1,
		"hardened": isHardened(index),
		"encoding": enc.String(),
		"result":   "ok",
	})
	return &ExtendedPrivateKey{header: k.child(pk.Fingerprint(enc), index, cc), sk: child}, nil
}

// PublicChild derives the public node of child index. Hardened indices are
// allowed since the private key is at hand.
func (k *ExtendedPrivateKey) PublicChild(index uint32, enc bls.Encoding) (*ExtendedPublicKey, error) {
	child, err := k.PrivateChild(index, enc)
	if err != nil {
		return nil, err
	}
	defer child.Close()
	return child.ExtendedPublicKey(), nil
}

// ExtendedPublicKey returns the public projection of k. k is not modified.
func (k *ExtendedPrivateKey) ExtendedPublicKey() *ExtendedPublicKey {
	return &ExtendedPublicKey{header: k.header, pk: k.sk.G1Element()}
}

// Serialize returns the key in secure memory. The caller closes the buffer.
func (k *ExtendedPrivateKey) Serialize(enc bls.Encoding) *bls.SecureBuffer {
	skb := k.sk.Serialize()
	defer skb.Close()
	out := make([]byte, 0, LegacyExtendedPrivateKeySize)
	defer wipe(out[:cap(out)])
	out = k.appendTo(out)
	if enc == bls.Legacy {
		out = append(out, make([]byte, bls.G1Size-bls.PrivateKeySize)...)
	}
	out = append(out, skb.Bytes()...)
	return bls.NewSecureBuffer(out)
}

func (k *ExtendedPrivateKey) Version() uint32           { return k.version }
func (k *ExtendedPrivateKey) Depth() uint8              { return k.depth }
func (k *ExtendedPrivateKey) ParentFingerprint() uint32 { return k.parentFingerprint }
func (k *ExtendedPrivateKey) ChildNumber() uint32       { return k.childNumber }
func (k *ExtendedPrivateKey) ChainCode() ChainCode      { return k.chainCode }

// PrivateKey returns the node's key. It stays owned by k.
func (k *ExtendedPrivateKey) PrivateKey() *bls.PrivateKey { return k.sk }

// PublicKey returns a new G1Element the caller closes.
func (k *ExtendedPrivateKey) PublicKey() *bls.G1Element { return k.sk.G1Element() }

func (k *ExtendedPrivateKey) Equal(o *ExtendedPrivateKey) bool {
	return k.header == o.header && k.sk.Equal(o.sk)
}

// Close zeroizes the private key.
func (k *ExtendedPrivateKey) Close() {
	k.sk.Close()
	wipe(k.chainCode[:])
}
