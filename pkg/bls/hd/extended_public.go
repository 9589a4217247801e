package hd

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/zmlAEQ/bls-signatures/pkg/bls"
	"github.com/zmlAEQ/bls-signatures/pkg/metrics"
)

// ExtendedPublicKeySize is the serialized size under either encoding.
const ExtendedPublicKeySize = headerSize + bls.G1Size

// ExtendedPublicKey is a node of the HD tree holding only a public key. It
// can derive unhardened children.
type ExtendedPublicKey struct {
	header
	pk *bls.G1Element
}

// ExtendedPublicKeyFromBytes decodes a key serialized under enc.
func ExtendedPublicKeyFromBytes(b []byte, enc bls.Encoding) (*ExtendedPublicKey, error) {
	if len(b) != ExtendedPublicKeySize {
		return nil, &bls.SizeMismatchError{Kind: "extended public key", Expected: ExtendedPublicKeySize, Actual: len(b)}
	}
	h, err := parseHeader(b)
	if err != nil {
		return nil, err
	}
	pk, err := bls.G1FromBytes(b[headerSize:], enc)
	if err != nil {
		return nil, errors.Wrap(err, "hd: public key")
	}
	return &ExtendedPublicKey{header: h, pk: pk}, nil
}

// PublicChild derives child index. It equals the public projection of the
// private child derived with the same index and encoding.
func (k *ExtendedPublicKey) PublicChild(index UnhardenedIndex, enc bls.Encoding) (*ExtendedPublicKey, error) {
	if isHardened(uint32(index)) {
		return nil, ErrHardenedIndex
	}
	if k.depth >= MaxDepth {
		return nil, ErrMaxDepth
	}
	data := k.pk.Serialize(enc)
	data = binary.BigEndian.AppendUint32(data, uint32(index))
	left, right := hmacPair(k.chainCode[:], data)
	defer wipe(left)
	defer wipe(right)

	tweak, err := bls.PrivateKeyFromBytes(left, true)
	if err != nil {
		return nil, errors.Wrapf(err, "hd: derive public child %d", index)
	}
	defer tweak.Close()
	tweakPk := tweak.G1Element()
	defer tweakPk.Close()
	cc, _ := ChainCodeFromBytes(right)

	metrics.Inc("bls_hd_derive_total", map[string]string{"kind": "public", "encoding": enc.String()})
	return &ExtendedPublicKey{
		header: k.child(k.pk.Fingerprint(enc), uint32(index), cc),
		pk:     k.pk.Add(tweakPk),
	}, nil
}

// Serialize encodes the node with the public key under enc.
func (k *ExtendedPublicKey) Serialize(enc bls.Encoding) []byte {
	out := make([]byte, 0, ExtendedPublicKeySize)
	out = k.appendTo(out)
	return append(out, k.pk.Serialize(enc)...)
}

func (k *ExtendedPublicKey) Version() uint32           { return k.version }
func (k *ExtendedPublicKey) Depth() uint8              { return k.depth }
func (k *ExtendedPublicKey) ParentFingerprint() uint32 { return k.parentFingerprint }
func (k *ExtendedPublicKey) ChildNumber() uint32       { return k.childNumber }
func (k *ExtendedPublicKey) ChainCode() ChainCode      { return k.chainCode }

// PublicKey returns the node's key. It stays owned by k.
func (k *ExtendedPublicKey) PublicKey() *bls.G1Element { return k.pk }

func (k *ExtendedPublicKey) Equal(o *ExtendedPublicKey) bool {
	return k.header == o.header && k.pk.Equal(o.pk)
}

func (k *ExtendedPublicKey) Close() { k.pk.Close() }
