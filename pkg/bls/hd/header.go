package hd

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"

	"github.com/zmlAEQ/bls-signatures/pkg/bls"
)

// header is the part shared by private and public extended keys:
// version(4) | depth(1) | parent fingerprint(4) | child number(4) | chain code(32).
type header struct {
	version           uint32
	depth             uint8
	parentFingerprint uint32
	childNumber       uint32
	chainCode         ChainCode
}

const headerSize = 4 + 1 + 4 + 4 + ChainCodeSize

func (h *header) appendTo(out []byte) []byte {
	out = binary.BigEndian.AppendUint32(out, h.version)
	out = append(out, h.depth)
	out = binary.BigEndian.AppendUint32(out, h.parentFingerprint)
	out = binary.BigEndian.AppendUint32(out, h.childNumber)
	return append(out, h.chainCode[:]...)
}

func parseHeader(b []byte) (header, error) {
	var h header
	h.version = binary.BigEndian.Uint32(b[0:4])
	if h.version != Version {
		return h, ErrVersion
	}
	h.depth = b[4]
	h.parentFingerprint = binary.BigEndian.Uint32(b[5:9])
	h.childNumber = binary.BigEndian.Uint32(b[9:13])
	copy(h.chainCode[:], b[13:headerSize])
	return h, nil
}

func (h *header) child(parentFP, index uint32, cc ChainCode) header {
	return header{
		version:           h.version,
		depth:             h.depth + 1,
		parentFingerprint: parentFP,
		childNumber:       index,
		chainCode:         cc,
	}
}

// hmacPair returns HMAC(key, data||0) and HMAC(key, data||1). The caller
// wipes both halves.
func hmacPair(key, data []byte) (left, right []byte) {
	mac := hmac.New(sha256.New, key)
	buf := make([]byte, len(data)+1)
	copy(buf, data)
	mac.Write(buf)
	left = mac.Sum(nil)
	mac.Reset()
	buf[len(data)] = 1
	mac.Write(buf)
	right = mac.Sum(nil)
	wipe(buf)
	return left, right
}

// addTweak returns sk + (tweak mod r).
func addTweak(sk *bls.PrivateKey, tweak []byte) (*bls.PrivateKey, error) {
	t, err := bls.PrivateKeyFromBytes(tweak, true)
	if err != nil {
		return nil, err
	}
	defer t.Close()
	return bls.AggregatePrivateKeys([]*bls.PrivateKey{sk, t})
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
