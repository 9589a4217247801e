package bls

import (
	"bytes"
	"testing"
)

// Decoding arbitrary bytes must never panic; anything accepted must
// re-encode to the same bytes under the same encoding.
func FuzzG1FromBytes(f *testing.F) {
	f.Add(make([]byte, G1Size), false)
	f.Add(append([]byte{0xc0}, make([]byte, G1Size-1)...), true)
	f.Fuzz(func(t *testing.T, b []byte, legacy bool) {
		enc := Current
		if legacy {
			enc = Legacy
		}
		p, err := G1FromBytes(b, enc)
		if err != nil {
			return
		}
		defer p.Close()
		if got := p.Serialize(enc); !bytes.Equal(got, b) {
			t.Fatalf("re-encode mismatch: %x != %x", got, b)
		}
	})
}

func FuzzG2FromBytes(f *testing.F) {
	f.Add(make([]byte, G2Size), false)
	f.Add(append([]byte{0xc0}, make([]byte, G2Size-1)...), true)
	f.Fuzz(func(t *testing.T, b []byte, legacy bool) {
		enc := Current
		if legacy {
			enc = Legacy
		}
		s, err := G2FromBytes(b, enc)
		if err != nil {
			return
		}
		defer s.Close()
		if got := s.Serialize(enc); !bytes.Equal(got, b) {
			t.Fatalf("re-encode mismatch: %x != %x", got, b)
		}
	})
}

func FuzzPrivateKeyFromBytes(f *testing.F) {
	f.Add(bytes.Repeat([]byte{0xff}, PrivateKeySize), true)
	f.Fuzz(func(t *testing.T, b []byte, modOrder bool) {
		sk, err := PrivateKeyFromBytes(b, modOrder)
		if err != nil {
			return
		}
		defer sk.Close()
		if !modOrder {
			buf := sk.Serialize()
			defer buf.Close()
			if !bytes.Equal(buf.Bytes(), b) {
				t.Fatalf("scalar roundtrip mismatch")
			}
		}
	})
}
