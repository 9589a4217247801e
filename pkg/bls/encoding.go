package bls

// Encoding selects the byte layout of G1 and G2 elements.
type Encoding int

const (
	// Current is the compressed layout with compression, infinity and sign
	// flags in the top three bits.
	Current Encoding = iota
	// Legacy is the layout of older deployments: the sign of y in the top bit
	// and, for G2, the coordinate halves in the opposite order.
	Legacy
)

func (e Encoding) legacy() bool { return e == Legacy }

func (e Encoding) String() string {
	if e == Legacy {
		return "legacy"
	}
	return "current"
}

// ParseEncoding accepts "current" or "legacy".
func ParseEncoding(s string) (Encoding, bool) {
	switch s {
	case "current", "":
		return Current, true
	case "legacy":
		return Legacy, true
	}
	return Current, false
}

// Serialized sizes.
const (
	PrivateKeySize = 32
	G1Size         = 48
	G2Size         = 96
)
