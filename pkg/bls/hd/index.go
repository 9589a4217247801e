package hd

// HardenedOffset is the first hardened child index.
const HardenedOffset uint32 = 1 << 31

// MaxDepth is the deepest level a key can sit at.
const MaxDepth = 255

// Version is the only serialization version produced and accepted.
const Version uint32 = 1

// UnhardenedIndex is a child index below HardenedOffset.
type UnhardenedIndex uint32

// NewUnhardenedIndex rejects indices in the hardened range.
func NewUnhardenedIndex(i uint32) (UnhardenedIndex, error) {
	if i >= HardenedOffset {
		return 0, ErrHardenedIndex
	}
	return UnhardenedIndex(i), nil
}

// Hardened maps i into the hardened range.
func Hardened(i uint32) uint32 { return i | HardenedOffset }

func isHardened(i uint32) bool { return i >= HardenedOffset }
