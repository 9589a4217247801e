package hd

import (
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// NewMnemonic returns a fresh BIP39 mnemonic with bits of entropy
// (128 to 256, a multiple of 32).
func NewMnemonic(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", errors.Wrap(err, "hd: entropy")
	}
	defer wipe(entropy)
	return bip39.NewMnemonic(entropy)
}

// FromMnemonic derives the master node from a BIP39 mnemonic and optional
// passphrase.
func FromMnemonic(mnemonic, passphrase string) (*ExtendedPrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	defer wipe(seed)
	return FromSeed(seed)
}
