// Package hd implements BIP32-style hierarchical deterministic BLS keys.
//
// Unhardened derivation hashes the parent public key, so the chosen
// bls.Encoding is part of the derivation path: the same seed and indices
// give different trees under Current and Legacy.
package hd
