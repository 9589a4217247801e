// Package bls implements BLS signatures over BLS12-381 with public keys in
// G1 and signatures in G2.
//
// Keys and group elements are owned by the curve engine and referenced
// through wrappers. Every wrapper must be closed exactly once; PrivateKey.Close
// zeroizes the secret scalar. A finalizer releases wrappers that are never
// closed, but callers should not rely on it for secret material.
//
// Four signing rule sets are provided: BasicScheme, AugScheme, PopScheme and
// LegacyScheme. Elements can be exchanged in the Current or the Legacy byte
// encoding; the two are not interchangeable.
package bls
