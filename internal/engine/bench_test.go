package engine

import "testing"

func BenchmarkSign(b *testing.B) {
	var didErr bool
	sk := KeyGen([]byte("ikm-abcdefghijklmnopqrstuvwxyz012345"), &didErr)
	s := NewScheme(dstNUL, "")
	msg := []byte("bench-msg")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Free(Sign(s, sk, msg))
	}
}

func BenchmarkAggregateVerify(b *testing.B) {
	var didErr bool
	sk1 := KeyGen([]byte("ikm-1-abcdefghijklmnopqrstuvwxyz0123"), &didErr)
	sk2 := KeyGen([]byte("ikm-2-abcdefghijklmnopqrstuvwxyz0123"), &didErr)
	s := NewScheme(dstNUL, "")
	pks := []Handle{PrivateKeyG1(sk1), PrivateKeyG1(sk2)}
	msgs := [][]byte{[]byte("m1"), []byte("m2")}
	agg := G2Add([]Handle{Sign(s, sk1, msgs[0]), Sign(s, sk2, msgs[1])}, &didErr)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = AggregateVerify(s, pks, msgs, agg)
	}
}
