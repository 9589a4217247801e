package engine

import (
	"bytes"
	"strings"
	"testing"
)

const dstNUL = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_"

func mustKey(t *testing.T, seed string) Handle {
	t.Helper()
	var didErr bool
	h := KeyGen([]byte(seed), &didErr)
	if didErr {
		t.Fatalf("KeyGen: %s", LastErrorMsg())
	}
	return h
}

func TestKeyGen_SeedFloor(t *testing.T) {
	var didErr bool
	h := KeyGen(make([]byte, 31), &didErr)
	if !didErr || h != 0 {
		t.Fatalf("want failure for short seed")
	}
	if got := LastErrorMsg(); got != "seed size must be at least 32 bytes" {
		t.Fatalf("last error: got %q", got)
	}
}

func TestFree_ZeroizesAndDoubleFreePanics(t *testing.T) {
	base := Live()
	sk := mustKey(t, "seedweedseedweedseedweedseedweed")
	if Live() != base+1 {
		t.Fatalf("live: got %d want %d", Live(), base+1)
	}
	obj := secretKey(sk)
	Free(sk)
	if Live() != base {
		t.Fatalf("live after free: got %d want %d", Live(), base)
	}
	if !isZero(obj.Serialize()) {
		t.Fatalf("scalar not zeroized")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("double free should panic")
		}
	}()
	Free(sk)
}

func TestPrivateKeyFromBytes_ModOrder(t *testing.T) {
	all := bytes.Repeat([]byte{0xff}, PrivateKeySize)
	var didErr bool
	if h := PrivateKeyFromBytes(all, false, &didErr); !didErr || h != 0 {
		t.Fatalf("want rejection of value >= r")
	}
	h := PrivateKeyFromBytes(all, true, &didErr)
	if didErr {
		t.Fatalf("mod order: %s", LastErrorMsg())
	}
	defer Free(h)
	buf := PrivateKeySerialize(h)
	defer SecFree(buf)
	want := reduce(all)
	if !bytes.Equal(buf, want[:]) {
		t.Fatalf("reduced scalar mismatch")
	}
	if PrivateKeyFromBytes(make([]byte, PrivateKeySize), true, &didErr); !didErr {
		t.Fatalf("zero scalar must be rejected")
	}
}

func TestG1_LegacyRoundtripAndCrossParse(t *testing.T) {
	sk := mustKey(t, "seedweedseedweedseedweedseedweed")
	defer Free(sk)
	pk := PrivateKeyG1(sk)
	defer Free(pk)
	for _, legacy := range []bool{false, true} {
		b := G1Serialize(pk, legacy)
		var didErr bool
		h := G1FromBytes(b, legacy, &didErr)
		if didErr {
			t.Fatalf("legacy=%v decode: %s", legacy, LastErrorMsg())
		}
		if !G1IsEqual(pk, h) {
			t.Fatalf("legacy=%v roundtrip mismatch", legacy)
		}
		Free(h)
	}
	cur, leg := G1Serialize(pk, false), G1Serialize(pk, true)
	if bytes.Equal(cur, leg) {
		t.Fatalf("legacy and current encodings should differ")
	}
	var didErr bool
	h := G1FromBytes(leg, false, &didErr)
	if didErr {
		if !strings.Contains(LastErrorMsg(), "G1") {
			t.Fatalf("unexpected error: %s", LastErrorMsg())
		}
		return
	}
	defer Free(h)
	if G1IsEqual(pk, h) {
		t.Fatalf("legacy bytes parsed as current must not yield the same point")
	}
}

func TestG2_LegacyRoundtrip(t *testing.T) {
	sk := mustKey(t, "seedweedseedweedseedweedseedweed")
	defer Free(sk)
	s := NewScheme(dstNUL, "")
	defer Free(s)
	sig := Sign(s, sk, []byte("msg"))
	defer Free(sig)
	for _, legacy := range []bool{false, true} {
		var didErr bool
		h := G2FromBytes(G2Serialize(sig, legacy), legacy, &didErr)
		if didErr {
			t.Fatalf("legacy=%v decode: %s", legacy, LastErrorMsg())
		}
		if !G2IsEqual(sig, h) {
			t.Fatalf("legacy=%v roundtrip mismatch", legacy)
		}
		Free(h)
	}
}

func TestInfinity_EncodingsAgree(t *testing.T) {
	in := make([]byte, G1Size)
	in[0] = 0xc0
	var didErr bool
	h := G1FromBytes(in, true, &didErr)
	if didErr {
		t.Fatalf("infinity decode: %s", LastErrorMsg())
	}
	defer Free(h)
	if !bytes.Equal(G1Serialize(h, false), G1Serialize(h, true)) {
		t.Fatalf("infinity encodings must agree")
	}
	in[5] = 1
	if G1FromBytes(in, false, &didErr); !didErr {
		t.Fatalf("infinity with payload must fail")
	}
}

func TestSignVerify_AndAggregate(t *testing.T) {
	s := NewScheme(dstNUL, "")
	defer Free(s)
	sk1 := mustKey(t, "seedweedseedweedseedweedseedweed")
	sk2 := mustKey(t, "weedseedweedseedweedseedweedseed")
	defer Free(sk1)
	defer Free(sk2)
	pk1, pk2 := PrivateKeyG1(sk1), PrivateKeyG1(sk2)
	defer Free(pk1)
	defer Free(pk2)
	m1, m2 := []byte("one"), []byte("two")
	s1, s2 := Sign(s, sk1, m1), Sign(s, sk2, m2)
	defer Free(s1)
	defer Free(s2)
	if !Verify(s, pk1, m1, s1) || Verify(s, pk2, m1, s1) {
		t.Fatalf("single verify mismatch")
	}
	var didErr bool
	agg := G2Add([]Handle{s1, s2}, &didErr)
	if didErr {
		t.Fatalf("G2Add: %s", LastErrorMsg())
	}
	defer Free(agg)
	if !AggregateVerify(s, []Handle{pk1, pk2}, [][]byte{m1, m2}, agg) {
		t.Fatalf("aggregate verify failed")
	}
	if AggregateVerify(s, nil, nil, agg) {
		t.Fatalf("empty aggregate verify must be false")
	}
	if G2Add(nil, &didErr); !didErr {
		t.Fatalf("empty aggregation must fail")
	}
}

func TestUnhardenedDerivation_Consistent(t *testing.T) {
	sk := mustKey(t, "seedweedseedweedseedweedseedweed")
	defer Free(sk)
	pk := PrivateKeyG1(sk)
	defer Free(pk)
	csk := DeriveChildSkUnhardened(sk, 7)
	defer Free(csk)
	cpk := DeriveChildPkUnhardened(pk, 7)
	defer Free(cpk)
	fromSk := PrivateKeyG1(csk)
	defer Free(fromSk)
	if !G1IsEqual(cpk, fromSk) {
		t.Fatalf("unhardened child pk mismatch")
	}
}

func TestThreshold_Recover(t *testing.T) {
	coeffs := []Handle{
		mustKey(t, "coefficient-0-coefficient-0-coef"),
		mustKey(t, "coefficient-1-coefficient-1-coef"),
	}
	defer Free(coeffs[0])
	defer Free(coeffs[1])
	ids := [][]byte{bytes.Repeat([]byte{1}, IDSize), bytes.Repeat([]byte{2}, IDSize), bytes.Repeat([]byte{3}, IDSize)}
	var didErr bool
	shares := make([]Handle, 0, len(ids))
	for _, id := range ids {
		h := ThresholdPrivateKeyShare(coeffs, id, &didErr)
		if didErr {
			t.Fatalf("share: %s", LastErrorMsg())
		}
		shares = append(shares, h)
	}
	rec := ThresholdPrivateKeyRecover(shares[1:], ids[1:], &didErr)
	if didErr {
		t.Fatalf("recover: %s", LastErrorMsg())
	}
	if !PrivateKeyIsEqual(rec, coeffs[0]) {
		t.Fatalf("recovered secret mismatch")
	}
	Free(rec)
	if ThresholdPrivateKeyRecover(shares[:2], [][]byte{ids[0], ids[0]}, &didErr); !didErr {
		t.Fatalf("duplicate ids must fail")
	}
	for _, h := range shares {
		Free(h)
	}
}

func TestSecAlloc_ZeroedOnFree(t *testing.T) {
	base := SecLive()
	b := SecAlloc(32)
	if len(b) != 32 || SecLive() != base+1 {
		t.Fatalf("alloc: len=%d live=%d", len(b), SecLive())
	}
	copy(b, bytes.Repeat([]byte{0xaa}, 32))
	wipe(b)
	if !isZero(b) {
		t.Fatalf("wipe left data behind")
	}
	SecFree(b)
	if SecLive() != base {
		t.Fatalf("live after free: %d", SecLive())
	}
}

func TestFromBytes_LengthDiagnostics(t *testing.T) {
	var didErr bool
	cases := []struct {
		call func() Handle
		want string
	}{
		{func() Handle { return PrivateKeyFromBytes(make([]byte, 31), false, &didErr) }, "private key must be 32 bytes, got 31"},
		{func() Handle { return G1FromBytes(make([]byte, 47), false, &didErr) }, "G1 element must be 48 bytes, got 47"},
		{func() Handle { return G2FromBytes(make([]byte, 95), true, &didErr) }, "G2 element must be 96 bytes, got 95"},
	}
	for _, c := range cases {
		if h := c.call(); h != 0 || !didErr {
			t.Fatalf("%s: expected failure", c.want)
		}
		if got := LastErrorMsg(); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}

func TestPrivateKeyAggregate_LeavesInputsIntact(t *testing.T) {
	a := mustKey(t, "seedweedseedweedseedweedseedweed")
	b := mustKey(t, "weedseedweedseedweedseedweedseed")
	defer Free(a)
	defer Free(b)
	before := PrivateKeySerialize(a)
	defer SecFree(before)

	var didErr bool
	sum := PrivateKeyAggregate([]Handle{a, b}, &didErr)
	if didErr {
		t.Fatalf("aggregate: %s", LastErrorMsg())
	}
	defer Free(sum)
	child := DeriveChildSkUnhardened(a, 3)
	defer Free(child)

	after := PrivateKeySerialize(a)
	defer SecFree(after)
	if !bytes.Equal(before, after) {
		t.Fatalf("input scalar changed")
	}
	if PrivateKeyIsEqual(sum, a) || PrivateKeyIsEqual(child, a) {
		t.Fatalf("derived scalars must differ from the input")
	}
}
