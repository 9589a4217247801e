package bls

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreshold_ShareAndRecover(t *testing.T) {
	const m, n = 3, 5
	s := NewLegacyScheme()
	defer s.Close()
	hash := sha256.Sum256([]byte("threshold message"))

	sks := make([]*PrivateKey, m)
	pks := make([]*G1Element, m)
	sigs := make([]*G2Element, m)
	for i := range sks {
		seed := sha256.Sum256([]byte{byte(i)})
		sks[i] = keyGen(t, s, seed[:])
		pks[i] = pubKey(t, sks[i])
		sigs[i] = ThresholdSign(sks[i], hash[:])
		t.Cleanup(sigs[i].Close)
		require.True(t, ThresholdVerify(pks[i], hash[:], sigs[i]))
	}

	ids := make([][]byte, n)
	skShares := make([]*PrivateKey, n)
	pkShares := make([]*G1Element, n)
	sigShares := make([]*G2Element, n)
	for i := range ids {
		id := sha256.Sum256([]byte{byte(100 + i)})
		ids[i] = id[:]
		var err error
		skShares[i], err = ThresholdPrivateKeyShare(sks, ids[i])
		require.NoError(t, err)
		pkShares[i], err = ThresholdPublicKeyShare(pks, ids[i])
		require.NoError(t, err)
		sigShares[i], err = ThresholdSignatureShare(sigs, ids[i])
		require.NoError(t, err)

		direct := ThresholdSign(skShares[i], hash[:])
		assert.True(t, direct.Equal(sigShares[i]))
		assert.True(t, ThresholdVerify(pkShares[i], hash[:], sigShares[i]))
		direct.Close()
	}
	t.Cleanup(func() {
		for i := range ids {
			skShares[i].Close()
			pkShares[i].Close()
			sigShares[i].Close()
		}
	})

	recSk, err := ThresholdPrivateKeyRecover(skShares[:m-1], ids[:m-1])
	require.NoError(t, err)
	recPk, err := ThresholdPublicKeyRecover(pkShares[:m-1], ids[:m-1])
	require.NoError(t, err)
	recSig, err := ThresholdSignatureRecover(sigShares[:m-1], ids[:m-1])
	require.NoError(t, err)
	assert.False(t, recSk.Equal(sks[0]))
	assert.False(t, recPk.Equal(pks[0]))
	assert.False(t, recSig.Equal(sigs[0]))
	recSk.Close()
	recPk.Close()
	recSig.Close()

	recSk, err = ThresholdPrivateKeyRecover(skShares[n-m:], ids[n-m:])
	require.NoError(t, err)
	defer recSk.Close()
	recPk, err = ThresholdPublicKeyRecover(pkShares[n-m:], ids[n-m:])
	require.NoError(t, err)
	defer recPk.Close()
	recSig, err = ThresholdSignatureRecover(sigShares[n-m:], ids[n-m:])
	require.NoError(t, err)
	defer recSig.Close()
	assert.True(t, recSk.Equal(sks[0]))
	assert.True(t, recPk.Equal(pks[0]))
	assert.True(t, recSig.Equal(sigs[0]))
}

func TestThreshold_RecoverRejectsBadIDs(t *testing.T) {
	d, err := ThresholdDeal(2, 3)
	require.NoError(t, err)
	defer d.Close()

	_, err = ThresholdPrivateKeyRecover(d.Shares[:2], d.IDs[:1])
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = ThresholdPrivateKeyRecover(d.Shares[:2], [][]byte{d.IDs[0], d.IDs[0]})
	var ee *EngineError
	assert.ErrorAs(t, err, &ee)

	_, err = ThresholdPrivateKeyShare(d.Shares, make([]byte, HashSize))
	assert.ErrorAs(t, err, &ee)
}

func TestThresholdDeal_VerifyAndRecover(t *testing.T) {
	_, err := ThresholdDeal(4, 3)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	d, err := ThresholdDeal(3, 5)
	require.NoError(t, err)
	defer d.Close()
	for i, share := range d.Shares {
		ok, err := ThresholdVerifyShare(share, d.IDs[i], d.Commitments)
		require.NoError(t, err)
		assert.True(t, ok, "share %d", i)
	}
	ok, err := ThresholdVerifyShare(d.Shares[0], d.IDs[1], d.Commitments)
	require.NoError(t, err)
	assert.False(t, ok)

	hash := sha256.Sum256([]byte("group message"))
	sigs := make([]*G2Element, 3)
	for i := range sigs {
		sigs[i] = ThresholdSign(d.Shares[i+2], hash[:])
		defer sigs[i].Close()
	}
	sig, err := ThresholdSignatureRecover(sigs, d.IDs[2:])
	require.NoError(t, err)
	defer sig.Close()
	assert.True(t, ThresholdVerify(d.PublicKey(), hash[:], sig))
}

func TestBuildSignHash(t *testing.T) {
	q, err := HashFromString("0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, byte(1), q[0])
	_, err = HashFromString("00ff")
	assert.Error(t, err)

	var id, msg Hash
	h1 := BuildSignHash(1, q, id, msg)
	h2 := BuildSignHash(2, q, id, msg)
	assert.NotEqual(t, h1, h2)

	inner := sha256.New()
	inner.Write([]byte{1})
	inner.Write(q[:])
	inner.Write(id[:])
	inner.Write(msg[:])
	assert.Equal(t, Hash(sha256.Sum256(inner.Sum(nil))), h1)
}
