package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedHex = hex.EncodeToString([]byte("seedweedseedweedseedweedseedweed"))

func run(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(append([]string{"bls-keygen", "--output", "json"}, args...))
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &fields), out.String())
	return fields, nil
}

func TestKeygen_Deterministic(t *testing.T) {
	a, err := run(t, "keygen", "--seed", seedHex)
	require.NoError(t, err)
	b, err := run(t, "keygen", "--seed", seedHex)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a["public_key"], 96)
	assert.Len(t, a["private_key"], 64)

	_, err = run(t, "keygen", "--seed", "00ff")
	assert.Error(t, err)
	_, err = run(t, "--scheme", "nope", "keygen")
	assert.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	for _, scheme := range []string{"basic", "augmented", "pop", "legacy"} {
		key, err := run(t, "--scheme", scheme, "keygen", "--seed", seedHex)
		require.NoError(t, err, scheme)
		sk, pk := key["private_key"].(string), key["public_key"].(string)

		sig, err := run(t, "--scheme", scheme, "sign", "--sk", sk, "--msg", "hello")
		require.NoError(t, err, scheme)
		s := sig["signature"].(string)

		res, err := run(t, "--scheme", scheme, "verify", "--pk", pk, "--msg", "hello", "--sig", s)
		require.NoError(t, err, scheme)
		assert.Equal(t, true, res["valid"], scheme)

		_, err = run(t, "--scheme", scheme, "verify", "--pk", pk, "--msg", "other", "--sig", s)
		assert.ErrorIs(t, err, errInvalidSignature, scheme)
	}
}

func TestAggregate(t *testing.T) {
	key, err := run(t, "--scheme", "basic", "keygen", "--seed", seedHex)
	require.NoError(t, err)
	sk := key["private_key"].(string)
	s1, err := run(t, "--scheme", "basic", "sign", "--sk", sk, "--msg", "a")
	require.NoError(t, err)
	s2, err := run(t, "--scheme", "basic", "sign", "--sk", sk, "--msg", "b")
	require.NoError(t, err)

	agg, err := run(t, "--scheme", "basic", "aggregate",
		"--sig", s1["signature"].(string), "--sig", s2["signature"].(string))
	require.NoError(t, err)
	assert.Len(t, agg["signature"], 192)
	assert.NotEqual(t, s1["signature"], agg["signature"])
}

func TestDerive(t *testing.T) {
	cur, err := run(t, "derive", "--seed", seedHex, "--path", "m/12381'/3600'/0/0")
	require.NoError(t, err)
	assert.Equal(t, float64(4), cur["depth"])
	assert.Len(t, cur["extended_private_key"], 77*2)

	leg, err := run(t, "--encoding", "legacy", "derive", "--seed", seedHex, "--path", "m/12381'/3600'/0/0")
	require.NoError(t, err)
	assert.Len(t, leg["extended_private_key"], 93*2)
	assert.NotEqual(t, cur["fingerprint"], leg["fingerprint"])

	hardened, err := run(t, "derive", "--seed", seedHex, "--path", "m/1h")
	require.NoError(t, err)
	quoted, err := run(t, "derive", "--seed", seedHex, "--path", "m/1'")
	require.NoError(t, err)
	assert.Equal(t, hardened, quoted)

	_, err = run(t, "derive", "--seed", seedHex, "--path", "x/1")
	assert.Error(t, err)
}

func TestParsePath(t *testing.T) {
	got, err := parsePath("m/0/1'/2h")
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1 | 1<<31, 2 | 1<<31}, got)

	got, err = parsePath("m")
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, bad := range []string{"", "n/1", "m/-1", "m/2147483648", "m//1"} {
		_, err := parsePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestDeal_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	res, err := run(t, "deal", "--t", "2", "--n", "3", "--out", dir)
	require.NoError(t, err)
	assert.Equal(t, float64(4), res["written"])

	raw, err := os.ReadFile(filepath.Join(dir, "bls-public.json"))
	require.NoError(t, err)
	var pub publicFile
	require.NoError(t, json.Unmarshal(raw, &pub))
	assert.Len(t, pub.Commitments, 2)
	assert.Equal(t, pub.Commitments[0], pub.GroupPubKey)

	for i := 1; i <= 3; i++ {
		raw, err := os.ReadFile(filepath.Join(dir, "bls-share-"+string(rune('0'+i))+".json"))
		require.NoError(t, err)
		var f shareFile
		require.NoError(t, json.Unmarshal(raw, &f))
		assert.Equal(t, i, f.Index)
		assert.Equal(t, pub.GroupPubKey, f.GroupPubKey)
		assert.Len(t, f.Share, 64)
	}

	_, err = run(t, "deal", "--t", "4", "--n", "3", "--out", dir)
	assert.Error(t, err)
}
