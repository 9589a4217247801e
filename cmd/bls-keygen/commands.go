package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"lukechampine.com/frand"

	"github.com/zmlAEQ/bls-signatures/pkg/bls"
	"github.com/zmlAEQ/bls-signatures/pkg/bls/hd"
	"github.com/zmlAEQ/bls-signatures/pkg/logger"
)

var errInvalidSignature = errors.New("invalid signature")

var (
	seedFlag = &cli.StringFlag{
		Name:  "seed",
		Usage: "hex seed of at least 32 bytes; random when omitted",
	}
	mnemonicFlag = &cli.StringFlag{
		Name:  "mnemonic",
		Usage: "BIP39 mnemonic used instead of --seed",
	}
	passphraseFlag = &cli.StringFlag{
		Name:  "passphrase",
		Usage: "BIP39 passphrase",
	}
	pathFlag = &cli.StringFlag{
		Name:  "path",
		Usage: "derivation path such as m/12381'/3600'/0/0",
		Value: "m",
	}
	skFlag   = &cli.StringFlag{Name: "sk", Usage: "hex private key", Required: true}
	pkFlag   = &cli.StringFlag{Name: "pk", Usage: "hex public key", Required: true}
	sigFlag  = &cli.StringFlag{Name: "sig", Usage: "hex signature", Required: true}
	msgFlag  = &cli.StringFlag{Name: "msg", Usage: "message text", Required: true}
	sigsFlag = &cli.StringSliceFlag{
		Name:     "sig",
		Usage:    "hex signature, repeatable",
		Required: true,
	}
	thresholdFlag = &cli.IntFlag{Name: "t", Usage: "threshold (t-of-n)", Value: 3}
	totalFlag     = &cli.IntFlag{Name: "n", Usage: "total participants", Value: 4}
	outFlag       = &cli.StringFlag{Name: "out", Usage: "output directory", Value: "bls-shares"}
)

var (
	keygenCommand = &cli.Command{
		Name:   "keygen",
		Usage:  "Generate a private key with the configured scheme",
		Flags:  []cli.Flag{seedFlag},
		Action: keygen,
	}
	deriveCommand = &cli.Command{
		Name:   "derive",
		Usage:  "Derive an HD key from a seed or mnemonic",
		Flags:  []cli.Flag{seedFlag, mnemonicFlag, passphraseFlag, pathFlag},
		Action: derive,
		Description: `
Hardened path elements carry a trailing ' or h. Unhardened elements hash the
parent public key in the configured encoding, so current and legacy trees
differ.`,
	}
	signCommand = &cli.Command{
		Name:   "sign",
		Usage:  "Sign a message",
		Flags:  []cli.Flag{skFlag, msgFlag},
		Action: sign,
	}
	verifyCommand = &cli.Command{
		Name:   "verify",
		Usage:  "Verify a signature; exits non-zero when invalid",
		Flags:  []cli.Flag{pkFlag, msgFlag, sigFlag},
		Action: verify,
	}
	aggregateCommand = &cli.Command{
		Name:   "aggregate",
		Usage:  "Aggregate signatures",
		Flags:  []cli.Flag{sigsFlag},
		Action: aggregate,
	}
	dealCommand = &cli.Command{
		Name:   "deal",
		Usage:  "Deal t-of-n threshold key shares into JSON files",
		Flags:  []cli.Flag{thresholdFlag, totalFlag, outFlag},
		Action: deal,
	}
)

func readSeed(ctx *cli.Context) (*bls.SecureBuffer, error) {
	if !ctx.IsSet(seedFlag.Name) {
		seed := make([]byte, bls.MinSeedSize)
		frand.Read(seed)
		defer clear(seed)
		return bls.NewSecureBuffer(seed), nil
	}
	seed, err := decodeHex(seedFlag.Name, ctx.String(seedFlag.Name))
	if err != nil {
		return nil, err
	}
	defer clear(seed)
	return bls.NewSecureBuffer(seed), nil
}

func keygen(ctx *cli.Context) error {
	s, err := openScheme()
	if err != nil {
		return err
	}
	defer s.Close()
	seed, err := readSeed(ctx)
	if err != nil {
		return err
	}
	defer seed.Close()
	sk, err := s.KeyGen(seed.Bytes())
	if err != nil {
		return err
	}
	defer sk.Close()
	pk := sk.G1Element()
	defer pk.Close()
	skb := sk.Serialize()
	defer skb.Close()

	enc := cfg.ElementEncoding()
	logger.InfoJ("bls_keygen", map[string]any{"scheme": s.Name(), "encoding": enc.String(), "result": "ok"})
	return emit(ctx, map[string]any{
		"private_key": hex.EncodeToString(skb.Bytes()),
		"public_key":  hex.EncodeToString(pk.Serialize(enc)),
		"fingerprint": fmt.Sprintf("%08x", pk.Fingerprint(enc)),
	})
}

// parsePath turns m/a/b'/c into child indices.
func parsePath(p string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(p), "/")
	if parts[0] != "m" {
		return nil, errors.Errorf("path %q must start with m", p)
	}
	out := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h")
		part = strings.TrimRight(part, "'h")
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil || uint32(v) >= hd.HardenedOffset {
			return nil, errors.Errorf("bad path element %q", part)
		}
		i := uint32(v)
		if hardened {
			i = hd.Hardened(i)
		}
		out = append(out, i)
	}
	return out, nil
}

func derive(ctx *cli.Context) error {
	path, err := parsePath(ctx.String(pathFlag.Name))
	if err != nil {
		return err
	}
	var node *hd.ExtendedPrivateKey
	if ctx.IsSet(mnemonicFlag.Name) {
		node, err = hd.FromMnemonic(ctx.String(mnemonicFlag.Name), ctx.String(passphraseFlag.Name))
	} else {
		seed, serr := readSeed(ctx)
		if serr != nil {
			return serr
		}
		node, err = hd.FromSeed(seed.Bytes())
		seed.Close()
	}
	if err != nil {
		return err
	}
	enc := cfg.ElementEncoding()
	for _, i := range path {
		child, err := node.PrivateChild(i, enc)
		node.Close()
		if err != nil {
			return errors.Wrapf(err, "derive %d", i)
		}
		node = child
	}
	defer node.Close()
	xprv := node.Serialize(enc)
	defer xprv.Close()
	xpub := node.ExtendedPublicKey()
	defer xpub.Close()
	return emit(ctx, map[string]any{
		"path":                 ctx.String(pathFlag.Name),
		"depth":                node.Depth(),
		"extended_private_key": hex.EncodeToString(xprv.Bytes()),
		"extended_public_key":  hex.EncodeToString(xpub.Serialize(enc)),
		"fingerprint":          fmt.Sprintf("%08x", xpub.PublicKey().Fingerprint(enc)),
	})
}

func sign(ctx *cli.Context) error {
	s, err := openScheme()
	if err != nil {
		return err
	}
	defer s.Close()
	raw, err := decodeHex(skFlag.Name, ctx.String(skFlag.Name))
	if err != nil {
		return err
	}
	sk, err := bls.PrivateKeyFromBytes(raw, false)
	clear(raw)
	if err != nil {
		return err
	}
	defer sk.Close()
	sig := s.Sign(sk, []byte(ctx.String(msgFlag.Name)))
	defer sig.Close()
	return emit(ctx, map[string]any{"signature": hex.EncodeToString(sig.Serialize(cfg.ElementEncoding()))})
}

func verify(ctx *cli.Context) error {
	s, err := openScheme()
	if err != nil {
		return err
	}
	defer s.Close()
	enc := cfg.ElementEncoding()
	pkb, err := decodeHex(pkFlag.Name, ctx.String(pkFlag.Name))
	if err != nil {
		return err
	}
	pk, err := bls.G1FromBytes(pkb, enc)
	if err != nil {
		return err
	}
	defer pk.Close()
	sigb, err := decodeHex(sigFlag.Name, ctx.String(sigFlag.Name))
	if err != nil {
		return err
	}
	sig, err := bls.G2FromBytes(sigb, enc)
	if err != nil {
		return err
	}
	defer sig.Close()
	ok := s.Verify(pk, []byte(ctx.String(msgFlag.Name)), sig)
	if err := emit(ctx, map[string]any{"valid": ok}); err != nil {
		return err
	}
	if !ok {
		return errInvalidSignature
	}
	return nil
}

func aggregate(ctx *cli.Context) error {
	s, err := openScheme()
	if err != nil {
		return err
	}
	defer s.Close()
	enc := cfg.ElementEncoding()
	var sigs []*bls.G2Element
	defer func() {
		for _, sig := range sigs {
			sig.Close()
		}
	}()
	for _, h := range ctx.StringSlice(sigsFlag.Name) {
		b, err := decodeHex(sigsFlag.Name, h)
		if err != nil {
			return err
		}
		sig, err := bls.G2FromBytes(b, enc)
		if err != nil {
			return err
		}
		sigs = append(sigs, sig)
	}
	agg, err := s.AggregateSigs(sigs)
	if err != nil {
		return err
	}
	defer agg.Close()
	return emit(ctx, map[string]any{"signature": hex.EncodeToString(agg.Serialize(enc))})
}

type shareFile struct {
	Scheme      string `json:"scheme"`
	GroupPubKey string `json:"group_pubkey"`
	Threshold   int    `json:"threshold"`
	Index       int    `json:"index"`
	ID          string `json:"id"`
	Share       string `json:"share"`
}

type publicFile struct {
	GroupPubKey string   `json:"group_pubkey"`
	Commitments []string `json:"commitments"`
	Threshold   int      `json:"threshold"`
	N           int      `json:"n"`
}

func deal(ctx *cli.Context) error {
	t, n, out := ctx.Int(thresholdFlag.Name), ctx.Int(totalFlag.Name), ctx.String(outFlag.Name)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	d, err := bls.ThresholdDeal(t, n)
	if err != nil {
		return err
	}
	defer d.Close()
	enc := cfg.ElementEncoding()
	gpk := hex.EncodeToString(d.PublicKey().Serialize(enc))

	pub := publicFile{GroupPubKey: gpk, Threshold: t, N: n}
	for _, c := range d.Commitments {
		pub.Commitments = append(pub.Commitments, hex.EncodeToString(c.Serialize(enc)))
	}
	if err := writeJSON(filepath.Join(out, "bls-public.json"), pub); err != nil {
		return err
	}
	for i, share := range d.Shares {
		buf := share.Serialize()
		f := shareFile{
			Scheme:      cfg.Scheme,
			GroupPubKey: gpk,
			Threshold:   t,
			Index:       i + 1,
			ID:          hex.EncodeToString(d.IDs[i]),
			Share:       hex.EncodeToString(buf.Bytes()),
		}
		buf.Close()
		if err := writeJSON(filepath.Join(out, fmt.Sprintf("bls-share-%d.json", i+1)), f); err != nil {
			return err
		}
	}
	return emit(ctx, map[string]any{"written": n + 1, "dir": out})
}
