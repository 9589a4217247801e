package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/zmlAEQ/bls-signatures/pkg/bls"
)

// emit prints fields as sorted "key: value" lines or as one JSON object.
func emit(ctx *cli.Context, fields map[string]any) error {
	w := ctx.App.Writer
	if cfg.Output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s: %v\n", k, fields[k]); err != nil {
			return err
		}
	}
	return nil
}

func decodeHex(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "--%s", name)
	}
	return b, nil
}

func openScheme() (bls.Scheme, error) {
	s, ok := bls.NewScheme(cfg.Scheme)
	if !ok {
		return nil, errors.Errorf("unknown scheme %q", cfg.Scheme)
	}
	return s, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
