package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestInfoJ_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	InfoJ("bls_keygen", map[string]any{"result": "ok", "scheme": "aug"})
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if rec["event"] != "bls_keygen" || rec["result"] != "ok" || rec["scheme"] != "aug" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if rec["level"] != "info" {
		t.Fatalf("level: got %v", rec["level"])
	}
}

func TestSetLevel_FiltersBelow(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	if err := SetLevel("error"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	defer func() { _ = SetLevel("info") }()
	Info("dropped")
	ErrorJ("kept", map[string]any{"op": "verify"})
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("level filter: %q", buf.String())
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatalf("want error for unknown level")
	}
}
