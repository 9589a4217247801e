// Package logger provides process-wide structured logging. Events are
// emitted as single-line JSON records.
package logger

import (
	"io"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base  = build(zapcore.Lock(os.Stderr))
)

func build(w zapcore.WriteSyncer) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.MessageKey = "event"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, level))
}

func get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetOutput redirects all subsequent records to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	base = build(zapcore.AddSync(w))
	mu.Unlock()
}

// SetLevel accepts debug, info, warn or error.
func SetLevel(s string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

// Sync flushes buffered records.
func Sync() { _ = get().Sync() }

func Info(msg string)  { get().Info(msg) }
func Warn(msg string)  { get().Warn(msg) }
func Error(msg string) { get().Error(msg) }

// InfoJ logs event with the given fields in key order.
func InfoJ(event string, fields map[string]any) { get().Info(event, toFields(fields)...) }

func WarnJ(event string, fields map[string]any) { get().Warn(event, toFields(fields)...) }

func ErrorJ(event string, fields map[string]any) { get().Error(event, toFields(fields)...) }

func toFields(m map[string]any) []zap.Field {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, m[k]))
	}
	return out
}
