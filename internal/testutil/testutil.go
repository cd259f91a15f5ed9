package testutil

import (
	"encoding/json"
	"io"
	"testing"

	"decimal-calculator/internal/observability"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Decimal parses s or fails the test.
func Decimal(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parsing decimal %q: %v", s, err)
	}
	return d
}

// ObserveLogs routes observability.Logger into an in-memory observer for
// the duration of the test.
func ObserveLogs(t testing.TB, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	old := observability.Logger
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = old })
	return logs
}

func DecodeJSON(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("decoding JSON: %v", err)
	}
}
