package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		t.Fatalf("unmarshal log line %q: %v", line, err)
	}
	return fields
}

func TestContextFieldsReachTheOutput(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "pos-test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithCartID(ctx, "cart-9")
	ctx = logg.WithStoreID(ctx, "store-3")
	logg.Info(ctx, "cart updated")

	fields := logLine(t, &buf)
	if fields["request_id"] != "req-1" {
		t.Fatalf("request_id = %v", fields["request_id"])
	}
	if fields["cart_id"] != "cart-9" {
		t.Fatalf("cart_id = %v", fields["cart_id"])
	}
	if fields["store_id"] != "store-3" {
		t.Fatalf("store_id = %v", fields["store_id"])
	}
	if fields["service"] != "pos-test" {
		t.Fatalf("service = %v", fields["service"])
	}
}

func TestLevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "pos-test", Level: zerolog.WarnLevel, Output: &buf})

	logg.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("info line leaked through warn level: %q", buf.String())
	}

	logg.Warn(context.Background(), "kept")
	if fields := logLine(t, &buf); fields["message"] != "kept" {
		t.Fatalf("message = %v", fields["message"])
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := ParseLevel("warn"); got != zerolog.WarnLevel {
		t.Fatalf("level = %v, want warn", got)
	}
	if got := ParseLevel("nonsense"); got != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info fallback", got)
	}
	if got := ParseLevel(""); got != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info default", got)
	}
}
