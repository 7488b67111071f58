package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}

func TestEnrichLogger(t *testing.T) {
	logger, buf := newTestLogger()

	enriched := EnrichLogger(logger, "sess-123", "purchase")
	enriched.Info("processing")

	out := buf.String()
	assert.Contains(t, out, "session_id=sess-123")
	assert.Contains(t, out, "event=purchase")
}

func TestEnrichLoggerNil(t *testing.T) {
	assert.Nil(t, EnrichLogger(nil, "sess", "ev"))
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogHookMissing(nil, "meta", "Purchase")
		LogRelayFailure(nil, "tiktok", "AddToCart", errors.New("down"))
		LogRelaySent(nil, "meta", "Purchase", 12.5)
		LogCorruptState(nil, "cart_intent", errors.New("bad json"))
		LogStageError(nil, "pixels", errors.New("panic"))
		LogAbandonment(nil, "cart", 7200000)
	})
}

func TestLogRelayFailure(t *testing.T) {
	logger, buf := newTestLogger()

	LogRelayFailure(logger, "meta", "Purchase", errors.New("502 from upstream"))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "platform=meta")
	assert.Contains(t, out, "502 from upstream")
}

func TestLogCorruptState(t *testing.T) {
	logger, buf := newTestLogger()

	LogCorruptState(logger, "cart_intent", errors.New("unexpected end of JSON"))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "key=cart_intent")
}

func TestLogRelaySentDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	// Default level is info, so the debug line must be suppressed.
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogRelaySent(logger, "tiktok", "CompletePayment", 8.1)
	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(2 * time.Millisecond)
	elapsed := done()

	assert.GreaterOrEqual(t, elapsed, 1.0)
}
