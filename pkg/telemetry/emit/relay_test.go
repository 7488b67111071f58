package emit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/platform"
)

func relayServer(t *testing.T, status int, body RelayResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
}

func TestRelaySendSuccess(t *testing.T) {
	srv := relayServer(t, http.StatusOK, RelayResponse{Success: true})
	defer srv.Close()

	relay := NewRelay(platform.Meta, srv.URL, srv.Client(), nil, nil)
	outcome := relay.Send(context.Background(), "Purchase", map[string]any{"event_name": "Purchase"})

	assert.True(t, outcome.Success)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, platform.Meta, outcome.Platform)
	assert.Equal(t, "Purchase", outcome.EventName)
}

func TestRelaySendRejected(t *testing.T) {
	srv := relayServer(t, http.StatusOK, RelayResponse{Success: false, Error: "invalid token"})
	defer srv.Close()

	relay := NewRelay(platform.TikTok, srv.URL, srv.Client(), nil, nil)
	outcome := relay.Send(context.Background(), "AddToCart", map[string]any{})

	assert.False(t, outcome.Success)
	require.Error(t, outcome.Err)
	var relayErr *RelayError
	require.ErrorAs(t, outcome.Err, &relayErr)
	assert.Equal(t, "invalid token", relayErr.Reason)
}

func TestRelaySendHTTPError(t *testing.T) {
	srv := relayServer(t, http.StatusBadGateway, RelayResponse{})
	defer srv.Close()

	relay := NewRelay(platform.Meta, srv.URL, srv.Client(), nil, nil)
	outcome := relay.Send(context.Background(), "Search", map[string]any{})

	assert.False(t, outcome.Success)
	assert.Error(t, outcome.Err)
}

func TestRelayDisabledWithoutEndpoint(t *testing.T) {
	relay := NewRelay(platform.Meta, "", nil, nil, nil)
	outcome := relay.Send(context.Background(), "Purchase", map[string]any{})

	assert.False(t, outcome.Success)
	assert.NoError(t, outcome.Err)
}

// One platform's outage must never silence telemetry to the other:
// SendParallel settles all sends and reports each outcome independently.
func TestSendParallelSettlesAll(t *testing.T) {
	good := relayServer(t, http.StatusOK, RelayResponse{Success: true})
	defer good.Close()
	bad := relayServer(t, http.StatusInternalServerError, RelayResponse{})
	defer bad.Close()

	metaRelay := NewRelay(platform.Meta, bad.URL, bad.Client(), nil, nil)
	tiktokRelay := NewRelay(platform.TikTok, good.URL, good.Client(), nil, nil)

	outcomes := SendParallel(context.Background(),
		func(ctx context.Context) Outcome {
			return metaRelay.Send(ctx, "Purchase", map[string]any{})
		},
		func(ctx context.Context) Outcome {
			return tiktokRelay.Send(ctx, "CompletePayment", map[string]any{})
		},
	)

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Success)
	assert.Error(t, outcomes[0].Err)
	assert.True(t, outcomes[1].Success, "healthy platform must complete despite the other failing")
}
