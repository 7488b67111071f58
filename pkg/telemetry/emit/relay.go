package emit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/observability"
)

// defaultRelayTimeout bounds a single relay call when the caller's
// http.Client carries no timeout of its own.
const defaultRelayTimeout = 10 * time.Second

// RelayResponse is the backend endpoint's reply shape.
type RelayResponse struct {
	Success          bool           `json:"success"`
	Error            string         `json:"error,omitempty"`
	PlatformResponse map[string]any `json:"platform_response,omitempty"`
}

// Outcome is the observed result of one relay attempt. A failed relay
// is logged and dropped; Err is carried for observation only and is
// never propagated to the storefront.
type Outcome struct {
	Platform  string
	EventName string
	Success   bool
	Err       error
	Response  RelayResponse
	Duration  time.Duration
}

// Relay posts event payloads to one ad platform's server-side endpoint.
type Relay struct {
	platform string
	endpoint string
	client   *http.Client
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
}

// NewRelay creates a server relay for the named platform. An empty
// endpoint disables the relay (Send becomes a logged no-op), which
// keeps zero-config construction safe.
func NewRelay(
	platformName, endpoint string,
	client *http.Client,
	logger *slog.Logger,
	metrics observability.MetricsRecorder,
) *Relay {
	if client == nil {
		client = &http.Client{Timeout: defaultRelayTimeout}
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Relay{
		platform: platformName,
		endpoint: endpoint,
		client:   client,
		logger:   logger,
		metrics:  metrics,
	}
}

// Platform returns the destination platform name.
func (r *Relay) Platform() string { return r.platform }

// Enabled reports whether the relay has an endpoint configured.
func (r *Relay) Enabled() bool { return r.endpoint != "" }

// Send posts one payload and observes the result. It never returns an
// error to the caller's control flow; failures are logged, counted,
// and reported through the Outcome.
func (r *Relay) Send(ctx context.Context, eventName string, payload any) Outcome {
	outcome := Outcome{Platform: r.platform, EventName: eventName}

	if !r.Enabled() {
		if r.logger != nil {
			r.logger.Debug("relay disabled, skipping",
				slog.String("platform", r.platform),
				slog.String("event", eventName))
		}
		return outcome
	}

	start := time.Now()
	resp, err := r.post(ctx, payload)
	outcome.Duration = time.Since(start)

	if err != nil {
		outcome.Err = err
		observability.LogRelayFailure(r.logger, r.platform, eventName, err)
		r.metrics.RecordRelay(ctx, r.platform, false, outcome.Duration)
		return outcome
	}

	outcome.Response = resp
	outcome.Success = resp.Success
	if !resp.Success {
		outcome.Err = &RelayError{Platform: r.platform, EventName: eventName, Reason: resp.Error}
		observability.LogRelayFailure(r.logger, r.platform, eventName, outcome.Err)
		r.metrics.RecordRelay(ctx, r.platform, false, outcome.Duration)
		return outcome
	}

	observability.LogRelaySent(r.logger, r.platform, eventName, float64(outcome.Duration.Milliseconds()))
	r.metrics.RecordRelay(ctx, r.platform, true, outcome.Duration)
	return outcome
}

func (r *Relay) post(ctx context.Context, payload any) (RelayResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return RelayResponse{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return RelayResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := r.client.Do(req)
	if err != nil {
		return RelayResponse{}, fmt.Errorf("post: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return RelayResponse{}, fmt.Errorf("unexpected status %d", httpResp.StatusCode)
	}

	var resp RelayResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return RelayResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// RelayError reports a relay endpoint that answered success:false.
type RelayError struct {
	Platform  string
	EventName string
	Reason    string
}

// Error implements the error interface.
func (e *RelayError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("relay to %s rejected %s: %s", e.Platform, e.EventName, e.Reason)
	}
	return fmt.Sprintf("relay to %s rejected %s", e.Platform, e.EventName)
}

// SendParallel runs all sends concurrently and waits for every one to
// finish, collecting each outcome independently. This is a settle-all
// wait: one platform's failure never prevents completion or
// observation of the others.
func SendParallel(ctx context.Context, sends ...func(context.Context) Outcome) []Outcome {
	outcomes := make([]Outcome, len(sends))
	var wg sync.WaitGroup

	for i, send := range sends {
		wg.Add(1)
		go func(i int, send func(context.Context) Outcome) {
			defer wg.Done()
			outcomes[i] = send(ctx)
		}(i, send)
	}

	wg.Wait()
	return outcomes
}
