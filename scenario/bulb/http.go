package bulb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Default addresses of the toggle services.
const (
	DefaultAgentURL = "http://localhost:8001"
	DefaultUserURL  = "http://localhost:8002"
	DefaultTimeout  = 10 * time.Second
)

// HTTPBackend is a Backend talking to the agent and user toggle services.
//
// Routes used:
//
//	GET  {agent,user}/health
//	POST {agent,user}/reset
//	POST {agent,user}/switch
//	GET  user/check_status   {"bulb_on": bool}
//	GET  agent/state         bool
type HTTPBackend struct {
	agentURL string
	userURL  string
	client   *http.Client
}

// NewHTTPBackend creates a backend for the services at agentURL and userURL. Requests are
// traced with the global OpenTelemetry provider.
func NewHTTPBackend(agentURL, userURL string) *HTTPBackend {
	return &HTTPBackend{
		agentURL: strings.TrimRight(agentURL, "/"),
		userURL:  strings.TrimRight(userURL, "/"),
		client: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// WithHTTPClient replaces the HTTP client.
func (b *HTTPBackend) WithHTTPClient(client *http.Client) *HTTPBackend {
	b.client = client
	return b
}

func (b *HTTPBackend) Health(ctx context.Context) error {
	for _, base := range []string{b.agentURL, b.userURL} {
		if err := b.do(ctx, http.MethodGet, base+"/health", nil); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets both services. They may share one store, so resetting twice is harmless.
func (b *HTTPBackend) Reset(ctx context.Context) error {
	for _, base := range []string{b.agentURL, b.userURL} {
		if err := b.do(ctx, http.MethodPost, base+"/reset", nil); err != nil {
			return err
		}
	}
	return nil
}

func (b *HTTPBackend) Flip(ctx context.Context, side Side) error {
	switch side {
	case SideAgent:
		return b.do(ctx, http.MethodPost, b.agentURL+"/switch", nil)
	case SideUser:
		return b.do(ctx, http.MethodPost, b.userURL+"/switch", nil)
	default:
		return fmt.Errorf("bulb: unknown side %q", side)
	}
}

func (b *HTTPBackend) CheckStatus(ctx context.Context) (bool, error) {
	var status struct {
		BulbOn bool `json:"bulb_on"`
	}
	if err := b.do(ctx, http.MethodGet, b.userURL+"/check_status", &status); err != nil {
		return false, err
	}
	return status.BulbOn, nil
}

func (b *HTTPBackend) State(ctx context.Context) (bool, error) {
	var on bool
	if err := b.do(ctx, http.MethodGet, b.agentURL+"/state", &on); err != nil {
		return false, err
	}
	return on, nil
}

// Close releases idle connections.
func (b *HTTPBackend) Close(context.Context) error {
	b.client.CloseIdleConnections()
	return nil
}

// do sends a request and decodes the JSON body into out when out is non-nil.
func (b *HTTPBackend) do(ctx context.Context, method, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("bulb: build request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("bulb: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("bulb: read %s: %w", url, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("bulb: %s %s: status %d: %s",
			method, url, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if len(body) == 0 {
		return fmt.Errorf("bulb: %s %s: empty response", method, url)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("bulb: decode %s: %w", url, err)
	}
	return nil
}

var _ Backend = (*HTTPBackend)(nil)
