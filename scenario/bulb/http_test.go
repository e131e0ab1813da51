package bulb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toggleServices serves the agent and user toggle routes over one shared store.
type toggleServices struct {
	store *MemoryBackend
	agent *httptest.Server
	user  *httptest.Server

	// statusBody, when set, replaces the check_status response body.
	statusBody *string
	failSwitch bool
}

func newToggleServices(t *testing.T) *toggleServices {
	t.Helper()
	s := &toggleServices{store: NewMemoryBackend()}
	s.agent = httptest.NewServer(s.router(SideAgent))
	s.user = httptest.NewServer(s.router(SideUser))
	t.Cleanup(func() {
		s.agent.Close()
		s.user.Close()
	})
	return s
}

func (s *toggleServices) router(side Side) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/reset", func(w http.ResponseWriter, req *http.Request) {
		_ = s.store.Reset(req.Context())
		writeJSON(w, map[string]bool{"ok": true})
	}).Methods(http.MethodPost)
	r.HandleFunc("/switch", func(w http.ResponseWriter, req *http.Request) {
		if s.failSwitch {
			http.Error(w, "store locked", http.StatusInternalServerError)
			return
		}
		_ = s.store.Flip(req.Context(), side)
		writeJSON(w, map[string]any{"ok": true, "message": string(side) + " switch flipped"})
	}).Methods(http.MethodPost)

	switch side {
	case SideAgent:
		r.HandleFunc("/state", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, s.store.Switches().BulbOn())
		}).Methods(http.MethodGet)
	case SideUser:
		r.HandleFunc("/check_status", func(w http.ResponseWriter, _ *http.Request) {
			if s.statusBody != nil {
				_, _ = w.Write([]byte(*s.statusBody))
				return
			}
			on := s.store.Switches().BulbOn()
			writeJSON(w, map[string]any{"bulb_on": on, "message": StatusText(on)})
		}).Methods(http.MethodGet)
	}
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *toggleServices) backend() *HTTPBackend {
	return NewHTTPBackend(s.agent.URL+"/", s.user.URL)
}

func TestHTTPBackend_Flow(t *testing.T) {
	ctx := context.Background()
	services := newToggleServices(t)
	services.store.WithSwitches(Switches{Agent: true})
	b := services.backend()

	require.NoError(t, b.Health(ctx))
	require.NoError(t, b.Reset(ctx))
	assert.Equal(t, Switches{}, services.store.Switches())

	require.NoError(t, b.Flip(ctx, SideAgent))
	on, err := b.CheckStatus(ctx)
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, b.Flip(ctx, SideUser))
	on, err = b.CheckStatus(ctx)
	require.NoError(t, err)
	assert.True(t, on)

	state, err := b.State(ctx)
	require.NoError(t, err)
	assert.True(t, state)
	assert.Equal(t, 1, services.store.Flips(SideAgent))
	assert.Equal(t, 1, services.store.Flips(SideUser))

	assert.NoError(t, b.Close(ctx))
}

func TestHTTPBackend_Errors(t *testing.T) {
	type input struct {
		setup func(s *toggleServices)
		call  func(ctx context.Context, b *HTTPBackend) error
	}

	type expected struct {
		contains string
	}

	empty := ""
	garbage := "not json"

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "server error",
			input: input{
				setup: func(s *toggleServices) { s.failSwitch = true },
				call:  func(ctx context.Context, b *HTTPBackend) error { return b.Flip(ctx, SideUser) },
			},
			expected: expected{contains: "status 500: store locked"},
		},
		{
			name: "empty status body",
			input: input{
				setup: func(s *toggleServices) { s.statusBody = &empty },
				call: func(ctx context.Context, b *HTTPBackend) error {
					_, err := b.CheckStatus(ctx)
					return err
				},
			},
			expected: expected{contains: "empty response"},
		},
		{
			name: "malformed status body",
			input: input{
				setup: func(s *toggleServices) { s.statusBody = &garbage },
				call: func(ctx context.Context, b *HTTPBackend) error {
					_, err := b.CheckStatus(ctx)
					return err
				},
			},
			expected: expected{contains: "decode"},
		},
		{
			name: "unknown side",
			input: input{
				call: func(ctx context.Context, b *HTTPBackend) error { return b.Flip(ctx, Side("porch")) },
			},
			expected: expected{contains: `unknown side "porch"`},
		},
		{
			name: "service down",
			input: input{
				setup: func(s *toggleServices) { s.user.Close() },
				call:  func(ctx context.Context, b *HTTPBackend) error { return b.Health(ctx) },
			},
			expected: expected{contains: "/health"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			services := newToggleServices(t)
			if tc.input.setup != nil {
				tc.input.setup(services)
			}

			err := tc.input.call(context.Background(), services.backend())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expected.contains)
		})
	}
}

func TestHTTPBackend_MissingRoute(t *testing.T) {
	services := newToggleServices(t)
	b := services.backend()

	// /state only exists on the agent service.
	b.agentURL = services.user.URL
	_, err := b.State(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
