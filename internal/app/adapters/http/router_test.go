package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitchvoice/internal/app/domain/botinfo"
	"twitchvoice/internal/app/infrastructure/config"
	"twitchvoice/internal/app/ports"
	"twitchvoice/pkg/logger"
)

type fakeChat struct {
	state ports.ConnState
	id    string
}

func (f *fakeChat) State() ports.ConnState { return f.state }
func (f *fakeChat) ConnectionID() string   { return f.id }

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *Router, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	info := botinfo.New()
	chat := &fakeChat{state: ports.Handshaking, id: "c0ffee"}
	r := NewRouter(logger.Discard(), config.HTTP{AuthToken: "secret"}, info, chat)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	info.Set("voicebot", "icsboyx")
	chat.state = ports.Active

	w = serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"status":        "ok",
		"state":         ports.Active.String(),
		"connection_id": "c0ffee",
		"name":          "voicebot",
		"channel":       "icsboyx",
	}, body)
}

func TestRouter_MetricsAuth(t *testing.T) {
	r := NewRouter(logger.Discard(), config.HTTP{AuthToken: "secret"}, botinfo.New(), &fakeChat{})

	tests := []struct {
		name  string
		setup func(*http.Request)
		want  int
	}{
		{"none", func(*http.Request) {}, http.StatusUnauthorized},
		{"wrong_bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret") }, http.StatusOK},
		{"basic", func(r *http.Request) { r.SetBasicAuth("admin", "secret") }, http.StatusOK},
		{"basic_wrong_user", func(r *http.Request) { r.SetBasicAuth("root", "secret") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			tt.setup(req)
			assert.Equal(t, tt.want, serve(r, req).Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
	req.Header.Set("Authorization", "Bearer secret")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRouter_OpenWithoutToken(t *testing.T) {
	r := NewRouter(logger.Discard(), config.HTTP{}, botinfo.New(), &fakeChat{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_RunShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	r := NewRouter(logger.Discard(), config.HTTP{Address: addr}, botinfo.New(), &fakeChat{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusServiceUnavailable
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
