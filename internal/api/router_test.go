package api

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/shopadmin/internal/api/handler"
	"github.com/creamcroissant/shopadmin/internal/api/session"
	"github.com/creamcroissant/shopadmin/internal/auth/token"
	"github.com/creamcroissant/shopadmin/internal/cache"
	"github.com/creamcroissant/shopadmin/internal/config"
	"github.com/creamcroissant/shopadmin/internal/content"
	"github.com/creamcroissant/shopadmin/internal/repository"
	"github.com/creamcroissant/shopadmin/internal/service"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

type staticOrders struct{}

func (staticOrders) List(context.Context) ([]*repository.Order, error) {
	return []*repository.Order{{ID: "order-1", Status: repository.StatusPending}}, nil
}

func (staticOrders) SetStatus(context.Context, string, repository.OrderStatus) error { return nil }

func (staticOrders) Delete(context.Context, string) error { return nil }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, health repository.HealthChecker, metrics config.MetricsConfig) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	translator, err := i18n.NewManager()
	require.NoError(t, err)
	tokens, err := token.NewManager(token.Options{SigningKey: []byte("k"), TTL: time.Hour})
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	dash, err := service.NewDashboardService(staticOrders{}, service.DashboardOptions{I18n: translator, Logger: logger, Registry: reg})
	require.NoError(t, err)
	render, err := handler.NewRenderer(handler.RendererOptions{I18n: translator, Images: content.NewImageURLBuilder("", "p", "production")})
	require.NoError(t, err)

	return NewRouter(logger, Services{
		Auth:      service.NewAuthService(service.Credentials{Email: "a@b.c", Password: "pw"}, nil, tokens, nil),
		Dashboard: dash,
		Sessions:  session.NewManager(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 32))), session.Options{}),
		States:    cache.NewStore(cache.Options{}),
		Renderer:  render,
		I18n:      translator,
		Health:    health,
	}, metrics, reg)
}

func serve(h http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	h := newTestRouter(t, pinger{}, config.MetricsConfig{})
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/_internal/ready", nil).Code)

	down := newTestRouter(t, pinger{err: errors.New("unreachable")}, config.MetricsConfig{})
	rec := serve(down, http.MethodGet, "/_internal/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}

func TestRoutesAreGuarded(t *testing.T) {
	h := newTestRouter(t, nil, config.MetricsConfig{})

	rec := serve(h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, handler.LoginPath, rec.Header().Get("Location"))

	for _, path := range []string{handler.DashboardPath, handler.ViewPath, handler.DashboardPath + "/orders/order-1/delete"} {
		rec = serve(h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, handler.LoginPath, rec.Header().Get("Location"), path)
	}

	rec = serve(h, http.MethodGet, "/api/v1/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, http.MethodGet, handler.LoginPath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/nope", nil).Code)
}

func TestLoginPageLanguage(t *testing.T) {
	h := newTestRouter(t, nil, config.MetricsConfig{})
	rec := serve(h, http.MethodGet, handler.LoginPath, http.Header{"Accept-Language": {"zh-CN,zh;q=0.9"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lang="zh-CN"`)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, nil, config.MetricsConfig{Enabled: true, Token: "secret"})

	serve(h, http.MethodGet, handler.LoginPath, nil)

	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "/metrics", nil).Code)

	rec := serve(h, http.MethodGet, "/metrics", http.Header{"Authorization": {"Bearer secret"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shopadmin_http_requests_total")

	assert.Equal(t, http.StatusNotFound, serve(newTestRouter(t, nil, config.MetricsConfig{}), http.MethodGet, "/metrics", nil).Code)
}
