package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/shopadmin/internal/api/requestctx"
	"github.com/creamcroissant/shopadmin/internal/api/session"
	"github.com/creamcroissant/shopadmin/internal/auth/token"
	"github.com/creamcroissant/shopadmin/internal/service"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(requestctx.AdminFromContext(r.Context()).Email))
}

func TestProtectedRouteRedirectsWithoutFlag(t *testing.T) {
	sessions := session.NewManager(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("s", 32))), session.Options{})
	h := ProtectedRoute(sessions, "/admin")(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	login := httptest.NewRecorder()
	require.NoError(t, sessions.SetLoggedIn(login, httptest.NewRequest(http.MethodPost, "/admin", nil), "owner@example.com"))
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner@example.com", rec.Body.String())
}

func TestAPIGuard(t *testing.T) {
	mgr, err := token.NewManager(token.Options{SigningKey: []byte("k"), TTL: time.Hour})
	require.NoError(t, err)
	auth := service.NewAuthService(service.Credentials{Email: "owner@example.com", Password: "pw"}, nil, mgr, nil)
	res, err := auth.IssueToken(context.Background(), service.LoginInput{Email: "owner@example.com", Password: "pw"})
	require.NoError(t, err)

	translator, err := i18n.NewManager()
	require.NoError(t, err)
	h := APIGuard(auth, translator)(http.HandlerFunc(okHandler))

	for _, header := range []string{"", "Bearer", "Bearer nope", res.Token} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.JSONEq(t, `{"error":"Authentication required"}`, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner@example.com", rec.Body.String())
}

func TestI18nResolution(t *testing.T) {
	manager, err := i18n.NewManager()
	require.NoError(t, err)
	h := I18n(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestctx.GetLanguage(r.Context())))
	}))

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	assert.Equal(t, "zh-CN", serve(req).Body.String())

	assert.Equal(t, "en-US", serve(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String())

	rec := serve(httptest.NewRequest(http.MethodGet, "/?lang=zh", nil))
	assert.Equal(t, "zh-CN", rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, LangCookie, cookies[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	req.Header.Set("Accept-Language", "en")
	assert.Equal(t, "zh-CN", serve(req).Body.String())
}

func TestMetricsUseRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, DefaultMetricsConfig())

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Post("/orders/{id}/toggle", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/orders/"+id+"/toggle", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "shopadmin_http_requests_total" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		metric := mf.GetMetric()[0]
		assert.Equal(t, 3.0, metric.GetCounter().GetValue())
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == "route" {
				found = true
				assert.Equal(t, "/orders/{id}/toggle", lp.GetValue())
			}
		}
	}
	assert.True(t, found)
}

func TestMetricsGuard(t *testing.T) {
	h := MetricsGuard("secret")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStructuredLoggerRecordsAdmin(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	guard := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestctx.WithAdminClaims(r.Context(), requestctx.AdminClaims{Email: "owner@example.com", Via: "session"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	h := StructuredLogger(LoggingConfig{Logger: logger, SkipPaths: []string{"/healthz"}})(guard(http.HandlerFunc(okHandler)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Contains(t, buf.String(), `"admin":"owner@example.com"`)
	assert.Contains(t, buf.String(), `"msg":"request completed"`)

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, buf.String())
}

func TestSecureHeadersAndBodyLimit(t *testing.T) {
	h := SecureHeaders(BodyLimit(BodyLimitConfig{MaxBytes: 4})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "too large", http.StatusRequestEntityTooLarge)
		}
	})))
	req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader("email=aaaaaaaa"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
