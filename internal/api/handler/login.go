// 文件路径: internal/api/handler/login.go
// 模块说明: 登录页与退出登录；凭证匹配后在会话中写入 isLoggedIn 标记。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/creamcroissant/shopadmin/internal/api/requestctx"
	"github.com/creamcroissant/shopadmin/internal/api/session"
	"github.com/creamcroissant/shopadmin/internal/service"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

// Paths shared by the web handlers and the router.
const (
	LoginPath     = "/admin"
	DashboardPath = "/admin/dashboard"
	ViewPath      = "/admin/dashboard/view"
)

// LoginHandler serves the login screen.
type LoginHandler struct {
	auth     service.AuthService
	sessions *session.Manager
	render   *Renderer
	i18n     *i18n.Manager
	logger   *slog.Logger
}

// NewLoginHandler wires the login screen.
func NewLoginHandler(auth service.AuthService, sessions *session.Manager, render *Renderer, translator *i18n.Manager, logger *slog.Logger) *LoginHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginHandler{auth: auth, sessions: sessions, render: render, i18n: translator, logger: logger}
}

// Show renders the empty form.
func (h *LoginHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "login.html", map[string]any{
		"Notices": h.sessions.Notices(w, r),
	})
}

// Submit compares the posted pair with the configured one.
func (h *LoginHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, h.i18n.T(r.Context(), "error.invalid_request"), http.StatusBadRequest)
		return
	}
	input := service.LoginInput{
		Email:     r.PostForm.Get("email"),
		Password:  r.PostForm.Get("password"),
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}
	if err := h.auth.Login(r.Context(), input); err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.ErrorContext(r.Context(), "login failed", "error", err)
		}
		h.render.Render(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Error": h.i18n.T(r.Context(), "login.invalid"),
			"Email": input.Email,
		})
		return
	}
	if err := h.sessions.SetLoggedIn(w, r, input.Email); err != nil {
		h.logger.ErrorContext(r.Context(), "save session failed", "error", err)
		http.Error(w, h.i18n.T(r.Context(), "error.internal"), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
}

// Logout clears the flag and returns to the login screen.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	admin := requestctx.AdminFromContext(r.Context())
	email := admin.Email
	if email == "" {
		email = h.sessions.Email(r)
	}
	h.auth.Logout(r.Context(), email, clientIP(r), r.UserAgent())
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.WarnContext(r.Context(), "clear session failed", "error", err)
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
