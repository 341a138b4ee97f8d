// 文件路径: internal/api/middleware/auth.go
// 模块说明: 管理后台的访问守卫：浏览器页面检查会话中的 isLoggedIn 标记，JSON API 校验 bearer token。
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/creamcroissant/shopadmin/internal/api/requestctx"
	"github.com/creamcroissant/shopadmin/internal/api/session"
	"github.com/creamcroissant/shopadmin/internal/service"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

// ProtectedRoute lets the request through when the session carries the
// isLoggedIn flag and otherwise redirects to loginPath.
func ProtectedRoute(sessions *session.Manager, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions == nil || !sessions.IsLoggedIn(r) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			ctx := requestctx.WithAdminClaims(r.Context(), requestctx.AdminClaims{Email: sessions.Email(r), Via: "session"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// APIGuard ensures API requests carry a valid admin bearer token.
func APIGuard(auth service.AuthService, translator *i18n.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				writeUnauthorized(w, r, translator)
				return
			}
			token := extractBearer(r.Header.Get("Authorization"))
			if token == "" {
				writeUnauthorized(w, r, translator)
				return
			}
			claims, err := auth.VerifyToken(r.Context(), token)
			if err != nil {
				writeUnauthorized(w, r, translator)
				return
			}
			ctx := requestctx.WithAdminClaims(r.Context(), requestctx.AdminClaims{Email: claims.Email, Via: "token"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(header string) string {
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return ""
	}
	parts := strings.SplitN(trimmed, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, translator *i18n.Manager) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="shopadmin"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": translator.T(r.Context(), "error.unauthorized"),
	})
}
