// 文件路径: internal/api/requestctx/context.go
// 模块说明: 请求上下文中携带的语言与管理员身份。
package requestctx

import (
	"context"

	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

// AdminClaims captures who passed the admin guard.
type AdminClaims struct {
	Email string
	// Via is "session" for browser requests and "token" for API requests.
	Via string
}

type contextKey string

const (
	adminContextKey contextKey = "shopadmin-admin"
	adminSinkKey    contextKey = "shopadmin-admin-sink"
)

// WithLanguage 将语言标识附加到 context 中供下游使用。
func WithLanguage(ctx context.Context, lang string) context.Context {
	return i18n.WithLanguage(ctx, lang)
}

// GetLanguage 从 context 中获取语言标识，未设置时返回默认语言。
func GetLanguage(ctx context.Context) string {
	return i18n.LanguageFrom(ctx)
}

// WithAdminClaims attaches admin data to context and reports it to a sink
// installed further up the chain.
func WithAdminClaims(ctx context.Context, claims AdminClaims) context.Context {
	if sink, ok := ctx.Value(adminSinkKey).(*AdminClaims); ok && sink != nil {
		*sink = claims
	}
	return context.WithValue(ctx, adminContextKey, claims)
}

// WithAdminSink lets outer middleware learn who a guard admitted.
func WithAdminSink(ctx context.Context, sink *AdminClaims) context.Context {
	return context.WithValue(ctx, adminSinkKey, sink)
}

// AdminFromContext fetches admin claims or zero value.
func AdminFromContext(ctx context.Context) AdminClaims {
	if ctx == nil {
		return AdminClaims{}
	}
	claims, _ := ctx.Value(adminContextKey).(AdminClaims)
	return claims
}
