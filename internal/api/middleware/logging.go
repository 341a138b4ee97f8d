// 文件路径: internal/api/middleware/logging.go
// 模块说明: 结构化请求日志，携带请求 ID、管理员身份，并标记慢请求。
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/creamcroissant/shopadmin/internal/api/requestctx"
)

// LoggingConfig 日志中间件配置
type LoggingConfig struct {
	Logger        *slog.Logger
	SlowThreshold time.Duration // 超过此耗时记录为 WARN
	SkipPaths     []string      // 跳过日志的路径（如健康检查）
}

// StructuredLogger 结构化日志中间件
func StructuredLogger(config LoggingConfig) func(http.Handler) http.Handler {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.SlowThreshold == 0 {
		config.SlowThreshold = 500 * time.Millisecond
	}
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID == "" {
				requestID = "unknown"
			}
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set("X-Request-ID", requestID)

			// Guards run below this middleware, so the admin is read back
			// from the request they hand on.
			var admin requestctx.AdminClaims
			next.ServeHTTP(ww, r.WithContext(requestctx.WithAdminSink(r.Context(), &admin)))

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Int("bytes", ww.BytesWritten()),
			}
			if admin.Email != "" {
				attrs = append(attrs, slog.String("admin", admin.Email), slog.String("auth", admin.Via))
			}

			level := slog.LevelInfo
			msg := "request completed"
			switch {
			case status >= 500:
				level, msg = slog.LevelError, "request failed"
			case status >= 400:
				level, msg = slog.LevelWarn, "request error"
			case duration > config.SlowThreshold:
				level, msg = slog.LevelWarn, "slow request"
				attrs = append(attrs, slog.Duration("slow_threshold", config.SlowThreshold))
			}
			config.Logger.LogAttrs(r.Context(), level, msg, attrs...)
		})
	}
}
