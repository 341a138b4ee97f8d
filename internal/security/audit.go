// 文件路径: internal/security/audit.go
// 模块说明: 管理员登录等安全事件的审计记录。
package security

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Audit event kinds.
const (
	EventLoginSuccess = "admin.login.success"
	EventLoginFailure = "admin.login.failure"
	EventLogout       = "admin.logout"
)

// Event 表示一次安全相关的行为。
type Event struct {
	Kind      string
	Actor     string
	IP        string
	UserAgent string
	Metadata  map[string]any
	Occurred  time.Time
}

// Recorder 记录安全事件。
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// LoggerRecorder 将审计事件写入 slog.Logger。
type LoggerRecorder struct {
	logger *slog.Logger
}

// NewLoggerRecorder 返回记录器；logger 为空时丢弃事件。
func NewLoggerRecorder(logger *slog.Logger) *LoggerRecorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LoggerRecorder{logger: logger.With("component", "audit")}
}

// Record 实现 Recorder。
func (r *LoggerRecorder) Record(ctx context.Context, event Event) {
	if r == nil || r.logger == nil {
		return
	}
	if event.Occurred.IsZero() {
		event.Occurred = time.Now().UTC()
	}
	attrs := []any{
		"kind", event.Kind,
		"actor", event.Actor,
		"ip", event.IP,
		"ua", event.UserAgent,
		"occurred", event.Occurred.Format(time.RFC3339Nano),
	}
	if len(event.Metadata) > 0 {
		attrs = append(attrs, "metadata", event.Metadata)
	}
	level := slog.LevelInfo
	if event.Kind == EventLoginFailure {
		level = slog.LevelWarn
	}
	r.logger.Log(ctx, level, "audit event", attrs...)
}
