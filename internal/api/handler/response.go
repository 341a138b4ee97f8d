// 文件路径: internal/api/handler/response.go
// 模块说明: JSON 响应与按请求语言翻译的错误体。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/creamcroissant/shopadmin/internal/api/requestctx"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

type errorBody struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
}

// RespondJSON writes payload with status.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	RespondJSON(w, status, payload)
}

// RespondErrorI18nAction writes {"error": <translated key>, "action": action}.
// An empty key falls back to action.
func RespondErrorI18nAction(ctx context.Context, w http.ResponseWriter, status int, action string, key string, i18nMgr *i18n.Manager, args ...any) {
	if key == "" {
		key = action
	}
	RespondJSON(w, status, errorBody{
		Error:  i18nMgr.Translate(requestctx.GetLanguage(ctx), key, args...),
		Action: action,
	})
}
