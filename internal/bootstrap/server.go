// 文件路径: internal/bootstrap/server.go
// 模块说明: 构建带保守超时的 http.Server。
package bootstrap

import (
	"net/http"
	"time"

	"github.com/creamcroissant/shopadmin/internal/config"
)

// NewHTTPServer constructs a baseline http.Server with conservative defaults.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// Store calls carry their own client timeout; leave headroom above it.
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MiB
	}
}
