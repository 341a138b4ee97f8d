// 文件路径: internal/api/handler/render.go
// 模块说明: 服务端渲染登录页、仪表盘与删除确认页；模板内嵌在二进制中。
package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/creamcroissant/shopadmin/internal/api/requestctx"
	"github.com/creamcroissant/shopadmin/internal/content"
	"github.com/creamcroissant/shopadmin/internal/repository"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"login.html", "dashboard.html", "confirm.html"}

// Renderer executes page templates inside the shared layout.
type Renderer struct {
	tmpls  map[string]*template.Template
	logger *slog.Logger
}

// RendererOptions configures template helpers.
type RendererOptions struct {
	I18n          *i18n.Manager
	Images        *content.ImageURLBuilder
	ThumbnailSize int
	Logger        *slog.Logger
}

// NewRenderer parses the layout once and clones it per page so every page can
// define its own "content" block.
func NewRenderer(opts RendererOptions) (*Renderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := opts.ThumbnailSize
	if size <= 0 {
		size = 40
	}
	funcs := template.FuncMap{
		"t": func(lang, key string, args ...any) string {
			return opts.I18n.Translate(lang, key, args...)
		},
		"thumb": func(img *repository.ImageRef) string {
			return opts.Images.URL(img.Source(), content.ImageOptions{Width: size, Height: size})
		},
		"thumbSize": func() int { return size },
		"money":     formatMoney,
		"date":      formatDate,
		"statusKey": func(s repository.OrderStatus) string {
			if !s.IsSet() {
				return "status.unset"
			}
			return "status." + string(s)
		},
	}

	base, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	tmpls := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		tmpls[name] = clone
	}
	return &Renderer{tmpls: tmpls, logger: logger}, nil
}

// Render writes page with status. data gets "Lang" filled from the request.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	tmpl, ok := rd.tmpls[name]
	if !ok {
		rd.logger.ErrorContext(r.Context(), "template not found", "template", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Lang"] = requestctx.GetLanguage(r.Context())

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		rd.logger.ErrorContext(r.Context(), "render failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func formatMoney(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

// formatDate shows the calendar date of a stored timestamp and falls back to
// the raw value when it is not RFC 3339.
func formatDate(raw string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}
