package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/creamcroissant/shopadmin/internal/api/session"
	"github.com/creamcroissant/shopadmin/internal/dashboard"
)

// flashDialog answers prompts with the choice already made on the
// confirmation page and carries notices to the next page as flashes.
type flashDialog struct {
	answer   bool
	w        http.ResponseWriter
	r        *http.Request
	sessions *session.Manager
	logger   *slog.Logger
}

func (d *flashDialog) Confirm(context.Context, dashboard.Prompt) bool {
	return d.answer
}

func (d *flashDialog) Notify(ctx context.Context, n dashboard.Notice) {
	if err := d.sessions.AddNotice(d.w, d.r, n); err != nil {
		d.logger.WarnContext(ctx, "queue notice failed", "error", err)
	}
}
