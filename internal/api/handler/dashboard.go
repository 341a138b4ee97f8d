// 文件路径: internal/api/handler/dashboard.go
// 模块说明: 仪表盘页面。每个会话的视图状态（订单、筛选、展开行）保存在缓存中，操作后 303 跳回视图页。
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/creamcroissant/shopadmin/internal/api/session"
	"github.com/creamcroissant/shopadmin/internal/cache"
	"github.com/creamcroissant/shopadmin/internal/dashboard"
	"github.com/creamcroissant/shopadmin/internal/repository"
	"github.com/creamcroissant/shopadmin/internal/service"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

// DashboardHandler serves the dashboard screen.
type DashboardHandler struct {
	svc      service.DashboardService
	sessions *session.Manager
	states   cache.Store
	ttl      time.Duration
	render   *Renderer
	i18n     *i18n.Manager
	logger   *slog.Logger
}

// DashboardHandlerOptions wires the dashboard screen.
type DashboardHandlerOptions struct {
	Service  service.DashboardService
	Sessions *session.Manager
	States   cache.Store
	StateTTL time.Duration
	Renderer *Renderer
	I18n     *i18n.Manager
	Logger   *slog.Logger
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(opts DashboardHandlerOptions) *DashboardHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.StateTTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &DashboardHandler{
		svc:      opts.Service,
		sessions: opts.Sessions,
		states:   opts.States.Namespace("dashboard"),
		ttl:      ttl,
		render:   opts.Renderer,
		i18n:     opts.I18n,
		logger:   logger,
	}
}

type orderRow struct {
	Order    *repository.Order
	Expanded bool
}

// Mount loads orders fresh, replacing any state held for this session.
func (h *DashboardHandler) Mount(w http.ResponseWriter, r *http.Request) {
	viewID, err := h.sessions.ViewID(w, r)
	if err != nil {
		h.fail(w, r, "resolve view id", err)
		return
	}
	// Load failures are logged by the service; the page shows the empty list.
	st, _ := h.svc.Load(r.Context())
	if err := h.save(r, viewID, st); err != nil {
		h.fail(w, r, "store dashboard state", err)
		return
	}
	h.show(w, r, st)
}

// View renders the held state, mounting when there is none.
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	st, _, ok := h.load(w, r)
	if !ok {
		h.Mount(w, r)
		return
	}
	h.show(w, r, st)
}

// Filter changes the visible subset.
func (h *DashboardHandler) Filter(w http.ResponseWriter, r *http.Request) {
	f, err := dashboard.ParseFilter(r.PostFormValue("filter"))
	if err != nil {
		http.Error(w, h.i18n.T(r.Context(), "error.unknown_filter"), http.StatusBadRequest)
		return
	}
	h.mutate(w, r, func(st *dashboard.State) error {
		st.SetFilter(f)
		return nil
	})
}

// Toggle expands or collapses one order's detail panel.
func (h *DashboardHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mutate(w, r, func(st *dashboard.State) error {
		st.Toggle(id)
		return nil
	})
}

// Status changes one order's status. Saving the unset placeholder changes
// nothing.
func (h *DashboardHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status := repository.OrderStatus(r.PostFormValue("status"))
	if !status.IsSet() {
		http.Redirect(w, r, ViewPath, http.StatusSeeOther)
		return
	}
	dlg := h.dialog(w, r, false)
	h.mutate(w, r, func(st *dashboard.State) error {
		return h.svc.ChangeStatus(r.Context(), st, id, status, dlg)
	})
}

// ConfirmDelete renders the destructive confirmation prompt.
func (h *DashboardHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	st, _, ok := h.load(w, r)
	if !ok {
		http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
		return
	}
	order := st.Find(chi.URLParam(r, "id"))
	if order == nil {
		http.Redirect(w, r, ViewPath, http.StatusSeeOther)
		return
	}
	h.render.Render(w, r, http.StatusOK, "confirm.html", map[string]any{
		"Prompt": h.svc.DeletePrompt(r.Context()),
		"Order":  order,
	})
}

// Delete removes the order when the prompt was answered with yes.
func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	dlg := h.dialog(w, r, r.PostFormValue("confirm") == "yes")
	h.mutate(w, r, func(st *dashboard.State) error {
		return h.svc.Delete(r.Context(), st, id, dlg)
	})
}

// mutate applies fn to a copy of the held state, stores it back and returns
// to the view. Write failures were already surfaced as notices by the
// service, so they redirect like successes do.
func (h *DashboardHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(*dashboard.State) error) {
	st, viewID, ok := h.load(w, r)
	if !ok {
		http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
		return
	}
	if err := fn(st); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			http.Error(w, h.i18n.T(r.Context(), "error.invalid_status"), http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrNotConfirmed),
			errors.Is(err, service.ErrNotFound),
			errors.Is(err, service.ErrStoreUnavailable):
			// Nothing changed; fall through to the redirect.
		default:
			h.fail(w, r, "dashboard action", err)
			return
		}
	}
	if err := h.save(r, viewID, st); err != nil {
		h.fail(w, r, "store dashboard state", err)
		return
	}
	http.Redirect(w, r, ViewPath, http.StatusSeeOther)
}

func (h *DashboardHandler) show(w http.ResponseWriter, r *http.Request, st *dashboard.State) {
	visible := st.Visible()
	rows := make([]orderRow, 0, len(visible))
	for _, o := range visible {
		rows = append(rows, orderRow{Order: o, Expanded: st.IsExpanded(o.ID)})
	}
	h.render.Render(w, r, http.StatusOK, "dashboard.html", map[string]any{
		"Notices":  h.sessions.Notices(w, r),
		"Filter":   st.Filter,
		"Filters":  dashboard.Filters,
		"Statuses": repository.SelectableStatuses,
		"Rows":     rows,
	})
}

// Forget drops the held state of the current view before next runs.
func (h *DashboardHandler) Forget(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := h.sessions.CurrentViewID(r); id != "" {
			h.states.Delete(r.Context(), id)
		}
		next(w, r)
	}
}

func (h *DashboardHandler) load(w http.ResponseWriter, r *http.Request) (*dashboard.State, string, bool) {
	viewID, err := h.sessions.ViewID(w, r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "resolve view id failed", "error", err)
		return nil, "", false
	}
	var st dashboard.State
	found, err := h.states.GetJSON(r.Context(), viewID, &st)
	if err != nil {
		h.logger.WarnContext(r.Context(), "decode dashboard state failed", "error", err)
		return nil, viewID, false
	}
	if !found {
		return nil, viewID, false
	}
	return &st, viewID, true
}

func (h *DashboardHandler) save(r *http.Request, viewID string, st *dashboard.State) error {
	return h.states.SetJSON(r.Context(), viewID, st, h.ttl)
}

func (h *DashboardHandler) dialog(w http.ResponseWriter, r *http.Request, answer bool) dashboard.Dialog {
	return &flashDialog{answer: answer, w: w, r: r, sessions: h.sessions, logger: h.logger}
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	h.logger.ErrorContext(r.Context(), what+" failed", "error", err)
	http.Error(w, h.i18n.T(r.Context(), "error.internal"), http.StatusInternalServerError)
}
