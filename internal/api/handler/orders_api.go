// 文件路径: internal/api/handler/orders_api.go
// 模块说明: 面向脚本的订单 JSON API；无会话状态，每次请求直接读写订单存储。
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/creamcroissant/shopadmin/internal/dashboard"
	"github.com/creamcroissant/shopadmin/internal/repository"
	"github.com/creamcroissant/shopadmin/internal/service"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

// OrdersAPIHandler serves /api/v1/admin.
type OrdersAPIHandler struct {
	auth   service.AuthService
	svc    service.DashboardService
	i18n   *i18n.Manager
	logger *slog.Logger
}

// NewOrdersAPIHandler wires the JSON API.
func NewOrdersAPIHandler(auth service.AuthService, svc service.DashboardService, translator *i18n.Manager, logger *slog.Logger) *OrdersAPIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrdersAPIHandler{auth: auth, svc: svc, i18n: translator, logger: logger}
}

type apiLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type statusRequest struct {
	Status *repository.OrderStatus `json:"status"`
}

type ordersResponse struct {
	Orders []*repository.Order      `json:"orders"`
	Filter dashboard.Filter         `json:"filter"`
	Counts map[dashboard.Filter]int `json:"counts"`
}

type mutationResponse struct {
	ID     string                 `json:"id"`
	Status repository.OrderStatus `json:"status,omitempty"`
	Notice *dashboard.Notice      `json:"notice,omitempty"`
}

// Login exchanges the admin pair for a bearer token.
func (h *OrdersAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload apiLoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondErrorI18nAction(r.Context(), w, http.StatusBadRequest, "login", "error.invalid_request", h.i18n)
		return
	}
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		RespondErrorI18nAction(r.Context(), w, http.StatusBadRequest, "login", "error.invalid_request", h.i18n)
		return
	}
	result, err := h.auth.IssueToken(r.Context(), service.LoginInput{
		Email:     payload.Email,
		Password:  payload.Password,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			RespondErrorI18nAction(r.Context(), w, http.StatusUnauthorized, "login", "error.invalid_credentials", h.i18n)
			return
		}
		h.logger.ErrorContext(r.Context(), "issue token failed", "error", err)
		RespondErrorI18nAction(r.Context(), w, http.StatusInternalServerError, "login", "error.internal", h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// List returns the orders matching ?filter, together with per-filter counts.
func (h *OrdersAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := dashboard.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		RespondErrorI18nAction(r.Context(), w, http.StatusBadRequest, "list", "error.unknown_filter", h.i18n)
		return
	}
	st, err := h.svc.Load(r.Context())
	if err != nil {
		h.respondServiceError(w, r, "list", err)
		return
	}
	st.SetFilter(filter)
	orders := st.Visible()
	if orders == nil {
		orders = []*repository.Order{}
	}
	respondJSON(w, http.StatusOK, ordersResponse{Orders: orders, Filter: filter, Counts: st.Counts()})
}

// UpdateStatus patches one order's status.
func (h *OrdersAPIHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload statusRequest
	if err := decodeJSON(r, &payload); err != nil || payload.Status == nil {
		RespondErrorI18nAction(r.Context(), w, http.StatusBadRequest, "status", "error.invalid_request", h.i18n)
		return
	}
	rec := &dashboard.Recorder{}
	if err := h.svc.ChangeStatus(r.Context(), nil, id, *payload.Status, rec); err != nil {
		h.respondServiceError(w, r, "status", err)
		return
	}
	resp := mutationResponse{ID: id, Status: *payload.Status}
	if n, ok := rec.Last(); ok {
		resp.Notice = &n
	}
	respondJSON(w, http.StatusOK, resp)
}

// Delete removes one order. The caller confirms with ?confirm=true.
func (h *OrdersAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec := &dashboard.Recorder{Answer: r.URL.Query().Get("confirm") == "true"}
	if err := h.svc.Delete(r.Context(), nil, id, rec); err != nil {
		h.respondServiceError(w, r, "delete", err)
		return
	}
	resp := mutationResponse{ID: id}
	if n, ok := rec.Last(); ok {
		resp.Notice = &n
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrdersAPIHandler) respondServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		RespondErrorI18nAction(ctx, w, http.StatusBadRequest, action, "error.invalid_status", h.i18n)
	case errors.Is(err, service.ErrNotFound):
		RespondErrorI18nAction(ctx, w, http.StatusNotFound, action, "error.not_found", h.i18n)
	case errors.Is(err, service.ErrNotConfirmed):
		RespondErrorI18nAction(ctx, w, http.StatusPreconditionRequired, action, "error.confirmation_required", h.i18n)
	case errors.Is(err, service.ErrStoreUnavailable):
		RespondErrorI18nAction(ctx, w, http.StatusBadGateway, action, "error.store_unavailable", h.i18n)
	default:
		h.logger.ErrorContext(ctx, "order api failed", "action", action, "error", err)
		RespondErrorI18nAction(ctx, w, http.StatusInternalServerError, action, "error.internal", h.i18n)
	}
}
