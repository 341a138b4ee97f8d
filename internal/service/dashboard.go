// 文件路径: internal/service/dashboard.go
// 模块说明: 订单仪表盘的加载、状态变更与删除；写操作完成后再同步本地视图状态，并通过对话框反馈结果。
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/creamcroissant/shopadmin/internal/dashboard"
	"github.com/creamcroissant/shopadmin/internal/repository"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

// DashboardService runs the dashboard operations that reach the order store.
type DashboardService interface {
	// Load fetches every order. On failure it logs and returns an empty state
	// together with the error.
	Load(ctx context.Context) (*dashboard.State, error)
	// ChangeStatus patches one order's status and then applies it to st.
	ChangeStatus(ctx context.Context, st *dashboard.State, id string, status repository.OrderStatus, dlg dashboard.Dialog) error
	// Delete asks dlg to confirm, removes the order from the store and then from st.
	Delete(ctx context.Context, st *dashboard.State, id string, dlg dashboard.Dialog) error
	// DeletePrompt is the confirmation shown before Delete proceeds.
	DeletePrompt(ctx context.Context) dashboard.Prompt
}

// DashboardOptions carries the optional collaborators of the dashboard service.
type DashboardOptions struct {
	Logger   *slog.Logger
	I18n     *i18n.Manager
	Registry prometheus.Registerer
}

type dashboardService struct {
	orders    repository.OrderRepository
	logger    *slog.Logger
	i18n      *i18n.Manager
	mutations *prometheus.CounterVec
}

// NewDashboardService wires the order repository.
func NewDashboardService(orders repository.OrderRepository, opts DashboardOptions) (DashboardService, error) {
	if orders == nil {
		return nil, fmt.Errorf("order repository is required / 订单仓储不能为空")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	manager := opts.I18n
	if manager == nil {
		var err error
		if manager, err = i18n.NewManager(i18n.WithLogger(logger)); err != nil {
			return nil, err
		}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopadmin",
		Subsystem: "orders",
		Name:      "mutations_total",
		Help:      "Order status changes and deletions by outcome.",
	}, []string{"operation", "outcome"})
	if opts.Registry != nil {
		if err := opts.Registry.Register(mutations); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, fmt.Errorf("register order metrics: %w", err)
			}
			mutations = already.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return &dashboardService{
		orders:    orders,
		logger:    logger.With("component", "dashboard"),
		i18n:      manager,
		mutations: mutations,
	}, nil
}

func (s *dashboardService) Load(ctx context.Context) (*dashboard.State, error) {
	if s == nil {
		return dashboard.NewState(nil), fmt.Errorf("dashboard service not configured / 仪表盘服务未配置")
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load orders", "error", err)
		return dashboard.NewState(nil), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return dashboard.NewState(orders), nil
}

func (s *dashboardService) ChangeStatus(ctx context.Context, st *dashboard.State, id string, status repository.OrderStatus, dlg dashboard.Dialog) error {
	if s == nil {
		return fmt.Errorf("dashboard service not configured / 仪表盘服务未配置")
	}
	if _, err := repository.ParseOrderStatus(string(status)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.orders.SetStatus(ctx, id, status); err != nil {
		s.mutations.WithLabelValues("status", "error").Inc()
		s.logger.ErrorContext(ctx, "failed to update order status", "order_id", id, "status", status, "error", err)
		s.notify(ctx, dlg, dashboard.Notice{
			Title: s.i18n.T(ctx, "notice.update_failed.title"),
			Body:  s.i18n.T(ctx, "notice.update_failed.body"),
			Icon:  dashboard.IconError,
		})
		return storeError(err)
	}

	s.mutations.WithLabelValues("status", "ok").Inc()
	if st != nil {
		st.ApplyStatus(id, status)
	}
	s.notify(ctx, dlg, dashboard.Notice{
		Title: s.i18n.T(ctx, "notice.updated.title"),
		Body:  s.i18n.T(ctx, "notice.updated.body", string(status)),
		Icon:  dashboard.IconSuccess,
	})
	return nil
}

func (s *dashboardService) DeletePrompt(ctx context.Context) dashboard.Prompt {
	return dashboard.Prompt{
		Title:        s.i18n.T(ctx, "dialog.delete.title"),
		Body:         s.i18n.T(ctx, "dialog.delete.body"),
		Icon:         dashboard.IconWarning,
		ConfirmLabel: s.i18n.T(ctx, "dialog.delete.confirm"),
		CancelLabel:  s.i18n.T(ctx, "dialog.delete.cancel"),
	}
}

func (s *dashboardService) Delete(ctx context.Context, st *dashboard.State, id string, dlg dashboard.Dialog) error {
	if s == nil {
		return fmt.Errorf("dashboard service not configured / 仪表盘服务未配置")
	}
	if dlg == nil || !dlg.Confirm(ctx, s.DeletePrompt(ctx)) {
		return ErrNotConfirmed
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		s.mutations.WithLabelValues("delete", "error").Inc()
		s.logger.ErrorContext(ctx, "failed to delete order", "order_id", id, "error", err)
		s.notify(ctx, dlg, dashboard.Notice{
			Title: s.i18n.T(ctx, "notice.delete_failed.title"),
			Body:  s.i18n.T(ctx, "notice.delete_failed.body"),
			Icon:  dashboard.IconError,
		})
		return storeError(err)
	}

	s.mutations.WithLabelValues("delete", "ok").Inc()
	if st != nil {
		st.Remove(id)
	}
	s.notify(ctx, dlg, dashboard.Notice{
		Title: s.i18n.T(ctx, "notice.deleted.title"),
		Body:  s.i18n.T(ctx, "notice.deleted.body"),
		Icon:  dashboard.IconSuccess,
	})
	return nil
}

func (s *dashboardService) notify(ctx context.Context, dlg dashboard.Dialog, n dashboard.Notice) {
	if dlg != nil {
		dlg.Notify(ctx, n)
	}
}

func storeError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
