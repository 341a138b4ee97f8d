// 文件路径: internal/api/router.go
// 模块说明: HTTP 路由装配：登录页、受保护的仪表盘、订单 JSON API，以及健康检查与指标端点。
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/creamcroissant/shopadmin/internal/api/handler"
	"github.com/creamcroissant/shopadmin/internal/api/middleware"
	"github.com/creamcroissant/shopadmin/internal/api/session"
	"github.com/creamcroissant/shopadmin/internal/cache"
	"github.com/creamcroissant/shopadmin/internal/config"
	"github.com/creamcroissant/shopadmin/internal/repository"
	"github.com/creamcroissant/shopadmin/internal/service"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

var quietPaths = []string{"/healthz", "/_internal/ready", "/metrics"}

// Services carries everything the router mounts.
type Services struct {
	Auth      service.AuthService
	Dashboard service.DashboardService
	Sessions  *session.Manager
	States    cache.Store
	StateTTL  time.Duration
	Renderer  *handler.Renderer
	I18n      *i18n.Manager
	// Health is pinged by /_internal/ready when set.
	Health repository.HealthChecker
}

// NewRouter wires the admin surfaces. reg receives the HTTP collectors and is
// exposed on /metrics when metrics are enabled; nil uses a private registry.
func NewRouter(logger *slog.Logger, services Services, metricsCfg config.MetricsConfig, reg *prometheus.Registry) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if services.Auth == nil {
		panic("router requires AuthService")
	}
	if services.Dashboard == nil {
		panic("router requires DashboardService")
	}
	if services.Sessions == nil {
		panic("router requires session manager")
	}
	if services.States == nil {
		panic("router requires state cache")
	}
	if services.Renderer == nil {
		panic("router requires renderer")
	}
	if services.I18n == nil {
		panic("router requires I18n Manager")
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := chi.NewRouter()
	r.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
	)

	if metricsCfg.Enabled {
		mCfg := middleware.DefaultMetricsConfig()
		if metricsCfg.Namespace != "" {
			mCfg.Namespace = metricsCfg.Namespace
		}
		if metricsCfg.Subsystem != "" {
			mCfg.Subsystem = metricsCfg.Subsystem
		}
		if len(metricsCfg.Buckets) > 0 {
			mCfg.Buckets = metricsCfg.Buckets
		}
		r.Use(middleware.NewMetrics(reg, mCfg).Middleware())
	}

	r.Use(
		middleware.BodyLimit(middleware.BodyLimitConfig{}),
		middleware.SecureHeaders,
		middleware.StructuredLogger(middleware.LoggingConfig{
			Logger:        logger,
			SlowThreshold: 500 * time.Millisecond,
			SkipPaths:     quietPaths,
		}),
		chiMiddleware.Recoverer,
		chiMiddleware.Compress(5),
		middleware.I18n(services.I18n),
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		handler.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	r.Get("/_internal/ready", func(w http.ResponseWriter, req *http.Request) {
		if services.Health != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
			defer cancel()
			if err := services.Health.Ping(ctx); err != nil {
				logger.Warn("readiness probe failed", "error", err)
				handler.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		handler.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	if metricsCfg.Enabled {
		metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		if metricsCfg.Token != "" {
			r.With(middleware.MetricsGuard(metricsCfg.Token)).Handle("/metrics", metricsHandler)
		} else {
			r.Handle("/metrics", metricsHandler)
		}
	}

	registerWebRoutes(r, logger, services)
	registerAPIRoutes(r, logger, services)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, handler.LoginPath, http.StatusSeeOther)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		logger.Warn("unmapped route hit", "method", req.Method, "path", req.URL.Path)
		http.NotFound(w, req)
	})

	return r
}

func registerWebRoutes(root chi.Router, logger *slog.Logger, services Services) {
	login := handler.NewLoginHandler(services.Auth, services.Sessions, services.Renderer, services.I18n, logger)
	dash := handler.NewDashboardHandler(handler.DashboardHandlerOptions{
		Service:  services.Dashboard,
		Sessions: services.Sessions,
		States:   services.States,
		StateTTL: services.StateTTL,
		Renderer: services.Renderer,
		I18n:     services.I18n,
		Logger:   logger,
	})

	root.Get(handler.LoginPath, login.Show)
	root.Post(handler.LoginPath, login.Submit)

	root.Group(func(admin chi.Router) {
		admin.Use(middleware.ProtectedRoute(services.Sessions, handler.LoginPath))
		admin.Post(handler.LoginPath+"/logout", dash.Forget(login.Logout))
		admin.Route(handler.DashboardPath, func(d chi.Router) {
			d.Get("/", dash.Mount)
			d.Get("/view", dash.View)
			d.Post("/filter", dash.Filter)
			d.Route("/orders/{id}", func(o chi.Router) {
				o.Post("/toggle", dash.Toggle)
				o.Post("/status", dash.Status)
				o.Get("/delete", dash.ConfirmDelete)
				o.Post("/delete", dash.Delete)
			})
		})
	})
}

func registerAPIRoutes(root chi.Router, logger *slog.Logger, services Services) {
	orders := handler.NewOrdersAPIHandler(services.Auth, services.Dashboard, services.I18n, logger)
	root.Route("/api/v1/admin", func(api chi.Router) {
		api.Post("/login", orders.Login)
		api.Group(func(guarded chi.Router) {
			guarded.Use(middleware.APIGuard(services.Auth, services.I18n))
			guarded.Get("/orders", orders.List)
			guarded.Patch("/orders/{id}", orders.UpdateStatus)
			guarded.Delete("/orders/{id}", orders.Delete)
		})
	})
}
