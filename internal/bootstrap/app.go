// 文件路径: internal/bootstrap/app.go
// 模块说明: 按配置组装订单仓储、认证、仪表盘、会话与模板渲染，供 serve 与 tui 命令共用。
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/creamcroissant/shopadmin/internal/api"
	"github.com/creamcroissant/shopadmin/internal/api/handler"
	"github.com/creamcroissant/shopadmin/internal/api/session"
	"github.com/creamcroissant/shopadmin/internal/config"
	"github.com/creamcroissant/shopadmin/internal/content"
	"github.com/creamcroissant/shopadmin/internal/content/sanity"
	"github.com/creamcroissant/shopadmin/internal/migrations"
	"github.com/creamcroissant/shopadmin/internal/repository"
	"github.com/creamcroissant/shopadmin/internal/repository/contentstore"
	"github.com/creamcroissant/shopadmin/internal/repository/sqlite"
	"github.com/creamcroissant/shopadmin/internal/service"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

// App is the fully wired admin.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *sql.DB
	Local     *sqlite.Store
	Infra     *Infrastructure
	I18n      *i18n.Manager
	Registry  *prometheus.Registry
	Orders    repository.OrderRepository
	Health    repository.HealthChecker
	Images    *content.ImageURLBuilder
	Auth      service.AuthService
	Dashboard service.DashboardService
	Sessions  *session.Manager
	Renderer  *handler.Renderer
}

// Build opens the local database, migrates it, resolves secrets and wires
// every service the HTTP and terminal surfaces need.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := OpenSQLite(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, DB: db, Local: sqlite.NewStore(db)}
	if err := app.wire(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config
	if err := migrations.Up(a.DB); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	sessionSecret, source, err := ResolveSecret(ctx, a.DB, SessionSecretSetting, cfg.Session.Secret)
	if err != nil {
		return err
	}
	a.Logger.Info("session secret resolved", "source", source)
	signingKey, source, err := ResolveSecret(ctx, a.DB, SigningKeySetting, cfg.Auth.SigningKey)
	if err != nil {
		return err
	}
	a.Logger.Info("signing key resolved", "source", source)

	if a.Infra, err = BuildInfrastructure(cfg.Auth, signingKey, cfg.Dashboard.StateTTL, a.Logger); err != nil {
		return err
	}
	if a.I18n, err = i18n.NewManager(i18n.WithLogger(a.Logger)); err != nil {
		return fmt.Errorf("i18n: %w", err)
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := a.wireOrders(); err != nil {
		return err
	}
	a.Images = content.NewImageURLBuilder(cfg.Content.ImageHost, cfg.Content.ProjectID, cfg.Content.Dataset)

	a.Auth = service.NewAuthService(
		service.Credentials{Email: cfg.Admin.Email, Password: cfg.Admin.Password},
		a.Infra.Hasher,
		a.Infra.Token,
		a.Infra.Audit,
	)
	a.Dashboard, err = service.NewDashboardService(a.Orders, service.DashboardOptions{
		Logger:   a.Logger,
		I18n:     a.I18n,
		Registry: a.Registry,
	})
	if err != nil {
		return err
	}

	a.Sessions = session.NewManager(sessionSecret, session.Options{
		MaxAge: cfg.Session.MaxAge,
		Secure: cfg.Session.Secure,
	})
	a.Renderer, err = handler.NewRenderer(handler.RendererOptions{
		I18n:          a.I18n,
		Images:        a.Images,
		ThumbnailSize: cfg.Dashboard.ThumbnailSize,
		Logger:        a.Logger,
	})
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	return nil
}

func (a *App) wireOrders() error {
	cfg := a.Config.Content
	switch cfg.Driver {
	case config.ContentDriverSQLite:
		a.Orders = a.Local.Orders()
		a.Health = a.Local
	case config.ContentDriverSanity:
		client, err := sanity.NewClient(sanity.Options{
			ProjectID:  cfg.ProjectID,
			Dataset:    cfg.Dataset,
			APIVersion: cfg.APIVersion,
			Token:      cfg.Token,
			UseCDN:     cfg.UseCDN,
			Timeout:    cfg.Timeout,
			APIHost:    cfg.APIHost,
			CDNHost:    cfg.CDNHost,
		})
		if err != nil {
			return fmt.Errorf("content store: %w", err)
		}
		a.Orders = contentstore.NewOrderRepository(client)
		a.Health = contentstore.NewHealthChecker(client)
	default:
		return fmt.Errorf("unknown content driver %q / 未知的内容驱动", cfg.Driver)
	}
	a.Logger.Info("order store selected", "driver", cfg.Driver)
	return nil
}

// Services returns what the HTTP router mounts.
func (a *App) Services() api.Services {
	return api.Services{
		Auth:      a.Auth,
		Dashboard: a.Dashboard,
		Sessions:  a.Sessions,
		States:    a.Infra.Cache,
		StateTTL:  a.Config.Dashboard.StateTTL,
		Renderer:  a.Renderer,
		I18n:      a.I18n,
		Health:    a.Health,
	}
}

// Close releases the local database.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	err := a.DB.Close()
	if errors.Is(err, sql.ErrConnDone) {
		return nil
	}
	return err
}
