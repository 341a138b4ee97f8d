// 文件路径: internal/config/config.go
// 模块说明: 这是 internal 模块里的 config 逻辑，汇总管理后台运行所需的全部配置项。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Content drivers supported by the order repository.
const (
	ContentDriverSanity = "sanity"
	ContentDriverSQLite = "sqlite"
)

// Config 汇总应用的全部配置。
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Session   SessionConfig   `mapstructure:"session"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Content   ContentConfig   `mapstructure:"content"`
	DB        DBConfig        `mapstructure:"database"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Probe     ProbeConfig     `mapstructure:"probe"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// HTTPConfig 定义 HTTP 服务配置。
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig 定义日志配置。
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	AddSource   bool   `mapstructure:"add_source"`
	Environment string `mapstructure:"environment"`
}

// AdminConfig holds the single admin credential pair the login gate compares against.
// Password may be plaintext or a bcrypt hash.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// SessionConfig 定义浏览器会话 cookie 配置。
type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	MaxAge time.Duration `mapstructure:"max_age"`
	Secure bool          `mapstructure:"secure"`
}

// AuthConfig 定义 API token 配置。
type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	Issuer     string        `mapstructure:"issuer"`
	Audience   string        `mapstructure:"audience"`
	Leeway     time.Duration `mapstructure:"leeway"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

// ContentConfig selects and configures the document store holding orders.
type ContentConfig struct {
	Driver     string        `mapstructure:"driver"`
	ProjectID  string        `mapstructure:"project_id"`
	Dataset    string        `mapstructure:"dataset"`
	APIVersion string        `mapstructure:"api_version"`
	Token      string        `mapstructure:"token"`
	UseCDN     bool          `mapstructure:"use_cdn"`
	Timeout    time.Duration `mapstructure:"timeout"`
	APIHost    string        `mapstructure:"api_host"`
	CDNHost    string        `mapstructure:"cdn_host"`
	ImageHost  string        `mapstructure:"image_host"`
}

// DBConfig 定义本地 SQLite 文档库配置。
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig 定义 Prometheus 指标配置。
type MetricsConfig struct {
	Enabled   bool      `mapstructure:"enabled"`
	Namespace string    `mapstructure:"namespace"`
	Subsystem string    `mapstructure:"subsystem"`
	Token     string    `mapstructure:"token"`
	Buckets   []float64 `mapstructure:"buckets"`
}

// ProbeConfig 定义内容存储健康探测任务。
type ProbeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Spec    string `mapstructure:"spec"`
}

// DashboardConfig 定义仪表盘视图参数。
type DashboardConfig struct {
	StateTTL      time.Duration `mapstructure:"state_ttl"`
	ThumbnailSize int           `mapstructure:"thumbnail_size"`
}

func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate reports configuration that would leave the admin unusable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is required / 配置不能为空")
	}
	var problems []string
	if strings.TrimSpace(c.Admin.Email) == "" || c.Admin.Password == "" {
		problems = append(problems, "admin.email and admin.password must be set / 管理员账号未配置")
	}
	switch c.Content.Driver {
	case ContentDriverSanity:
		if c.Content.ProjectID == "" || c.Content.Dataset == "" {
			problems = append(problems, "content.project_id and content.dataset are required for the sanity driver / sanity 驱动需要 project_id 与 dataset")
		}
	case ContentDriverSQLite:
		if c.DB.Path == "" {
			problems = append(problems, "database.path is required for the sqlite driver / sqlite 驱动需要数据库路径")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown content.driver %q / 未知的内容驱动", c.Content.Driver))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
