package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// LoadOptions tweaks where configuration is read from.
type LoadOptions struct {
	// ConfigFile, when set, is read instead of searching for config.yaml.
	ConfigFile string
	// DotEnvDirs overrides the directories searched for a .env file.
	DotEnvDirs []string
}

// Load reads configuration using the default search paths.
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/shopadmin/")
	}

	v.SetEnvPrefix("SHOPADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names used by the storefront's own deployment stay valid.
	bindings := map[string][]string{
		"admin.email":        {"SHOPADMIN_ADMIN_EMAIL", "NEXT_PUBLIC_EMAIL"},
		"admin.password":     {"SHOPADMIN_ADMIN_PASSWORD", "NEXT_PUBLIC_PASSWORD"},
		"content.project_id": {"SHOPADMIN_CONTENT_PROJECT_ID", "NEXT_PUBLIC_SANITY_PROJECT_ID"},
		"content.dataset":    {"SHOPADMIN_CONTENT_DATASET", "NEXT_PUBLIC_SANITY_DATASET"},
		"content.token":      {"SHOPADMIN_CONTENT_TOKEN", "SANITY_API_TOKEN"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || opts.ConfigFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	dirs := opts.DotEnvDirs
	if dirs == nil {
		dirs = []string{".", "..", "../.."}
	}
	if err := loadDotEnv(v, dirs); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Content.Driver = strings.ToLower(strings.TrimSpace(cfg.Content.Driver))

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", "0.0.0.0:8080")
	v.SetDefault("http.shutdown_timeout", "15s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.environment", "production")

	// Empty defaults make AutomaticEnv values visible to Unmarshal.
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.max_age", "168h")
	v.SetDefault("session.secure", false)

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("auth.issuer", "shopadmin")
	v.SetDefault("auth.audience", "shopadmin-api")
	v.SetDefault("auth.leeway", "30s")
	v.SetDefault("auth.bcrypt_cost", 12)

	v.SetDefault("content.driver", ContentDriverSanity)
	v.SetDefault("content.project_id", "")
	v.SetDefault("content.dataset", "production")
	v.SetDefault("content.api_version", "2023-05-03")
	v.SetDefault("content.token", "")
	v.SetDefault("content.use_cdn", false)
	v.SetDefault("content.timeout", "30s")
	v.SetDefault("content.api_host", "api.sanity.io")
	v.SetDefault("content.cdn_host", "apicdn.sanity.io")
	v.SetDefault("content.image_host", "cdn.sanity.io")

	v.SetDefault("database.path", "data/shopadmin.db")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "shopadmin")
	v.SetDefault("metrics.subsystem", "http")
	v.SetDefault("metrics.token", "")

	v.SetDefault("probe.enabled", true)
	v.SetDefault("probe.spec", "@every 1m")

	v.SetDefault("dashboard.state_ttl", "2h")
	v.SetDefault("dashboard.thumbnail_size", 40)
}

func loadDotEnv(v *viper.Viper, dirs []string) error {
	for _, path := range dirs {
		file := filepath.Clean(filepath.Join(path, ".env"))
		if _, err := os.Stat(file); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("stat .env: %w", err)
		}

		// .env values are flat strings; keep them out of the typed instance.
		envViper := viper.New()
		envViper.SetConfigFile(file)
		envViper.SetConfigType("env")
		if err := envViper.ReadInConfig(); err != nil {
			return fmt.Errorf("read .env: %w", err)
		}

		bindLegacyEnv(v, envViper)
	}
	return nil
}

// bindLegacyEnv maps flat .env keys onto the hierarchical configuration.
func bindLegacyEnv(target *viper.Viper, source *viper.Viper) {
	mappings := map[string]string{
		"HTTP_ADDR":                      "http.addr",
		"SHUTDOWN_TIMEOUT":               "http.shutdown_timeout",
		"LOG_LEVEL":                      "log.level",
		"LOG_FORMAT":                     "log.format",
		"LOG_ADD_SOURCE":                 "log.add_source",
		"APP_ENV":                        "log.environment",
		"NEXT_PUBLIC_EMAIL":              "admin.email",
		"NEXT_PUBLIC_PASSWORD":           "admin.password",
		"ADMIN_EMAIL":                    "admin.email",
		"ADMIN_PASSWORD":                 "admin.password",
		"SESSION_SECRET":                 "session.secret",
		"AUTH_SIGNING_KEY":               "auth.signing_key",
		"AUTH_TOKEN_TTL":                 "auth.token_ttl",
		"NEXT_PUBLIC_SANITY_PROJECT_ID":  "content.project_id",
		"NEXT_PUBLIC_SANITY_DATASET":     "content.dataset",
		"NEXT_PUBLIC_SANITY_API_VERSION": "content.api_version",
		"SANITY_API_TOKEN":               "content.token",
		"CONTENT_DRIVER":                 "content.driver",
		"DB_PATH":                        "database.path",
	}

	// .env only replaces defaults; the config file and real environment win.
	for oldKey, newKey := range mappings {
		if val := source.GetString(oldKey); val != "" {
			target.SetDefault(newKey, val)
		}
	}
}
