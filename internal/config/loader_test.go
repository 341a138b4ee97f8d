package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "log:\n  level: debug\n")

	cfg, err := LoadWithOptions(LoadOptions{ConfigFile: path, DotEnvDirs: []string{}})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, ContentDriverSanity, cfg.Content.Driver)
	assert.Equal(t, "2023-05-03", cfg.Content.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Content.Timeout)
	assert.Equal(t, 40, cfg.Dashboard.ThumbnailSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadReadsStorefrontEnvironment(t *testing.T) {
	t.Setenv("NEXT_PUBLIC_EMAIL", "owner@example.com")
	t.Setenv("NEXT_PUBLIC_PASSWORD", "hunter2")
	t.Setenv("NEXT_PUBLIC_SANITY_PROJECT_ID", "abc123")
	t.Setenv("SHOPADMIN_SESSION_SECRET", "c2VjcmV0")

	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "http:\n  addr: 127.0.0.1:9000\n")

	cfg, err := LoadWithOptions(LoadOptions{ConfigFile: path, DotEnvDirs: []string{}})
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", cfg.Admin.Email)
	assert.Equal(t, "hunter2", cfg.Admin.Password)
	assert.Equal(t, "abc123", cfg.Content.ProjectID)
	assert.Equal(t, "c2VjcmV0", cfg.Session.Secret)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "NEXT_PUBLIC_EMAIL=dotenv@example.com\nCONTENT_DRIVER=SQLite\nDB_PATH=/tmp/orders.db\n")
	path := writeFile(t, dir, "config.yaml", "log:\n  format: text\n")

	cfg, err := LoadWithOptions(LoadOptions{ConfigFile: path, DotEnvDirs: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, "dotenv@example.com", cfg.Admin.Email)
	assert.Equal(t, ContentDriverSQLite, cfg.Content.Driver)
	assert.Equal(t, "/tmp/orders.db", cfg.DB.Path)
}

func TestDotEnvYieldsToEnvironmentAndFile(t *testing.T) {
	t.Setenv("SHOPADMIN_ADMIN_EMAIL", "explicit@example.com")
	dir := t.TempDir()
	writeFile(t, dir, ".env", "NEXT_PUBLIC_EMAIL=dotenv@example.com\nDB_PATH=/tmp/dotenv.db\nLOG_FORMAT=text\n")
	path := writeFile(t, dir, "config.yaml", "database:\n  path: /srv/orders.db\n")

	cfg, err := LoadWithOptions(LoadOptions{ConfigFile: path, DotEnvDirs: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, "explicit@example.com", cfg.Admin.Email)
	assert.Equal(t, "/srv/orders.db", cfg.DB.Path)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := LoadWithOptions(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml"), DotEnvDirs: []string{}})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Admin:   AdminConfig{Email: "a@b.c", Password: "pw"},
		Content: ContentConfig{Driver: ContentDriverSanity, ProjectID: "p", Dataset: "production"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Admin.Password = ""
	assert.Error(t, cfg.Validate())

	cfg.Admin.Password = "pw"
	cfg.Content.Driver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg.Content.Driver = ContentDriverSQLite
	cfg.DB.Path = ""
	assert.Error(t, cfg.Validate())
	cfg.DB.Path = "data/x.db"
	assert.NoError(t, cfg.Validate())
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", LogConfig{Level: "debug"}.SlogLevel().String())
	assert.Equal(t, "WARN", LogConfig{Level: "warning"}.SlogLevel().String())
	assert.Equal(t, "INFO", LogConfig{Level: "whatever"}.SlogLevel().String())
}
