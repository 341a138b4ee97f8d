package i18n

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateFallsBack(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	assert.Equal(t, "Are you sure?", m.Translate("en-US", "dialog.delete.title"))
	assert.Equal(t, "确定删除吗？", m.Translate("zh-CN", "dialog.delete.title"))
	assert.Equal(t, "Order marked as Dispatch.", m.Translate("en-US", "notice.updated.body", "Dispatch"))
	// Unknown language falls back to en-US, unknown key to the key itself.
	assert.Equal(t, "Deleted!", m.Translate("fr-FR", "notice.deleted.title"))
	assert.Equal(t, "no.such.key", m.Translate("zh-CN", "no.such.key"))
}

func TestNilManagerReturnsKey(t *testing.T) {
	var m *Manager
	assert.Equal(t, "notice.updated.body", m.Translate("en-US", "notice.updated.body", "dispatch"))
	assert.Equal(t, "100%s", m.T(context.Background(), "100%s", "x"))
}

func TestLocalesShareKeys(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)
	en := m.translations["en-US"]
	zh := m.translations["zh-CN"]
	for key := range en {
		assert.Contains(t, zh, key)
	}
	assert.Len(t, zh, len(en))
}

func TestMatch(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	assert.Equal(t, "zh-CN", m.Match("zh-Hans-CN,zh;q=0.9,en;q=0.8"))
	assert.Equal(t, "zh-CN", m.Match("", "zh"))
	assert.Equal(t, "en-US", m.Match("en-GB"))
	assert.Equal(t, "en-US", m.Match("de-DE"))
	assert.Equal(t, "en-US", m.Match())
	assert.Equal(t, []string{"en-US", "zh-CN"}, m.SupportedLanguages())
}

func TestLoadFromDirOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en-US.json"), []byte(`{"login.submit":"Sign in"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0o600))

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.LoadFromDir(dir))
	require.NoError(t, m.LoadFromDir(filepath.Join(dir, "missing")))

	assert.Equal(t, "Sign in", m.Translate("en-US", "login.submit"))
	assert.Equal(t, "Logout", m.Translate("en-US", "logout.submit"))
}

func TestContextLanguage(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	assert.Equal(t, DefaultLang, LanguageFrom(context.Background()))
	ctx := WithLanguage(context.Background(), "zh-CN")
	assert.Equal(t, "zh-CN", LanguageFrom(ctx))
	assert.Equal(t, "已删除！", m.T(ctx, "notice.deleted.title"))

	var nilManager *Manager
	assert.Equal(t, "Order marked as x.", nilManager.T(ctx, "Order marked as %s.", "x"))
}
