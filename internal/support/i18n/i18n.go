// 文件路径: internal/support/i18n/i18n.go
// 模块说明: 管理后台的多语言文案（对话框、提示与错误信息），语言包内嵌在二进制中。
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// DefaultLang is used when nothing better matches.
const DefaultLang = "en-US"

// Manager 管理翻译内容。
type Manager struct {
	defaultLang  string
	translations map[string]map[string]string
	matcher      language.Matcher
	tags         []string
	logger       *slog.Logger
	mu           sync.RWMutex
}

// Option 用于配置 Manager。
type Option func(*Manager)

// WithLogger 设置 Manager 使用的日志实例。
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDefaultLang 设置默认语言。
func WithDefaultLang(lang string) Option {
	return func(m *Manager) {
		if lang != "" {
			m.defaultLang = lang
		}
	}
}

// NewManager 创建 i18n Manager 并加载内嵌语言包。
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		defaultLang:  DefaultLang,
		translations: make(map[string]map[string]string),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	entries, err := embeddedLocales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := embeddedLocales.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", entry.Name(), err)
		}
		if err := m.merge(strings.TrimSuffix(entry.Name(), ".json"), data); err != nil {
			return nil, err
		}
	}
	if _, ok := m.translations[m.defaultLang]; !ok {
		return nil, fmt.Errorf("default language %s has no locale file / 默认语言缺少语言包", m.defaultLang)
	}
	m.rebuildMatcher()
	return m, nil
}

// LoadFromDir 从外部目录加载翻译文件，覆盖同名键。目录不存在时忽略。
func (m *Manager) LoadFromDir(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read external locales: %w", err)
	}
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			m.logger.Warn("failed to read external locale file", "file", file.Name(), "error", err)
			continue
		}
		if err := m.merge(strings.TrimSuffix(file.Name(), ".json"), data); err != nil {
			m.logger.Warn("failed to load external locale file", "file", file.Name(), "error", err)
		}
	}
	m.rebuildMatcher()
	return nil
}

func (m *Manager) merge(lang string, data []byte) error {
	var content map[string]string
	if err := json.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("decode locale %s: %w", lang, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.translations[lang]; !ok {
		m.translations[lang] = make(map[string]string, len(content))
	}
	for k, v := range content {
		m.translations[lang][k] = v
	}
	return nil
}

func (m *Manager) rebuildMatcher() {
	m.mu.Lock()
	defer m.mu.Unlock()
	// The default language goes first so the matcher falls back to it.
	names := []string{m.defaultLang}
	for lang := range m.translations {
		if lang != m.defaultLang {
			names = append(names, lang)
		}
	}
	sort.Strings(names[1:])
	tags := make([]language.Tag, 0, len(names))
	kept := make([]string, 0, len(names))
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			m.logger.Warn("ignoring locale with invalid tag", "lang", name)
			continue
		}
		tags = append(tags, tag)
		kept = append(kept, name)
	}
	m.matcher = language.NewMatcher(tags)
	m.tags = kept
}

// Match returns the supported language that best fits the given preferences,
// each of which may be a tag or a full Accept-Language header.
func (m *Manager) Match(prefs ...string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wanted []language.Tag
	for _, pref := range prefs {
		if strings.TrimSpace(pref) == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil {
			continue
		}
		wanted = append(wanted, tags...)
	}
	if len(wanted) == 0 || m.matcher == nil {
		return m.defaultLang
	}
	_, index, conf := m.matcher.Match(wanted...)
	if conf == language.No || index >= len(m.tags) {
		return m.defaultLang
	}
	return m.tags[index]
}

// Translate 按语言与键名返回翻译内容，找不到时回退到默认语言，再回退为 key。
func (m *Manager) Translate(lang, key string, args ...any) string {
	if m == nil {
		return key
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if tag, err := language.Parse(lang); err == nil {
		lang = tag.String()
	}
	for _, candidate := range []string{lang, m.defaultLang} {
		if val, ok := m.translations[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(val, args...)
			}
			return val
		}
	}
	return key
}

// SupportedLanguages 返回支持的语言列表，默认语言在首位。
func (m *Manager) SupportedLanguages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.tags...)
}

type langKey struct{}

// WithLanguage attaches the viewer's language to ctx.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LanguageFrom returns the language stored by WithLanguage, or DefaultLang.
func LanguageFrom(ctx context.Context) string {
	if ctx != nil {
		if lang, ok := ctx.Value(langKey{}).(string); ok && lang != "" {
			return lang
		}
	}
	return DefaultLang
}

// T translates key in the language carried by ctx.
func (m *Manager) T(ctx context.Context, key string, args ...any) string {
	return m.Translate(LanguageFrom(ctx), key, args...)
}
