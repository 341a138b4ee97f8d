// 文件路径: internal/api/session/session.go
// 模块说明: 基于 gorilla/sessions 的签名 cookie 会话，保存 isLoggedIn 标记、一次性提示与仪表盘视图 ID。
package session

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/creamcroissant/shopadmin/internal/dashboard"
)

// Name is the cookie name.
const Name = "shopadmin_session"

const (
	keyLoggedIn = "isLoggedIn"
	keyEmail    = "email"
	keyViewID   = "view_id"
	keyNotices  = "notices"
)

// Options configures the cookie.
type Options struct {
	MaxAge time.Duration
	Secure bool
}

// Manager reads and writes the admin session cookie.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager builds a cookie store. secret is base64 (as generated by
// bootstrap.ResolveSecret); anything shorter than 32 bytes after decoding is
// replaced by a random key, which invalidates sessions on restart.
func NewManager(secret string, opts Options) *Manager {
	var key []byte
	if secret != "" {
		if decoded, err := base64.StdEncoding.DecodeString(secret); err == nil {
			key = decoded
		} else {
			key = []byte(secret)
		}
	}
	if len(key) < 32 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: cs}
}

// get never fails: a cookie that no longer decodes yields a fresh session.
func (m *Manager) get(r *http.Request) *sessions.Session {
	sess, _ := m.store.Get(r, Name)
	return sess
}

// IsLoggedIn reports whether the request carries isLoggedIn=true.
func (m *Manager) IsLoggedIn(r *http.Request) bool {
	flag, ok := m.get(r).Values[keyLoggedIn].(bool)
	return ok && flag
}

// Email returns the admin email stored at login.
func (m *Manager) Email(r *http.Request) string {
	email, _ := m.get(r).Values[keyEmail].(string)
	return email
}

// SetLoggedIn sets the flag and starts a new dashboard view.
func (m *Manager) SetLoggedIn(w http.ResponseWriter, r *http.Request, email string) error {
	sess := m.get(r)
	sess.Values[keyLoggedIn] = true
	sess.Values[keyEmail] = email
	sess.Values[keyViewID] = uuid.NewString()
	return sess.Save(r, w)
}

// Clear drops the session cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess := m.get(r)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// ViewID returns the id under which this session's dashboard state is kept,
// creating one if needed.
func (m *Manager) ViewID(w http.ResponseWriter, r *http.Request) (string, error) {
	sess := m.get(r)
	if id, ok := sess.Values[keyViewID].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[keyViewID] = id
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

// CurrentViewID returns the view id without creating one.
func (m *Manager) CurrentViewID(r *http.Request) string {
	id, _ := m.get(r).Values[keyViewID].(string)
	return id
}

// AddNotice queues a notice for the next page view.
func (m *Manager) AddNotice(w http.ResponseWriter, r *http.Request, n dashboard.Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	sess := m.get(r)
	sess.AddFlash(string(data), keyNotices)
	return sess.Save(r, w)
}

// Notices pops the queued notices.
func (m *Manager) Notices(w http.ResponseWriter, r *http.Request) []dashboard.Notice {
	sess := m.get(r)
	flashes := sess.Flashes(keyNotices)
	if len(flashes) == 0 {
		return nil
	}
	_ = sess.Save(r, w)
	out := make([]dashboard.Notice, 0, len(flashes))
	for _, f := range flashes {
		raw, ok := f.(string)
		if !ok {
			continue
		}
		var n dashboard.Notice
		if err := json.Unmarshal([]byte(raw), &n); err == nil {
			out = append(out, n)
		}
	}
	return out
}
