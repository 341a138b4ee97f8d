// 文件路径: internal/cache/store.go
// 模块说明: 基于 go-cache 的进程内快照缓存，按会话保存仪表盘视图状态。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store keeps JSON snapshots. Readers decode their own copy, so a held value
// is never shared between requests.
type Store interface {
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	Delete(ctx context.Context, key string)
	TTL(ctx context.Context, key string) (time.Duration, bool)
	Namespace(prefix string) Store
}

// Options 配置内存缓存行为。
type Options struct {
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
	Prefix          string
}

// NewStore 创建基于 go-cache 的缓存实现，并支持命名空间。
func NewStore(opts Options) Store {
	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	cleanup := opts.CleanupInterval
	if cleanup <= 0 {
		cleanup = ttl
	}
	return &snapshotStore{
		backend: gocache.New(ttl, cleanup),
		ttl:     ttl,
		prefix:  joinKey(opts.Prefix),
	}
}

type snapshotStore struct {
	backend *gocache.Cache
	ttl     time.Duration
	prefix  string
}

func (s *snapshotStore) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	s.backend.Set(joinKey(s.prefix, key), data, ttl)
	return nil
}

func (s *snapshotStore) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := s.backend.Get(joinKey(s.prefix, key))
	if !ok {
		return false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		return false, nil
	}
	if dest == nil {
		return true, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return true, nil
}

func (s *snapshotStore) Delete(_ context.Context, key string) {
	s.backend.Delete(joinKey(s.prefix, key))
}

func (s *snapshotStore) TTL(_ context.Context, key string) (time.Duration, bool) {
	_, exp, ok := s.backend.GetWithExpiration(joinKey(s.prefix, key))
	if !ok || exp.IsZero() {
		return 0, false
	}
	if left := time.Until(exp); left > 0 {
		return left, true
	}
	return 0, false
}

// Namespace shares the backend; keys become "<prefix>:<ns>:<key>".
func (s *snapshotStore) Namespace(prefix string) Store {
	return &snapshotStore{backend: s.backend, ttl: s.ttl, prefix: joinKey(s.prefix, prefix)}
}

func joinKey(parts ...string) string {
	var kept []string
	for _, part := range parts {
		if p := strings.Trim(part, ": "); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ":")
}
