// 文件路径: internal/bootstrap/infra.go
// 模块说明: 组装缓存、JWT、密码哈希与审计等认证相关的共享基础设施。
package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/creamcroissant/shopadmin/internal/auth/token"
	"github.com/creamcroissant/shopadmin/internal/cache"
	"github.com/creamcroissant/shopadmin/internal/config"
	"github.com/creamcroissant/shopadmin/internal/security"
	"github.com/creamcroissant/shopadmin/internal/support/hash"
)

// Infrastructure bundles shared helpers required by auth and dashboard services.
type Infrastructure struct {
	Cache  cache.Store
	Token  *token.Manager
	Hasher hash.Hasher
	Audit  security.Recorder
}

// BuildInfrastructure wires default implementations for cache/token/hash/audit.
// signingKey must already be resolved; cfg.SigningKey is ignored.
func BuildInfrastructure(cfg config.AuthConfig, signingKey string, stateTTL time.Duration, logger *slog.Logger) (*Infrastructure, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("signing key is required / 签名密钥不能为空")
	}
	if signingKey == "change-me" {
		return nil, fmt.Errorf("auth.signing_key must be changed from default value")
	}
	if stateTTL <= 0 {
		stateTTL = 2 * time.Hour
	}

	cacheStore := cache.NewStore(cache.Options{
		Prefix:          "shopadmin",
		DefaultTTL:      stateTTL,
		CleanupInterval: 10 * time.Minute,
	})

	tokenManager, err := token.NewManager(token.Options{
		SigningKey: []byte(signingKey),
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		TTL:        cfg.TokenTTL,
		Leeway:     cfg.Leeway,
	})
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	hasher, err := hash.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt hasher: %w", err)
	}

	return &Infrastructure{
		Cache:  cacheStore,
		Token:  tokenManager,
		Hasher: hasher,
		Audit:  security.NewLoggerRecorder(logger),
	}, nil
}
