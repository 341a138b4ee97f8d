// 文件路径: internal/support/hash/bcrypt.go
// 模块说明: 管理员密码的 bcrypt 哈希与比对；配置中既可写明文也可写哈希。
package hash

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher 抽象密码哈希能力。
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) error
}

// BcryptHasher 使用 golang.org/x/crypto/bcrypt 实现 Hasher。
type BcryptHasher struct {
	cost int
}

// ErrPasswordMismatch 表示密码与哈希不匹配。
var ErrPasswordMismatch = errors.New("password mismatch / 密码不匹配")

// NewBcryptHasher 校验 cost 并返回基于 bcrypt 的哈希器。
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d / bcrypt cost 必须在 %d 到 %d 之间", bcrypt.MinCost, bcrypt.MaxCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash 生成密码的 bcrypt 哈希。
func (h *BcryptHasher) Hash(password string) (string, error) {
	if h == nil {
		return "", fmt.Errorf("bcrypt hasher is required / bcrypt hasher 不能为空")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password hash failed / 密码哈希失败: %w", err)
	}
	return string(hashed), nil
}

// Compare 校验明文密码与哈希是否匹配。
func (h *BcryptHasher) Compare(hashed, password string) error {
	if h == nil {
		return fmt.Errorf("bcrypt hasher is required / bcrypt hasher 不能为空")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("hash comparison failed / 校验哈希失败: %w", err)
	}
	return nil
}

// IsBcrypt reports whether stored looks like a bcrypt hash.
func IsBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// Matches compares a submitted password against a stored value that is either
// a bcrypt hash or plaintext. Plaintext is compared in constant time.
func Matches(h Hasher, stored, password string) bool {
	if stored == "" {
		return false
	}
	if IsBcrypt(stored) && h != nil {
		return h.Compare(stored, password) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
