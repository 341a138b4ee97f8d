// 文件路径: internal/service/auth.go
// 模块说明: 管理员登录校验：与配置中的邮箱和密码比对，并为 JSON API 签发 token。
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creamcroissant/shopadmin/internal/auth/token"
	"github.com/creamcroissant/shopadmin/internal/security"
	"github.com/creamcroissant/shopadmin/internal/support/hash"
)

// RoleAdmin is the only role tokens are issued for.
const RoleAdmin = "admin"

// AuthService checks the admin credential pair.
type AuthService interface {
	// Login succeeds only when both values equal the configured pair.
	Login(ctx context.Context, input LoginInput) error
	// IssueToken runs Login and signs an API token on success.
	IssueToken(ctx context.Context, input LoginInput) (*LoginResult, error)
	// VerifyToken parses a bearer token issued by IssueToken.
	VerifyToken(ctx context.Context, raw string) (*Claims, error)
	// Logout records the end of a browser session.
	Logout(ctx context.Context, actor, ip, userAgent string)
}

// Credentials is the configured admin pair. Password may be a bcrypt hash.
type Credentials struct {
	Email    string
	Password string
}

// LoginInput represents the payload required for admin login.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// LoginResult returns an issued API token.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims describe the admin extracted from a token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authService struct {
	creds    Credentials
	hasher   hash.Hasher
	tokenMgr *token.Manager
	audit    security.Recorder
}

// NewAuthService wires the configured pair with hashing, tokens and audit.
// tokenMgr may be nil when only the browser login is served.
func NewAuthService(creds Credentials, hasher hash.Hasher, tokenMgr *token.Manager, audit security.Recorder) AuthService {
	if audit == nil {
		audit = security.NewLoggerRecorder(nil)
	}
	return &authService{creds: creds, hasher: hasher, tokenMgr: tokenMgr, audit: audit}
}

func (s *authService) Login(ctx context.Context, input LoginInput) error {
	if s == nil {
		return fmt.Errorf("auth service not configured / 认证服务未配置")
	}
	ok := s.creds.Email != "" &&
		s.creds.Password != "" &&
		input.Email == s.creds.Email &&
		hash.Matches(s.hasher, s.creds.Password, input.Password)

	event := security.Event{
		Kind:      security.EventLoginSuccess,
		Actor:     strings.TrimSpace(input.Email),
		IP:        input.IP,
		UserAgent: input.UserAgent,
	}
	if !ok {
		event.Kind = security.EventLoginFailure
		s.audit.Record(ctx, event)
		return ErrInvalidCredentials
	}
	s.audit.Record(ctx, event)
	return nil
}

func (s *authService) IssueToken(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if s == nil || s.tokenMgr == nil {
		return nil, fmt.Errorf("token issuing not configured / token 签发未配置")
	}
	if err := s.Login(ctx, input); err != nil {
		return nil, err
	}
	raw, claims, err := s.tokenMgr.Issue(input.Email, RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: raw, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *authService) VerifyToken(_ context.Context, raw string) (*Claims, error) {
	if s == nil || s.tokenMgr == nil {
		return nil, ErrUnauthorized
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.tokenMgr.Parse(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) || errors.Is(err, token.ErrInvalidToken) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	// Tokens for a previous admin email stop working once the config changes.
	if claims.Role != RoleAdmin || claims.Subject != s.creds.Email {
		return nil, ErrUnauthorized
	}
	return &Claims{Email: claims.Subject, Role: claims.Role}, nil
}

func (s *authService) Logout(ctx context.Context, actor, ip, userAgent string) {
	if s == nil {
		return
	}
	s.audit.Record(ctx, security.Event{Kind: security.EventLogout, Actor: actor, IP: ip, UserAgent: userAgent})
}
