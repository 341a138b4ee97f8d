package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/creamcroissant/shopadmin/internal/auth/token"
	"github.com/creamcroissant/shopadmin/internal/security"
	"github.com/creamcroissant/shopadmin/internal/support/hash"
)

func newAuth(t *testing.T, creds Credentials) (AuthService, *memRecorder) {
	t.Helper()
	hasher, err := hash.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	mgr, err := token.NewManager(token.Options{SigningKey: []byte("test-key"), Issuer: "shopadmin", Audience: "shopadmin-api", TTL: time.Hour})
	require.NoError(t, err)
	rec := &memRecorder{}
	return NewAuthService(creds, hasher, mgr, rec), rec
}

func TestLoginExactMatch(t *testing.T) {
	svc, rec := newAuth(t, Credentials{Email: "owner@example.com", Password: "hunter2"})
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, LoginInput{Email: "owner@example.com", Password: "hunter2"}))

	cases := []LoginInput{
		{Email: "owner@example.com", Password: "hunter3"},
		{Email: "Owner@example.com", Password: "hunter2"},
		{Email: " owner@example.com", Password: "hunter2"},
		{Email: "other@example.com", Password: "hunter2"},
		{Email: "", Password: ""},
	}
	for _, in := range cases {
		assert.ErrorIs(t, svc.Login(ctx, in), ErrInvalidCredentials, "%+v", in)
	}

	require.Len(t, rec.events, 1+len(cases))
	assert.Equal(t, security.EventLoginSuccess, rec.events[0].Kind)
	assert.Equal(t, security.EventLoginFailure, rec.events[1].Kind)
}

func TestLoginUnsetConfigurationNeverMatches(t *testing.T) {
	svc, _ := newAuth(t, Credentials{})
	assert.ErrorIs(t, svc.Login(context.Background(), LoginInput{}), ErrInvalidCredentials)

	svc, _ = newAuth(t, Credentials{Email: "owner@example.com"})
	assert.ErrorIs(t, svc.Login(context.Background(), LoginInput{Email: "owner@example.com"}), ErrInvalidCredentials)
}

func TestLoginBcryptPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	svc, _ := newAuth(t, Credentials{Email: "owner@example.com", Password: string(hashed)})

	assert.NoError(t, svc.Login(context.Background(), LoginInput{Email: "owner@example.com", Password: "hunter2"}))
	assert.ErrorIs(t, svc.Login(context.Background(), LoginInput{Email: "owner@example.com", Password: string(hashed)}), ErrInvalidCredentials)
}

func TestIssueAndVerifyToken(t *testing.T) {
	svc, _ := newAuth(t, Credentials{Email: "owner@example.com", Password: "hunter2"})
	ctx := context.Background()

	_, err := svc.IssueToken(ctx, LoginInput{Email: "owner@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.IssueToken(ctx, LoginInput{Email: "owner@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	claims, err := svc.VerifyToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = svc.VerifyToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.VerifyToken(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyTokenRejectsOtherAdmin(t *testing.T) {
	issuer, _ := newAuth(t, Credentials{Email: "old@example.com", Password: "pw"})
	res, err := issuer.IssueToken(context.Background(), LoginInput{Email: "old@example.com", Password: "pw"})
	require.NoError(t, err)

	verifier, _ := newAuth(t, Credentials{Email: "new@example.com", Password: "pw"})
	_, err = verifier.VerifyToken(context.Background(), res.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
