package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moimo-team/moaclass-back/core/config"
	"github.com/moimo-team/moaclass-back/core/constants"
	apperrors "github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/core/utils"
)

type fakeCache struct {
	blacklist map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{blacklist: make(map[string]time.Duration)}
}

func (c *fakeCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	_, ok := c.blacklist[token]
	return ok, nil
}

func (c *fakeCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	c.blacklist[token] = ttl
	return nil
}

func (c *fakeCache) Close() error { return nil }

func testConfig(t *testing.T) {
	t.Helper()
	config.Set(&config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTTLHours:  1,
			RefreshTTLHours: 336,
		},
	})
}

func TestRefreshTokensRotatesPair(t *testing.T) {
	testConfig(t)
	cache := newFakeCache()
	svc := NewAuthService(cache)
	userID := uuid.New()

	refreshToken, err := utils.GenerateToken(userID, nil, constants.ScopeTokenRefresh)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	pair, appErr := svc.RefreshTokens(context.Background(), refreshToken)
	if appErr != nil {
		t.Fatalf("refresh: %v", appErr)
	}

	accessClaims, err := utils.ValidateAndParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse new access token: %v", err)
	}
	if accessClaims.UserID != userID || accessClaims.Scope != constants.ScopeTokenAccess {
		t.Fatalf("unexpected access claims: %+v", accessClaims)
	}

	refreshClaims, err := utils.ValidateAndParseToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse new refresh token: %v", err)
	}
	if refreshClaims.Scope != constants.ScopeTokenRefresh {
		t.Fatalf("second token should carry the refresh scope")
	}

	if _, revoked := cache.blacklist[refreshToken]; !revoked {
		t.Fatalf("the spent refresh token must be blacklisted")
	}
}

func TestRefreshTokensRejectsReplay(t *testing.T) {
	testConfig(t)
	cache := newFakeCache()
	svc := NewAuthService(cache)

	refreshToken, err := utils.GenerateToken(uuid.New(), nil, constants.ScopeTokenRefresh)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	if _, appErr := svc.RefreshTokens(context.Background(), refreshToken); appErr != nil {
		t.Fatalf("first refresh: %v", appErr)
	}

	_, appErr := svc.RefreshTokens(context.Background(), refreshToken)
	if appErr == nil || appErr.Code != apperrors.ErrUnauthorized {
		t.Fatalf("replayed refresh token must be rejected, got %v", appErr)
	}
}

func TestRefreshTokensRejectsAccessScope(t *testing.T) {
	testConfig(t)
	svc := NewAuthService(newFakeCache())

	accessToken, err := utils.GenerateToken(uuid.New(), nil, constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	_, appErr := svc.RefreshTokens(context.Background(), accessToken)
	if appErr == nil || appErr.Code != apperrors.ErrUnauthorized {
		t.Fatalf("access tokens must not refresh, got %v", appErr)
	}
}

func TestRefreshTokensRejectsGarbage(t *testing.T) {
	testConfig(t)
	svc := NewAuthService(newFakeCache())

	_, appErr := svc.RefreshTokens(context.Background(), "not-a-token")
	if appErr == nil || appErr.Code != apperrors.ErrUnauthorized {
		t.Fatalf("garbage must be rejected, got %v", appErr)
	}
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	testConfig(t)
	cache := newFakeCache()
	svc := NewAuthService(cache)

	token, err := utils.GenerateToken(uuid.New(), nil, constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if appErr := svc.Logout(context.Background(), token); appErr != nil {
		t.Fatalf("logout: %v", appErr)
	}
	if _, revoked := cache.blacklist[token]; !revoked {
		t.Fatalf("logout must blacklist the token")
	}
}
