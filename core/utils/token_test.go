package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/moimo-team/moaclass-back/core/config"
	"github.com/moimo-team/moaclass-back/core/constants"
	"github.com/moimo-team/moaclass-back/core/errors"
)

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

func TestGenerateAndParseToken(t *testing.T) {
	testConfig(t)
	userID := uuid.New()
	nickname := "jay"

	token, err := GenerateToken(userID, &nickname, constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateAndParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id should round-trip")
	}
	if claims.Nickname == nil || *claims.Nickname != "jay" {
		t.Fatalf("nickname should round-trip")
	}
	if claims.Scope != constants.ScopeTokenAccess {
		t.Fatalf("scope should round-trip, got %q", claims.Scope)
	}
}

func TestExpiredTokenIsReported(t *testing.T) {
	testConfig(t)

	claims := &TokenClaims{
		UserID: uuid.New(),
		Scope:  constants.ScopeTokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = ValidateAndParseToken(token)
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrTokenExpired {
		t.Fatalf("expected token-expired error, got %v", err)
	}
}

func TestTamperedTokenIsRejected(t *testing.T) {
	testConfig(t)

	token, err := GenerateToken(uuid.New(), nil, constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateAndParseToken(token + "x"); err == nil {
		t.Fatalf("tampered token must fail")
	}
}

func TestGetTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetTokenFromHeader(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %q (%v), want %q", got, err, tt.want)
			}
		})
	}
}
