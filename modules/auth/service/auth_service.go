package service

import (
	"context"
	"time"

	"github.com/moimo-team/moaclass-back/core/cache"
	"github.com/moimo-team/moaclass-back/core/config"
	"github.com/moimo-team/moaclass-back/core/constants"
	apperrors "github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/core/logger"
	"github.com/moimo-team/moaclass-back/core/utils"
	"github.com/moimo-team/moaclass-back/modules/auth/dto"
)

// AuthService handles the token lifecycle: rotating refresh tokens and
// revoking tokens through the blacklist. Sign-in itself happens upstream.
type AuthService struct {
	cache cache.Cache
}

type AuthServiceInterface interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, *apperrors.AppError)
	Logout(ctx context.Context, accessToken string) *apperrors.AppError
}

func NewAuthService(cache cache.Cache) AuthServiceInterface {
	return &AuthService{cache: cache}
}

// RefreshTokens exchanges a valid refresh token for a new pair. The old
// refresh token is blacklisted so it cannot be replayed.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, *apperrors.AppError) {
	blacklisted, err := s.cache.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		logger.Error("AuthService:RefreshTokens:IsTokenBlacklisted", err)
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to verify token", err)
	}
	if blacklisted {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Refresh token has been revoked", nil)
	}

	claims, err := utils.ValidateAndParseToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Invalid refresh token", err)
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "Token is not a refresh token", nil)
	}

	accessToken, err := utils.GenerateToken(claims.UserID, claims.Nickname, constants.ScopeTokenAccess)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to generate access token", err)
	}
	newRefreshToken, err := utils.GenerateToken(claims.UserID, claims.Nickname, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to generate refresh token", err)
	}

	refreshTTL := time.Duration(config.Get().JWT.RefreshTTLHours) * time.Hour
	if err := s.cache.AddToTokenBlacklist(ctx, refreshToken, refreshTTL); err != nil {
		logger.Error("AuthService:RefreshTokens:AddToTokenBlacklist", err)
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to revoke old token", err)
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout blacklists the access token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, accessToken string) *apperrors.AppError {
	accessTTL := time.Duration(config.Get().JWT.AccessTTLHours) * time.Hour
	if err := s.cache.AddToTokenBlacklist(ctx, accessToken, accessTTL); err != nil {
		logger.Error("AuthService:Logout:AddToTokenBlacklist", err)
		return apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to log out", err)
	}
	return nil
}
