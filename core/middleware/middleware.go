package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/cache"
	"github.com/moimo-team/moaclass-back/core/constants"
	"github.com/moimo-team/moaclass-back/core/controller"
	"github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/core/utils"
)

// Middleware bundles the request guards shared by every module router.
type Middleware struct {
	cache cache.Cache
	base  controller.BaseController
}

func NewMiddleware(c cache.Cache) *Middleware {
	return &Middleware{
		cache: c,
		base:  controller.NewBaseController(),
	}
}

// AuthMiddleware resolves the acting user from the Bearer token and stores
// the claims under constants.ContextTokenData. Credentials themselves are
// issued elsewhere; this only validates and rejects revoked tokens.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := utils.GetTokenFromHeader(ctx.Request().Header.Get("Authorization"))
			if err != nil {
				return m.base.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing or malformed Authorization header")
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(ctx.Request().Context(), token)
				if err == nil && blacklisted {
					return m.base.Unauthorized(errors.ErrUnauthorized, "Token has been revoked")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				if ae, ok := err.(*errors.AppError); ok {
					return m.base.Unauthorized(ae.Code, ae.Message)
				}
				return m.base.Unauthorized(errors.ErrUnauthorized, "Invalid token")
			}

			if claims.Scope != constants.ScopeTokenAccess {
				return m.base.Unauthorized(errors.ErrUnauthorized, "Token scope not allowed")
			}

			ctx.Set(constants.ContextTokenData, claims)
			return next(ctx)
		}
	}
}
