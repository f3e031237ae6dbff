package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/middleware"
	"github.com/moimo-team/moaclass-back/modules/auth/controller"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{controller: controller}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	v1.POST("/auth/refresh", r.controller.RefreshTokens)
	v1.POST("/private/auth/logout", r.controller.Logout, mw.AuthMiddleware())
}
