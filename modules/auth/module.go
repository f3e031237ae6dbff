package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/cache"
	"github.com/moimo-team/moaclass-back/core/middleware"
	"github.com/moimo-team/moaclass-back/modules/auth/controller"
	"github.com/moimo-team/moaclass-back/modules/auth/router"
	"github.com/moimo-team/moaclass-back/modules/auth/service"
)

// Init initializes the auth module and registers routes
func Init(e *echo.Echo, cache cache.Cache, mw *middleware.Middleware) {
	svc := service.NewAuthService(cache)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Setup(e, mw)
}
