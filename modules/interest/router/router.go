package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/middleware"
	"github.com/moimo-team/moaclass-back/modules/interest/controller"
)

type InterestRouter struct {
	controller *controller.InterestController
}

func NewInterestRouter(controller *controller.InterestController) *InterestRouter {
	return &InterestRouter{controller: controller}
}

func (r *InterestRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	v1.GET("/interests", r.controller.List)
}
