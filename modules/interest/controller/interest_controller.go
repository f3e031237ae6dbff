package controller

import (
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/controller"
	"github.com/moimo-team/moaclass-back/modules/interest/service"
)

type InterestController struct {
	controller.BaseController
	service *service.InterestService
}

func NewInterestController(service *service.InterestService) *InterestController {
	return &InterestController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// List handles GET /interests
// @Summary List interests
// @Tags Interest
// @Produce json
// @Success 200 {array} entity.Interest
// @Router /interests [get]
func (c *InterestController) List(ctx echo.Context) error {
	interests, appErr := c.service.List(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, interests, "Interests retrieved")
}
