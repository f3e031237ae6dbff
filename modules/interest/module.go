package interest

import (
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/database"
	"github.com/moimo-team/moaclass-back/core/middleware"
	"github.com/moimo-team/moaclass-back/modules/interest/controller"
	"github.com/moimo-team/moaclass-back/modules/interest/repository"
	"github.com/moimo-team/moaclass-back/modules/interest/router"
	"github.com/moimo-team/moaclass-back/modules/interest/service"
)

// Init initializes the interest module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewInterestRepository(db)
	svc := service.NewInterestService(repo)
	ctrl := controller.NewInterestController(svc)

	router.NewInterestRouter(ctrl).Setup(e, mw)
}
