package notification

import (
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/database"
	"github.com/moimo-team/moaclass-back/core/middleware"
	"github.com/moimo-team/moaclass-back/modules/notification/controller"
	"github.com/moimo-team/moaclass-back/modules/notification/repository"
	"github.com/moimo-team/moaclass-back/modules/notification/router"
	"github.com/moimo-team/moaclass-back/modules/notification/service"
)

// Init initializes the notification module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Setup(e, mw)

	return svc
}
