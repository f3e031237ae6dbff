package chat

import (
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/database"
	"github.com/moimo-team/moaclass-back/core/middleware"
	"github.com/moimo-team/moaclass-back/modules/chat/controller"
	"github.com/moimo-team/moaclass-back/modules/chat/repository"
	"github.com/moimo-team/moaclass-back/modules/chat/router"
	"github.com/moimo-team/moaclass-back/modules/chat/service"
)

// Init initializes the chat module and registers routes. Membership checks
// are delegated to the participation engine.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, membership service.MembershipChecker) {
	repo := repository.NewChatRepository(db)
	svc := service.NewChatService(repo, membership)
	ctrl := controller.NewChatController(svc)

	router.NewChatRouter(ctrl).Setup(e, mw)
}
