package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/middleware"
	"github.com/moimo-team/moaclass-back/modules/chat/controller"
)

type ChatRouter struct {
	controller *controller.ChatController
}

func NewChatRouter(controller *controller.ChatController) *ChatRouter {
	return &ChatRouter{controller: controller}
}

func (r *ChatRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	group := v1.Group("/private/chats", mw.AuthMiddleware())

	group.GET("", r.controller.GetMyRooms)
	group.GET("/:meetingId/messages", r.controller.GetMessages)
	group.POST("/:meetingId/messages", r.controller.SendMessage)
}
