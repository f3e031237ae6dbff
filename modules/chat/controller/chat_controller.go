package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/constants"
	"github.com/moimo-team/moaclass-back/core/controller"
	"github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/core/params"
	"github.com/moimo-team/moaclass-back/core/utils"
	"github.com/moimo-team/moaclass-back/modules/chat/dto"
	"github.com/moimo-team/moaclass-back/modules/chat/service"
)

type ChatController struct {
	service service.ChatServiceInterface
	controller.BaseController
}

func NewChatController(service service.ChatServiceInterface) *ChatController {
	return &ChatController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// GetMyRooms lists the caller's chat rooms
// @Summary My chat rooms
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ChatRoomResponse
// @Router /private/chats [get]
func (c *ChatController) GetMyRooms(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	result, appErr := c.service.GetMyRooms(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Chat rooms retrieved successfully")
}

// GetMessages pages a room's messages, newest first; members only
// @Summary List messages
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.AppError
// @Router /private/chats/{meetingId}/messages [get]
func (c *ChatController) GetMessages(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	meetingID, err := uuid.Parse(ctx.Param("meetingId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting id")
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.service.GetMessages(ctx.Request().Context(), meetingID, userID, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Messages retrieved successfully")
}

// SendMessage posts a message to a room; members only
// @Summary Send message
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.ChatMessageResponse
// @Failure 403 {object} errors.AppError
// @Router /private/chats/{meetingId}/messages [post]
func (c *ChatController) SendMessage(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	meetingID, err := uuid.Parse(ctx.Param("meetingId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting id")
	}

	req := new(dto.SendMessageRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.service.SendMessage(ctx.Request().Context(), meetingID, userID, *req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Message sent successfully")
}

// Helper function to get user ID from JWT context
func getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Token data not found in context", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data format", nil)
	}

	return claims.UserID, nil
}
