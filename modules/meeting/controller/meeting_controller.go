package controller

import (
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/constants"
	"github.com/moimo-team/moaclass-back/core/controller"
	"github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/core/params"
	"github.com/moimo-team/moaclass-back/core/utils"
	"github.com/moimo-team/moaclass-back/modules/meeting/dto"
	"github.com/moimo-team/moaclass-back/modules/meeting/entity"
	"github.com/moimo-team/moaclass-back/modules/meeting/service"
)

type MeetingController struct {
	service service.MeetingServiceInterface
	controller.BaseController
}

func NewMeetingController(service service.MeetingServiceInterface) *MeetingController {
	return &MeetingController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Create opens a new meeting hosted by the caller
// @Summary Create meeting
// @Description Multipart form with an optional meeting_image file part
// @Tags Meeting
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param interest_id formData string true "Interest ID"
// @Param address formData string true "Street address"
// @Param max_participants formData int true "Capacity including the host"
// @Param meeting_date formData string true "Meeting date"
// @Success 201 {object} dto.MeetingDetailResponse
// @Failure 400 {object} errors.AppError
// @Router /private/meetings [post]
func (c *MeetingController) Create(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.CreateMeetingRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	result, appErr := c.service.Create(ctx.Request().Context(), userID, *req, imageFromForm(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Meeting created successfully")
}

// FindAll lists live meetings
// @Summary List meetings
// @Tags Meeting
// @Produce json
// @Param interest_id query string false "Filter by interest"
// @Param include_finished query bool false "Include past meetings"
// @Param sort query string false "new | update | deadline"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /meetings [get]
func (c *MeetingController) FindAll(ctx echo.Context) error {
	filter := entity.ListFilter{
		IncludeFinished: ctx.QueryParam("include_finished") == "true",
		Sort:            entity.MeetingSort(ctx.QueryParam("sort")),
	}
	if raw := ctx.QueryParam("interest_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid interest id")
		}
		filter.InterestID = &id
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.service.FindAll(ctx.Request().Context(), filter, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meetings retrieved successfully")
}

// Search matches meetings by keyword
// @Summary Search meetings
// @Description Matches titles, interest names, and host nicknames
// @Tags Meeting
// @Produce json
// @Param keyword query string true "Search keyword"
// @Success 200 {object} map[string]interface{}
// @Router /meetings/search [get]
func (c *MeetingController) Search(ctx echo.Context) error {
	keyword := ctx.QueryParam("keyword")
	if keyword == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Keyword is required")
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.service.Search(ctx.Request().Context(), keyword, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meetings retrieved successfully")
}

// GetMyMeetings lists meetings the caller hosts or joined
// @Summary My meetings
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param view query string false "all | hosted | joined"
// @Param status query string false "all | pending | accepted | completed"
// @Success 200 {object} map[string]interface{}
// @Router /private/meetings/me [get]
func (c *MeetingController) GetMyMeetings(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	filter := entity.MyMeetingFilter{
		View:   ctx.QueryParam("view"),
		Status: ctx.QueryParam("status"),
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.service.GetMyMeetings(ctx.Request().Context(), userID, filter, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "My meetings retrieved successfully")
}

// FindOne returns a single meeting detail
// @Summary Meeting detail
// @Tags Meeting
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingDetailResponse
// @Failure 404 {object} errors.AppError
// @Failure 410 {object} errors.AppError
// @Router /meetings/{id} [get]
func (c *MeetingController) FindOne(ctx echo.Context) error {
	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting id")
	}

	result, appErr := c.service.FindOne(ctx.Request().Context(), meetingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting retrieved successfully")
}

// Update edits a meeting; host only
// @Summary Update meeting
// @Tags Meeting
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Success 200 {object} dto.MeetingDetailResponse
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{meetingId} [put]
func (c *MeetingController) Update(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	meetingID, err := uuid.Parse(ctx.Param("meetingId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting id")
	}

	req := new(dto.UpdateMeetingRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	result, appErr := c.service.Update(ctx.Request().Context(), meetingID, userID, *req, imageFromForm(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting updated successfully")
}

// Delete soft-deletes a meeting; host only
// @Summary Delete meeting
// @Tags Meeting
// @Security BearerAuth
// @Param meetingId path string true "Meeting ID"
// @Success 204
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{meetingId} [delete]
func (c *MeetingController) Delete(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	meetingID, err := uuid.Parse(ctx.Param("meetingId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting id")
	}

	if appErr := c.service.SoftDelete(ctx.Request().Context(), meetingID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.NoContentResponse(ctx)
}

// imageFromForm pulls the optional meeting_image part; nil when absent.
func imageFromForm(ctx echo.Context) *multipart.FileHeader {
	file, err := ctx.FormFile("meeting_image")
	if err != nil {
		return nil
	}
	return file
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
