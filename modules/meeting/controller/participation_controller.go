package controller

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/controller"
	"github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/modules/meeting/service"
)

type ParticipationController struct {
	service service.ParticipationServiceInterface
	controller.BaseController
}

func NewParticipationController(service service.ParticipationServiceInterface) *ParticipationController {
	return &ParticipationController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Apply submits a join request for a meeting
// @Summary Request to join
// @Tags Participation
// @Security BearerAuth
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Failure 410 {object} errors.AppError
// @Router /private/meetings/{meetingId}/participations [post]
func (c *ParticipationController) Apply(ctx echo.Context) error {
	userID, meetingID, httpErr := c.callerAndMeeting(ctx)
	if httpErr != nil {
		return httpErr
	}

	if appErr := c.service.Apply(ctx.Request().Context(), meetingID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, nil, "Join request created successfully")
}

// ListApplicants returns the participation history of a meeting; host only
// @Summary List applicants
// @Tags Participation
// @Security BearerAuth
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Success 200 {array} dto.ApplicantResponse
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{meetingId}/participations [get]
func (c *ParticipationController) ListApplicants(ctx echo.Context) error {
	userID, meetingID, httpErr := c.callerAndMeeting(ctx)
	if httpErr != nil {
		return httpErr
	}

	result, appErr := c.service.ListApplicants(ctx.Request().Context(), meetingID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Applicants retrieved successfully")
}

// ListParticipants returns the accepted members of a meeting
// @Summary List participants
// @Tags Participation
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {array} dto.ParticipantResponse
// @Router /meetings/{id}/participants [get]
func (c *ParticipationController) ListParticipants(ctx echo.Context) error {
	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting id")
	}

	result, appErr := c.service.ListParticipants(ctx.Request().Context(), meetingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Participants retrieved successfully")
}

// Approve accepts one pending join request; host only
// @Summary Approve join request
// @Tags Participation
// @Security BearerAuth
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Param participationId path string true "Participation ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{meetingId}/participations/{participationId}/approve [put]
func (c *ParticipationController) Approve(ctx echo.Context) error {
	return c.decide(ctx, c.service.ApproveOne, "Join request approved successfully")
}

// Reject declines one pending join request; host only
// @Summary Reject join request
// @Tags Participation
// @Security BearerAuth
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Param participationId path string true "Participation ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{meetingId}/participations/{participationId}/reject [put]
func (c *ParticipationController) Reject(ctx echo.Context) error {
	return c.decide(ctx, c.service.RejectOne, "Join request rejected successfully")
}

// ApproveAll accepts every pending request, all or nothing
// @Summary Approve all join requests
// @Tags Participation
// @Security BearerAuth
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Router /private/meetings/{meetingId}/participations/approve-all [put]
func (c *ParticipationController) ApproveAll(ctx echo.Context) error {
	userID, meetingID, httpErr := c.callerAndMeeting(ctx)
	if httpErr != nil {
		return httpErr
	}

	if appErr := c.service.ApproveAll(ctx.Request().Context(), meetingID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Join requests approved successfully")
}

// CancelApproval withdraws a previous approval; host only
// @Summary Cancel approval
// @Tags Participation
// @Security BearerAuth
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Param participationId path string true "Participation ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Router /private/meetings/{meetingId}/participations/{participationId}/cancel-approval [put]
func (c *ParticipationController) CancelApproval(ctx echo.Context) error {
	return c.decide(ctx, c.service.CancelApproval, "Approval cancelled successfully")
}

// CancelRejection withdraws a previous rejection; host only
// @Summary Cancel rejection
// @Tags Participation
// @Security BearerAuth
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Param participationId path string true "Participation ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Router /private/meetings/{meetingId}/participations/{participationId}/cancel-rejection [put]
func (c *ParticipationController) CancelRejection(ctx echo.Context) error {
	return c.decide(ctx, c.service.CancelRejection, "Rejection cancelled successfully")
}

// decide runs one host decision over a single participation.
func (c *ParticipationController) decide(ctx echo.Context, op func(ctxReq context.Context, meetingID, hostID, participationID uuid.UUID) *errors.AppError, successMsg string) error {
	userID, meetingID, httpErr := c.callerAndMeeting(ctx)
	if httpErr != nil {
		return httpErr
	}

	participationID, err := uuid.Parse(ctx.Param("participationId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid participation id")
	}

	if appErr := op(ctx.Request().Context(), meetingID, userID, participationID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, successMsg)
}

func (c *ParticipationController) callerAndMeeting(ctx echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	meetingID, err := uuid.Parse(ctx.Param("meetingId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, c.BadRequest(errors.ErrInvalidInput, "Invalid meeting id")
	}

	return userID, meetingID, nil
}
