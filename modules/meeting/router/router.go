package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/middleware"
	"github.com/moimo-team/moaclass-back/modules/meeting/controller"
)

type MeetingRouter struct {
	meetings       *controller.MeetingController
	participations *controller.ParticipationController
}

func NewMeetingRouter(meetings *controller.MeetingController, participations *controller.ParticipationController) *MeetingRouter {
	return &MeetingRouter{meetings: meetings, participations: participations}
}

func (r *MeetingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Public browsing surface.
	public := v1.Group("/meetings")
	public.GET("", r.meetings.FindAll)
	public.GET("/search", r.meetings.Search)
	public.GET("/:id", r.meetings.FindOne)
	public.GET("/:id/participants", r.participations.ListParticipants)

	private := v1.Group("/private/meetings", mw.AuthMiddleware())
	private.POST("", r.meetings.Create)
	private.GET("/me", r.meetings.GetMyMeetings)
	private.PUT("/:meetingId", r.meetings.Update)
	private.DELETE("/:meetingId", r.meetings.Delete)

	participations := private.Group("/:meetingId/participations")
	participations.POST("", r.participations.Apply)
	participations.GET("", r.participations.ListApplicants)
	participations.PUT("/approve-all", r.participations.ApproveAll)
	participations.PUT("/:participationId/approve", r.participations.Approve)
	participations.PUT("/:participationId/reject", r.participations.Reject)
	participations.PUT("/:participationId/cancel-approval", r.participations.CancelApproval)
	participations.PUT("/:participationId/cancel-rejection", r.participations.CancelRejection)
}
