package meeting

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/database"
	"github.com/moimo-team/moaclass-back/core/middleware"
	"github.com/moimo-team/moaclass-back/modules/meeting/controller"
	"github.com/moimo-team/moaclass-back/modules/meeting/repository"
	"github.com/moimo-team/moaclass-back/modules/meeting/router"
	"github.com/moimo-team/moaclass-back/modules/meeting/service"
	notifRepository "github.com/moimo-team/moaclass-back/modules/notification/repository"
	uploadService "github.com/moimo-team/moaclass-back/modules/upload/service"
	userRepository "github.com/moimo-team/moaclass-back/modules/user/repository"
)

// Init initializes the meeting module and registers routes. The returned
// participation service is shared with the chat module for membership
// checks. A broken storage config fails startup here rather than surfacing
// on the first image upload.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) (service.ParticipationServiceInterface, error) {
	meetingRepo := repository.NewMeetingRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	notifRepo := notifRepository.NewNotificationRepository(db)
	userRepo := userRepository.NewUserRepository(db)

	uploader, err := uploadService.NewUploadService()
	if err != nil {
		return nil, fmt.Errorf("init upload service: %w", err)
	}

	participationSvc := service.NewParticipationService(&db, meetingRepo, participationRepo, notifRepo, userRepo)
	meetingSvc := service.NewMeetingService(&db, meetingRepo, participationRepo, notifRepo, userRepo, service.NewKakaoGeocoder(), uploader)

	meetingCtrl := controller.NewMeetingController(meetingSvc)
	participationCtrl := controller.NewParticipationController(participationSvc)

	router.NewMeetingRouter(meetingCtrl, participationCtrl).Setup(e, mw)

	return participationSvc, nil
}
