package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/moimo-team/moaclass-back/core/database"
	coreEntity "github.com/moimo-team/moaclass-back/core/entity"
	apperrors "github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/core/logger"
	"github.com/moimo-team/moaclass-back/core/params"
	"github.com/moimo-team/moaclass-back/modules/meeting/dto"
	"github.com/moimo-team/moaclass-back/modules/meeting/entity"
	"github.com/moimo-team/moaclass-back/modules/meeting/repository"
	notifEntity "github.com/moimo-team/moaclass-back/modules/notification/entity"
	notifRepository "github.com/moimo-team/moaclass-back/modules/notification/repository"
	uploadService "github.com/moimo-team/moaclass-back/modules/upload/service"
	userRepository "github.com/moimo-team/moaclass-back/modules/user/repository"
)

const meetingImageDir = "meetings"

// meetingDateLayouts accepted from clients, tried in order.
var meetingDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

// MeetingService manages the meeting lifecycle. Creation seeds the host as
// an accepted participant so occupancy starts at one; deletion is a soft
// flag plus a fan-out notification to every accepted member.
type MeetingService struct {
	tx       TxRunner
	meetings repository.MeetingRepositoryInterface

	participations repository.ParticipationRepositoryInterface
	notifications  notifRepository.NotificationRepositoryInterface
	users          userRepository.UserRepositoryInterface

	geocoder Geocoder
	uploader uploadService.Uploader
}

type MeetingServiceInterface interface {
	Create(ctx context.Context, hostID uuid.UUID, req dto.CreateMeetingRequest, image *multipart.FileHeader) (*dto.MeetingDetailResponse, *apperrors.AppError)
	Update(ctx context.Context, meetingID, callerID uuid.UUID, req dto.UpdateMeetingRequest, image *multipart.FileHeader) (*dto.MeetingDetailResponse, *apperrors.AppError)
	SoftDelete(ctx context.Context, meetingID, callerID uuid.UUID) *apperrors.AppError

	FindAll(ctx context.Context, filter entity.ListFilter, p params.QueryParams) (*coreEntity.Pagination[dto.MeetingItemResponse], *apperrors.AppError)
	Search(ctx context.Context, keyword string, p params.QueryParams) (*coreEntity.Pagination[dto.MeetingItemResponse], *apperrors.AppError)
	FindOne(ctx context.Context, meetingID uuid.UUID) (*dto.MeetingDetailResponse, *apperrors.AppError)
	GetMyMeetings(ctx context.Context, userID uuid.UUID, filter entity.MyMeetingFilter, p params.QueryParams) (*coreEntity.Pagination[dto.MyMeetingResponse], *apperrors.AppError)
}

func NewMeetingService(
	tx TxRunner,
	meetings repository.MeetingRepositoryInterface,
	participations repository.ParticipationRepositoryInterface,
	notifications notifRepository.NotificationRepositoryInterface,
	users userRepository.UserRepositoryInterface,
	geocoder Geocoder,
	uploader uploadService.Uploader,
) MeetingServiceInterface {
	return &MeetingService{
		tx:             tx,
		meetings:       meetings,
		participations: participations,
		notifications:  notifications,
		users:          users,
		geocoder:       geocoder,
		uploader:       uploader,
	}
}

// Create opens a meeting. Geocoding and the image upload run before the
// transaction; the meeting insert and the host's accepted participation
// commit together.
func (s *MeetingService) Create(ctx context.Context, hostID uuid.UUID, req dto.CreateMeetingRequest, image *multipart.FileHeader) (*dto.MeetingDetailResponse, *apperrors.AppError) {
	interestID, err := uuid.Parse(req.InterestID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "Invalid interest id", err)
	}

	meetingDate, appErr := parseMeetingDate(req.MeetingDate)
	if appErr != nil {
		return nil, appErr
	}
	if meetingDate.Before(time.Now()) {
		return nil, apperrors.NewAppError(apperrors.ErrPastDeadline, "Meeting date must be in the future", nil)
	}
	if req.MaxParticipants < 1 {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "Max participants must be at least 1", nil)
	}

	coords, err := s.geocoder.Geocode(ctx, req.Address)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to resolve address", err)
	}
	if coords == nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "Address could not be resolved to a location", nil)
	}

	var imageURL *string
	if image != nil {
		if s.uploader == nil {
			return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Image storage is not configured", nil)
		}
		url, err := s.uploader.Upload(ctx, image, meetingImageDir)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to upload meeting image", err)
		}
		imageURL = &url
	}

	meeting := &entity.Meeting{
		HostID:              hostID,
		Title:               req.Title,
		Description:         req.Description,
		InterestID:          interestID,
		Address:             req.Address,
		Latitude:            coords.Latitude,
		Longitude:           coords.Longitude,
		ImageURL:            imageURL,
		MaxParticipants:     req.MaxParticipants,
		CurrentParticipants: 1,
		MeetingDate:         meetingDate,
	}

	var created *entity.Meeting
	txErr := s.tx.WithinTx(ctx, func(q database.Queryer) error {
		m, err := s.meetings.Create(ctx, q, meeting)
		if err != nil {
			return err
		}
		created = m
		return s.participations.Create(ctx, q, m.ID, hostID, entity.StatusAccepted, true)
	})
	if txErr != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCreateFailed, "Failed to create meeting", txErr)
	}

	logger.Info("MeetingService:Create:Success", "meeting_id", created.ID, "host_id", hostID)
	return s.toDetailResponse(ctx, created)
}

// Update edits a meeting. Only the host may edit; capacity can never drop
// below the current occupancy, checked under the row lock.
func (s *MeetingService) Update(ctx context.Context, meetingID, callerID uuid.UUID, req dto.UpdateMeetingRequest, image *multipart.FileHeader) (*dto.MeetingDetailResponse, *apperrors.AppError) {
	var newDate *time.Time
	if req.MeetingDate != "" {
		parsed, appErr := parseMeetingDate(req.MeetingDate)
		if appErr != nil {
			return nil, appErr
		}
		if parsed.Before(time.Now()) {
			return nil, apperrors.NewAppError(apperrors.ErrPastDeadline, "Meeting date must be in the future", nil)
		}
		newDate = &parsed
	}

	var newInterestID *uuid.UUID
	if req.InterestID != "" {
		id, err := uuid.Parse(req.InterestID)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "Invalid interest id", err)
		}
		newInterestID = &id
	}

	// External calls stay outside the transaction.
	var coords *Coordinates
	if req.Address != "" {
		c, err := s.geocoder.Geocode(ctx, req.Address)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to resolve address", err)
		}
		if c == nil {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "Address could not be resolved to a location", nil)
		}
		coords = c
	}

	var imageURL *string
	if image != nil {
		if s.uploader == nil {
			return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Image storage is not configured", nil)
		}
		url, err := s.uploader.Upload(ctx, image, meetingImageDir)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "Failed to upload meeting image", err)
		}
		imageURL = &url
	}

	var appErr *apperrors.AppError
	var updated *entity.Meeting
	txErr := s.tx.WithinTx(ctx, func(q database.Queryer) error {
		meeting, err := s.meetings.GetByIDForUpdate(ctx, q, meetingID)
		if err != nil {
			return err
		}
		if meeting == nil {
			appErr = apperrors.NewAppError(apperrors.ErrNotFound, "Meeting not found", nil)
			return appErr
		}
		if meeting.Deleted {
			appErr = apperrors.NewAppError(apperrors.ErrGone, "Meeting has been deleted", nil)
			return appErr
		}
		if meeting.HostID != callerID {
			appErr = apperrors.NewAppError(apperrors.ErrForbidden, "Only the host can edit the meeting", nil)
			return appErr
		}

		if req.Title != "" {
			meeting.Title = req.Title
		}
		if req.Description != "" {
			meeting.Description = req.Description
		}
		if newInterestID != nil {
			meeting.InterestID = *newInterestID
		}
		if coords != nil {
			meeting.Address = req.Address
			meeting.Latitude = coords.Latitude
			meeting.Longitude = coords.Longitude
		}
		if imageURL != nil {
			meeting.ImageURL = imageURL
		}
		if newDate != nil {
			meeting.MeetingDate = *newDate
		}
		if req.MaxParticipants > 0 {
			if req.MaxParticipants < meeting.CurrentParticipants {
				appErr = apperrors.NewAppError(apperrors.ErrPreconditionFailed, "Max participants cannot be lower than the current participant count", nil)
				return appErr
			}
			meeting.MaxParticipants = req.MaxParticipants
		}

		if err := s.meetings.Update(ctx, q, meeting); err != nil {
			return err
		}
		updated = meeting
		return nil
	})
	if appErr != nil {
		return nil, appErr
	}
	if txErr != nil {
		return nil, apperrors.NewAppError(apperrors.ErrUpdateFailed, "Failed to update meeting", txErr)
	}

	return s.toDetailResponse(ctx, updated)
}

// SoftDelete flags the meeting deleted and notifies every accepted member
// except the host, in one transaction.
func (s *MeetingService) SoftDelete(ctx context.Context, meetingID, callerID uuid.UUID) *apperrors.AppError {
	var appErr *apperrors.AppError

	txErr := s.tx.WithinTx(ctx, func(q database.Queryer) error {
		meeting, err := s.meetings.GetByIDForUpdate(ctx, q, meetingID)
		if err != nil {
			return err
		}
		if meeting == nil {
			appErr = apperrors.NewAppError(apperrors.ErrNotFound, "Meeting not found", nil)
			return appErr
		}
		if meeting.Deleted {
			appErr = apperrors.NewAppError(apperrors.ErrGone, "Meeting has already been deleted", nil)
			return appErr
		}
		if meeting.HostID != callerID {
			appErr = apperrors.NewAppError(apperrors.ErrForbidden, "Only the host can delete the meeting", nil)
			return appErr
		}

		if err := s.meetings.SetDeleted(ctx, q, meetingID); err != nil {
			return err
		}

		memberIDs, err := s.participations.ListAcceptedUserIDs(ctx, q, meetingID)
		if err != nil {
			return err
		}
		if len(memberIDs) == 0 {
			return nil
		}

		notifs := make([]notifEntity.Notification, 0, len(memberIDs))
		for _, memberID := range memberIDs {
			notifs = append(notifs, notifEntity.Notification{
				ReceiverID: memberID,
				SenderID:   callerID,
				MeetingID:  meetingID,
				Type:       notifEntity.TypeMeetingDeleted,
			})
		}
		return s.notifications.CreateMany(ctx, q, notifs)
	})
	if appErr != nil {
		return appErr
	}
	if txErr != nil {
		return apperrors.NewAppError(apperrors.ErrDeleteFailed, "Failed to delete meeting", txErr)
	}

	logger.Info("MeetingService:SoftDelete:Success", "meeting_id", meetingID)
	return nil
}

// FindAll lists live meetings, filtered and sorted.
func (s *MeetingService) FindAll(ctx context.Context, filter entity.ListFilter, p params.QueryParams) (*coreEntity.Pagination[dto.MeetingItemResponse], *apperrors.AppError) {
	page, err := s.meetings.List(ctx, filter, p)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to list meetings", err)
	}
	return mapPagination(page, toItemResponse), nil
}

// Search matches the keyword against titles, interest names, and host
// nicknames.
func (s *MeetingService) Search(ctx context.Context, keyword string, p params.QueryParams) (*coreEntity.Pagination[dto.MeetingItemResponse], *apperrors.AppError) {
	page, err := s.meetings.Search(ctx, keyword, p)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to search meetings", err)
	}
	return mapPagination(page, toItemResponse), nil
}

// FindOne returns the meeting detail with the host profile attached.
func (s *MeetingService) FindOne(ctx context.Context, meetingID uuid.UUID) (*dto.MeetingDetailResponse, *apperrors.AppError) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to load meeting", err)
	}
	if meeting == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "Meeting not found", nil)
	}
	if meeting.Deleted {
		return nil, apperrors.NewAppError(apperrors.ErrGone, "Meeting has been deleted", nil)
	}
	return s.toDetailResponse(ctx, meeting)
}

// GetMyMeetings lists the meetings the caller hosts or joined.
func (s *MeetingService) GetMyMeetings(ctx context.Context, userID uuid.UUID, filter entity.MyMeetingFilter, p params.QueryParams) (*coreEntity.Pagination[dto.MyMeetingResponse], *apperrors.AppError) {
	page, err := s.meetings.GetMyMeetings(ctx, userID, filter, p)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to list my meetings", err)
	}

	now := time.Now()
	items := make([]dto.MyMeetingResponse, 0, len(page.Items))
	for i := range page.Items {
		row := &page.Items[i]
		items = append(items, dto.MyMeetingResponse{
			MeetingID:           row.ID,
			Title:               row.Title,
			MeetingImage:        row.ImageURL,
			MaxParticipants:     row.MaxParticipants,
			CurrentParticipants: row.CurrentParticipants,
			Address:             row.Address,
			MeetingDate:         row.MeetingDate,
			Status:              string(row.MyStatus),
			IsHost:              row.HostID == userID,
			IsCompleted:         row.IsFinished(now),
		})
	}
	return &coreEntity.Pagination[dto.MyMeetingResponse]{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

func (s *MeetingService) toDetailResponse(ctx context.Context, meeting *entity.Meeting) (*dto.MeetingDetailResponse, *apperrors.AppError) {
	host, err := s.users.GetByID(ctx, meeting.HostID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to load host profile", err)
	}

	resp := &dto.MeetingDetailResponse{
		MeetingID:           meeting.ID,
		Title:               meeting.Title,
		Description:         meeting.Description,
		MeetingImage:        meeting.ImageURL,
		InterestID:          meeting.InterestID,
		MaxParticipants:     meeting.MaxParticipants,
		CurrentParticipants: meeting.CurrentParticipants,
		MeetingDate:         meeting.MeetingDate,
		Location: dto.LocationResponse{
			Address:   meeting.Address,
			Latitude:  meeting.Latitude,
			Longitude: meeting.Longitude,
		},
	}
	if host != nil {
		resp.Host = dto.HostResponse{
			HostID:    host.ID,
			Nickname:  host.Nickname,
			Bio:       derefOrEmpty(host.Bio),
			HostImage: host.ImageURL,
		}
	}
	return resp, nil
}

func toItemResponse(row *entity.MeetingWithInterest) dto.MeetingItemResponse {
	item := dto.MeetingItemResponse{
		MeetingID:           row.ID,
		Title:               row.Title,
		MeetingImage:        row.ImageURL,
		InterestName:        row.InterestName,
		MaxParticipants:     row.MaxParticipants,
		CurrentParticipants: row.CurrentParticipants,
		Address:             row.Address,
		MeetingDate:         row.MeetingDate,
	}
	if row.HostNickname != nil {
		item.HostNickname = *row.HostNickname
	}
	return item
}

func mapPagination(page *coreEntity.Pagination[entity.MeetingWithInterest], fn func(*entity.MeetingWithInterest) dto.MeetingItemResponse) *coreEntity.Pagination[dto.MeetingItemResponse] {
	items := make([]dto.MeetingItemResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, fn(&page.Items[i]))
	}
	return &coreEntity.Pagination[dto.MeetingItemResponse]{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

func parseMeetingDate(raw string) (time.Time, *apperrors.AppError) {
	for _, layout := range meetingDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.NewAppError(apperrors.ErrInvalidInput, "Invalid meeting date format", nil)
}
