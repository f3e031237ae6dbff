package service

import (
	"context"

	"github.com/google/uuid"

	coreEntity "github.com/moimo-team/moaclass-back/core/entity"
	"github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/core/params"
	"github.com/moimo-team/moaclass-back/modules/notification/dto"
	"github.com/moimo-team/moaclass-back/modules/notification/repository"
)

// NotificationService serves the per-user feed. Writes happen elsewhere: the
// participation engine and the meeting soft-delete path append rows inside
// their own transactions through the repository.
type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*coreEntity.Pagination[dto.NotificationItemResponse], *errors.AppError) {
	page, err := s.repo.GetByReceiverID(ctx, userID, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get notifications", err)
	}

	items := make([]dto.NotificationItemResponse, 0, len(page.Items))
	for _, n := range page.Items {
		items = append(items, dto.NotificationItemResponse{
			NotificationID: n.ID,
			Type:           string(n.Type),
			MeetingID:      n.MeetingID,
			MeetingName:    n.MeetingTitle,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt,
		})
	}

	return coreEntity.NewPagination(items, page.TotalItems, page.PageNumber, page.PageSize), nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError {
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to mark notifications as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to mark all notifications as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrGetFailed, "Failed to count unread notifications", err)
	}
	return count, nil
}
