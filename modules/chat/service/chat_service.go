package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	coreEntity "github.com/moimo-team/moaclass-back/core/entity"
	apperrors "github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/core/params"
	"github.com/moimo-team/moaclass-back/modules/chat/dto"
	"github.com/moimo-team/moaclass-back/modules/chat/entity"
	"github.com/moimo-team/moaclass-back/modules/chat/repository"
)

// MembershipChecker reports whether a user is an accepted member of a
// meeting. Satisfied by the participation engine.
type MembershipChecker interface {
	IsParticipant(ctx context.Context, userID, meetingID uuid.UUID) (bool, *apperrors.AppError)
}

// ChatService is the message data path. Every operation is gated on
// accepted membership; the realtime transport is out of scope here.
type ChatService struct {
	repo       repository.ChatRepositoryInterface
	membership MembershipChecker
}

type ChatServiceInterface interface {
	SendMessage(ctx context.Context, meetingID, senderID uuid.UUID, req dto.SendMessageRequest) (*dto.ChatMessageResponse, *apperrors.AppError)
	GetMessages(ctx context.Context, meetingID, callerID uuid.UUID, p params.QueryParams) (*coreEntity.Pagination[dto.ChatMessageResponse], *apperrors.AppError)
	GetMyRooms(ctx context.Context, userID uuid.UUID) ([]dto.ChatRoomResponse, *apperrors.AppError)
}

func NewChatService(repo repository.ChatRepositoryInterface, membership MembershipChecker) ChatServiceInterface {
	return &ChatService{repo: repo, membership: membership}
}

func (s *ChatService) SendMessage(ctx context.Context, meetingID, senderID uuid.UUID, req dto.SendMessageRequest) (*dto.ChatMessageResponse, *apperrors.AppError) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "Message content is required", nil)
	}

	if appErr := s.requireMembership(ctx, senderID, meetingID); appErr != nil {
		return nil, appErr
	}

	msg, err := s.repo.Create(ctx, meetingID, senderID, content)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCreateFailed, "Failed to send message", err)
	}

	return &dto.ChatMessageResponse{
		MessageID: msg.ID,
		MeetingID: msg.MeetingID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}, nil
}

func (s *ChatService) GetMessages(ctx context.Context, meetingID, callerID uuid.UUID, p params.QueryParams) (*coreEntity.Pagination[dto.ChatMessageResponse], *apperrors.AppError) {
	if appErr := s.requireMembership(ctx, callerID, meetingID); appErr != nil {
		return nil, appErr
	}

	page, err := s.repo.ListByMeeting(ctx, meetingID, p)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to list messages", err)
	}

	items := make([]dto.ChatMessageResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toMessageResponse(&page.Items[i]))
	}
	return &coreEntity.Pagination[dto.ChatMessageResponse]{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

func (s *ChatService) GetMyRooms(ctx context.Context, userID uuid.UUID) ([]dto.ChatRoomResponse, *apperrors.AppError) {
	rows, err := s.repo.ListRooms(ctx, userID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to list chat rooms", err)
	}

	rooms := make([]dto.ChatRoomResponse, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, dto.ChatRoomResponse{
			MeetingID:       row.MeetingID,
			Title:           row.Title,
			MeetingImage:    row.ImageURL,
			MemberCount:     row.MemberCount,
			LastMessage:     row.LastMessage,
			LastMessageTime: row.LastMessageTime,
		})
	}
	return rooms, nil
}

func (s *ChatService) requireMembership(ctx context.Context, userID, meetingID uuid.UUID) *apperrors.AppError {
	ok, appErr := s.membership.IsParticipant(ctx, userID, meetingID)
	if appErr != nil {
		return appErr
	}
	if !ok {
		return apperrors.NewAppError(apperrors.ErrForbidden, "Only accepted participants can access this chat", nil)
	}
	return nil
}

func toMessageResponse(msg *entity.ChatMessageWithSender) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		MessageID:      msg.ID,
		MeetingID:      msg.MeetingID,
		SenderID:       msg.SenderID,
		SenderNickname: msg.SenderNickname,
		SenderImage:    msg.SenderImage,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
}
