package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	coreEntity "github.com/moimo-team/moaclass-back/core/entity"
	apperrors "github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/core/params"
	"github.com/moimo-team/moaclass-back/modules/chat/dto"
	"github.com/moimo-team/moaclass-back/modules/chat/entity"
)

type fakeChatRepo struct {
	messages []entity.ChatMessageWithSender
	rooms    []entity.ChatRoomRow
	created  []entity.ChatMessage
}

func (r *fakeChatRepo) Create(ctx context.Context, meetingID, senderID uuid.UUID, content string) (*entity.ChatMessage, error) {
	msg := entity.ChatMessage{MeetingID: meetingID, SenderID: senderID, Content: content}
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	r.created = append(r.created, msg)
	return &msg, nil
}

func (r *fakeChatRepo) ListByMeeting(ctx context.Context, meetingID uuid.UUID, p params.QueryParams) (*coreEntity.Pagination[entity.ChatMessageWithSender], error) {
	return coreEntity.NewPagination(r.messages, len(r.messages), p.PageNumber, p.PageSize), nil
}

func (r *fakeChatRepo) ListRooms(ctx context.Context, userID uuid.UUID) ([]entity.ChatRoomRow, error) {
	return r.rooms, nil
}

type fakeMembership struct {
	members map[uuid.UUID]bool
}

func (m *fakeMembership) IsParticipant(ctx context.Context, userID, meetingID uuid.UUID) (bool, *apperrors.AppError) {
	return m.members[userID], nil
}

func TestSendMessageRequiresMembership(t *testing.T) {
	member, stranger := uuid.New(), uuid.New()
	repo := &fakeChatRepo{}
	svc := NewChatService(repo, &fakeMembership{members: map[uuid.UUID]bool{member: true}})
	meetingID := uuid.New()

	_, appErr := svc.SendMessage(context.Background(), meetingID, stranger, dto.SendMessageRequest{Content: "hi"})
	if appErr == nil || appErr.Code != apperrors.ErrForbidden {
		t.Fatalf("strangers must be rejected, got %v", appErr)
	}
	if len(repo.created) != 0 {
		t.Fatalf("rejected message must not be stored")
	}

	resp, appErr := svc.SendMessage(context.Background(), meetingID, member, dto.SendMessageRequest{Content: "  hi there "})
	if appErr != nil {
		t.Fatalf("member should be able to post: %v", appErr)
	}
	if resp.Content != "hi there" {
		t.Fatalf("content should be trimmed, got %q", resp.Content)
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	member := uuid.New()
	svc := NewChatService(&fakeChatRepo{}, &fakeMembership{members: map[uuid.UUID]bool{member: true}})

	_, appErr := svc.SendMessage(context.Background(), uuid.New(), member, dto.SendMessageRequest{Content: "   "})
	if appErr == nil || appErr.Code != apperrors.ErrInvalidInput {
		t.Fatalf("blank content must be rejected, got %v", appErr)
	}
}

func TestGetMessagesGated(t *testing.T) {
	member, stranger := uuid.New(), uuid.New()
	row := entity.ChatMessageWithSender{SenderNickname: "jay"}
	row.ID = uuid.New()
	row.Content = "see you there"
	repo := &fakeChatRepo{messages: []entity.ChatMessageWithSender{row}}
	svc := NewChatService(repo, &fakeMembership{members: map[uuid.UUID]bool{member: true}})
	p := params.QueryParams{PageNumber: 1, PageSize: 20}

	if _, appErr := svc.GetMessages(context.Background(), uuid.New(), stranger, p); appErr == nil || appErr.Code != apperrors.ErrForbidden {
		t.Fatalf("strangers must not read the room, got %v", appErr)
	}

	page, appErr := svc.GetMessages(context.Background(), uuid.New(), member, p)
	if appErr != nil {
		t.Fatalf("member read: %v", appErr)
	}
	if len(page.Items) != 1 || page.Items[0].SenderNickname != "jay" {
		t.Fatalf("messages should map through, got %+v", page.Items)
	}
}

func TestGetMyRooms(t *testing.T) {
	last := "latest"
	repo := &fakeChatRepo{rooms: []entity.ChatRoomRow{
		{MeetingID: uuid.New(), Title: "book club", MemberCount: 4, LastMessage: &last},
	}}
	svc := NewChatService(repo, &fakeMembership{})

	rooms, appErr := svc.GetMyRooms(context.Background(), uuid.New())
	if appErr != nil {
		t.Fatalf("rooms: %v", appErr)
	}
	if len(rooms) != 1 || rooms[0].Title != "book club" || rooms[0].MemberCount != 4 {
		t.Fatalf("rooms should map through, got %+v", rooms)
	}
	if rooms[0].LastMessage == nil || *rooms[0].LastMessage != "latest" {
		t.Fatalf("last message should be carried")
	}
}
