package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/modules/meeting/dto"
	"github.com/moimo-team/moaclass-back/modules/meeting/entity"
	notifEntity "github.com/moimo-team/moaclass-back/modules/notification/entity"
	userEntity "github.com/moimo-team/moaclass-back/modules/user/entity"
)

type fakeGeocoder struct {
	coords *Coordinates
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	return g.coords, nil
}

type fakeUploader struct{}

func (u *fakeUploader) Upload(ctx context.Context, file *multipart.FileHeader, dir string) (string, error) {
	return "https://cdn.example.com/" + dir + "/fake", nil
}

func newMeetingSvc(s *store, coords *Coordinates) MeetingServiceInterface {
	return NewMeetingService(
		&fakeTx{},
		&fakeMeetingRepo{s: s},
		&fakeParticipationRepo{s: s},
		&fakeNotificationRepo{s: s},
		&fakeUserRepo{s: s},
		&fakeGeocoder{coords: coords},
		&fakeUploader{},
	)
}

func addUser(s *store, nickname string) uuid.UUID {
	u := &userEntity.User{Nickname: nickname}
	u.ID = uuid.New()
	s.users[u.ID] = u
	return u.ID
}

func createReq(date time.Time) dto.CreateMeetingRequest {
	return dto.CreateMeetingRequest{
		Title:           "morning run",
		Description:     "easy 5k",
		InterestID:      uuid.NewString(),
		Address:         "1 River Road",
		MaxParticipants: 5,
		MeetingDate:     date.Format(time.RFC3339),
	}
}

func TestCreateSeedsHostParticipation(t *testing.T) {
	s := newStore()
	host := addUser(s, "jay")
	svc := newMeetingSvc(s, &Coordinates{Latitude: 37.5, Longitude: 127.0})

	resp, appErr := svc.Create(context.Background(), host, createReq(futureDate()), nil)
	if appErr != nil {
		t.Fatalf("create: %v", appErr)
	}

	if resp.CurrentParticipants != 1 {
		t.Fatalf("a new meeting should start with occupancy 1, got %d", resp.CurrentParticipants)
	}

	var hostRow *entity.Participation
	for _, p := range s.participations {
		if p.MeetingID == resp.MeetingID && p.UserID == host {
			hostRow = p
		}
	}
	if hostRow == nil || hostRow.Status != entity.StatusAccepted || !hostRow.IsHost {
		t.Fatalf("host must be seeded as an accepted host participation, got %+v", hostRow)
	}
	if resp.Location.Latitude != 37.5 || resp.Location.Longitude != 127.0 {
		t.Fatalf("geocoded coordinates should land on the meeting")
	}
	if resp.Host.Nickname != "jay" {
		t.Fatalf("host profile should be attached, got %q", resp.Host.Nickname)
	}
}

func TestCreateValidations(t *testing.T) {
	s := newStore()
	host := addUser(s, "jay")
	ctx := context.Background()

	t.Run("past meeting date", func(t *testing.T) {
		svc := newMeetingSvc(s, &Coordinates{})
		_, appErr := svc.Create(ctx, host, createReq(time.Now().Add(-time.Hour)), nil)
		wantCode(t, appErr, apperrors.ErrPastDeadline)
	})

	t.Run("unparseable date", func(t *testing.T) {
		svc := newMeetingSvc(s, &Coordinates{})
		req := createReq(futureDate())
		req.MeetingDate = "next tuesday"
		_, appErr := svc.Create(ctx, host, req, nil)
		wantCode(t, appErr, apperrors.ErrInvalidInput)
	})

	t.Run("unresolvable address", func(t *testing.T) {
		svc := newMeetingSvc(s, nil)
		_, appErr := svc.Create(ctx, host, createReq(futureDate()), nil)
		wantCode(t, appErr, apperrors.ErrInvalidInput)
	})

	t.Run("zero capacity", func(t *testing.T) {
		svc := newMeetingSvc(s, &Coordinates{})
		req := createReq(futureDate())
		req.MaxParticipants = 0
		_, appErr := svc.Create(ctx, host, req, nil)
		wantCode(t, appErr, apperrors.ErrInvalidInput)
	})
}

func TestUpdateChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("only the host can edit", func(t *testing.T) {
		s := newStore()
		host := addUser(s, "jay")
		m := s.addMeeting(host, 5, 1, futureDate(), false)
		svc := newMeetingSvc(s, nil)

		_, appErr := svc.Update(ctx, m.ID, uuid.New(), dto.UpdateMeetingRequest{Title: "x"}, nil)
		wantCode(t, appErr, apperrors.ErrForbidden)
	})

	t.Run("capacity cannot drop below occupancy", func(t *testing.T) {
		s := newStore()
		host := addUser(s, "jay")
		m := s.addMeeting(host, 5, 3, futureDate(), false)
		svc := newMeetingSvc(s, nil)

		_, appErr := svc.Update(ctx, m.ID, host, dto.UpdateMeetingRequest{MaxParticipants: 2}, nil)
		wantCode(t, appErr, apperrors.ErrPreconditionFailed)

		if s.meetings[m.ID].MaxParticipants != 5 {
			t.Fatalf("failed update must not change the meeting")
		}
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		s := newStore()
		host := addUser(s, "jay")
		m := s.addMeeting(host, 5, 3, futureDate(), false)
		m.Title = "old title"
		m.Description = "old description"
		svc := newMeetingSvc(s, nil)

		resp, appErr := svc.Update(ctx, m.ID, host, dto.UpdateMeetingRequest{Title: "new title"}, nil)
		if appErr != nil {
			t.Fatalf("update: %v", appErr)
		}
		if resp.Title != "new title" || resp.Description != "old description" {
			t.Fatalf("zero-value fields must stay unchanged, got %+v", resp)
		}
	})

	t.Run("deleted meeting is gone", func(t *testing.T) {
		s := newStore()
		host := addUser(s, "jay")
		m := s.addMeeting(host, 5, 1, futureDate(), true)
		svc := newMeetingSvc(s, nil)

		_, appErr := svc.Update(ctx, m.ID, host, dto.UpdateMeetingRequest{Title: "x"}, nil)
		wantCode(t, appErr, apperrors.ErrGone)
	})
}

func TestSoftDeleteNotifiesAcceptedMembers(t *testing.T) {
	s := newStore()
	host := addUser(s, "jay")
	member1, member2, pending := uuid.New(), uuid.New(), uuid.New()
	m := s.addMeeting(host, 5, 3, futureDate(), false)
	s.addParticipation(m.ID, host, entity.StatusAccepted, true)
	s.addParticipation(m.ID, member1, entity.StatusAccepted, false)
	s.addParticipation(m.ID, member2, entity.StatusAccepted, false)
	s.addParticipation(m.ID, pending, entity.StatusPending, false)
	svc := newMeetingSvc(s, nil)

	if appErr := svc.SoftDelete(context.Background(), m.ID, host); appErr != nil {
		t.Fatalf("soft delete: %v", appErr)
	}

	if !s.meetings[m.ID].Deleted {
		t.Fatalf("meeting should be flagged deleted")
	}
	for _, u := range []uuid.UUID{member1, member2} {
		if got := s.notificationsOf(u, notifEntity.TypeMeetingDeleted); len(got) != 1 {
			t.Fatalf("each accepted member should get one deletion notification, got %d", len(got))
		}
	}
	if got := s.notificationsOf(pending, notifEntity.TypeMeetingDeleted); len(got) != 0 {
		t.Fatalf("pending applicants are not notified on deletion")
	}
	if got := s.notificationsOf(host, notifEntity.TypeMeetingDeleted); len(got) != 0 {
		t.Fatalf("the host is not notified about their own deletion")
	}

	if appErr := svc.SoftDelete(context.Background(), m.ID, host); appErr == nil {
		t.Fatalf("deleting twice should fail")
	} else if appErr.Code != apperrors.ErrGone {
		t.Fatalf("expected gone, got %s", appErr.Code)
	}
}

func TestFindOne(t *testing.T) {
	ctx := context.Background()

	t.Run("missing meeting", func(t *testing.T) {
		s := newStore()
		_, appErr := newMeetingSvc(s, nil).FindOne(ctx, uuid.New())
		wantCode(t, appErr, apperrors.ErrNotFound)
	})

	t.Run("deleted meeting is gone not missing", func(t *testing.T) {
		s := newStore()
		host := addUser(s, "jay")
		m := s.addMeeting(host, 5, 1, futureDate(), true)
		_, appErr := newMeetingSvc(s, nil).FindOne(ctx, m.ID)
		wantCode(t, appErr, apperrors.ErrGone)
	})

	t.Run("live meeting with host profile", func(t *testing.T) {
		s := newStore()
		host := addUser(s, "jay")
		m := s.addMeeting(host, 5, 2, futureDate(), false)
		resp, appErr := newMeetingSvc(s, nil).FindOne(ctx, m.ID)
		if appErr != nil {
			t.Fatalf("find one: %v", appErr)
		}
		if resp.Host.HostID != host || resp.Host.Nickname != "jay" {
			t.Fatalf("host profile should be attached")
		}
	})
}

func TestParseMeetingDateLayouts(t *testing.T) {
	for _, raw := range []string{
		"2027-03-01T10:00:00+09:00",
		"2027-03-01T10:00",
		"2027-03-01 10:00",
	} {
		if _, appErr := parseMeetingDate(raw); appErr != nil {
			t.Errorf("layout %q should parse, got %v", raw, appErr)
		}
	}
	if _, appErr := parseMeetingDate("01/03/2027"); appErr == nil {
		t.Errorf("unknown layout should fail")
	}
}

func imageFileHeader(t *testing.T) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("meeting_image", "cover.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	return form.File["meeting_image"][0]
}

func TestCreateWithImageAndNoUploaderFails(t *testing.T) {
	s := newStore()
	host := addUser(s, "jay")
	svc := NewMeetingService(
		&fakeTx{},
		&fakeMeetingRepo{s: s},
		&fakeParticipationRepo{s: s},
		&fakeNotificationRepo{s: s},
		&fakeUserRepo{s: s},
		&fakeGeocoder{coords: &Coordinates{Latitude: 37.5, Longitude: 127.0}},
		nil,
	)

	_, appErr := svc.Create(context.Background(), host, createReq(futureDate()), imageFileHeader(t))
	wantCode(t, appErr, apperrors.ErrInternalServer)
	if len(s.meetings) != 0 {
		t.Fatalf("meetings created = %d, want 0", len(s.meetings))
	}

	// Without an image the service never touches the uploader.
	if _, appErr := svc.Create(context.Background(), host, createReq(futureDate()), nil); appErr != nil {
		t.Fatalf("create without image: %v", appErr)
	}
}
