package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/moimo-team/moaclass-back/core/database"
	apperrors "github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/modules/meeting/dto"
	"github.com/moimo-team/moaclass-back/modules/meeting/entity"
	"github.com/moimo-team/moaclass-back/modules/meeting/repository"
	notifEntity "github.com/moimo-team/moaclass-back/modules/notification/entity"
	notifRepository "github.com/moimo-team/moaclass-back/modules/notification/repository"
	userRepository "github.com/moimo-team/moaclass-back/modules/user/repository"
)

const pqUniqueViolation = "23505"

// TxRunner opens the atomic unit every engine operation runs in.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(q database.Queryer) error) error
}

// ParticipationService is the capacity-aware participation state machine.
// Every mutating operation locks the meeting row, re-reads capacity and
// occupancy under that lock, validates its preconditions, and applies the
// participation, occupancy, and notification writes in one transaction.
// A precondition failure aborts before anything is written.
type ParticipationService struct {
	tx             TxRunner
	meetings       repository.MeetingRepositoryInterface
	participations repository.ParticipationRepositoryInterface
	notifications  notifRepository.NotificationRepositoryInterface
	users          userRepository.UserRepositoryInterface
}

// ParticipationServiceInterface defines the engine contract.
type ParticipationServiceInterface interface {
	Apply(ctx context.Context, meetingID, userID uuid.UUID) *apperrors.AppError
	ApproveOne(ctx context.Context, meetingID, hostID, participationID uuid.UUID) *apperrors.AppError
	ApproveAll(ctx context.Context, meetingID, hostID uuid.UUID) *apperrors.AppError
	RejectOne(ctx context.Context, meetingID, hostID, participationID uuid.UUID) *apperrors.AppError
	CancelApproval(ctx context.Context, meetingID, hostID, participationID uuid.UUID) *apperrors.AppError
	CancelRejection(ctx context.Context, meetingID, hostID, participationID uuid.UUID) *apperrors.AppError

	ListApplicants(ctx context.Context, meetingID, callerID uuid.UUID) ([]dto.ApplicantResponse, *apperrors.AppError)
	ListParticipants(ctx context.Context, meetingID uuid.UUID) ([]dto.ParticipantResponse, *apperrors.AppError)
	IsParticipant(ctx context.Context, userID, meetingID uuid.UUID) (bool, *apperrors.AppError)
}

func NewParticipationService(
	tx TxRunner,
	meetings repository.MeetingRepositoryInterface,
	participations repository.ParticipationRepositoryInterface,
	notifications notifRepository.NotificationRepositoryInterface,
	users userRepository.UserRepositoryInterface,
) ParticipationServiceInterface {
	return &ParticipationService{
		tx:             tx,
		meetings:       meetings,
		participations: participations,
		notifications:  notifications,
		users:          users,
	}
}

// Apply creates a PENDING join request and notifies the host.
func (s *ParticipationService) Apply(ctx context.Context, meetingID, userID uuid.UUID) *apperrors.AppError {
	var appErr *apperrors.AppError

	err := s.tx.WithinTx(ctx, func(q database.Queryer) error {
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
		if meeting.IsFinished(time.Now()) {
			appErr = apperrors.NewAppError(apperrors.ErrPastDeadline, "Meeting date has already passed", nil)
			return appErr
		}
		if meeting.HostID == userID {
			appErr = apperrors.NewAppError(apperrors.ErrInvalidInput, "Hosts cannot apply to their own meeting", nil)
			return appErr
		}
		if meeting.CurrentParticipants >= meeting.MaxParticipants {
			appErr = apperrors.NewAppError(apperrors.ErrPreconditionFailed, "Meeting is already full", nil)
			return appErr
		}

		existing, err := s.participations.GetByUserAndMeeting(ctx, q, userID, meetingID)
		if err != nil {
			return err
		}
		if existing != nil {
			appErr = apperrors.NewAppError(apperrors.ErrAlreadyExists, "A join request for this meeting already exists", nil)
			return appErr
		}

		if err := s.participations.Create(ctx, q, meetingID, userID, entity.StatusPending, false); err != nil {
			return err
		}
		return s.notifications.Create(ctx, q, meeting.HostID, userID, meetingID, notifEntity.TypeParticipationRequest)
	})

	return s.finish(err, appErr, "Failed to create join request")
}

// ApproveOne moves a PENDING participation to ACCEPTED, bumps occupancy,
// marks the request notification read, and notifies the applicant.
func (s *ParticipationService) ApproveOne(ctx context.Context, meetingID, hostID, participationID uuid.UUID) *apperrors.AppError {
	var appErr *apperrors.AppError

	err := s.tx.WithinTx(ctx, func(q database.Queryer) error {
		meeting, participation, err := s.loadHostTarget(ctx, q, meetingID, hostID, participationID, &appErr)
		if err != nil || appErr != nil {
			return firstErr(err, appErr)
		}

		if meeting.CurrentParticipants >= meeting.MaxParticipants {
			appErr = apperrors.NewAppError(apperrors.ErrPreconditionFailed, "Meeting is already full", nil)
			return appErr
		}
		if participation.Status != entity.StatusPending {
			appErr = apperrors.NewAppError(apperrors.ErrPreconditionFailed, "Join request is not pending", nil)
			return appErr
		}

		if err := s.participations.UpdateStatus(ctx, q, participationID, entity.StatusAccepted); err != nil {
			return err
		}
		if err := s.meetings.AdjustOccupancy(ctx, q, meetingID, +1); err != nil {
			return err
		}
		if err := s.notifications.SetRequestRead(ctx, q, meetingID, hostID, participation.UserID, true); err != nil {
			return err
		}
		return s.notifications.Create(ctx, q, participation.UserID, hostID, meetingID, notifEntity.TypeParticipationAccepted)
	})

	return s.finish(err, appErr, "Failed to approve join request")
}

// ApproveAll accepts every pending request, all-or-nothing against the
// remaining capacity. An empty pending set is a no-op.
func (s *ParticipationService) ApproveAll(ctx context.Context, meetingID, hostID uuid.UUID) *apperrors.AppError {
	var appErr *apperrors.AppError

	err := s.tx.WithinTx(ctx, func(q database.Queryer) error {
		meeting, err := s.meetings.GetByIDForUpdate(ctx, q, meetingID)
		if err != nil {
			return err
		}
		if meeting == nil {
			appErr = apperrors.NewAppError(apperrors.ErrNotFound, "Meeting not found", nil)
			return appErr
		}
		if meeting.HostID != hostID {
			appErr = apperrors.NewAppError(apperrors.ErrForbidden, "Only the host can approve join requests", nil)
			return appErr
		}

		pendings, err := s.participations.ListPending(ctx, q, meetingID)
		if err != nil {
			return err
		}
		if len(pendings) == 0 {
			return nil
		}

		remaining := meeting.MaxParticipants - meeting.CurrentParticipants
		if len(pendings) > remaining {
			appErr = apperrors.NewAppError(apperrors.ErrPreconditionFailed, "Not enough remaining capacity to approve all requests", nil)
			return appErr
		}

		ids := make([]uuid.UUID, 0, len(pendings))
		for _, p := range pendings {
			ids = append(ids, p.ID)
		}
		if err := s.participations.UpdateStatusMany(ctx, q, ids, entity.StatusAccepted); err != nil {
			return err
		}
		if err := s.meetings.AdjustOccupancy(ctx, q, meetingID, len(pendings)); err != nil {
			return err
		}

		for _, p := range pendings {
			if err := s.notifications.SetRequestRead(ctx, q, meetingID, hostID, p.UserID, true); err != nil {
				return err
			}
			if err := s.notifications.Create(ctx, q, p.UserID, hostID, meetingID, notifEntity.TypeParticipationAccepted); err != nil {
				return err
			}
		}
		return nil
	})

	return s.finish(err, appErr, "Failed to approve join requests")
}

// RejectOne moves a PENDING participation to REJECTED. Occupancy is
// untouched; the request notification is marked read and the applicant is
// notified.
func (s *ParticipationService) RejectOne(ctx context.Context, meetingID, hostID, participationID uuid.UUID) *apperrors.AppError {
	var appErr *apperrors.AppError

	err := s.tx.WithinTx(ctx, func(q database.Queryer) error {
		_, participation, err := s.loadHostTarget(ctx, q, meetingID, hostID, participationID, &appErr)
		if err != nil || appErr != nil {
			return firstErr(err, appErr)
		}

		if participation.Status != entity.StatusPending {
			appErr = apperrors.NewAppError(apperrors.ErrPreconditionFailed, "Join request is not pending", nil)
			return appErr
		}

		if err := s.participations.UpdateStatus(ctx, q, participationID, entity.StatusRejected); err != nil {
			return err
		}
		if err := s.notifications.SetRequestRead(ctx, q, meetingID, hostID, participation.UserID, true); err != nil {
			return err
		}
		return s.notifications.Create(ctx, q, participation.UserID, hostID, meetingID, notifEntity.TypeParticipationRejected)
	})

	return s.finish(err, appErr, "Failed to reject join request")
}

// CancelApproval undoes an approval: the participation returns to PENDING,
// occupancy drops by one, the stale ACCEPTED notification is deleted, the
// original request is re-opened, and the applicant is told the decision was
// withdrawn.
func (s *ParticipationService) CancelApproval(ctx context.Context, meetingID, hostID, participationID uuid.UUID) *apperrors.AppError {
	var appErr *apperrors.AppError

	err := s.tx.WithinTx(ctx, func(q database.Queryer) error {
		_, participation, err := s.loadHostTarget(ctx, q, meetingID, hostID, participationID, &appErr)
		if err != nil || appErr != nil {
			return firstErr(err, appErr)
		}

		if participation.Status != entity.StatusAccepted {
			appErr = apperrors.NewAppError(apperrors.ErrPreconditionFailed, "Join request is not in an approved state", nil)
			return appErr
		}

		if err := s.participations.UpdateStatus(ctx, q, participationID, entity.StatusPending); err != nil {
			return err
		}
		if err := s.meetings.AdjustOccupancy(ctx, q, meetingID, -1); err != nil {
			return err
		}
		if err := s.notifications.DeleteByType(ctx, q, meetingID, participation.UserID, hostID, notifEntity.TypeParticipationAccepted); err != nil {
			return err
		}
		if err := s.notifications.Create(ctx, q, participation.UserID, hostID, meetingID, notifEntity.TypeParticipationCancelled); err != nil {
			return err
		}
		return s.notifications.SetRequestRead(ctx, q, meetingID, hostID, participation.UserID, false)
	})

	return s.finish(err, appErr, "Failed to cancel approval")
}

// CancelRejection undoes a rejection: back to PENDING, the stale REJECTED
// notification is deleted, and the original request is re-opened. No new
// notification is sent; the applicant never saw an occupancy change either.
func (s *ParticipationService) CancelRejection(ctx context.Context, meetingID, hostID, participationID uuid.UUID) *apperrors.AppError {
	var appErr *apperrors.AppError

	err := s.tx.WithinTx(ctx, func(q database.Queryer) error {
		_, participation, err := s.loadHostTarget(ctx, q, meetingID, hostID, participationID, &appErr)
		if err != nil || appErr != nil {
			return firstErr(err, appErr)
		}

		if participation.Status != entity.StatusRejected {
			appErr = apperrors.NewAppError(apperrors.ErrPreconditionFailed, "Join request is not in a rejected state", nil)
			return appErr
		}

		if err := s.participations.UpdateStatus(ctx, q, participationID, entity.StatusPending); err != nil {
			return err
		}
		if err := s.notifications.DeleteByType(ctx, q, meetingID, participation.UserID, hostID, notifEntity.TypeParticipationRejected); err != nil {
			return err
		}
		return s.notifications.SetRequestRead(ctx, q, meetingID, hostID, participation.UserID, false)
	})

	return s.finish(err, appErr, "Failed to cancel rejection")
}

// ListApplicants returns the non-host participation history of a meeting
// for the host's review, newest first, with applicant interests attached.
func (s *ParticipationService) ListApplicants(ctx context.Context, meetingID, callerID uuid.UUID) ([]dto.ApplicantResponse, *apperrors.AppError) {
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
	if meeting.HostID != callerID {
		return nil, apperrors.NewAppError(apperrors.ErrForbidden, "Only the host can view applicants", nil)
	}

	rows, err := s.participations.ListApplicants(ctx, meetingID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to list applicants", err)
	}

	userIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.UserID)
	}
	interestRows, err := s.users.GetInterestsByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to load applicant interests", err)
	}

	interestsByUser := make(map[uuid.UUID][]dto.InterestInfo)
	for _, ir := range interestRows {
		interestsByUser[ir.UserID] = append(interestsByUser[ir.UserID], dto.InterestInfo{
			ID:   ir.InterestID,
			Name: ir.InterestName,
		})
	}

	applicants := make([]dto.ApplicantResponse, 0, len(rows))
	for _, row := range rows {
		interests := interestsByUser[row.UserID]
		if interests == nil {
			interests = []dto.InterestInfo{}
		}
		applicants = append(applicants, dto.ApplicantResponse{
			ParticipationID: row.ParticipationID,
			UserID:          row.UserID,
			Nickname:        row.Nickname,
			Bio:             derefOrEmpty(row.Bio),
			ProfileImage:    row.ImageURL,
			Status:          string(row.Status),
			Interests:       interests,
		})
	}
	return applicants, nil
}

// ListParticipants returns the accepted members, host first.
func (s *ParticipationService) ListParticipants(ctx context.Context, meetingID uuid.UUID) ([]dto.ParticipantResponse, *apperrors.AppError) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to load meeting", err)
	}
	if meeting == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "Meeting not found", nil)
	}

	rows, err := s.participations.ListParticipants(ctx, meetingID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to list participants", err)
	}

	participants := make([]dto.ParticipantResponse, 0, len(rows))
	for _, row := range rows {
		participants = append(participants, dto.ParticipantResponse{
			UserID:       row.UserID,
			Nickname:     row.Nickname,
			Bio:          derefOrEmpty(row.Bio),
			ProfileImage: row.ImageURL,
			IsHost:       row.IsHost,
		})
	}
	return participants, nil
}

// IsParticipant reports whether the user is an ACCEPTED member of the
// meeting, host included. The chat module calls this before relaying.
func (s *ParticipationService) IsParticipant(ctx context.Context, userID, meetingID uuid.UUID) (bool, *apperrors.AppError) {
	ok, err := s.participations.IsParticipant(ctx, userID, meetingID)
	if err != nil {
		return false, apperrors.NewAppError(apperrors.ErrGetFailed, "Failed to check participation", err)
	}
	return ok, nil
}

// loadHostTarget locks the meeting and loads the target participation,
// filling appErr for not-found / wrong-host / wrong-meeting outcomes.
func (s *ParticipationService) loadHostTarget(ctx context.Context, q database.Queryer, meetingID, hostID, participationID uuid.UUID, appErr **apperrors.AppError) (*entity.Meeting, *entity.Participation, error) {
	meeting, err := s.meetings.GetByIDForUpdate(ctx, q, meetingID)
	if err != nil {
		return nil, nil, err
	}
	if meeting == nil {
		*appErr = apperrors.NewAppError(apperrors.ErrNotFound, "Meeting not found", nil)
		return nil, nil, nil
	}
	if meeting.HostID != hostID {
		*appErr = apperrors.NewAppError(apperrors.ErrForbidden, "Only the host can manage join requests", nil)
		return nil, nil, nil
	}

	participation, err := s.participations.GetByID(ctx, q, participationID)
	if err != nil {
		return nil, nil, err
	}
	if participation == nil || participation.MeetingID != meetingID {
		*appErr = apperrors.NewAppError(apperrors.ErrNotFound, "Join request not found", nil)
		return nil, nil, nil
	}

	return meeting, participation, nil
}

// finish maps a transaction result into the engine's typed failure. A
// business-rule error set inside the transaction passes through unchanged;
// anything else is an internal store failure (already rolled back).
func (s *ParticipationService) finish(err error, appErr *apperrors.AppError, msg string) *apperrors.AppError {
	if appErr != nil {
		return appErr
	}
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return apperrors.NewAppError(apperrors.ErrAlreadyExists, "A join request for this meeting already exists", err)
	}
	return apperrors.NewAppError(apperrors.ErrInternalServer, msg, err)
}

func firstErr(err error, appErr *apperrors.AppError) error {
	if err != nil {
		return err
	}
	return appErr
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
