package booking

import (
	"context"
	"time"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"
	"github.com/taka1452/klasly-app-sub001/internal/class"
	"github.com/taka1452/klasly-app-sub001/internal/email"
	"github.com/taka1452/klasly-app-sub001/internal/member"
	"github.com/taka1452/klasly-app-sub001/internal/metrics"
	"github.com/taka1452/klasly-app-sub001/internal/studio"
)

type Service interface {
	// CreateOrRebook books a member into a session, or reactivates their
	// cancelled booking. callerMemberID is non-zero for member accounts,
	// which may only book for themselves.
	CreateOrRebook(ctx context.Context, studioID, callerMemberID, memberID, sessionID int) (*Booking, error)
	Cancel(ctx context.Context, studioID, callerMemberID, bookingID int) (*Booking, error)
	ListForMember(ctx context.Context, studioID, memberID int) ([]Booking, error)
	ListBySession(ctx context.Context, studioID, sessionID int) ([]BookingWithMember, error)
	ListWaitlist(ctx context.Context, studioID, sessionID int) ([]BookingWithMember, error)
}

type service struct {
	repo         Repository
	classRepo    class.Repository
	memberRepo   member.Repository
	studioRepo   studio.Repository
	emailService *email.Service
}

func NewService(
	repo Repository,
	classRepo class.Repository,
	memberRepo member.Repository,
	studioRepo studio.Repository,
	emailService *email.Service,
) Service {
	return &service{
		repo:         repo,
		classRepo:    classRepo,
		memberRepo:   memberRepo,
		studioRepo:   studioRepo,
		emailService: emailService,
	}
}

func (s *service) CreateOrRebook(ctx context.Context, studioID, callerMemberID, memberID, sessionID int) (*Booking, error) {
	if callerMemberID != 0 && callerMemberID != memberID {
		return nil, apperr.ErrForbidden
	}

	st, err := s.studioRepo.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if !studio.PolicyFor(st.PlanStatus).CanBook {
		return nil, apperr.ErrForbidden
	}

	m, err := s.memberRepo.GetByID(ctx, studioID, memberID)
	if err != nil {
		return nil, err
	}

	session, err := s.classRepo.GetSessionByID(ctx, studioID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCancelled {
		return nil, apperr.ErrNotFound
	}
	if session.StartTime.Before(time.Now()) {
		return nil, apperr.ErrInvalidRequest
	}

	b, err := s.repo.CreateOrRebook(ctx, memberID, sessionID)
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking(string(b.Status))

	// Notification is fire-and-forget; a send failure never unwinds the
	// booking.
	if s.emailService != nil {
		if b.Status == StatusConfirmed {
			_ = s.emailService.SendBookingConfirmation(ctx, m.Email, m.Name, session.ClassName, session.StartTime)
		} else {
			_ = s.emailService.SendWaitlistNotice(ctx, m.Email, m.Name, session.ClassName, session.StartTime)
		}
	}

	return b, nil
}

func (s *service) Cancel(ctx context.Context, studioID, callerMemberID, bookingID int) (*Booking, error) {
	// Cancellation (and its refund) stays available to degraded plans, but
	// not to a fully locked studio.
	st, err := s.studioRepo.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if studio.PolicyFor(st.PlanStatus).IsFullyLocked {
		return nil, apperr.ErrForbidden
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Resolving the session tenant-scoped hides other studios' bookings
	// behind the same not-found shape.
	session, err := s.classRepo.GetSessionByID(ctx, studioID, b.SessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCancelled {
		return nil, apperr.ErrInvalidRequest
	}

	if callerMemberID != 0 && callerMemberID != b.MemberID {
		return nil, apperr.ErrForbidden
	}

	cancelled, refunded, err := s.repo.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingCancellation()
	if refunded {
		metrics.RecordCreditRefund()
	}

	if s.emailService != nil {
		if m, merr := s.memberRepo.GetByID(ctx, studioID, cancelled.MemberID); merr == nil {
			_ = s.emailService.SendCancellation(ctx, m.Email, m.Name, session.ClassName, session.StartTime)
		}
	}

	return cancelled, nil
}

func (s *service) ListForMember(ctx context.Context, studioID, memberID int) ([]Booking, error) {
	if _, err := s.memberRepo.GetByID(ctx, studioID, memberID); err != nil {
		return nil, err
	}
	return s.repo.ListByMember(ctx, memberID)
}

func (s *service) ListBySession(ctx context.Context, studioID, sessionID int) ([]BookingWithMember, error) {
	if _, err := s.classRepo.GetSessionByID(ctx, studioID, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListBySession(ctx, sessionID)
}

func (s *service) ListWaitlist(ctx context.Context, studioID, sessionID int) ([]BookingWithMember, error) {
	if _, err := s.classRepo.GetSessionByID(ctx, studioID, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListWaitlist(ctx, sessionID)
}
