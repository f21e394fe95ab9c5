package attendance

import (
	"context"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"
	"github.com/taka1452/klasly-app-sub001/internal/booking"
	"github.com/taka1452/klasly-app-sub001/internal/class"
	"github.com/taka1452/klasly-app-sub001/internal/member"
	"github.com/taka1452/klasly-app-sub001/internal/metrics"
	"github.com/taka1452/klasly-app-sub001/internal/studio"
)

type Service interface {
	// ToggleBookingAttendance flips the attended flag only. The credit was
	// already handled when the booking entered confirmed.
	ToggleBookingAttendance(ctx context.Context, studioID, bookingID int, attended bool) (*booking.Booking, error)
	RecordDropIn(ctx context.Context, studioID, memberID, sessionID int) (*DropInAttendance, error)
	ListDropInsBySession(ctx context.Context, studioID, sessionID int) ([]DropInAttendance, error)
}

type service struct {
	repo        Repository
	bookingRepo booking.Repository
	classRepo   class.Repository
	memberRepo  member.Repository
	studioRepo  studio.Repository
}

func NewService(
	repo Repository,
	bookingRepo booking.Repository,
	classRepo class.Repository,
	memberRepo member.Repository,
	studioRepo studio.Repository,
) Service {
	return &service{
		repo:        repo,
		bookingRepo: bookingRepo,
		classRepo:   classRepo,
		memberRepo:  memberRepo,
		studioRepo:  studioRepo,
	}
}

func (s *service) gate(ctx context.Context, studioID int) error {
	st, err := s.studioRepo.GetByID(ctx, studioID)
	if err != nil {
		return err
	}
	if !studio.PolicyFor(st.PlanStatus).CanEdit {
		return apperr.ErrForbidden
	}
	return nil
}

func (s *service) ToggleBookingAttendance(ctx context.Context, studioID, bookingID int, attended bool) (*booking.Booking, error) {
	if err := s.gate(ctx, studioID); err != nil {
		return nil, err
	}

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Tenant check through the session keeps the not-found shape for
	// bookings that belong to another studio.
	if _, err := s.classRepo.GetSessionByID(ctx, studioID, b.SessionID); err != nil {
		return nil, err
	}

	if err := s.repo.SetBookingAttended(ctx, bookingID, attended); err != nil {
		return nil, err
	}

	b.Attended = attended
	return b, nil
}

func (s *service) RecordDropIn(ctx context.Context, studioID, memberID, sessionID int) (*DropInAttendance, error) {
	if err := s.gate(ctx, studioID); err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.GetByID(ctx, studioID, memberID); err != nil {
		return nil, err
	}

	session, err := s.classRepo.GetSessionByID(ctx, studioID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCancelled {
		return nil, apperr.ErrNotFound
	}

	d, err := s.repo.CreateDropIn(ctx, memberID, sessionID)
	if err != nil {
		return nil, err
	}

	metrics.RecordDropIn()
	return d, nil
}

func (s *service) ListDropInsBySession(ctx context.Context, studioID, sessionID int) ([]DropInAttendance, error) {
	if _, err := s.classRepo.GetSessionByID(ctx, studioID, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListDropInsBySession(ctx, sessionID)
}
