package credit

import (
	"context"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"
	"github.com/taka1452/klasly-app-sub001/internal/member"
	"github.com/taka1452/klasly-app-sub001/internal/metrics"
	"github.com/taka1452/klasly-app-sub001/internal/studio"
)

type Service interface {
	// Deduct consumes one credit against exactly one source record, booking
	// or drop-in. Referencing both or neither is rejected.
	Deduct(ctx context.Context, studioID int, req DeductRequest) (int, error)
	Adjust(ctx context.Context, studioID, memberID, newBalance int) (int, error)
	Balance(ctx context.Context, studioID, memberID int) (*member.Member, []Transaction, error)
}

type service struct {
	repo       Repository
	memberRepo member.Repository
	studioRepo studio.Repository
}

func NewService(repo Repository, memberRepo member.Repository, studioRepo studio.Repository) Service {
	return &service{
		repo:       repo,
		memberRepo: memberRepo,
		studioRepo: studioRepo,
	}
}

func (s *service) gate(ctx context.Context, studioID int) (studio.AccessPolicy, error) {
	st, err := s.studioRepo.GetByID(ctx, studioID)
	if err != nil {
		return studio.AccessPolicy{}, err
	}
	policy := studio.PolicyFor(st.PlanStatus)
	if policy.IsFullyLocked {
		return policy, apperr.ErrForbidden
	}
	return policy, nil
}

func (s *service) Deduct(ctx context.Context, studioID int, req DeductRequest) (int, error) {
	if (req.BookingID == nil) == (req.DropInID == nil) {
		return 0, apperr.ErrInvalidRequest
	}

	policy, err := s.gate(ctx, studioID)
	if err != nil {
		return 0, err
	}
	if !policy.CanEdit {
		return 0, apperr.ErrForbidden
	}

	// Tenant check: a member of another studio is reported as not found.
	if _, err := s.memberRepo.GetByID(ctx, studioID, req.MemberID); err != nil {
		return 0, err
	}

	var balance int
	if req.BookingID != nil {
		balance, err = s.repo.DeductForBooking(ctx, req.MemberID, *req.BookingID)
		if err == nil {
			metrics.RecordCreditDeduction(SourceBooking)
		}
	} else {
		balance, err = s.repo.DeductForDropIn(ctx, req.MemberID, *req.DropInID)
		if err == nil {
			metrics.RecordCreditDeduction(SourceDropIn)
		}
	}
	if err != nil {
		return 0, err
	}

	return balance, nil
}

func (s *service) Adjust(ctx context.Context, studioID, memberID, newBalance int) (int, error) {
	if newBalance < 0 {
		return 0, apperr.ErrInvalidRequest
	}

	policy, err := s.gate(ctx, studioID)
	if err != nil {
		return 0, err
	}
	if !policy.CanEdit {
		return 0, apperr.ErrForbidden
	}

	m, err := s.memberRepo.GetByID(ctx, studioID, memberID)
	if err != nil {
		return 0, err
	}

	// A monthly member's unlimited balance is a plan-type concept; forcing a
	// finite balance here would desync the two. Change the plan type first.
	if m.PlanType == member.PlanMonthly {
		return 0, apperr.ErrInvalidRequest
	}

	return s.repo.Adjust(ctx, memberID, newBalance)
}

func (s *service) Balance(ctx context.Context, studioID, memberID int) (*member.Member, []Transaction, error) {
	m, err := s.memberRepo.GetByID(ctx, studioID, memberID)
	if err != nil {
		return nil, nil, err
	}

	txs, err := s.repo.ListTransactions(ctx, memberID, 50, 0)
	if err != nil {
		return nil, nil, err
	}

	return m, txs, nil
}
