package subscription

import (
	"context"
	"time"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"
	"github.com/taka1452/klasly-app-sub001/internal/email"
	"github.com/taka1452/klasly-app-sub001/internal/logger"
	"github.com/taka1452/klasly-app-sub001/internal/metrics"
	"github.com/taka1452/klasly-app-sub001/internal/studio"
)

// BillingGateway is the upstream payment-processor hook the sweep uses to
// cancel a subscription after the grace window closes. Provisioning and
// checkout live entirely outside this service.
type BillingGateway interface {
	CancelSubscription(ctx context.Context, subscriptionRef string) error
}

// NopGateway is used where no processor is wired, e.g. tests and local runs.
type NopGateway struct{}

func (NopGateway) CancelSubscription(ctx context.Context, subscriptionRef string) error {
	return nil
}

type Service interface {
	// ApplyEvent advances a studio's plan status from a payment-processor
	// signal.
	ApplyEvent(ctx context.Context, evt Event) (*studio.Studio, error)
	// ReconcileGraceExpirations cancels every studio whose grace window has
	// elapsed. Best-effort per studio; safe to run repeatedly.
	ReconcileGraceExpirations(ctx context.Context) (int, error)
	// Cancel schedules cancellation at the end of the billing period. The
	// studio keeps its current access; the processor's subscription.deleted
	// event performs the actual transition.
	Cancel(ctx context.Context, studioID int) error
	ResetToTrial(ctx context.Context, studioID int) error
}

type service struct {
	studioRepo      studio.Repository
	gateway         BillingGateway
	emailService    *email.Service
	gracePeriodDays int
}

func NewService(studioRepo studio.Repository, gateway BillingGateway, emailService *email.Service, gracePeriodDays int) Service {
	if gateway == nil {
		gateway = NopGateway{}
	}
	return &service{
		studioRepo:      studioRepo,
		gateway:         gateway,
		emailService:    emailService,
		gracePeriodDays: gracePeriodDays,
	}
}

func (s *service) ApplyEvent(ctx context.Context, evt Event) (*studio.Studio, error) {
	st, err := s.studioRepo.GetBySubscriptionRef(ctx, evt.SubscriptionRef)
	if err != nil {
		return nil, err
	}

	switch evt.Type {
	case EventInvoicePaid:
		return s.transition(ctx, st, studio.StatusActive)

	case EventInvoiceFailed:
		// First failure degrades to past_due; a repeat failure while
		// already past due opens the grace window.
		if st.PlanStatus == studio.StatusPastDue {
			return s.openGrace(ctx, st)
		}
		return s.transition(ctx, st, studio.StatusPastDue)

	case EventSubscriptionDeleted:
		return s.transition(ctx, st, studio.StatusCanceled)

	default:
		return nil, apperr.ErrInvalidRequest
	}
}

func (s *service) transition(ctx context.Context, st *studio.Studio, to studio.PlanStatus) (*studio.Studio, error) {
	if st.PlanStatus == to {
		// Duplicate webhook deliveries are expected; re-applying the same
		// status is a no-op success.
		return st, nil
	}
	if !CanTransition(st.PlanStatus, to) {
		return nil, apperr.ErrConflict
	}

	if err := s.studioRepo.UpdatePlanStatus(ctx, st.ID, to); err != nil {
		return nil, err
	}

	metrics.RecordPlanTransition(string(st.PlanStatus), string(to))
	logger.Infof("Studio %d plan status: %s -> %s", st.ID, st.PlanStatus, to)

	updated := *st
	updated.PlanStatus = to
	if to != studio.StatusGrace {
		updated.GracePeriodEndsAt = nil
	}
	return &updated, nil
}

func (s *service) openGrace(ctx context.Context, st *studio.Studio) (*studio.Studio, error) {
	if st.PlanStatus == studio.StatusGrace {
		return st, nil
	}
	if !CanTransition(st.PlanStatus, studio.StatusGrace) {
		return nil, apperr.ErrConflict
	}

	endsAt := time.Now().AddDate(0, 0, s.gracePeriodDays)
	if err := s.studioRepo.OpenGracePeriod(ctx, st.ID, endsAt); err != nil {
		return nil, err
	}

	metrics.RecordPlanTransition(string(st.PlanStatus), string(studio.StatusGrace))
	logger.Infof("Studio %d entered grace until %s", st.ID, endsAt.Format(time.RFC3339))

	updated := *st
	updated.PlanStatus = studio.StatusGrace
	updated.GracePeriodEndsAt = &endsAt
	return &updated, nil
}

func (s *service) ReconcileGraceExpirations(ctx context.Context) (int, error) {
	now := time.Now()

	expired, err := s.studioRepo.ListGraceExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, st := range expired {
		transitioned, err := s.studioRepo.CancelIfGraceExpired(ctx, st.ID, now)
		if err != nil {
			logger.Errorf("Grace sweep: failed to cancel studio %d: %v", st.ID, err)
			continue
		}
		if !transitioned {
			// A concurrent sweep already handled it; no duplicate side
			// effects.
			continue
		}

		count++
		metrics.RecordGraceExpiration()
		metrics.RecordPlanTransition(string(studio.StatusGrace), string(studio.StatusCanceled))

		if st.SubscriptionRef != nil {
			if err := s.gateway.CancelSubscription(ctx, *st.SubscriptionRef); err != nil {
				logger.Errorf("Grace sweep: upstream cancel failed for studio %d: %v", st.ID, err)
			}
		}

		// The status change above stands even if the notification fails.
		if s.emailService != nil {
			if err := s.emailService.SendGraceExpired(ctx, st.OwnerEmail, st.Name); err != nil {
				logger.Errorf("Grace sweep: notification failed for studio %d: %v", st.ID, err)
			}
		}
	}

	return count, nil
}

func (s *service) Cancel(ctx context.Context, studioID int) error {
	st, err := s.studioRepo.GetByID(ctx, studioID)
	if err != nil {
		return err
	}
	if st.PlanStatus == studio.StatusCanceled {
		return nil
	}

	if err := s.studioRepo.SetCancelAtPeriodEnd(ctx, st.ID, true); err != nil {
		return err
	}

	if st.SubscriptionRef != nil {
		if err := s.gateway.CancelSubscription(ctx, *st.SubscriptionRef); err != nil {
			// The flag is already persisted; the processor cancel can be
			// retried by the owner.
			logger.Errorf("Upstream cancel failed for studio %d: %v", st.ID, err)
			return err
		}
	}

	logger.Infof("Studio %d scheduled for cancellation at period end", st.ID)
	return nil
}

func (s *service) ResetToTrial(ctx context.Context, studioID int) error {
	st, err := s.studioRepo.GetByID(ctx, studioID)
	if err != nil {
		return err
	}

	if err := s.studioRepo.SetCancelAtPeriodEnd(ctx, st.ID, false); err != nil {
		return err
	}

	_, err = s.transition(ctx, st, studio.StatusTrialing)
	return err
}
