package studio

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*Studio, error)
	GetBySubscriptionRef(ctx context.Context, ref string) (*Studio, error)
	UpdatePlanStatus(ctx context.Context, id int, status PlanStatus) error
	OpenGracePeriod(ctx context.Context, id int, endsAt time.Time) error
	// CancelIfGraceExpired flips a studio from grace to canceled only if its
	// grace window has already passed. Returns false when another sweep got
	// there first or the window has not elapsed.
	CancelIfGraceExpired(ctx context.Context, id int, now time.Time) (bool, error)
	ListGraceExpired(ctx context.Context, now time.Time) ([]Studio, error)
	SetCancelAtPeriodEnd(ctx context.Context, id int, cancel bool) error
}
