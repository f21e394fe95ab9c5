package studio

import "time"

type PlanStatus string

const (
	StatusTrialing PlanStatus = "trialing"
	StatusActive   PlanStatus = "active"
	StatusPastDue  PlanStatus = "past_due"
	StatusGrace    PlanStatus = "grace"
	StatusCanceled PlanStatus = "canceled"
)

type Studio struct {
	ID                int        `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	OwnerEmail        string     `db:"owner_email" json:"owner_email"`
	PlanStatus        PlanStatus `db:"plan_status" json:"plan_status"`
	TrialEndsAt       *time.Time `db:"trial_ends_at" json:"trial_ends_at,omitempty"`
	GracePeriodEndsAt *time.Time `db:"grace_period_ends_at" json:"grace_period_ends_at,omitempty"`
	CancelAtPeriodEnd bool       `db:"cancel_at_period_end" json:"cancel_at_period_end"`
	SubscriptionRef   *string    `db:"subscription_ref" json:"subscription_ref,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
