package member

import "time"

type PlanType string

const (
	PlanMonthly PlanType = "monthly"
	PlanPack    PlanType = "pack"
	PlanDropIn  PlanType = "drop_in"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// UnlimitedCredits marks a monthly member whose balance never depletes.
const UnlimitedCredits = -1

type Member struct {
	ID        int       `db:"id" json:"id"`
	StudioID  int       `db:"studio_id" json:"studio_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	PlanType  PlanType  `db:"plan_type" json:"plan_type"`
	Credits   int       `db:"credits" json:"credits"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Unlimited reports whether the member's plan never consumes credits.
func (m *Member) Unlimited() bool {
	return m.Credits == UnlimitedCredits
}

type CreateMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	PlanType string `json:"plan_type" binding:"required,oneof=monthly pack drop_in"`
	Credits  int    `json:"credits" binding:"gte=-1"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active paused cancelled"`
}
