package member

import "context"

type Repository interface {
	Create(ctx context.Context, studioID int, name, email string, planType PlanType, credits int) (*Member, error)
	// GetByID is tenant-scoped: a member of another studio is reported as
	// not found.
	GetByID(ctx context.Context, studioID, id int) (*Member, error)
	ListByStudio(ctx context.Context, studioID int) ([]Member, error)
	UpdateStatus(ctx context.Context, studioID, id int, status Status) error
}
