package class

import "context"

type Repository interface {
	CreateSession(ctx context.Context, studioID int, req CreateSessionRequest) (*Session, error)
	// GetSessionByID is tenant-scoped: sessions of other studios are
	// reported as not found.
	GetSessionByID(ctx context.Context, studioID, id int) (*Session, error)
	ListSessionsWithAvailability(ctx context.Context, studioID int, onlyUpcoming bool) ([]SessionWithAvailability, error)
	CancelSession(ctx context.Context, studioID, id int) error
	CountsForSession(ctx context.Context, sessionID int) (Counts, error)
}
