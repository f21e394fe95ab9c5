package attendance

import "context"

type Repository interface {
	SetBookingAttended(ctx context.Context, bookingID int, attended bool) error
	CreateDropIn(ctx context.Context, memberID, sessionID int) (*DropInAttendance, error)
	GetDropInByID(ctx context.Context, id int) (*DropInAttendance, error)
	ListDropInsBySession(ctx context.Context, sessionID int) ([]DropInAttendance, error)
}
