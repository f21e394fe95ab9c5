package booking

import "context"

type Repository interface {
	// CreateOrRebook places a member into a session: confirmed while seats
	// remain, waitlist once full. A cancelled booking for the same pair is
	// reactivated in place. Entering confirmed deducts one credit in the
	// same transaction; if the deduction fails nothing is persisted.
	CreateOrRebook(ctx context.Context, memberID, sessionID int) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	// Cancel moves a booking to cancelled and refunds the credit when one
	// was taken. The returned bool reports whether a refund happened.
	Cancel(ctx context.Context, id int) (*Booking, bool, error)
	ListByMember(ctx context.Context, memberID int) ([]Booking, error)
	ListBySession(ctx context.Context, sessionID int) ([]BookingWithMember, error)
	// ListWaitlist returns waitlisted bookings in FIFO creation order.
	ListWaitlist(ctx context.Context, sessionID int) ([]BookingWithMember, error)
}
