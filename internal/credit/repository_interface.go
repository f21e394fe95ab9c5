package credit

import "context"

type Repository interface {
	// DeductForBooking marks the booking's credit as deducted and decrements
	// the member's balance as one atomic unit. Returns the remaining balance.
	DeductForBooking(ctx context.Context, memberID, bookingID int) (int, error)
	DeductForDropIn(ctx context.Context, memberID, dropInID int) (int, error)
	Adjust(ctx context.Context, memberID, newBalance int) (int, error)
	ListTransactions(ctx context.Context, memberID, limit, offset int) ([]Transaction, error)
}
