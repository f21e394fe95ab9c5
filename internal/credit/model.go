package credit

import "time"

const (
	SourceBooking    = "booking"
	SourceDropIn     = "drop_in"
	SourceRefund     = "refund"
	SourceAdjustment = "adjustment"
)

// Transaction is one ledger entry. Every credit mutation appends exactly one
// row, so the balance history is reconstructible.
type Transaction struct {
	ID           int       `db:"id" json:"id"`
	MemberID     int       `db:"member_id" json:"member_id"`
	Delta        int       `db:"delta" json:"delta"`
	BalanceAfter int       `db:"balance_after" json:"balance_after"`
	SourceKind   string    `db:"source_kind" json:"source_kind"`
	SourceID     *int      `db:"source_id" json:"source_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type DeductRequest struct {
	MemberID  int  `json:"member_id" binding:"required"`
	BookingID *int `json:"booking_id,omitempty"`
	DropInID  *int `json:"drop_in_id,omitempty"`
}

type AdjustRequest struct {
	Credits int `json:"credits" binding:"gte=0"`
}

type BalanceResponse struct {
	MemberID         int `json:"member_id"`
	CreditsRemaining int `json:"credits_remaining"`
}
