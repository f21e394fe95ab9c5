package booking

import "time"

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusWaitlist  Status = "waitlist"
	StatusCancelled Status = "cancelled"
)

type Booking struct {
	ID             int       `db:"id" json:"id"`
	MemberID       int       `db:"member_id" json:"member_id"`
	SessionID      int       `db:"session_id" json:"session_id"`
	Status         Status    `db:"status" json:"status"`
	Attended       bool      `db:"attended" json:"attended"`
	CreditDeducted bool      `db:"credit_deducted" json:"credit_deducted"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type BookingWithMember struct {
	Booking
	MemberName  string `db:"member_name" json:"member_name"`
	MemberEmail string `db:"member_email" json:"member_email"`
}

type BookRequest struct {
	MemberID int `json:"member_id"`
}

type BookResponse struct {
	Booking *Booking `json:"booking"`
}

type CancelResponse struct {
	Booking *Booking `json:"booking"`
}
