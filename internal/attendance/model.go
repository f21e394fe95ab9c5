package attendance

import "time"

// DropInAttendance is a walk-in check-in with no prior booking. The credit
// deduction happens through an explicit ledger call referencing this record.
type DropInAttendance struct {
	ID             int       `db:"id" json:"id"`
	MemberID       int       `db:"member_id" json:"member_id"`
	SessionID      int       `db:"session_id" json:"session_id"`
	CreditDeducted bool      `db:"credit_deducted" json:"credit_deducted"`
	AttendedAt     time.Time `db:"attended_at" json:"attended_at"`
}

type ToggleRequest struct {
	Attended *bool `json:"attended" binding:"required"`
}

type RecordDropInRequest struct {
	MemberID int `json:"member_id" binding:"required"`
}

type ToggleResponse struct {
	BookingID int  `json:"booking_id"`
	Attended  bool `json:"attended"`
}
