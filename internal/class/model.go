package class

import "time"

type Session struct {
	ID          int       `db:"id" json:"id"`
	StudioID    int       `db:"studio_id" json:"studio_id"`
	ClassName   string    `db:"class_name" json:"class_name"`
	Capacity    int       `db:"capacity" json:"capacity"`
	SessionDate time.Time `db:"session_date" json:"session_date"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	IsCancelled bool      `db:"is_cancelled" json:"is_cancelled"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Counts is the derived capacity view: non-cancelled bookings grouped by
// status. Recomputed on every booking decision, never cached.
type Counts struct {
	Confirmed int `db:"confirmed" json:"confirmed"`
	Waitlist  int `db:"waitlist" json:"waitlist"`
}

type SessionWithAvailability struct {
	Session
	ConfirmedCount int  `db:"confirmed_count" json:"confirmed_count"`
	WaitlistCount  int  `db:"waitlist_count" json:"waitlist_count"`
	SpotsLeft      int  `json:"spots_left"`
	IsFull         bool `json:"is_full"`
}

type CreateSessionRequest struct {
	ClassName   string `json:"class_name" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	SessionDate string `json:"session_date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
}

// Full reports whether confirmed bookings have reached capacity.
func (c Counts) Full(capacity int) bool {
	return c.Confirmed >= capacity
}
