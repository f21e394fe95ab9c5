package user

import "time"

// User is a credentialed account: the studio owner, hired staff, or a member
// who logs in to self-book. MemberID links member accounts to their roster
// row; it is nil for staff-only accounts.
type User struct {
	ID           int       `db:"id" json:"id"`
	StudioID     int       `db:"studio_id" json:"studio_id"`
	MemberID     *int      `db:"member_id" json:"member_id,omitempty"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RegisterRequest signs up a new studio. The caller becomes its owner.
type RegisterRequest struct {
	StudioName string `json:"studio_name" binding:"required,min=2,max=100"`
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}
