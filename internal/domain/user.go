package domain

import "time"

type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	IsStudent     bool
	EmailVerified bool
	CreatedAt     time.Time
}

// UserProfile is the public per-user document.
type UserProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	IsStudent     bool      `json:"is_student"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	BookingIDs    []string  `json:"bookings"`
}

// Session is the authenticated caller, passed explicitly to handlers and
// services.
type Session struct {
	UserID    string
	Email     string
	Name      string
	IsStudent bool
	TokenID   string
	ExpiresAt time.Time
}
