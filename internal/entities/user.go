package entities

import "time"

// User is an operator account for the admin review API.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// SenderProfile is bookkeeping the engine keeps per chat sender. Created
// lazily on first message; TotalAppeals counts appeals ever created, it
// is not reset when conversation state is cleared.
type SenderProfile struct {
	SenderID        string    `json:"sender_id"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"created_at"`
	LastInteraction time.Time `json:"last_interaction"`
	TotalAppeals    int       `json:"total_appeals"`
}
