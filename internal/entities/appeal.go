package entities

import "time"

// AppealStatus is the closed set of lifecycle states for an appeal.
type AppealStatus string

const (
	StatusPending     AppealStatus = "pending"
	StatusUnderReview AppealStatus = "under_review"
	StatusApproved    AppealStatus = "approved"
	StatusRejected    AppealStatus = "rejected"
	StatusEscalated   AppealStatus = "escalated"
	StatusClosed      AppealStatus = "closed"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s AppealStatus) bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected, StatusEscalated, StatusClosed:
		return true
	}
	return false
}

// Note is a timestamped remark attached to an appeal.
type Note struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// Appeal is a support ticket raised by a sender, tracked through the
// status lifecycle. Resolution is set if and only if the appeal is closed.
type Appeal struct {
	ID          string       `json:"appeal_id"`
	SenderID    string       `json:"sender_id"`
	Category    string       `json:"category"`
	Subject     string       `json:"subject"`
	Description string       `json:"description"`
	Status      AppealStatus `json:"status"`
	Priority    string       `json:"priority"`
	Attachments []string     `json:"attachments"`
	Notes       []Note       `json:"notes"`
	Resolution  string       `json:"resolution,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Clone returns a deep copy so callers can read an appeal without
// holding the manager's lock.
func (a *Appeal) Clone() *Appeal {
	cp := *a
	cp.Attachments = append([]string(nil), a.Attachments...)
	cp.Notes = append([]Note(nil), a.Notes...)
	return &cp
}
