package entities

import "time"

// InboundMessage is one chat message handed in by the transport layer.
// Delivery, retries and sender authentication are the transport's problem;
// the engine assumes the message is already deduplicated.
type InboundMessage struct {
	ID            string    `json:"message_id"`
	From          string    `json:"from"`
	Timestamp     time.Time `json:"timestamp"`
	Text          string    `json:"text"`
	AttachmentRef string    `json:"attachment_ref,omitempty"`
}

// OutboundReply is the composed reply handed back for delivery.
type OutboundReply struct {
	Text string `json:"text"`
}

// HistoryEntry is one turn of a conversation, either side.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Speaker   string    `json:"speaker"` // "user" or "bot"
	Text      string    `json:"text"`
}

// ConversationState is the per-sender dialogue position: the step the
// engine is at, the appeal draft collected so far, and the running history.
type ConversationState struct {
	SenderID     string            `json:"sender_id"`
	CurrentStep  string            `json:"current_step"`
	Draft        map[string]string `json:"draft"`
	History      []HistoryEntry    `json:"history"`
	LastActionAt time.Time         `json:"last_action_at"`
}
