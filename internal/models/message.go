package models

import "time"

type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "ai"
)

// Message is one turn in a session's chat history.
type Message struct {
	ID        int64     `json:"-"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"type"`
	Content   string    `json:"content"`
	MessageID string    `json:"message_id"`
	CreatedAt time.Time `json:"timestamp"`
}

// SessionInfo summarizes one session for listing, newest activity first.
type SessionInfo struct {
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
