package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Drashti7312/FinancialChatBot/internal/models"
)

// AppendMessage stores a chat message for the session.
func (s *Service) AppendMessage(ctx context.Context, msg models.Message) (*models.Message, error) {
	if msg.SessionID == "" || msg.UserID == "" {
		return nil, errors.New("session_id and user_id are required")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, user_id, role, content, message_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.SessionID, msg.UserID, msg.Role, msg.Content, msg.MessageID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	msg.ID = id
	msg.CreatedAt = now
	return &msg, nil
}

// GetMessages returns the session's messages oldest first. A limit of zero
// means all messages; otherwise only the most recent limit messages are
// returned, still in chronological order.
func (s *Service) GetMessages(ctx context.Context, sessionID, userID string, limit int) ([]models.Message, error) {
	query := `SELECT id, session_id, user_id, role, content, message_id, created_at
		FROM chat_messages WHERE session_id = ? AND user_id = ? ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserID, &m.Role, &m.Content, &m.MessageID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// ClearHistory removes every message in the session.
func (s *Service) ClearHistory(ctx context.Context, sessionID, userID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_messages WHERE session_id = ? AND user_id = ?`,
		sessionID, userID,
	); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// ListSessions returns every session that has messages for the user, newest
// activity first. Dates are rendered DD-MM-YYYY.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]models.SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, MIN(created_at), MAX(created_at)
		 FROM chat_messages WHERE user_id = ?
		 GROUP BY session_id ORDER BY MAX(created_at) DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.SessionInfo
	for rows.Next() {
		var sessionID, first, last string
		if err := rows.Scan(&sessionID, &first, &last); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, models.SessionInfo{
			SessionID: sessionID,
			CreatedAt: formatSessionDate(first),
			UpdatedAt: formatSessionDate(last),
		})
	}
	return sessions, rows.Err()
}

// aggregate columns lose their declared type, so timestamps come back as
// driver-formatted strings
var sessionDateLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func formatSessionDate(raw string) string {
	for _, layout := range sessionDateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Format("02-01-2006")
		}
	}
	return raw
}
