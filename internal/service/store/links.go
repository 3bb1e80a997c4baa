package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Drashti7312/FinancialChatBot/internal/models"

	"github.com/google/uuid"
)

// AddLink saves a URL for the session. Re-adding the same URL in the same
// session returns ErrDuplicate.
func (s *Service) AddLink(ctx context.Context, sessionID, userID, url, title string) (*models.Link, error) {
	var existing string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM links WHERE session_id = ? AND user_id = ? AND url = ?`,
		sessionID, userID, url,
	).Scan(&existing)
	if err == nil {
		return nil, ErrDuplicate
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("check duplicate link: %w", err)
	}

	link := &models.Link{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    userID,
		URL:       url,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO links (id, session_id, user_id, url, title, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		link.ID, link.SessionID, link.UserID, link.URL, link.Title, link.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert link: %w", err)
	}
	return link, nil
}

// GetLink loads one saved link by id.
func (s *Service) GetLink(ctx context.Context, id string) (*models.Link, error) {
	var link models.Link
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, user_id, url, title, created_at FROM links WHERE id = ?`,
		id,
	).Scan(&link.ID, &link.SessionID, &link.UserID, &link.URL, &link.Title, &link.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("load link: %w", err)
	}
	return &link, nil
}

// LatestLink returns the most recently added link for the session, or
// sql.ErrNoRows when the session has none.
func (s *Service) LatestLink(ctx context.Context, sessionID, userID string) (*models.Link, error) {
	var link models.Link
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, user_id, url, title, created_at FROM links
		 WHERE session_id = ? AND user_id = ? ORDER BY created_at DESC LIMIT 1`,
		sessionID, userID,
	).Scan(&link.ID, &link.SessionID, &link.UserID, &link.URL, &link.Title, &link.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("latest link: %w", err)
	}
	return &link, nil
}
