package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Drashti7312/FinancialChatBot/internal/models"

	"github.com/google/uuid"
)

// StoreFile persists an uploaded document and returns its record. A second
// upload with the same filename in the same session returns ErrDuplicate.
func (s *Service) StoreFile(ctx context.Context, sessionID, userID, filename, kind string, content []byte) (*models.Document, error) {
	var existing string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE session_id = ? AND user_id = ? AND filename = ?`,
		sessionID, userID, filename,
	).Scan(&existing)
	if err == nil {
		return nil, ErrDuplicate
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("check duplicate document: %w", err)
	}

	doc := &models.Document{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    userID,
		Filename:  filename,
		Kind:      kind,
		Size:      int64(len(content)),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, session_id, user_id, filename, kind, size, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.SessionID, doc.UserID, doc.Filename, doc.Kind, doc.Size, content, doc.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

// LoadFile fetches a stored document's metadata and raw bytes.
func (s *Service) LoadFile(ctx context.Context, id string) (*models.Document, []byte, error) {
	var doc models.Document
	var content []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, user_id, filename, kind, size, content, created_at
		 FROM documents WHERE id = ?`,
		id,
	).Scan(&doc.ID, &doc.SessionID, &doc.UserID, &doc.Filename, &doc.Kind, &doc.Size, &content, &doc.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("load document: %w", err)
	}
	return &doc, content, nil
}

// GetSessionDocuments groups the session's document ids by kind, most
// recent first within each kind, and appends the session's link ids.
func (s *Service) GetSessionDocuments(ctx context.Context, sessionID, userID string) (*models.SessionDocuments, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind FROM documents WHERE session_id = ? AND user_id = ? ORDER BY created_at DESC`,
		sessionID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list session documents: %w", err)
	}
	defer rows.Close()

	docs := &models.SessionDocuments{}
	for rows.Next() {
		var id, kind string
		if err := rows.Scan(&id, &kind); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		switch kind {
		case "csv":
			docs.CSVIDs = append(docs.CSVIDs, id)
		case "excel", "xlsx", "xls":
			docs.ExcelIDs = append(docs.ExcelIDs, id)
		case "pdf":
			docs.PDFIDs = append(docs.PDFIDs, id)
		case "docx":
			docs.DocxIDs = append(docs.DocxIDs, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	linkRows, err := s.db.QueryContext(ctx,
		`SELECT id FROM links WHERE session_id = ? AND user_id = ? ORDER BY created_at DESC`,
		sessionID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list session links: %w", err)
	}
	defer linkRows.Close()
	for linkRows.Next() {
		var id string
		if err := linkRows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		docs.LinkIDs = append(docs.LinkIDs, id)
	}
	return docs, linkRows.Err()
}
