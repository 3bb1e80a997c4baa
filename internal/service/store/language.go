package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Drashti7312/FinancialChatBot/internal/logx"
)

// ErrLanguageNotSet is returned when no preference exists for the user and
// session.
var ErrLanguageNotSet = errors.New("language preference not set")

func languageKey(userID, sessionID string) string {
	return fmt.Sprintf("lang:%s:%s", userID, sessionID)
}

// GetLanguage returns the language preference for the user and session. The
// SQL row is the source of truth; redis fronts it as a cache and is
// backfilled on a hit.
func (s *Service) GetLanguage(ctx context.Context, userID, sessionID string) (string, error) {
	key := languageKey(userID, sessionID)
	if cached, err := s.rdb.Get(ctx, key); err == nil {
		return cached, nil
	}

	var language string
	err := s.db.QueryRowContext(ctx,
		`SELECT language FROM language_prefs WHERE user_id = ? AND session_id = ?`,
		userID, sessionID,
	).Scan(&language)
	if err == sql.ErrNoRows {
		return "", ErrLanguageNotSet
	}
	if err != nil {
		return "", fmt.Errorf("load language preference: %w", err)
	}
	if err := s.rdb.Set(ctx, key, language, 0); err != nil {
		logx.Debug().Err(err).Msg("backfill language cache")
	}
	return language, nil
}

// UpsertLanguage records the language preference. Last write wins; rows
// never expire so the preference survives the whole session.
func (s *Service) UpsertLanguage(ctx context.Context, userID, sessionID, language string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE language_prefs SET language = ?, updated_at = ? WHERE user_id = ? AND session_id = ?`,
		language, now, userID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("update language preference: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO language_prefs (user_id, session_id, language, updated_at) VALUES (?, ?, ?, ?)`,
			userID, sessionID, language, now,
		); err != nil {
			return fmt.Errorf("insert language preference: %w", err)
		}
	}
	if err := s.rdb.Set(ctx, languageKey(userID, sessionID), language, 0); err != nil {
		logx.Debug().Err(err).Msg("cache language preference")
	}
	return nil
}

// ClearLanguage drops the preference for the user and session.
func (s *Service) ClearLanguage(ctx context.Context, userID, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM language_prefs WHERE user_id = ? AND session_id = ?`,
		userID, sessionID,
	); err != nil {
		return fmt.Errorf("clear language preference: %w", err)
	}
	if err := s.rdb.Del(ctx, languageKey(userID, sessionID)); err != nil {
		logx.Debug().Err(err).Msg("drop cached language")
	}
	return nil
}
