package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the configured database.
func Open(cfg *config.Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(cfg.Database.Driver) {
	case "sqlite", "sqlite3":
		if cfg.Database.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	case "mysql":
		db, err = sql.Open("mysql", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Database.Driver)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the required tables are present.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS chat_messages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				role TEXT NOT NULL,
				content TEXT NOT NULL,
				message_id TEXT NOT NULL,
				created_at DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_chat_messages_user ON chat_messages(user_id)`,
			`CREATE TABLE IF NOT EXISTS documents (
				id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				filename TEXT NOT NULL,
				kind TEXT NOT NULL,
				size INTEGER NOT NULL,
				content BLOB NOT NULL,
				created_at DATETIME NOT NULL,
				UNIQUE(session_id, user_id, filename)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_session ON documents(session_id, user_id)`,
			`CREATE TABLE IF NOT EXISTS links (
				id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				url TEXT NOT NULL,
				title TEXT,
				created_at DATETIME NOT NULL,
				UNIQUE(session_id, user_id, url)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_links_session ON links(session_id, user_id)`,
			`CREATE TABLE IF NOT EXISTS language_prefs (
				user_id TEXT NOT NULL,
				session_id TEXT NOT NULL,
				language TEXT NOT NULL,
				updated_at DATETIME NOT NULL,
				PRIMARY KEY (user_id, session_id)
			)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS chat_messages (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				session_id VARCHAR(255) NOT NULL,
				user_id VARCHAR(255) NOT NULL,
				role VARCHAR(50) NOT NULL,
				content MEDIUMTEXT NOT NULL,
				message_id VARCHAR(64) NOT NULL,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_chat_messages_session (session_id, user_id),
				INDEX idx_chat_messages_user (user_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS documents (
				id VARCHAR(64) NOT NULL PRIMARY KEY,
				session_id VARCHAR(255) NOT NULL,
				user_id VARCHAR(255) NOT NULL,
				filename VARCHAR(255) NOT NULL,
				kind VARCHAR(20) NOT NULL,
				size BIGINT NOT NULL,
				content LONGBLOB NOT NULL,
				created_at DATETIME NOT NULL,
				UNIQUE KEY uniq_doc_name (session_id, user_id, filename),
				INDEX idx_documents_session (session_id, user_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS links (
				id VARCHAR(64) NOT NULL PRIMARY KEY,
				session_id VARCHAR(255) NOT NULL,
				user_id VARCHAR(255) NOT NULL,
				url TEXT NOT NULL,
				title VARCHAR(512),
				created_at DATETIME NOT NULL,
				UNIQUE KEY uniq_link_url (session_id, user_id, url(255)),
				INDEX idx_links_session (session_id, user_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS language_prefs (
				user_id VARCHAR(255) NOT NULL,
				session_id VARCHAR(255) NOT NULL,
				language VARCHAR(50) NOT NULL,
				updated_at DATETIME NOT NULL,
				PRIMARY KEY (user_id, session_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		}
	default:
		return fmt.Errorf("unsupported driver for migration: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate (%s): %w", driver, err)
		}
	}
	return nil
}
