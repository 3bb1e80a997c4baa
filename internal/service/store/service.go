package store

import (
	"database/sql"
	"errors"

	"github.com/Drashti7312/FinancialChatBot/internal/redis"
)

// ErrDuplicate is returned when a file or link already exists in a session.
var ErrDuplicate = errors.New("already exists in this session")

// Service exposes persistence for chat history, uploaded documents and
// saved links. Concerns are split across files in this package.
type Service struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewService(db *sql.DB, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}
