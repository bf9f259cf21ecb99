package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/models"
)

type sessionRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSessionRepository constructs the SQLite-backed [SessionRepository].
func NewSessionRepository(db *DB, log *logger.Logger) SessionRepository {
	return &sessionRepository{db: db, logger: log}
}

// Save implements [SessionRepository]. The table holds a single row, so the
// previous session is always overwritten.
func (r *sessionRepository) Save(ctx context.Context, s LocalSession) error {
	query, args, err := sq.Insert("local_session").
		Columns("id", "session_id", "access_token", "refresh_token", "saved_at").
		Values(1, s.SessionID, s.Tokens.AccessToken, s.Tokens.RefreshToken, time.Now()).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			session_id = excluded.session_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			saved_at = excluded.saved_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save session query: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save local session: %w", err)
	}
	return nil
}

// Load implements [SessionRepository].
func (r *sessionRepository) Load(ctx context.Context) (LocalSession, error) {
	query, args, err := sq.Select("session_id", "access_token", "refresh_token", "saved_at").
		From("local_session").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return LocalSession{}, fmt.Errorf("build load session query: %w", err)
	}

	var s LocalSession
	var tokens models.TokenPair
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&s.SessionID, &tokens.AccessToken, &tokens.RefreshToken, &s.SavedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LocalSession{}, ErrLocalSessionNotFound
		}
		return LocalSession{}, fmt.Errorf("load local session: %w", err)
	}
	s.Tokens = tokens

	return s, nil
}

// Clear implements [SessionRepository].
func (r *sessionRepository) Clear(ctx context.Context) error {
	query, args, err := sq.Delete("local_session").Where(sq.Eq{"id": 1}).ToSql()
	if err != nil {
		return fmt.Errorf("build clear session query: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear local session: %w", err)
	}
	return nil
}
