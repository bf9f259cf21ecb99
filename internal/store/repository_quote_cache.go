package store

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/models"
)

type quoteCacheRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewQuoteCacheRepository constructs the SQLite-backed
// [QuoteCacheRepository].
func NewQuoteCacheRepository(db *DB, log *logger.Logger) QuoteCacheRepository {
	return &quoteCacheRepository{db: db, logger: log}
}

// Replace implements [QuoteCacheRepository]. The whole cache is swapped in
// one transaction so readers never observe a partial set.
func (r *quoteCacheRepository) Replace(ctx context.Context, quotes []models.Quote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin quote cache tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, "DELETE FROM quote_cache"); err != nil {
		return fmt.Errorf("clear quote cache: %w", err)
	}

	for _, q := range quotes {
		lines, err := json.Marshal(q.Lines)
		if err != nil {
			return fmt.Errorf("encode quote lines: %w", err)
		}

		query, args, err := sq.Insert("quote_cache").
			Columns("id", "number", "session_id", "customer_name", "status",
				"lines", "total_cents", "created_at", "updated_at").
			Values(q.ID, q.Number, q.SessionID, q.CustomerName, string(q.Status),
				string(lines), q.TotalCents, q.CreatedAt, q.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build quote cache insert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert cached quote %d: %w", q.ID, err)
		}
	}

	return tx.Commit()
}

// All implements [QuoteCacheRepository].
func (r *quoteCacheRepository) All(ctx context.Context) ([]models.Quote, error) {
	query, args, err := sq.Select("id", "number", "session_id", "customer_name",
		"status", "lines", "total_cents", "created_at", "updated_at").
		From("quote_cache").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quote cache select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quote cache: %w", err)
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		var q models.Quote
		var status, lines string
		if err = rows.Scan(&q.ID, &q.Number, &q.SessionID, &q.CustomerName,
			&status, &lines, &q.TotalCents, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cached quote: %w", err)
		}
		q.Status = models.QuoteStatus(status)
		if err = json.Unmarshal([]byte(lines), &q.Lines); err != nil {
			return nil, fmt.Errorf("decode quote lines: %w", err)
		}
		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}
