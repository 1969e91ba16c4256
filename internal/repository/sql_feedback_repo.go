package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"alumind-feedback/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// SQLFeedbackRepo stores feedback in a relational "feedbacks" table.
// created_at holds unix milliseconds so both engines compare it the same way.
type SQLFeedbackRepo struct {
	db      *sql.DB
	dialect Dialect
	now     Clock
}

func NewSQLFeedbackRepo(db *sql.DB, dialect Dialect) *SQLFeedbackRepo {
	return &SQLFeedbackRepo{db: db, dialect: dialect, now: time.Now}
}

// EnsureSchema creates the table and index when missing.
func (r *SQLFeedbackRepo) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS feedbacks (
			id TEXT PRIMARY KEY,
			feedback TEXT NOT NULL,
			sentiment TEXT NOT NULL CHECK (sentiment IN ('POSITIVO', 'NEGATIVO', 'INCONCLUSIVO')),
			feature_code TEXT,
			feature_reason TEXT,
			created_at BIGINT NOT NULL,
			CHECK ((feature_code IS NULL) = (feature_reason IS NULL))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feedbacks_created_at ON feedbacks(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (r *SQLFeedbackRepo) Create(ctx context.Context, f *models.Feedback) error {
	createdAt := r.now().UTC().Truncate(time.Millisecond)
	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO feedbacks (id, feedback, sentiment, feature_code, feature_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), f.ID, f.Text, string(f.Sentiment), nullString(f.FeatureCode), nullString(f.FeatureReason), createdAt.UnixMilli())
	if err != nil {
		if r.isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	f.CreatedAt = createdAt
	return nil
}

func (r *SQLFeedbackRepo) SentimentCounts(ctx context.Context, from, to time.Time) (map[models.Sentiment]int64, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT sentiment, COUNT(*)
		FROM feedbacks
		WHERE created_at >= ? AND created_at <= ?
		GROUP BY sentiment
	`), from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to count sentiments: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Sentiment]int64)
	for rows.Next() {
		var sentiment string
		var n int64
		if err := rows.Scan(&sentiment, &n); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment count: %w", err)
		}
		counts[models.Sentiment(sentiment)] = n
	}
	return counts, rows.Err()
}

func (r *SQLFeedbackRepo) FeatureCounts(ctx context.Context, from, to time.Time) ([]models.FeatureCount, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT feature_code, COUNT(*) AS n
		FROM feedbacks
		WHERE created_at >= ? AND created_at <= ? AND feature_code IS NOT NULL
		GROUP BY feature_code
		ORDER BY n DESC, feature_code ASC
	`), from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to count feature requests: %w", err)
	}
	defer rows.Close()

	var features []models.FeatureCount
	for rows.Next() {
		var fc models.FeatureCount
		if err := rows.Scan(&fc.Code, &fc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan feature count: %w", err)
		}
		features = append(features, fc)
	}
	return features, rows.Err()
}

func (r *SQLFeedbackRepo) Close(context.Context) error {
	return r.db.Close()
}

// rebind turns ? placeholders into $n for Postgres.
func (r *SQLFeedbackRepo) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

func (r *SQLFeedbackRepo) isUniqueViolation(err error) bool {
	switch r.dialect {
	case DialectPostgres:
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == "23505"
	case DialectSQLite:
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.Code() {
			case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
				return true
			case sqlite3.SQLITE_CONSTRAINT:
				// Extended result codes disabled.
				return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
			}
		}
	}
	return false
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
