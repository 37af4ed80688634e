package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// PostgresSessionRepository stores session values as rows keyed by
// (session_id, key). Expired rows are ignored on read and purged on write.
type PostgresSessionRepository struct {
	db  *sql.DB
	ttl time.Duration
}

func NewPostgresSessionRepository(db *sql.DB, ttl time.Duration) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db, ttl: ttl}
}

func (r *PostgresSessionRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_value (
			session_id TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (session_id, key)
		)
	`)
	return err
}

func (r *PostgresSessionRepository) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM session_value
		WHERE session_id = $1 AND key = $2 AND expires_at > NOW()
	`, sessionID, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (r *PostgresSessionRepository) Put(ctx context.Context, sessionID, key, value string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	expiresAt := time.Now().Add(r.ttl)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO session_value(session_id, key, value, expires_at)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`, sessionID, key, value, expiresAt)
	if err != nil {
		return err
	}

	// Every write slides the whole session forward, like an EXPIRE in redis.
	_, err = tx.ExecContext(ctx, `
		UPDATE session_value SET expires_at = $2 WHERE session_id = $1
	`, sessionID, expiresAt)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM session_value WHERE expires_at <= NOW()`)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresSessionRepository) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM session_value WHERE session_id = $1 AND key = ANY($2)
	`, sessionID, pq.Array(keys))
	return err
}

func (r *PostgresSessionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
