package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BlacklistPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewBlacklistPG(db *pgxpool.Pool, timeout time.Duration) *BlacklistPG {
	return &BlacklistPG{db: db, timeout: timeout}
}

func (r *BlacklistPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *BlacklistPG) Add(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	const query = `
	INSERT INTO token_blacklist (jti, user_id, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (jti) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, jti, userID, expiresAt)
	return err
}

func (r *BlacklistPG) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM token_blacklist
		WHERE jti = $1 AND expires_at > NOW()
	)
	`
	var blacklisted bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, jti).Scan(&blacklisted)
	return blacklisted, err
}

func (r *BlacklistPG) CleanupExpired(ctx context.Context) error {
	const query = `DELETE FROM token_blacklist WHERE expires_at <= NOW()`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query)
	return err
}
