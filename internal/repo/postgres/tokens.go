package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkamau/bloghub/internal/domain/user"
	"github.com/mkamau/bloghub/internal/observability"
)

var ErrTokenNotFound = errors.New("token not found")

type AccessTokenRow struct {
	ID        string
	UserID    string
	TokenHash string
	Name      string
	RevokedAt *time.Time
	CreatedAt time.Time
}

type TokensRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTokensRepo(pool *pgxpool.Pool, prom *observability.Prom) *TokensRepo {
	return &TokensRepo{pool: pool, prom: prom}
}

func (r *TokensRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *TokensRepo) Create(ctx context.Context, row AccessTokenRow) error {
	return r.observe("tokens.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO access_tokens (id, user_id, token_hash, name, revoked_at, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			`,
			row.ID, row.UserID, row.TokenHash, row.Name, row.RevokedAt, row.CreatedAt,
		)
		return err
	})
}

// ResolveActive maps a presented token hash to its owning user. Revoked
// tokens never resolve; the single SELECT sees either the pre-revoke or
// post-revoke state, there is no in-between.
func (r *TokensRepo) ResolveActive(ctx context.Context, tokenHash string) (user.User, error) {
	var u user.User

	err := r.observe("tokens.resolve_active", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT u.id, u.name, u.email, u.password_hash, u.created_at, u.updated_at
			FROM access_tokens t
			JOIN users u ON u.id = t.user_id
			WHERE t.token_hash = $1 AND t.revoked_at IS NULL
		`, tokenHash).Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrTokenNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// Revoke marks the presented token as revoked. Idempotent: revoking an
// already-revoked or missing token is not an error. The bool reports
// whether a row actually transitioned now, for logging only.
func (r *TokensRepo) Revoke(ctx context.Context, tokenHash string) (bool, error) {
	var revokedNow bool

	err := r.observe("tokens.revoke", func() error {
		tag, err := r.pool.Exec(ctx, `
			UPDATE access_tokens
			SET revoked_at = NOW()
			WHERE token_hash = $1 AND revoked_at IS NULL
		`, tokenHash)

		if err != nil {
			return err
		}

		revokedNow = tag.RowsAffected() > 0
		return nil
	})

	if err != nil {
		return false, err
	}

	return revokedNow, nil
}
