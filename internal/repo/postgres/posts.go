package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkamau/bloghub/internal/domain/post"
	"github.com/mkamau/bloghub/internal/observability"
)

type PostsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewPostsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{pool: pool, prom: prom}
}

func (r *PostsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Create always stamps ownerID as the owner, regardless of anything the
// client supplied.
func (r *PostsRepo) Create(ctx context.Context, ownerID string, req post.CreatePostRequest) (post.Post, error) {
	now := time.Now().UTC()

	p := post.Post{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.observe("posts.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO posts (id, user_id, title, body, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			p.ID, p.UserID, p.Title, p.Body, p.CreatedAt, p.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return post.Post{}, err
	}

	return p, nil
}

// GetByID is owner scoped: a non-owner gets post.ErrNotFound rather than a
// hint that the row exists.
func (r *PostsRepo) GetByID(ctx context.Context, id, ownerID string) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, user_id, title, body, created_at, updated_at
			FROM posts
			WHERE id = $1 AND user_id = $2`,
			id, ownerID,
		).Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}

		return post.Post{}, err
	}

	return p, nil
}

// Update applies a partial patch in a single statement; absent fields keep
// their stored value.
func (r *PostsRepo) Update(ctx context.Context, id, ownerID string, req post.UpdatePostRequest) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE posts
				SET title = COALESCE($3, title),
						body = COALESCE($4, body),
						updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING id, user_id, title, body, created_at, updated_at`,
			id,
			ownerID,
			req.Title,
			req.Body,
		).Scan(
			&p.ID,
			&p.UserID,
			&p.Title,
			&p.Body,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
	})

	if err != nil {
		// if there are no rows matching the id for this owner
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}
		// if it is any other type of error
		return post.Post{}, err
	}

	return p, nil
}

func (r *PostsRepo) Delete(ctx context.Context, id, ownerID string) error {
	var tag int64

	err := r.observe("posts.delete", func() error {
		cmd, err := r.pool.Exec(ctx, `
			DELETE FROM posts WHERE id = $1 AND user_id = $2
		`, id, ownerID)

		if err != nil {
			return err
		}

		tag = cmd.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if tag == 0 {
		return post.ErrNotFound
	}

	return nil
}

// List returns one fixed-size page of all posts in creation order, plus the
// total row count for pagination metadata.
func (r *PostsRepo) List(ctx context.Context, filter post.ListPostsFilter) ([]post.Post, int, error) {
	offset := (filter.Page - 1) * filter.PageSize

	var output []post.Post
	total := 0

	err := r.observe("posts.list", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT id,
				user_id,
				title,
				body,
				created_at,
				updated_at,
				COUNT(*) OVER() AS total
			FROM posts
			ORDER BY created_at ASC, id ASC
			LIMIT $1 OFFSET $2
		`, filter.PageSize, offset)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]post.Post, 0, filter.PageSize)

		for rows.Next() {
			var p post.Post
			var t int

			err = rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt, &t)

			if err != nil {
				return err
			}

			total = t
			output = append(output, p)
		}

		if err := rows.Err(); err != nil {
			return err
		}

		// a page past the end returns no rows, so the window count never
		// materializes; fall back to a plain count
		if len(output) == 0 {
			return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total)
		}

		return nil
	})

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}
