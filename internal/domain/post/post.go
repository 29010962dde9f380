package post

import (
	"errors"
	"time"
)

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("post not found")

type CreatePostRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Body  string `json:"body" binding:"required"`
}

// Patch semantics: nil means leave the field unchanged, a supplied field
// must pass the same constraints as creation.
type UpdatePostRequest struct {
	Title *string `json:"title" binding:"omitnil,min=1,max=255"`
	Body  *string `json:"body" binding:"omitnil,min=1"`
}

// with pointers if optional, it will be nil
type ListPostsFilter struct {
	Page     int
	PageSize int
}
