package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkamau/bloghub/internal/cache"
	"github.com/mkamau/bloghub/internal/config"
	"github.com/mkamau/bloghub/internal/domain/post"
	"github.com/mkamau/bloghub/internal/http/middlewares"
)

// one page of posts, constant across the API
const defaultPageSize = 10

type PostsRepository interface {
	Create(ctx context.Context, ownerID string, req post.CreatePostRequest) (post.Post, error)
	GetByID(ctx context.Context, id, ownerID string) (post.Post, error)
	Update(ctx context.Context, id, ownerID string, req post.UpdatePostRequest) (post.Post, error)
	Delete(ctx context.Context, id, ownerID string) error
	List(ctx context.Context, filter post.ListPostsFilter) ([]post.Post, int, error)
}

type PostsHandler struct {
	repo      PostsRepository
	listCache *cache.Cache
}

func NewPostsHandler(repo PostsRepository, listCache *cache.Cache) *PostsHandler {
	return &PostsHandler{repo: repo, listCache: listCache}
}

func (h *PostsHandler) CreatePost(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || ownerID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req post.CreatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.repo.Create(cctx, ownerID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create post")
		return
	}

	h.invalidateListCache()

	ctx.JSON(http.StatusCreated, p)
}

func (h *PostsHandler) GetPostByID(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || ownerID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.repo.GetByID(cctx, id, ownerID)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "Post not found")
			return
		}
		RespondInternal(ctx, "Could not fetch post")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, p)
}

func (h *PostsHandler) UpdatePost(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || ownerID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	var req post.UpdatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.repo.Update(cctx, id, ownerID, req)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "Post not found")
			return
		}

		RespondInternal(ctx, "Could not update post")
		return
	}

	h.invalidateListCache()

	ctx.JSON(http.StatusOK, p)
}

func (h *PostsHandler) DeletePost(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || ownerID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id, ownerID)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "Post not found")
			return
		}

		RespondInternal(ctx, "Could not delete post")
		return
	}

	h.invalidateListCache()

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Post deleted successfully",
	})
}

type listPostsResponse struct {
	Items    []post.Post `json:"items"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Total    int         `json:"total"`
}

func (h *PostsHandler) ListPosts(ctx *gin.Context) {
	page := 1

	if raw := ctx.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)

		if err != nil || n < 1 {
			RespondUnprocessable(ctx, "page must be a positive integer", nil)
			return
		}

		page = n
	}

	if h.listCache != nil {
		if v, ok := h.listCache.Get(listCacheKey(page)); ok {
			if resp, ok := v.(listPostsResponse); ok {
				ctx.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, post.ListPostsFilter{
		Page:     page,
		PageSize: defaultPageSize,
	})

	if err != nil {
		RespondInternal(ctx, "Could not list posts")
		return
	}

	resp := listPostsResponse{
		Items:    items,
		Page:     page,
		PageSize: defaultPageSize,
		Total:    total,
	}

	if h.listCache != nil {
		h.listCache.Set(listCacheKey(page), resp)
	}

	ctx.JSON(http.StatusOK, resp)
}

func listCacheKey(page int) string {
	return fmt.Sprintf("posts:list:%d", page)
}

// any write makes every cached page stale, the cache is tiny so dropping
// it wholesale is fine
func (h *PostsHandler) invalidateListCache() {
	if h.listCache != nil {
		h.listCache.Clear()
	}
}
