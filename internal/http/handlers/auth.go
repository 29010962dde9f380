package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mkamau/bloghub/internal/auth"
	"github.com/mkamau/bloghub/internal/config"
	"github.com/mkamau/bloghub/internal/domain/job"
	"github.com/mkamau/bloghub/internal/domain/user"
	"github.com/mkamau/bloghub/internal/http/middlewares"
	"github.com/mkamau/bloghub/internal/jobs"
	"github.com/mkamau/bloghub/internal/repo/postgres"
	"github.com/mkamau/bloghub/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash, name string) (user.User, error)
}

type TokenStore interface {
	Create(ctx context.Context, row postgres.AccessTokenRow) error
	Revoke(ctx context.Context, tokenHash string) (bool, error)
}

type JobsEnqueuer interface {
	Create(ctx context.Context, req job.CreateRequest) (job.Job, error)
}

type WorkerNudger interface {
	Nudge(ctx context.Context, jobID string) error
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	tokens     TokenStore
	mgr        *auth.Manager
	jobsRepo   JobsEnqueuer
	nudger     WorkerNudger
	log        *slog.Logger
}

func NewAuthHandler(users UserReader, userWriter UserWriter, tokens TokenStore, mgr *auth.Manager, jobsRepo JobsEnqueuer, nudger WorkerNudger, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		tokens:     tokens,
		mgr:        mgr,
		jobsRepo:   jobsRepo,
		nudger:     nudger,
		log:        log,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, req.Email, hash, req.Name)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			RespondConflict(ctx, "email_taken", "Email already exists.")
			return
		}

		h.log.Error("user create failed", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	// welcome email is fire and forget: an enqueue failure never fails the
	// registration response
	h.enqueueWelcomeEmail(cctx, u)

	ctx.JSON(http.StatusCreated, gin.H{
		"user": u,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		// unknown email and wrong password answer identically
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	raw, err := h.mgr.GenerateToken()

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	row := postgres.AccessTokenRow{
		ID:        uuid.NewString(),
		UserID:    foundUser.ID,
		TokenHash: h.mgr.HashToken(raw),
		Name:      "api-token",
		CreatedAt: time.Now().UTC(),
	}

	err = h.tokens.Create(cctx, row)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	// the raw token leaves the server exactly once, right here
	ctx.JSON(http.StatusOK, gin.H{
		"token": raw,
	})
}

// Logout revokes only the token that authenticated this request. Other
// sessions of the same user stay valid.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	tokenHash, ok := middlewares.TokenHashFromContext(ctx)

	if !ok || tokenHash == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	revokedNow, err := h.tokens.Revoke(cctx, tokenHash)

	if err != nil {
		RespondInternal(ctx, "Could not log out")
		return
	}

	// already-gone sessions still log out cleanly, the flag is for ops only
	userID, _ := middlewares.UserIDFromContext(ctx)
	h.log.Info("logout", "user_id", userID, "revoked_now", revokedNow)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

func (h *AuthHandler) ShowUser(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AuthHandler) enqueueWelcomeEmail(ctx context.Context, u user.User) {
	if h.jobsRepo == nil {
		return
	}

	payload := jobs.WelcomeEmailPayload{
		UserID:       u.ID,
		Email:        u.Email,
		Name:         u.Name,
		RegisteredAt: time.Now().UTC(),
	}

	raw, err := payload.JSON()

	if err != nil {
		h.log.Error("welcome email payload encode failed", "err", err, "user_id", u.ID)
		return
	}

	// idempotency key dedupes retried registrations
	key := "welcome:" + u.ID

	j, err := h.jobsRepo.Create(ctx, job.CreateRequest{
		Type:           jobs.TypeWelcomeEmail,
		Payload:        raw,
		RunAt:          time.Now().UTC(),
		MaxAttempts:    10,
		IdempotencyKey: &key,
	})

	if err != nil {
		if !postgres.IsUniqueViolation(err) {
			h.log.Error("welcome email enqueue failed", "err", err, "user_id", u.ID)
		}
		return
	}

	if h.nudger != nil {
		if err := h.nudger.Nudge(ctx, j.ID); err != nil {
			// worker will pick the job up on its next poll anyway
			h.log.Warn("worker nudge failed", "err", err, "job_id", j.ID)
		}
	}
}
