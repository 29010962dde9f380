package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mkamau/bloghub/internal/auth"
	"github.com/mkamau/bloghub/internal/cache"
	"github.com/mkamau/bloghub/internal/config"
	"github.com/mkamau/bloghub/internal/http/handlers"
	"github.com/mkamau/bloghub/internal/http/middlewares"
	"github.com/mkamau/bloghub/internal/observability"
	"github.com/mkamau/bloghub/internal/queue/redisclient"
	"github.com/mkamau/bloghub/internal/repo/postgres"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, rds *redisclient.Client, cfg config.Config, prom *observability.Prom) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(1 << 20)) // 1 MiB

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	}

	if cfg.OTLPEndpoint != "" {
		r.Use(otelgin.Middleware("bloghub-api"))
	}

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// health

	pingDB := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	pingRedis := func() error {
		if rds == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return rds.Ping(ctx)
	}

	h := handlers.NewHealthHandler(pingDB, pingRedis)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up repositories

	usersRepo := postgres.NewUsersRepo(pool, prom)
	tokensRepo := postgres.NewTokensRepo(pool, prom)
	postsRepo := postgres.NewPostsRepo(pool, prom)
	jobsRepo := postgres.NewJobsRepo(pool, prom)

	// token plumbing

	mgr := auth.NewManager(cfg.TokenSecret)
	resolver := auth.NewResolver(mgr, tokensRepo)
	authMW := middlewares.NewAuthMiddleware(resolver)

	// handlers

	var nudger handlers.WorkerNudger
	if rds != nil {
		nudger = rds
	}

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, tokensRepo, mgr, jobsRepo, nudger, log)
	postsHandler := handlers.NewPostsHandler(postsRepo, cache.New(5*time.Second))

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	authed := r.Group("/", authMW.RequireAuth())

	authed.POST("/logout", authHandler.Logout)
	authed.GET("/users/:id", authHandler.ShowUser)

	authed.POST("/posts", postsHandler.CreatePost)
	authed.GET("/posts", postsHandler.ListPosts)
	authed.GET("/posts/:id", postsHandler.GetPostByID)
	authed.PATCH("/posts/:id", postsHandler.UpdatePost)
	authed.DELETE("/posts/:id", postsHandler.DeletePost)

	return r
}
