package container

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"riffs-backend/internal/config"
	cliphandler "riffs-backend/internal/domains/clip/handler"
	clipjob "riffs-backend/internal/domains/clip/job"
	cliprepo "riffs-backend/internal/domains/clip/repository"
	clipservice "riffs-backend/internal/domains/clip/service"
	commenthandler "riffs-backend/internal/domains/comment/handler"
	commentrepo "riffs-backend/internal/domains/comment/repository"
	commentservice "riffs-backend/internal/domains/comment/service"
	reviewhandler "riffs-backend/internal/domains/review/handler"
	reviewrepo "riffs-backend/internal/domains/review/repository"
	reviewservice "riffs-backend/internal/domains/review/service"
	userhandler "riffs-backend/internal/domains/user/handler"
	userjob "riffs-backend/internal/domains/user/job"
	userrepo "riffs-backend/internal/domains/user/repository"
	userservice "riffs-backend/internal/domains/user/service"
	"riffs-backend/internal/infrastructure/cache"
	"riffs-backend/internal/infrastructure/database"
	"riffs-backend/internal/infrastructure/email"
	emailjob "riffs-backend/internal/infrastructure/email/job"
	"riffs-backend/internal/infrastructure/queue"
	"riffs-backend/internal/infrastructure/storage"
	"riffs-backend/pkg/jwt"
)

// Container holds every shared dependency, built once at startup.
type Container struct {
	Config *config.Config

	DB         *database.PostgresDB
	Cache      *cache.RedisCache
	Storage    *storage.AudioStore
	Enqueuer   queue.Enqueuer
	JWTManager *jwt.Manager
	Email      *email.Service

	UserRepo    userrepo.UserRepository
	ClipRepo    cliprepo.ClipRepository
	CommentRepo commentrepo.CommentRepository
	ReviewRepo  reviewrepo.ReviewRepository

	UserService    userservice.UserService
	ClipService    clipservice.ClipService
	CommentService commentservice.CommentService
	ReviewService  reviewservice.ReviewService

	UserHandler    *userhandler.UserHandler
	ClipHandler    *cliphandler.ClipHandler
	CommentHandler *commenthandler.CommentHandler
	ReviewHandler  *reviewhandler.ReviewHandler

	TokenCleanupHandler *userjob.TokenCleanupHandler
	DeleteAudioHandler  *clipjob.DeleteAudioHandler
	OrphanSweepHandler  *clipjob.OrphanSweepHandler
	EmailHandler        *emailjob.EmailHandler
}

// New builds the full dependency graph: infrastructure first, then
// repositories, services and handlers.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	log.Info().Msg("connecting to postgres")
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	c.DB = db

	log.Info().Msg("connecting to redis")
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("init cache: %w", err)
	}
	c.Cache = redisCache

	log.Info().Msg("connecting to object storage")
	store, err := storage.NewAudioStore(ctx, cfg.MinIO)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	c.Storage = store

	c.Enqueuer = queue.NewEnqueuer(cfg.Redis)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.RefreshDuration, cfg.JWT.Issuer)
	c.Email = email.NewService(cfg.Email)

	// Repositories.
	c.UserRepo = userrepo.NewPostgresUserRepository(db.Pool)
	c.ClipRepo = cliprepo.NewPostgresClipRepository(db.Pool)
	c.CommentRepo = commentrepo.NewPostgresCommentRepository(db.Pool)
	c.ReviewRepo = reviewrepo.NewPostgresReviewRepository(db.Pool)

	// Services.
	c.UserService = userservice.NewUserService(c.UserRepo, c.JWTManager, c.Cache, c.Enqueuer)
	c.CommentService = commentservice.NewCommentService(c.CommentRepo)
	c.ReviewService = reviewservice.NewReviewService(c.ReviewRepo, c.CommentRepo, c.Cache)
	c.ClipService = clipservice.NewClipService(c.ClipRepo, c.ReviewService, c.CommentRepo, c.Storage, c.Enqueuer, cfg.Upload)

	// HTTP handlers.
	c.UserHandler = userhandler.NewUserHandler(c.UserService)
	c.ClipHandler = cliphandler.NewClipHandler(c.ClipService)
	c.CommentHandler = commenthandler.NewCommentHandler(c.CommentService)
	c.ReviewHandler = reviewhandler.NewReviewHandler(c.ReviewService)

	// Background task handlers.
	c.TokenCleanupHandler = userjob.NewTokenCleanupHandler(c.UserRepo)
	c.DeleteAudioHandler = clipjob.NewDeleteAudioHandler(c.Storage)
	c.OrphanSweepHandler = clipjob.NewOrphanSweepHandler(c.ClipRepo, c.CommentRepo, c.ReviewRepo, c.Storage)
	c.EmailHandler = emailjob.NewEmailHandler(c.Email)

	log.Info().Msg("container initialized")
	return c, nil
}

// Cleanup closes connections in reverse order of creation. Safe to
// call on a partially built container.
func (c *Container) Cleanup() {
	if c.Enqueuer != nil {
		if err := c.Enqueuer.Close(); err != nil {
			log.Warn().Err(err).Msg("close queue client")
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("container cleaned up")
}

// HealthCheck pings each backing service.
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := make(map[string]string, 3)

	if err := c.DB.Ping(ctx); err != nil {
		status["database"] = "down: " + err.Error()
	} else {
		status["database"] = "up"
	}

	if err := c.Cache.Ping(ctx); err != nil {
		status["cache"] = "down: " + err.Error()
	} else {
		status["cache"] = "up"
	}

	if err := c.Storage.HealthCheck(ctx); err != nil {
		status["storage"] = "down: " + err.Error()
	} else {
		status["storage"] = "up"
	}

	return status
}
