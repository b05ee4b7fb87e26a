package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"riffs-backend/internal/shared/middleware"
	"riffs-backend/internal/shared/response"
	"riffs-backend/pkg/container"
)

func setupRouter(c *container.Container) *gin.Engine {
	if c.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = c.Config.Upload.MaxFileSize

	var origins []string
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}

	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(origins),
	)

	router.GET("/health", func(ctx *gin.Context) {
		status := c.HealthCheck(ctx.Request.Context())
		code := http.StatusOK
		for _, s := range status {
			if s != "up" {
				code = http.StatusServiceUnavailable
				break
			}
		}
		response.Success(ctx, code, "", status)
	})

	auth := middleware.Auth(c.JWTManager)
	optionalAuth := middleware.OptionalAuth(c.JWTManager)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", c.UserHandler.Register)
			authGroup.POST("/login", c.UserHandler.Login)
			authGroup.POST("/refresh", c.UserHandler.Refresh)
			authGroup.POST("/verify-email", c.UserHandler.VerifyEmail)
			authGroup.POST("/resend-verification", c.UserHandler.ResendVerification)
			authGroup.POST("/forgot-password", c.UserHandler.ForgotPassword)
			authGroup.POST("/reset-password", c.UserHandler.ResetPassword)
		}

		users := v1.Group("/users")
		{
			users.GET("/me", auth, c.UserHandler.Me)
			users.PATCH("/me", auth, c.UserHandler.UpdateMe)
		}

		v1.POST("/profiles/lookup", c.UserHandler.LookupProfiles)

		clips := v1.Group("/clips")
		{
			clips.GET("", c.ClipHandler.Feed)
			clips.POST("", auth, c.ClipHandler.Upload)
			clips.GET("/me", auth, c.ClipHandler.Mine)
			clips.GET("/:id", optionalAuth, c.ClipHandler.Get)
			clips.DELETE("/:id", auth, c.ClipHandler.Delete)

			clips.GET("/:id/comments", c.CommentHandler.List)
			clips.POST("/:id/comments", auth, c.CommentHandler.Create)

			clips.GET("/:id/reviews", c.ReviewHandler.List)
			clips.POST("/:id/reviews", auth, c.ReviewHandler.Submit)
			clips.GET("/:id/reviews/me", auth, c.ReviewHandler.Mine)
		}
	}

	return router
}
