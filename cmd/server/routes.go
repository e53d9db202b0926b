package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civic-connect.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	authHandler  *handlers.AuthHandler
	issueHandler *handlers.IssueHandler
	vouchHandler *handlers.VouchHandler
	optionalAuth gin.HandlerFunc
	requireAuth  gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine, allowOrigins []string) {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowOrigins) == 1 && allowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = allowOrigins
	}
	r.Use(cors.New(corsConfig))
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "civic-connect-backend",
		})
	})
}

func registerRoutes(r *gin.Engine, deps routeDeps) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth")
	{
		auth.POST("/send-otp", deps.authHandler.SendOTP)
		auth.POST("/verify-otp", deps.authHandler.VerifyOTP)
		auth.POST("/firebase", deps.authHandler.FirebaseAuth)
		auth.GET("/profile", deps.requireAuth, deps.authHandler.GetProfile)
		auth.PUT("/update-profile", deps.requireAuth, deps.authHandler.UpdateProfile)
	}

	api := r.Group("/api")
	{
		api.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "API is working"})
		})

		issues := api.Group("/issues")
		{
			issues.POST("", deps.optionalAuth, deps.issueHandler.CreateIssue)
			issues.GET("", deps.issueHandler.ListIssues)
			issues.GET("/nearby", deps.optionalAuth, deps.issueHandler.ListNearby)
			issues.GET("/:id", deps.issueHandler.GetIssue)
			issues.POST("/:id/vouch", deps.optionalAuth, deps.vouchHandler.Vouch)
			issues.GET("/:id/vouch", deps.optionalAuth, deps.vouchHandler.VouchStatus)
		}

		user := api.Group("/user")
		{
			user.GET("/vouches", deps.requireAuth, deps.vouchHandler.ListVouched)
		}
	}
}
