package http

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/latidoapp/latido-backend/internal/delivery/http/handler"
	"github.com/latidoapp/latido-backend/internal/delivery/http/middleware"
	"github.com/latidoapp/latido-backend/internal/domain"
)

type Router struct {
	authHandler     *handler.AuthHandler
	profileHandler  *handler.ProfileHandler
	affinityHandler *handler.AffinityHandler
	authMiddleware  *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	affinityHandler *handler.AffinityHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		authHandler:     authHandler,
		profileHandler:  profileHandler,
		affinityHandler: affinityHandler,
		authMiddleware:  authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	registerValidators()

	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Profile routes
			profiles := protected.Group("/profiles")
			{
				profiles.GET("", r.profileHandler.SearchProfiles)
				profiles.PUT("/me", r.profileHandler.UpdateMyProfile)
				profiles.POST("/heartbeat", r.profileHandler.Heartbeat)
				profiles.GET("/:id", r.profileHandler.GetProfile)
			}

			// Affinity routes
			affinities := protected.Group("/affinities")
			{
				affinities.POST("", r.affinityHandler.ExpressInterest)
				affinities.GET("", r.affinityHandler.List)
				affinities.POST("/:id/respond", r.affinityHandler.Respond)
				affinities.DELETE("/:id", r.affinityHandler.Withdraw)
			}
		}
	}

	return router
}

// registerValidators adds the closed enum sets to gin's binding validator.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("energy_emotion", func(fl validator.FieldLevel) bool {
		return domain.EnergyEmotion(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("purpose_of_life", func(fl validator.FieldLevel) bool {
		return domain.PurposeOfLife(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("user_status", func(fl validator.FieldLevel) bool {
		return domain.UserStatus(fl.Field().String()).Valid()
	})
}
