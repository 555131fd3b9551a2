package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/api/handlers"
	"github.com/jaideep-27/insightwiz/internal/api/middleware"
)

type AuthRoutes struct {
	handler   *handlers.AuthHandler
	jwtSecret string
}

func NewAuthRoutes(handler *handlers.AuthHandler, jwtSecret string) *AuthRoutes {
	return &AuthRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes wires the registration, login and profile endpoints.
// Register and login are the only public /api routes.
func (r *AuthRoutes) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")

	auth.POST("/register", r.handler.Register)
	auth.POST("/login", r.handler.Login)

	protected := auth.Group("")
	protected.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	{
		protected.GET("/verify", r.handler.Verify)
		protected.PUT("/profile", r.handler.UpdateProfile)
	}
}
