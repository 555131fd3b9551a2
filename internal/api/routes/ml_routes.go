package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/api/handlers"
	"github.com/jaideep-27/insightwiz/internal/api/middleware"
)

type MLRoutes struct {
	handler   *handlers.MLHandler
	jwtSecret string
}

func NewMLRoutes(handler *handlers.MLHandler, jwtSecret string) *MLRoutes {
	return &MLRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes wires the upload and ML proxy endpoints.
func (r *MLRoutes) RegisterRoutes(router *gin.Engine) {
	ml := router.Group("/api/ml")
	ml.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	{
		ml.POST("/upload", r.handler.Upload)
		ml.POST("/predict", r.handler.Predict)
		ml.POST("/cluster", r.handler.Cluster)
		ml.POST("/sentiment", r.handler.Sentiment)
	}
}
