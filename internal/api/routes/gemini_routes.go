package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/api/handlers"
	"github.com/jaideep-27/insightwiz/internal/api/middleware"
)

type GeminiRoutes struct {
	handler   *handlers.GeminiHandler
	jwtSecret string
}

func NewGeminiRoutes(handler *handlers.GeminiHandler, jwtSecret string) *GeminiRoutes {
	return &GeminiRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes wires the AI text-generation endpoints.
func (r *GeminiRoutes) RegisterRoutes(router *gin.Engine) {
	gemini := router.Group("/api/gemini")
	gemini.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	{
		gemini.POST("/summary", r.handler.Summary)
		gemini.POST("/chat", r.handler.Chat)
		gemini.POST("/project-ideas", r.handler.ProjectIdeas)
		gemini.POST("/rewrite-feedback", r.handler.RewriteFeedback)
		gemini.POST("/insights", r.handler.Insights)
	}
}
