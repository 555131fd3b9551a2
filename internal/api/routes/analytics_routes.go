package routes

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/api/handlers"
	"github.com/jaideep-27/insightwiz/internal/api/middleware"
)

type AnalyticsRoutes struct {
	analyticsHandler *handlers.AnalyticsHandler
	dashboardHandler *handlers.DashboardHandler
	jwtSecret        string
}

func NewAnalyticsRoutes(analyticsHandler *handlers.AnalyticsHandler, dashboardHandler *handlers.DashboardHandler, jwtSecret string) *AnalyticsRoutes {
	return &AnalyticsRoutes{
		analyticsHandler: analyticsHandler,
		dashboardHandler: dashboardHandler,
		jwtSecret:        jwtSecret,
	}
}

// RegisterRoutes wires the analytics endpoints. Dashboard and history
// responses can run large, so both are gzip-compressed.
func (r *AnalyticsRoutes) RegisterRoutes(router *gin.Engine) {
	analytics := router.Group("/api/analytics")
	analytics.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	{
		analytics.GET("/dashboard", gzip.Gzip(gzip.DefaultCompression), r.dashboardHandler.GetDashboard)
		analytics.GET("/history", gzip.Gzip(gzip.DefaultCompression), r.analyticsHandler.History)
		analytics.POST("/track", r.analyticsHandler.Track)
		analytics.POST("/save/:analysisId", r.analyticsHandler.Save)
	}
}
