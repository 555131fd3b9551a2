package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/api/handlers"
)

type AdminRoutes struct {
	handler *handlers.AdminHandler
}

func NewAdminRoutes(handler *handlers.AdminHandler) *AdminRoutes {
	return &AdminRoutes{handler: handler}
}

// RegisterRoutes wires the maintenance endpoints. The clear endpoint is
// deliberately unauthenticated so seeded demo data can be reset from
// tooling without a token.
func (r *AdminRoutes) RegisterRoutes(router *gin.Engine) {
	admin := router.Group("/api/admin")
	{
		admin.DELETE("/clear-sample-data", r.handler.ClearData)
	}
}
