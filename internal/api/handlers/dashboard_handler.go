package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/api/middleware"
	"github.com/jaideep-27/insightwiz/internal/domain/analytics"
	"github.com/jaideep-27/insightwiz/internal/domain/events"
	"github.com/jaideep-27/insightwiz/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// dashboardCacheTTL bounds staleness when an invalidation event is lost.
const dashboardCacheTTL = 5 * time.Minute

// DashboardHandler serves the cached dashboard projection.
type DashboardHandler struct {
	service analytics.Service
	cache   *cache.RedisClient
	logger  *zap.Logger
}

func NewDashboardHandler(service analytics.Service, redisClient *cache.RedisClient, logger *zap.Logger) *DashboardHandler {
	h := &DashboardHandler{
		service: service,
		cache:   redisClient,
		logger:  logger,
	}
	if redisClient != nil {
		go h.listenForEvents()
	}
	return h
}

// listenForEvents drops cached dashboards whenever a mutation event
// arrives. Reconnects with a delay if the subscription dies.
func (h *DashboardHandler) listenForEvents() {
	ctx := context.Background()
	for {
		err := h.cache.SubscribeToDashboardEvents(ctx, func(event *events.DashboardEvent) error {
			if event.EventType == events.EventTypeDataCleared {
				return h.cache.ClearByPattern(ctx, "dashboard:*")
			}
			return h.cache.InvalidateDashboardCache(ctx, event.UserID)
		})
		if err != nil {
			h.logger.Error("Dashboard event subscription lost", zap.Error(err))
			time.Sleep(5 * time.Second)
		}
	}
}

// GetDashboard returns the projection, served from Redis when fresh.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "user not authenticated"})
		return
	}

	build := func() (interface{}, error) {
		return h.service.GetDashboard(c.Request.Context(), userID)
	}

	var payload interface{}
	var err error
	if h.cache != nil {
		key := cache.DashboardCacheKey(userID)
		payload, err = h.cache.CacheResponse(c.Request.Context(), key, dashboardCacheTTL, "dashboard", build)
	} else {
		payload, err = build()
	}
	if err != nil {
		h.logger.Error("Failed to build dashboard",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching dashboard analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}
