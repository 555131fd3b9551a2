package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/infrastructure/cache"
	"github.com/jaideep-27/insightwiz/internal/infrastructure/persistence/postgres/connection"
)

type HealthRoutes struct {
	db          *connection.Database
	redisClient *cache.RedisClient
	startedAt   time.Time
}

func NewHealthRoutes(db *connection.Database, redisClient *cache.RedisClient) *HealthRoutes {
	return &HealthRoutes{
		db:          db,
		redisClient: redisClient,
		startedAt:   time.Now(),
	}
}

// RegisterRoutes wires liveness, readiness and cache health probes.
func (r *HealthRoutes) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", r.liveness)
	router.GET("/health/ready", r.readiness)
	router.GET("/health/cache", r.cacheHealth)
}

func (r *HealthRoutes) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(r.startedAt).String(),
	})
}

// readiness verifies the database connection is usable.
func (r *HealthRoutes) readiness(c *gin.Context) {
	sqlDB, err := r.db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// cacheHealth reports Redis connectivity and hit-rate metrics. The
// service runs without Redis, so a missing client is reported rather
// than treated as a failure.
func (r *HealthRoutes) cacheHealth(c *gin.Context) {
	if r.redisClient == nil {
		c.JSON(http.StatusOK, gin.H{
			"status":  "disabled",
			"message": "cache is not configured",
		})
		return
	}

	if err := r.redisClient.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"metrics": r.redisClient.GetMetrics(),
	})
}
