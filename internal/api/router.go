package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"pump-maintenance-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()
	r.Use(mw.RequestID())

	corsCfg := cors.DefaultConfig()
	if len(h.cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = h.cfg.Server.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", mw.RequestIDHeader}
	r.Use(cors.New(corsCfg))

	r.GET("/health", h.Health)

	rateLimiter := mw.RateLimiter(rate.Limit(h.cfg.Server.RateLimitPerSec), h.cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(h.cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/db-status", h.DBStatus)

		api.GET("/equipment", h.ListEquipment)
		api.POST("/equipment", h.CreateEquipment)
		api.GET("/equipment/:equipment_id", h.GetEquipment)
		api.PUT("/equipment/:equipment_id", h.UpdateEquipment)
		api.POST("/equipment/delete-multiple", h.DeleteEquipment)

		api.GET("/weekly-log", h.GetWeeklyLog)
		api.PUT("/weekly-log/:work_week", h.SaveWeeklyLog)
		api.PUT("/equipment/:equipment_id/logs/:work_week", h.SaveEquipmentLog)

		api.GET("/logs", h.ListLogs)
		api.PUT("/logs/:log_id", h.UpdateLog)
		api.DELETE("/logs/:log_id", h.DeleteLog)

		api.GET("/dashboard", caching, h.Dashboard)
		api.GET("/chart-data", caching, h.ChartData)
		api.GET("/hall-of-fame", caching, h.HallOfFame)
		api.GET("/dropdown-options/:field", caching, h.DropdownOptions)

		api.POST("/backup", h.CreateBackup)
		api.POST("/restore", h.RestoreBackup)
		api.POST("/seed", h.SeedDatabase)

		api.GET("/vapid-public-key", h.GetVAPIDPublicKey)
		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
	}

	return r
}
