package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Nil DB means the in-memory store.
type HealthHandler struct {
	DB      *gorm.DB
	Streams interface{ Count() int }
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]any
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.Streams != nil {
		body["streams"] = h.Streams.Count()
	}
	c.JSON(http.StatusOK, body)
}

// @Summary Readiness check
// @Tags health
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "store": "memory"})
		return
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store_error", "store": h.DB.Dialector.Name()})
		return
	}
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store_unreachable", "store": h.DB.Dialector.Name()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "store": h.DB.Dialector.Name()})
}
