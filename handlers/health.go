package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greentrip/database"
)

// HealthHandler reports service and database status.
type HealthHandler struct {
	store *database.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store *database.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(c *gin.Context) {
	dbStatus := "ok"
	if h.store == nil || h.store.DB() == nil {
		dbStatus = "not initialized"
	} else if err := h.store.DB().Ping(); err != nil {
		dbStatus = "error: " + err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "GreenTrip API",
		"database": dbStatus,
	})
}
