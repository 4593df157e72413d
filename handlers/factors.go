package handlers

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"greentrip/database"
	"greentrip/services"
)

var factorCategories = map[string]bool{
	services.CategoryTransport:     true,
	services.CategoryAccommodation: true,
	services.CategoryActivity:      true,
}

type factorStore interface {
	ListFactors(ctx context.Context) ([]*database.EmissionFactor, error)
	CreateFactor(ctx context.Context, f *database.EmissionFactor) error
	UpdateFactor(ctx context.Context, f *database.EmissionFactor) error
	DeactivateFactor(ctx context.Context, id string) error
	DeleteFactor(ctx context.Context, id string) error
}

// FactorHandler exposes administrative CRUD over the emission factor table.
type FactorHandler struct {
	store factorStore
}

// NewFactorHandler creates a new FactorHandler.
func NewFactorHandler(store factorStore) *FactorHandler {
	return &FactorHandler{store: store}
}

type factorRequest struct {
	Category    string  `json:"category" binding:"required"`
	SubCategory string  `json:"sub_category" binding:"required"`
	Factor      float64 `json:"factor" binding:"required,gte=0"`
	Unit        string  `json:"unit" binding:"required"`
	Active      *bool   `json:"active"`
	Source      string  `json:"source"`
	Description string  `json:"description"`
}

// List handles GET /api/factors.
func (h *FactorHandler) List(c *gin.Context) {
	factors, err := h.store.ListFactors(c.Request.Context())
	if err != nil {
		log.Printf("❌ Failed to list factors: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list factors"})
		return
	}
	if factors == nil {
		factors = []*database.EmissionFactor{}
	}
	c.JSON(http.StatusOK, factors)
}

// Create handles POST /api/factors. The table's partial unique index rejects a
// second active factor for the same (category, sub_category).
func (h *FactorHandler) Create(c *gin.Context) {
	var req factorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if !factorCategories[req.Category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + req.Category})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	factor := &database.EmissionFactor{
		ID:          uuid.New().String(),
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Factor:      req.Factor,
		Unit:        req.Unit,
		Active:      active,
		Source:      req.Source,
		Description: req.Description,
	}

	if err := h.store.CreateFactor(c.Request.Context(), factor); err != nil {
		log.Printf("❌ Failed to create factor %s/%s: %v", req.Category, req.SubCategory, err)
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create factor (duplicate active pair?)"})
		return
	}

	c.JSON(http.StatusCreated, factor)
}

// Updates never move a factor between (category, sub_category) pairs, so the
// pair is not part of the payload.
type factorUpdateRequest struct {
	Factor      float64 `json:"factor" binding:"required,gte=0"`
	Unit        string  `json:"unit" binding:"required"`
	Active      *bool   `json:"active"`
	Source      string  `json:"source"`
	Description string  `json:"description"`
}

// Update handles PUT /api/factors/:id.
func (h *FactorHandler) Update(c *gin.Context) {
	var req factorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	factor := &database.EmissionFactor{
		ID:          c.Param("id"),
		Factor:      req.Factor,
		Unit:        req.Unit,
		Active:      active,
		Source:      req.Source,
		Description: req.Description,
	}

	err := h.store.UpdateFactor(c.Request.Context(), factor)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Factor not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Failed to update factor %s: %v", factor.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update factor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Factor updated"})
}

// Deactivate handles POST /api/factors/:id/deactivate — the soft alternative
// to deletion for factors referenced by historical trips.
func (h *FactorHandler) Deactivate(c *gin.Context) {
	err := h.store.DeactivateFactor(c.Request.Context(), c.Param("id"))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Factor not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Failed to deactivate factor %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate factor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Factor deactivated"})
}

// Delete handles DELETE /api/factors/:id.
func (h *FactorHandler) Delete(c *gin.Context) {
	err := h.store.DeleteFactor(c.Request.Context(), c.Param("id"))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Factor not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Failed to delete factor %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete factor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Factor deleted"})
}
