package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"greentrip/database"
	"greentrip/services"
)

// StatsHandler serves dashboard aggregates.
type StatsHandler struct {
	store *database.Store
	trips *TripHandler
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(store *database.Store, trips *TripHandler) *StatsHandler {
	return &StatsHandler{store: store, trips: trips}
}

// TripStats handles GET /api/trips/:id/stats: entered expenses vs the
// itinerary's planned cost.
func (h *StatsHandler) TripStats(c *gin.Context) {
	trip, ok := h.trips.ownedTrip(c)
	if !ok {
		return
	}

	stats, err := h.store.GetTripStats(c.Request.Context(), trip.ID)
	if err != nil {
		log.Printf("❌ Failed to compute stats for trip %s: %v", trip.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute trip stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip_id":         stats.TripID,
		"planned_cost":    stats.PlannedCost,
		"total_spent":     stats.TotalSpent,
		"by_category":     stats.ByCategory,
		"expense_count":   stats.ExpenseCount,
		"total_carbon_kg": stats.TotalCarbonKg,
		"green_score":     stats.GreenScore,
		"score_band":      services.ScoreBand(stats.GreenScore),
	})
}

// UserStats handles GET /api/stats: the user dashboard.
func (h *StatsHandler) UserStats(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing X-User-ID header"})
		return
	}

	stats, err := h.store.GetUserStats(c.Request.Context(), uid)
	if err != nil {
		log.Printf("❌ Failed to compute user stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
