package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"greentrip/database"
	"greentrip/services"
)

// TripHandler handles trip generation and trip CRUD.
type TripHandler struct {
	planner *services.Planner
	store   *database.Store
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(planner *services.Planner, store *database.Store) *TripHandler {
	return &TripHandler{planner: planner, store: store}
}

// userID pulls the caller identity injected by the fronting auth layer.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

// Create handles POST /api/trips: validates, runs the generation pipeline and
// persists the composed trip in one row. Validation errors are rejected before
// any external call.
func (h *TripHandler) Create(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing X-User-ID header"})
		return
	}

	var req services.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	generated, err := h.planner.GenerateTrip(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("❌ Trip generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate trip"})
		return
	}

	trip := &database.Trip{
		ID:                uuid.New().String(),
		UserID:            uid,
		Destination:       req.Destination,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Budget:            req.Budget,
		Interests:         req.Interests,
		TravelStyle:       req.TravelStyle,
		AccommodationPref: req.AccommodationPref,
		TransportPref:     req.TransportPref,
		Itinerary:         generated.Itinerary,
		Location:          generated.Location,
		CarbonBreakdown:   generated.CarbonBreakdown,
		Stages:            generated.Stages,
		TotalCarbonKg:     generated.TotalCarbonKg,
		TotalCost:         generated.TotalCost,
		GreenScore:        generated.GreenScore,
	}

	if err := h.store.SaveTrip(c.Request.Context(), trip); err != nil {
		log.Printf("❌ Failed to save trip: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save trip"})
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// List handles GET /api/trips.
func (h *TripHandler) List(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing X-User-ID header"})
		return
	}

	trips, err := h.store.ListTrips(c.Request.Context(), uid)
	if err != nil {
		log.Printf("❌ Failed to list trips: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips"})
		return
	}
	if trips == nil {
		trips = []*database.Trip{}
	}

	c.JSON(http.StatusOK, trips)
}

// Get handles GET /api/trips/:id.
func (h *TripHandler) Get(c *gin.Context) {
	trip, ok := h.ownedTrip(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, trip)
}

// Delete handles DELETE /api/trips/:id. Owned expenses cascade.
func (h *TripHandler) Delete(c *gin.Context) {
	trip, ok := h.ownedTrip(c)
	if !ok {
		return
	}

	if err := h.store.DeleteTrip(c.Request.Context(), trip.ID); err != nil {
		log.Printf("❌ Failed to delete trip %s: %v", trip.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trip"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// PDF handles GET /api/trips/:id/pdf. The PDF is rendered on first request
// and cached on the trip row.
func (h *TripHandler) PDF(c *gin.Context) {
	trip, ok := h.ownedTrip(c)
	if !ok {
		return
	}

	pdfBytes, err := h.store.GetTripPDF(c.Request.Context(), trip.ID)
	if err != nil {
		log.Printf("❌ Failed to load PDF for trip %s: %v", trip.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load PDF"})
		return
	}

	if len(pdfBytes) == 0 {
		pdfBytes, err = services.GeneratePDFBytes(services.PDFData{
			Destination:     trip.Destination,
			StartDate:       trip.StartDate,
			EndDate:         trip.EndDate,
			Budget:          trip.Budget,
			TravelStyle:     trip.TravelStyle,
			Itinerary:       trip.Itinerary,
			Location:        trip.Location,
			TotalCarbonKg:   trip.TotalCarbonKg,
			TotalCost:       trip.TotalCost,
			GreenScore:      trip.GreenScore,
			CarbonBreakdown: trip.CarbonBreakdown,
		})
		if err != nil {
			log.Printf("❌ PDF generation failed for trip %s: %v", trip.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}

		if err := h.store.UpdateTripPDF(c.Request.Context(), trip.ID, pdfBytes); err != nil {
			log.Printf("⚠️  Failed to cache PDF for trip %s: %v", trip.ID, err)
		}
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=greentrip-itinerary.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// ownedTrip loads the :id trip and enforces ownership. Writes the error
// response itself when the lookup fails.
func (h *TripHandler) ownedTrip(c *gin.Context) (*database.Trip, bool) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing X-User-ID header"})
		return nil, false
	}

	trip, err := h.store.GetTrip(c.Request.Context(), c.Param("id"))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return nil, false
	}
	if err != nil {
		log.Printf("❌ Failed to load trip %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trip"})
		return nil, false
	}
	if trip.UserID != uid {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return nil, false
	}

	return trip, true
}
