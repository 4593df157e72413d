package handlers

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"greentrip/database"
)

var expenseCategories = map[string]bool{
	"transport": true, "accommodation": true, "food": true,
	"activities": true, "shopping": true, "other": true,
}

type expenseStore interface {
	SaveExpense(ctx context.Context, e *database.Expense) error
	ListExpenses(ctx context.Context, tripID string) ([]*database.Expense, error)
	DeleteExpense(ctx context.Context, id, userID string) error
}

// ExpenseHandler handles user-entered actuals against a trip.
type ExpenseHandler struct {
	store expenseStore
	trips *TripHandler
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(store expenseStore, trips *TripHandler) *ExpenseHandler {
	return &ExpenseHandler{store: store, trips: trips}
}

type expenseRequest struct {
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// Create handles POST /api/trips/:id/expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	trip, ok := h.trips.ownedTrip(c)
	if !ok {
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if !expenseCategories[req.Category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown expense category: " + req.Category})
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	expense := &database.Expense{
		ID:          uuid.New().String(),
		TripID:      trip.ID,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		SpentAt:     req.Date,
	}

	if err := h.store.SaveExpense(c.Request.Context(), expense); err != nil {
		log.Printf("❌ Failed to save expense: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save expense"})
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// List handles GET /api/trips/:id/expenses.
func (h *ExpenseHandler) List(c *gin.Context) {
	trip, ok := h.trips.ownedTrip(c)
	if !ok {
		return
	}

	expenses, err := h.store.ListExpenses(c.Request.Context(), trip.ID)
	if err != nil {
		log.Printf("❌ Failed to list expenses for trip %s: %v", trip.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expenses"})
		return
	}
	if expenses == nil {
		expenses = []*database.Expense{}
	}

	c.JSON(http.StatusOK, expenses)
}

// Delete handles DELETE /api/expenses/:id. The store scopes the delete to
// the caller's trips, so an expense on another user's trip reads as not
// found rather than leaking its existence.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing X-User-ID header"})
		return
	}

	err := h.store.DeleteExpense(c.Request.Context(), c.Param("id"), uid)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Failed to delete expense %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}
