package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"greentrip/database"
)

type fakeExpenseStore struct {
	deleteCalls int
	deletedID   string
	deletedUser string
	deleteErr   error
}

func (f *fakeExpenseStore) SaveExpense(ctx context.Context, e *database.Expense) error {
	return nil
}

func (f *fakeExpenseStore) ListExpenses(ctx context.Context, tripID string) ([]*database.Expense, error) {
	return nil, nil
}

func (f *fakeExpenseStore) DeleteExpense(ctx context.Context, id, userID string) error {
	f.deleteCalls++
	f.deletedID = id
	f.deletedUser = userID
	return f.deleteErr
}

func deleteExpenseContext(t *testing.T, expenseID, user string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/expenses/"+expenseID, nil)
	if user != "" {
		c.Request.Header.Set("X-User-ID", user)
	}
	c.Params = gin.Params{{Key: "id", Value: expenseID}}
	return c, w
}

func TestExpenseDelete_ScopedToCaller(t *testing.T) {
	store := &fakeExpenseStore{}
	h := NewExpenseHandler(store, nil)

	c, w := deleteExpenseContext(t, "exp-1", "user-1")
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, store.deleteCalls)
	assert.Equal(t, "exp-1", store.deletedID)
	assert.Equal(t, "user-1", store.deletedUser)
}

func TestExpenseDelete_MissingUser(t *testing.T) {
	store := &fakeExpenseStore{}
	h := NewExpenseHandler(store, nil)

	c, w := deleteExpenseContext(t, "exp-1", "")
	h.Delete(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, store.deleteCalls)
}

func TestExpenseDelete_OtherUsersExpenseReadsAsNotFound(t *testing.T) {
	store := &fakeExpenseStore{deleteErr: sql.ErrNoRows}
	h := NewExpenseHandler(store, nil)

	c, w := deleteExpenseContext(t, "exp-1", "user-2")
	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
