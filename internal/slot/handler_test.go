package slot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/abakymuk/DriverOS/internal/apperror"
)

func newRouter(repo *MockRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(repo))
	r := gin.New()
	r.GET("/slots/available", h.ListAvailable)
	r.GET("/slots/upcoming", h.ListUpcoming)
	r.GET("/slots/:id", h.Get)
	r.POST("/slots", h.Create)
	r.PATCH("/slots/:id/status", h.UpdateStatus)
	r.DELETE("/slots/:id", h.Delete)
	r.GET("/terminals/:id/available-slots", h.AvailableAtTerminal)
	return r
}

func TestHandler_Get(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, slotID).Return(&Slot{ID: slotID}, nil)
	missing := "9a0f3c1e-8d0a-4f3c-9a51-3f1b2a7d9c09"
	repo.On("GetByID", mock.Anything, missing).Return(nil, apperror.NotFound("slot not found"))

	router := newRouter(repo)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"found", "/slots/" + slotID, http.StatusOK},
		{"not found", "/slots/" + missing, http.StatusNotFound},
		{"bad id", "/slots/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_CreateValidation(t *testing.T) {
	router := newRouter(new(MockRepository))

	body := `{"terminalId":"` + terminalID + `","windowStart":"2025-03-14T09:00:00Z","windowEnd":"2025-03-14T08:00:00Z","capacity":0}`
	req := httptest.NewRequest(http.MethodPost, "/slots", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")
}

func TestHandler_AvailableAtUnknownTerminal(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(new(MockRepository)).ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/terminals/9a0f3c1e-8d0a-4f3c-9a51-3f1b2a7d9c09/available-slots", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ListAvailableBadDate(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(new(MockRepository)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/available?date=14-03-2025", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListUpcomingBadDays(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(new(MockRepository)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/upcoming?days=soon", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UpdateStatus(t *testing.T) {
	repo := new(MockRepository)
	s := &Slot{ID: slotID, Capacity: 2, Status: StatusAvailable}
	repo.On("GetByID", mock.Anything, slotID).Return(s, nil)
	repo.On("Mutate", mock.Anything, slotID).Return(s, nil)

	router := newRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/slots/"+slotID+"/status", strings.NewReader(`{"status":"CLOSED"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"CLOSED"`)

	req = httptest.NewRequest(http.MethodPatch, "/slots/"+slotID+"/status", strings.NewReader(`{"status":"OPEN"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_DeleteBookedSlot(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, slotID).Return(&Slot{ID: slotID}, nil)
	repo.On("SoftDelete", mock.Anything, slotID).Return(apperror.Conflict("slot has 2 active bookings"))

	w := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/slots/"+slotID, nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "active bookings")
}
