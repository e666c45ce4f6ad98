package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/slot"
)

func newRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newFixture(repo).service())
	r := gin.New()
	r.POST("/slots/:id/book", h.Book)
	r.GET("/slots/:id/bookings", h.ListBySlot)
	r.DELETE("/slots/:id/bookings/:bookingId", h.Cancel)
	return r
}

func bookBody(trip, driver, cntr string) string {
	return `{"tripId":"` + trip + `","driverId":"` + driver + `","containerId":"` + cntr + `"}`
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Book(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Reserve", mock.Anything, mock.Anything).
			Return(&slot.Slot{ID: slotID, Capacity: 2, Booked: 1, Status: slot.StatusAvailable}, nil)

		w := post(newRouter(repo), "/slots/"+slotID+"/book", bookBody(tripID, driverID, containerID))
		require.Equal(t, http.StatusCreated, w.Code)

		var res Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, bookingID, res.Booking.ID)
		assert.Equal(t, StatusConfirmed, res.Booking.Status)
		assert.Equal(t, 1, res.Slot.Booked)
	})

	t.Run("full slot", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Reserve", mock.Anything, mock.Anything).Return(nil, apperror.Conflict("slot is full"))

		w := post(newRouter(repo), "/slots/"+slotID+"/book", bookBody(tripID, driverID, containerID))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"slot is full"}`, w.Body.String())
	})

	t.Run("unknown driver wins over full slot", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Reserve", mock.Anything, mock.Anything).Return(nil, apperror.Conflict("slot is full"))

		w := post(newRouter(repo), "/slots/"+slotID+"/book", bookBody(tripID, missingID, containerID))
		assert.Equal(t, http.StatusNotFound, w.Code)
		repo.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := post(newRouter(new(MockRepository)), "/slots/"+slotID+"/book", `{"tripId":"`+tripID+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "validation failed")
	})

	t.Run("bad slot id", func(t *testing.T) {
		w := post(newRouter(new(MockRepository)), "/slots/nope/book", bookBody(tripID, driverID, containerID))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Cancel(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Release", mock.Anything, slotID, bookingID).Return(
		&Booking{ID: bookingID, SlotID: slotID, DriverID: driverID, ContainerID: containerID, Status: StatusCancelled},
		&slot.Slot{ID: slotID, Capacity: 2, Status: slot.StatusAvailable},
		nil,
	)
	repo.On("Release", mock.Anything, slotID, missingID).Return(nil, nil, apperror.NotFound("booking not found"))
	router := newRouter(repo)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"cancelled", "/slots/" + slotID + "/bookings/" + bookingID, http.StatusOK},
		{"unknown booking", "/slots/" + slotID + "/bookings/" + missingID, http.StatusNotFound},
		{"unknown slot", "/slots/" + missingID + "/bookings/" + bookingID, http.StatusNotFound},
		{"bad booking id", "/slots/" + slotID + "/bookings/x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_ListBySlot(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListBySlot", mock.Anything, slotID).Return([]BookingWithDetails{
		{Booking: Booking{ID: bookingID, SlotID: slotID, Status: StatusConfirmed}, DriverName: "Ana Ruiz", CntrNo: "CSQU3054383"},
	}, nil)

	w := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/"+slotID+"/bookings", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CSQU3054383")
}
