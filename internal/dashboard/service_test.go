package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/container"
	"github.com/abakymuk/DriverOS/internal/slot"
	"github.com/abakymuk/DriverOS/internal/terminal"
	"github.com/abakymuk/DriverOS/internal/trip"
	"github.com/abakymuk/DriverOS/internal/vessel"
)

const terminalID = "0b6f3c1e-8d0a-4f3c-9a51-3f1b2a7d9c01"

type slotStats struct {
	slotTerminal string
}

func (f *slotStats) Statistics(_ context.Context, terminalID string) (*slot.Statistics, error) {
	f.slotTerminal = terminalID
	return &slot.Statistics{Total: 12, Full: 3, AverageUtilization: 41}, nil
}

type containerStats struct{}

func (containerStats) Statistics(context.Context, string) (*container.Statistics, error) {
	return &container.Statistics{Total: 40, Ready: 25, Hold: 2}, nil
}

type tripStats struct{ err error }

func (t tripStats) Statistics(context.Context) (*trip.Statistics, error) {
	if t.err != nil {
		return nil, t.err
	}
	return &trip.Statistics{Total: 9, InProgress: 4, AverageTurnTime: 52}, nil
}

type vessels struct{}

func (vessels) ListActive(context.Context) ([]vessel.Vessel, error) {
	return make([]vessel.Vessel, 3), nil
}

func (vessels) ListActiveByTerminal(context.Context, string) ([]vessel.Vessel, error) {
	return make([]vessel.Vessel, 1), nil
}

type terminals struct{}

func (terminals) Capacity(_ context.Context, id string) (*terminal.CapacityReport, error) {
	if id != terminalID {
		return nil, apperror.NotFound("terminal not found")
	}
	return &terminal.CapacityReport{Current: 1200, Max: 5000, Percentage: 24}, nil
}

func newService(slots *slotStats, trips tripStats) *Service {
	s := NewService(slots, containerStats{}, trips, vessels{}, terminals{})
	s.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return s
}

func TestService_Summary(t *testing.T) {
	t.Run("system wide", func(t *testing.T) {
		slots := &slotStats{}
		sum, err := newService(slots, tripStats{}).Summary(context.Background(), "")
		require.NoError(t, err)

		assert.Empty(t, slots.slotTerminal)
		assert.Nil(t, sum.Capacity)
		assert.Equal(t, 3, sum.ActiveVessels)
		assert.Equal(t, 12, sum.Slots.Total)
		assert.Equal(t, 25, sum.Containers.Ready)
		assert.Equal(t, 52, sum.Trips.AverageTurnTime)
	})

	t.Run("one terminal", func(t *testing.T) {
		slots := &slotStats{}
		sum, err := newService(slots, tripStats{}).Summary(context.Background(), terminalID)
		require.NoError(t, err)

		assert.Equal(t, terminalID, slots.slotTerminal)
		require.NotNil(t, sum.Capacity)
		assert.Equal(t, 24, sum.Capacity.Percentage)
		assert.Equal(t, 1, sum.ActiveVessels)
	})

	t.Run("unknown terminal", func(t *testing.T) {
		_, err := newService(&slotStats{}, tripStats{}).Summary(context.Background(), "9a0f3c1e-8d0a-4f3c-9a51-3f1b2a7d9c09")
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("stats failure", func(t *testing.T) {
		_, err := newService(&slotStats{}, tripStats{err: errors.New("db down")}).Summary(context.Background(), "")
		assert.EqualError(t, err, "db down")
	})
}

func TestHandler_Summary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/dashboard/summary", NewHandler(newService(&slotStats{}, tripStats{})).Summary)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"all", "", http.StatusOK},
		{"terminal", "?terminalId=" + terminalID, http.StatusOK},
		{"bad id", "?terminalId=abc", http.StatusBadRequest},
		{"unknown", "?terminalId=9a0f3c1e-8d0a-4f3c-9a51-3f1b2a7d9c09", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/summary"+tt.query, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
