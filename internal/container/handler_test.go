package container

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/events"
)

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api.RegisterValidators()

	repo := new(MockRepository)
	repo.On("GetByNumber", mock.Anything, "CSQU3054383").Return(nil, apperror.NotFound("container not found"))
	repo.On("Create", mock.Anything, mock.Anything).Return(&Container{ID: containerID, CntrNo: "CSQU3054383"}, nil)

	h := NewHandler(newTestService(repo, events.Nop{}))
	router := gin.New()
	router.POST("/containers", h.Create)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"created", `{"cntrNo":"CSQU3054383","type":"40HC","line":"COSCO","terminalId":"` + terminalID + `"}`, http.StatusCreated},
		{"wrong check digit", `{"cntrNo":"CSQU3054384","type":"40HC","line":"COSCO","terminalId":"` + terminalID + `"}`, http.StatusBadRequest},
		{"malformed number", `{"cntrNo":"CSQ-1","type":"40HC","line":"COSCO","terminalId":"` + terminalID + `"}`, http.StatusBadRequest},
		{"unknown type", `{"cntrNo":"CSQU3054383","type":"10GP","line":"COSCO","terminalId":"` + terminalID + `"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/containers", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_ResolveHoldNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, containerID).Return(&Container{ID: containerID}, nil)
	repo.On("ResolveHold", mock.Anything, containerID, holdID).Return(nil, false, apperror.NotFound("open hold not found"))

	h := NewHandler(newTestService(repo, events.Nop{}))
	router := gin.New()
	router.PATCH("/containers/:id/holds/:holdId/resolve", h.ResolveHold)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/containers/"+containerID+"/holds/"+holdID+"/resolve", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "open hold not found")
}
