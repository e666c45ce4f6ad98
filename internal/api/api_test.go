package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abakymuk/DriverOS/internal/apperror"
)

func TestPageQueryNormalize(t *testing.T) {
	q := PageQuery{}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, "desc", q.SortOrder)

	q = PageQuery{Page: 3, Limit: 500, SortOrder: "ASC"}.Normalize()
	assert.Equal(t, 100, q.Limit)
	assert.Equal(t, "asc", q.SortOrder)
	assert.Equal(t, 200, q.Offset())
}

func TestOrderByUsesAllowlist(t *testing.T) {
	cols := map[string]string{"name": "name", "createdAt": "created_at"}

	assert.Equal(t, "name ASC", PageQuery{SortBy: "name", SortOrder: "asc"}.OrderBy(cols, "created_at"))
	assert.Equal(t, "created_at DESC", PageQuery{SortBy: "name; DROP TABLE slots"}.OrderBy(cols, "created_at"))
}

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 45, PageQuery{Page: 2, Limit: 20})
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := NewPage[string](nil, 0, PageQuery{})
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", apperror.NotFound("slot not found"), http.StatusNotFound, "slot not found"},
		{"conflict", apperror.Conflict("slot is full"), http.StatusConflict, "slot is full"},
		{"internal", assert.AnError, http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.body, resp.Error)
		})
	}
}

type clockRequest struct {
	Start  string `json:"start" binding:"required,hhmm"`
	CntrNo string `json:"cntrNo" binding:"required,cntrno"`
}

func TestCustomValidators(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req clockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondBindError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	ok := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"start":"07:30","cntrNo":"CSQU3054383"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, ok)
	assert.Equal(t, http.StatusNoContent, w.Code)

	bad := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"start":"25:00","cntrNo":"csqu3054383"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Details, 2)
}

func TestUUIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/slots/:id", func(c *gin.Context) {
		id, ok := UUIDParam(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slots/8d6f3c1e-8f7e-4e57-9a55-0b4c35c1b1f2", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "8d6f3c1e-8f7e-4e57-9a55-0b4c35c1b1f2", w.Body.String())
}
