package terminal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abakymuk/DriverOS/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary      List terminals
// @Tags         terminals
// @Produce      json
// @Param        status     query     string  false  "ACTIVE, INACTIVE or MAINTENANCE"
// @Param        page       query     int     false  "Page"
// @Param        limit      query     int     false  "Page size"
// @Param        sortBy     query     string  false  "name, code, capacity, createdAt"
// @Param        sortOrder  query     string  false  "asc or desc"
// @Success      200        {object}  api.Page[Terminal]
// @Security     BearerAuth
// @Router       /terminals [get]
func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		api.RespondBindError(c, err)
		return
	}
	q, ok := api.BindPage(c)
	if !ok {
		return
	}

	page, err := h.service.List(c.Request.Context(), f, q)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary      Get terminal
// @Tags         terminals
// @Produce      json
// @Param        id   path      string  true  "Terminal ID"
// @Success      200  {object}  Terminal
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /terminals/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// GetByCode godoc
// @Summary      Get terminal by code
// @Tags         terminals
// @Produce      json
// @Param        code  path      string  true  "Terminal code"
// @Success      200   {object}  Terminal
// @Failure      404   {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /terminals/code/{code} [get]
func (h *Handler) GetByCode(c *gin.Context) {
	t, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Create godoc
// @Summary      Create terminal
// @Tags         terminals
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Terminal"
// @Success      201      {object}  Terminal
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /terminals [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Update godoc
// @Summary      Update terminal
// @Tags         terminals
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Terminal ID"
// @Param        request  body      UpdateRequest  true  "Fields to change"
// @Success      200      {object}  Terminal
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /terminals/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete godoc
// @Summary      Delete terminal
// @Tags         terminals
// @Param        id  path  string  true  "Terminal ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /terminals/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		api.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Capacity godoc
// @Summary      Terminal capacity utilization
// @Tags         terminals
// @Produce      json
// @Param        id   path      string  true  "Terminal ID"
// @Success      200  {object}  CapacityReport
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /terminals/{id}/capacity [get]
func (h *Handler) Capacity(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.service.Capacity(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetSettings godoc
// @Summary      Terminal slot settings
// @Tags         terminals
// @Produce      json
// @Param        id   path      string  true  "Terminal ID"
// @Success      200  {object}  Settings
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /terminals/{id}/settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	settings, err := h.service.GetSettings(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary      Replace terminal slot settings
// @Tags         terminals
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Terminal ID"
// @Param        request  body      SettingsRequest  true  "Settings"
// @Success      200      {object}  Settings
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /terminals/{id}/settings [put]
func (h *Handler) UpdateSettings(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
