package vessel

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
// @Summary      List vessels
// @Tags         vessels
// @Produce      json
// @Param        terminalId  query     string  false  "Terminal ID"
// @Param        status      query     string  false  "Vessel status"
// @Param        page        query     int     false  "Page"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  api.Page[Vessel]
// @Security     BearerAuth
// @Router       /vessels [get]
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

// ListActive godoc
// @Summary      Vessels not yet departed
// @Tags         vessels
// @Produce      json
// @Success      200  {array}  Vessel
// @Security     BearerAuth
// @Router       /vessels/active [get]
func (h *Handler) ListActive(c *gin.Context) {
	vessels, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vessels)
}

// ListByTerminal godoc
// @Summary      Vessels of a terminal
// @Tags         vessels
// @Produce      json
// @Param        terminalId  path      string  true  "Terminal ID"
// @Success      200         {object}  api.Page[Vessel]
// @Security     BearerAuth
// @Router       /vessels/terminal/{terminalId} [get]
func (h *Handler) ListByTerminal(c *gin.Context) {
	terminalID, ok := api.UUIDParam(c, "terminalId")
	if !ok {
		return
	}
	q, ok := api.BindPage(c)
	if !ok {
		return
	}

	page, err := h.service.List(c.Request.Context(), ListFilter{TerminalID: terminalID}, q)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ActiveAtTerminal godoc
// @Summary      Active vessels at a terminal
// @Tags         terminals
// @Produce      json
// @Param        id   path      string  true  "Terminal ID"
// @Success      200  {array}   Vessel
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /terminals/{id}/active-vessels [get]
func (h *Handler) ActiveAtTerminal(c *gin.Context) {
	terminalID, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	vessels, err := h.service.ListActiveByTerminal(c.Request.Context(), terminalID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vessels)
}

// Get godoc
// @Summary      Get vessel
// @Tags         vessels
// @Produce      json
// @Param        id   path      string  true  "Vessel ID"
// @Success      200  {object}  Vessel
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /vessels/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Create godoc
// @Summary      Create vessel
// @Tags         vessels
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Vessel"
// @Success      201      {object}  Vessel
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /vessels [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	v, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// Update godoc
// @Summary      Update vessel
// @Tags         vessels
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Vessel ID"
// @Param        request  body      UpdateRequest  true  "Fields to change"
// @Success      200      {object}  Vessel
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /vessels/{id} [patch]
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

	v, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// UpdateStatus godoc
// @Summary      Change vessel status
// @Tags         vessels
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Vessel ID"
// @Param        request  body      StatusRequest  true  "New status"
// @Success      200      {object}  Vessel
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /vessels/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	v, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Delete godoc
// @Summary      Delete vessel
// @Tags         vessels
// @Param        id  path  string  true  "Vessel ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /vessels/{id} [delete]
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

// ContainerCounts godoc
// @Summary      Container counts for a vessel
// @Tags         vessels
// @Produce      json
// @Param        id   path      string  true  "Vessel ID"
// @Success      200  {object}  ContainerCounts
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /vessels/{id}/containers/count [get]
func (h *Handler) ContainerCounts(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	counts, err := h.service.ContainerCounts(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// Schedules godoc
// @Summary      Berth schedule of a vessel
// @Tags         vessels
// @Produce      json
// @Param        id   path      string  true  "Vessel ID"
// @Success      200  {array}   Schedule
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /vessels/{id}/schedule [get]
func (h *Handler) Schedules(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	schedules, err := h.service.Schedules(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// AddSchedule godoc
// @Summary      Add a berth schedule entry
// @Tags         vessels
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Vessel ID"
// @Param        request  body      ScheduleRequest  true  "Schedule"
// @Success      201      {object}  Schedule
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /vessels/{id}/schedule [post]
func (h *Handler) AddSchedule(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	s, err := h.service.AddSchedule(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}
