package container

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
// @Summary      List containers
// @Tags         containers
// @Produce      json
// @Param        terminalId  query     string  false  "Terminal ID"
// @Param        vesselId    query     string  false  "Vessel ID"
// @Param        status      query     string  false  "Container status"
// @Param        line        query     string  false  "Shipping line"
// @Param        page        query     int     false  "Page"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  api.Page[Container]
// @Security     BearerAuth
// @Router       /containers [get]
func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		api.RespondBindError(c, err)
		return
	}
	h.list(c, f)
}

// ListReady godoc
// @Summary      Containers ready for pickup
// @Tags         containers
// @Produce      json
// @Success      200  {object}  api.Page[Container]
// @Security     BearerAuth
// @Router       /containers/ready [get]
func (h *Handler) ListReady(c *gin.Context) {
	h.list(c, ListFilter{Status: StatusReady})
}

// ListOnHold godoc
// @Summary      Containers on hold
// @Tags         containers
// @Produce      json
// @Success      200  {object}  api.Page[Container]
// @Security     BearerAuth
// @Router       /containers/on-hold [get]
func (h *Handler) ListOnHold(c *gin.Context) {
	h.list(c, ListFilter{Status: StatusHold})
}

// ListByTerminal godoc
// @Summary      Containers at a terminal
// @Tags         containers
// @Produce      json
// @Param        terminalId  path      string  true  "Terminal ID"
// @Success      200         {object}  api.Page[Container]
// @Security     BearerAuth
// @Router       /containers/terminal/{terminalId} [get]
func (h *Handler) ListByTerminal(c *gin.Context) {
	terminalID, ok := api.UUIDParam(c, "terminalId")
	if !ok {
		return
	}
	h.list(c, ListFilter{TerminalID: terminalID})
}

func (h *Handler) list(c *gin.Context, f ListFilter) {
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

// ListByVessel godoc
// @Summary      Containers carried by a vessel
// @Tags         containers
// @Produce      json
// @Param        vesselId  path      string  true  "Vessel ID"
// @Success      200       {object}  api.Page[Container]
// @Failure      404       {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /containers/vessel/{vesselId} [get]
func (h *Handler) ListByVessel(c *gin.Context) {
	vesselID, ok := api.UUIDParam(c, "vesselId")
	if !ok {
		return
	}
	q, ok := api.BindPage(c)
	if !ok {
		return
	}

	page, err := h.service.ListByVessel(c.Request.Context(), vesselID, q)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Statistics godoc
// @Summary      Container counts by status
// @Tags         containers
// @Produce      json
// @Param        terminalId  query     string  false  "Terminal ID"
// @Success      200         {object}  Statistics
// @Security     BearerAuth
// @Router       /containers/statistics [get]
func (h *Handler) Statistics(c *gin.Context) {
	terminalID, ok := api.OptionalUUIDQuery(c, "terminalId")
	if !ok {
		return
	}

	stats, err := h.service.Statistics(c.Request.Context(), terminalID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetByNumber godoc
// @Summary      Get container by number
// @Tags         containers
// @Produce      json
// @Param        cntrNo  path      string  true  "ISO 6346 container number"
// @Success      200     {object}  Container
// @Failure      404     {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /containers/number/{cntrNo} [get]
func (h *Handler) GetByNumber(c *gin.Context) {
	ctr, err := h.service.GetByNumber(c.Request.Context(), c.Param("cntrNo"))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctr)
}

// Get godoc
// @Summary      Get container
// @Tags         containers
// @Produce      json
// @Param        id   path      string  true  "Container ID"
// @Success      200  {object}  Container
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /containers/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	ctr, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctr)
}

// Create godoc
// @Summary      Register container
// @Tags         containers
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Container"
// @Success      201      {object}  Container
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /containers [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	ctr, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ctr)
}

// Update godoc
// @Summary      Update container
// @Tags         containers
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Container ID"
// @Param        request  body      UpdateRequest  true  "Fields to change"
// @Success      200      {object}  Container
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /containers/{id} [patch]
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

	ctr, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctr)
}

// UpdateStatus godoc
// @Summary      Change container status
// @Tags         containers
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Container ID"
// @Param        request  body      StatusRequest  true  "New status"
// @Success      200      {object}  Container
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /containers/{id}/status [patch]
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

	ctr, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctr)
}

// Delete godoc
// @Summary      Delete container
// @Tags         containers
// @Param        id  path  string  true  "Container ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /containers/{id} [delete]
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

// Holds godoc
// @Summary      Hold history of a container
// @Tags         containers
// @Produce      json
// @Param        id   path      string  true  "Container ID"
// @Success      200  {array}   Hold
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /containers/{id}/holds [get]
func (h *Handler) Holds(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	holds, err := h.service.Holds(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, holds)
}

// AddHold godoc
// @Summary      Put a container on hold
// @Tags         containers
// @Accept       json
// @Produce      json
// @Param        id       path      string       true  "Container ID"
// @Param        request  body      HoldRequest  true  "Hold"
// @Success      201      {object}  Hold
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /containers/{id}/holds [post]
func (h *Handler) AddHold(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	hold, err := h.service.AddHold(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hold)
}

// ResolveHold godoc
// @Summary      Resolve a container hold
// @Tags         containers
// @Produce      json
// @Param        id      path      string  true  "Container ID"
// @Param        holdId  path      string  true  "Hold ID"
// @Success      200     {object}  Hold
// @Failure      404     {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /containers/{id}/holds/{holdId}/resolve [patch]
func (h *Handler) ResolveHold(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	holdID, ok := api.UUIDParam(c, "holdId")
	if !ok {
		return
	}

	hold, err := h.service.ResolveHold(c.Request.Context(), id, holdID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hold)
}
