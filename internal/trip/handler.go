package trip

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
// @Summary      List trips
// @Tags         trips
// @Produce      json
// @Param        status       query     string  false  "Trip status"
// @Param        driverId     query     string  false  "Driver ID"
// @Param        containerId  query     string  false  "Container ID"
// @Param        page         query     int     false  "Page"
// @Param        limit        query     int     false  "Page size"
// @Param        sortBy       query     string  false  "status, eta, startedAt, completedAt, createdAt"
// @Param        sortOrder    query     string  false  "asc or desc"
// @Success      200          {object}  api.Page[Trip]
// @Security     BearerAuth
// @Router       /trips [get]
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
// @Summary      Trips not yet finished
// @Tags         trips
// @Produce      json
// @Success      200  {array}  Trip
// @Security     BearerAuth
// @Router       /trips/active [get]
func (h *Handler) ListActive(c *gin.Context) {
	trips, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// ListCompleted godoc
// @Summary      Completed, failed and cancelled trips
// @Tags         trips
// @Produce      json
// @Success      200  {array}  Trip
// @Security     BearerAuth
// @Router       /trips/completed [get]
func (h *Handler) ListCompleted(c *gin.Context) {
	trips, err := h.service.ListCompleted(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// Statistics godoc
// @Summary      Trip statistics
// @Tags         trips
// @Produce      json
// @Success      200  {object}  Statistics
// @Security     BearerAuth
// @Router       /trips/statistics [get]
func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListByDriver godoc
// @Summary      Trips of a driver
// @Tags         trips
// @Produce      json
// @Param        driverId  path      string  true  "Driver ID"
// @Success      200       {array}   Trip
// @Failure      404       {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/driver/{driverId} [get]
func (h *Handler) ListByDriver(c *gin.Context) {
	driverID, ok := api.UUIDParam(c, "driverId")
	if !ok {
		return
	}

	trips, err := h.service.ListByDriver(c.Request.Context(), driverID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// DriverPerformance godoc
// @Summary      Driver performance
// @Tags         trips
// @Produce      json
// @Param        driverId  path      string  true  "Driver ID"
// @Success      200       {object}  DriverPerformance
// @Failure      404       {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/driver/{driverId}/performance [get]
func (h *Handler) DriverPerformance(c *gin.Context) {
	driverID, ok := api.UUIDParam(c, "driverId")
	if !ok {
		return
	}

	perf, err := h.service.DriverPerformance(c.Request.Context(), driverID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, perf)
}

// ListByContainer godoc
// @Summary      Trips for a container
// @Tags         trips
// @Produce      json
// @Param        containerId  path      string  true  "Container ID"
// @Success      200          {array}   Trip
// @Failure      404          {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/container/{containerId} [get]
func (h *Handler) ListByContainer(c *gin.Context) {
	containerID, ok := api.UUIDParam(c, "containerId")
	if !ok {
		return
	}

	trips, err := h.service.ListByContainer(c.Request.Context(), containerID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// Get godoc
// @Summary      Get trip
// @Tags         trips
// @Produce      json
// @Param        id   path      string  true  "Trip ID"
// @Success      200  {object}  Trip
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/{id} [get]
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

// TurnTime godoc
// @Summary      Trip turn time in minutes
// @Description  minutes is null until the trip has both started and finished.
// @Tags         trips
// @Produce      json
// @Param        id   path      string  true  "Trip ID"
// @Success      200  {object}  TurnTimeResponse
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/{id}/turn-time [get]
func (h *Handler) TurnTime(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	tt, err := h.service.TurnTime(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tt)
}

// Create godoc
// @Summary      Assign a trip
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Trip"
// @Success      201      {object}  Trip
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips [post]
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
// @Summary      Update trip
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Trip ID"
// @Param        request  body      UpdateRequest  true  "Changes"
// @Success      200      {object}  Trip
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/{id} [patch]
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

// UpdateStatus godoc
// @Summary      Move trip to a new status
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Trip ID"
// @Param        request  body      StatusRequest  true  "Status"
// @Success      200      {object}  Trip
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/{id}/status [patch]
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

	t, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Events godoc
// @Summary      Trip event log
// @Tags         trips
// @Produce      json
// @Param        id   path      string  true  "Trip ID"
// @Success      200  {array}   Event
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/{id}/events [get]
func (h *Handler) Events(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	evs, err := h.service.Events(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, evs)
}

// AddEvent godoc
// @Summary      Record a trip event
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id       path      string        true  "Trip ID"
// @Param        request  body      EventRequest  true  "Event"
// @Success      201      {object}  Event
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/{id}/events [post]
func (h *Handler) AddEvent(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	e, err := h.service.AddEvent(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// UpdateMetrics godoc
// @Summary      Create or replace trip metrics
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id       path      string          true  "Trip ID"
// @Param        request  body      MetricsRequest  true  "Metrics"
// @Success      200      {object}  Metrics
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/{id}/metrics [put]
func (h *Handler) UpdateMetrics(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	m, err := h.service.UpdateMetrics(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Delete godoc
// @Summary      Delete trip
// @Tags         trips
// @Param        id   path  string  true  "Trip ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /trips/{id} [delete]
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
