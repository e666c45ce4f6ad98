package driver

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
// @Summary      List drivers
// @Tags         drivers
// @Produce      json
// @Param        status     query     string  false  "Driver status"
// @Param        carrierId  query     string  false  "Carrier"
// @Param        page       query     int     false  "Page"
// @Param        limit      query     int     false  "Page size"
// @Success      200        {object}  api.Page[Driver]
// @Security     BearerAuth
// @Router       /drivers [get]
func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		api.RespondBindError(c, err)
		return
	}
	h.list(c, f)
}

// ListByCarrier godoc
// @Summary      Drivers of a carrier
// @Tags         drivers
// @Produce      json
// @Param        carrierId  path      string  true  "Carrier"
// @Success      200        {object}  api.Page[Driver]
// @Security     BearerAuth
// @Router       /drivers/carrier/{carrierId} [get]
func (h *Handler) ListByCarrier(c *gin.Context) {
	h.list(c, ListFilter{CarrierID: c.Param("carrierId")})
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

// ListAvailable godoc
// @Summary      Drivers available on a day
// @Tags         drivers
// @Produce      json
// @Param        date  query     string  false  "YYYY-MM-DD, defaults to today"
// @Success      200   {array}   Driver
// @Security     BearerAuth
// @Router       /drivers/available [get]
func (h *Handler) ListAvailable(c *gin.Context) {
	date, ok := api.OptionalDateQuery(c, "date")
	if !ok {
		return
	}

	drivers, err := h.service.ListAvailable(c.Request.Context(), date)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// ListActive godoc
// @Summary      Drivers on duty
// @Tags         drivers
// @Produce      json
// @Success      200  {array}  Driver
// @Security     BearerAuth
// @Router       /drivers/active [get]
func (h *Handler) ListActive(c *gin.Context) {
	drivers, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// Get godoc
// @Summary      Get driver
// @Tags         drivers
// @Produce      json
// @Param        id   path      string  true  "Driver ID"
// @Success      200  {object}  Driver
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /drivers/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Create godoc
// @Summary      Register driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Driver"
// @Success      201      {object}  Driver
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /drivers [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	d, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// Update godoc
// @Summary      Update driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Driver ID"
// @Param        request  body      UpdateRequest  true  "Fields to change"
// @Success      200      {object}  Driver
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /drivers/{id} [patch]
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

	d, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// UpdateStatus godoc
// @Summary      Change driver status
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Driver ID"
// @Param        request  body      StatusRequest  true  "New status"
// @Success      200      {object}  Driver
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /drivers/{id}/status [patch]
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

	d, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Delete godoc
// @Summary      Delete driver
// @Tags         drivers
// @Param        id  path  string  true  "Driver ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /drivers/{id} [delete]
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

// Availability godoc
// @Summary      Upcoming availability windows
// @Tags         drivers
// @Produce      json
// @Param        id   path      string  true  "Driver ID"
// @Success      200  {array}   Availability
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /drivers/{id}/availability [get]
func (h *Handler) Availability(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	windows, err := h.service.Availability(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, windows)
}

// AddAvailability godoc
// @Summary      Add an availability window
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Driver ID"
// @Param        request  body      AvailabilityRequest  true  "Window"
// @Success      201      {object}  Availability
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /drivers/{id}/availability [post]
func (h *Handler) AddAvailability(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	a, err := h.service.AddAvailability(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}
