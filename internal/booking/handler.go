package booking

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

// Book godoc
// @Summary      Book a slot for a trip
// @Description  Takes one unit of the slot's capacity. 404 when the slot, trip, driver or container is missing; 409 when the slot is full or not open.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id       path      string       true  "Slot ID"
// @Param        request  body      BookRequest  true  "Trip, driver and container"
// @Success      201      {object}  Result
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/{id}/book [post]
func (h *Handler) Book(c *gin.Context) {
	slotID, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	res, err := h.service.Book(c.Request.Context(), slotID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Cancel godoc
// @Summary      Cancel a slot booking
// @Tags         bookings
// @Produce      json
// @Param        id         path      string  true  "Slot ID"
// @Param        bookingId  path      string  true  "Booking ID"
// @Success      200        {object}  Result
// @Failure      404        {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/{id}/bookings/{bookingId} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	slotID, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	bookingID, ok := api.UUIDParam(c, "bookingId")
	if !ok {
		return
	}

	res, err := h.service.Cancel(c.Request.Context(), slotID, bookingID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListBySlot godoc
// @Summary      Bookings of a slot
// @Tags         bookings
// @Produce      json
// @Param        id   path      string  true  "Slot ID"
// @Success      200  {array}   BookingWithDetails
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/{id}/bookings [get]
func (h *Handler) ListBySlot(c *gin.Context) {
	slotID, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	bookings, err := h.service.ListBySlot(c.Request.Context(), slotID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
