package slot

import (
	"net/http"
	"strconv"
	"time"

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
// @Summary      List slots
// @Tags         slots
// @Produce      json
// @Param        terminalId  query     string  false  "Terminal ID"
// @Param        status      query     string  false  "AVAILABLE, FULL, CLOSED or MAINTENANCE"
// @Param        date        query     string  false  "YYYY-MM-DD"
// @Param        page        query     int     false  "Page"
// @Param        limit       query     int     false  "Page size"
// @Param        sortBy      query     string  false  "windowStart, capacity, booked, status, createdAt"
// @Param        sortOrder   query     string  false  "asc or desc"
// @Success      200         {object}  api.Page[Slot]
// @Security     BearerAuth
// @Router       /slots [get]
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

// ListAvailable godoc
// @Summary      Bookable slots for a day
// @Tags         slots
// @Produce      json
// @Param        terminalId  query     string  false  "Terminal ID"
// @Param        date        query     string  false  "YYYY-MM-DD, defaults to today"
// @Success      200         {array}   Slot
// @Failure      404         {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/available [get]
func (h *Handler) ListAvailable(c *gin.Context) {
	terminalID, ok := api.OptionalUUIDQuery(c, "terminalId")
	if !ok {
		return
	}
	h.available(c, terminalID)
}

// AvailableAtTerminal godoc
// @Summary      Bookable slots at a terminal
// @Tags         terminals
// @Produce      json
// @Param        id    path      string  true   "Terminal ID"
// @Param        date  query     string  false  "YYYY-MM-DD, defaults to today"
// @Success      200   {array}   Slot
// @Failure      404   {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /terminals/{id}/available-slots [get]
func (h *Handler) AvailableAtTerminal(c *gin.Context) {
	terminalID, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}
	h.available(c, terminalID)
}

func (h *Handler) available(c *gin.Context, terminalID string) {
	date, ok := api.OptionalDateQuery(c, "date")
	if !ok {
		return
	}

	slots, err := h.service.ListAvailable(c.Request.Context(), terminalID, date)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// ListUpcoming godoc
// @Summary      Slots starting in the next days
// @Tags         slots
// @Produce      json
// @Param        terminalId  query     string  false  "Terminal ID"
// @Param        days        query     int     false  "Days ahead, 1-31"  default(7)
// @Success      200         {array}   Slot
// @Security     BearerAuth
// @Router       /slots/upcoming [get]
func (h *Handler) ListUpcoming(c *gin.Context) {
	terminalID, ok := api.OptionalUUIDQuery(c, "terminalId")
	if !ok {
		return
	}
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "days must be a positive integer"})
			return
		}
		days = n
	}

	slots, err := h.service.ListUpcoming(c.Request.Context(), terminalID, days)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// ListByTerminal godoc
// @Summary      Slots at a terminal on a day
// @Tags         slots
// @Produce      json
// @Param        terminalId  path      string  true   "Terminal ID"
// @Param        date        query     string  false  "YYYY-MM-DD, defaults to today"
// @Success      200         {array}   Slot
// @Failure      404         {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/terminal/{terminalId} [get]
func (h *Handler) ListByTerminal(c *gin.Context) {
	terminalID, ok := api.UUIDParam(c, "terminalId")
	if !ok {
		return
	}
	date, ok := dateOrToday(c)
	if !ok {
		return
	}

	slots, err := h.service.ListForDay(c.Request.Context(), terminalID, date)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// Statistics godoc
// @Summary      Slot statistics
// @Tags         slots
// @Produce      json
// @Param        terminalId  query     string  false  "Terminal ID"
// @Success      200         {object}  Statistics
// @Security     BearerAuth
// @Router       /slots/statistics [get]
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

// HourlyUtilization godoc
// @Summary      Utilization per hour of day
// @Tags         slots
// @Produce      json
// @Param        terminalId  path      string  true   "Terminal ID"
// @Param        date        query     string  false  "YYYY-MM-DD, defaults to today"
// @Success      200         {array}   HourlyUtilization
// @Failure      404         {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/terminal/{terminalId}/utilization [get]
func (h *Handler) HourlyUtilization(c *gin.Context) {
	terminalID, ok := api.UUIDParam(c, "terminalId")
	if !ok {
		return
	}
	date, ok := dateOrToday(c)
	if !ok {
		return
	}

	hours, err := h.service.HourlyUtilization(c.Request.Context(), terminalID, date)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hours)
}

// Get godoc
// @Summary      Get slot
// @Tags         slots
// @Produce      json
// @Param        id   path      string  true  "Slot ID"
// @Success      200  {object}  Slot
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.UUIDParam(c, "id")
	if !ok {
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Create godoc
// @Summary      Create slot
// @Tags         slots
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Slot"
// @Success      201      {object}  Slot
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	s, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// Generate godoc
// @Summary      Generate a day of slots from terminal settings
// @Tags         slots
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateRequest  true  "Terminal and day"
// @Success      201      {array}   Slot
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	slots, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slots)
}

// Update godoc
// @Summary      Update slot window or capacity
// @Tags         slots
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Slot ID"
// @Param        request  body      UpdateRequest  true  "Changes"
// @Success      200      {object}  Slot
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/{id} [patch]
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

	s, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateStatus godoc
// @Summary      Change slot status
// @Tags         slots
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Slot ID"
// @Param        request  body      StatusRequest  true  "Status"
// @Success      200      {object}  Slot
// @Failure      404      {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/{id}/status [patch]
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

	s, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Delete godoc
// @Summary      Delete slot
// @Tags         slots
// @Param        id   path  string  true  "Slot ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/{id} [delete]
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

func dateOrToday(c *gin.Context) (time.Time, bool) {
	date, ok := api.OptionalDateQuery(c, "date")
	if !ok {
		return time.Time{}, false
	}
	if date == nil {
		return time.Now().UTC(), true
	}
	return *date, true
}
