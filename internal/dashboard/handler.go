package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abakymuk/DriverOS/internal/api"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Summary godoc
// @Summary      Dashboard summary
// @Description  Slot, container, trip and vessel counts, optionally for one terminal.
// @Tags         dashboard
// @Produce      json
// @Param        terminalId  query     string  false  "Terminal ID"
// @Success      200         {object}  Summary
// @Failure      404         {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/summary [get]
func (h *Handler) Summary(c *gin.Context) {
	terminalID, ok := api.OptionalUUIDQuery(c, "terminalId")
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), terminalID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
