package report

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abakymuk/DriverOS/internal/api"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	exporter *Exporter
	now      func() time.Time
}

func NewHandler(exporter *Exporter) *Handler {
	return &Handler{exporter: exporter, now: time.Now}
}

// ExportUtilization godoc
// @Summary      Export slot utilization as XLSX
// @Tags         slots
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        terminalId  query     string  true   "Terminal ID"
// @Param        date        query     string  false  "Day (YYYY-MM-DD), defaults to today"
// @Success      200
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /slots/statistics/export [get]
func (h *Handler) ExportUtilization(c *gin.Context) {
	terminalID, ok := api.OptionalUUIDQuery(c, "terminalId")
	if !ok {
		return
	}
	if terminalID == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "terminalId is required"})
		return
	}
	date, ok := api.OptionalDateQuery(c, "date")
	if !ok {
		return
	}
	day := h.now().UTC()
	if date != nil {
		day = *date
	}

	var buf bytes.Buffer
	name, err := h.exporter.Utilization(c.Request.Context(), &buf, terminalID, day)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
