package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/events"
	"github.com/abakymuk/DriverOS/internal/logger"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Readiness check
// @Description  Pings the database and Redis.
// @Tags         system
// @Produce      json
// @Success      200 {object} api.ReadyResponse
// @Failure      503 {object} api.ReadyResponse
// @Router       /health/ready [get]
func Ready(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		res := api.ReadyResponse{Status: "ready", Checks: make(map[string]string, len(checks))}
		code := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.Warn("readiness check failed", "check", name, "error", err.Error())
				res.Checks[name] = "down"
				res.Status = "not ready"
				code = http.StatusServiceUnavailable
				continue
			}
			res.Checks[name] = "up"
		}
		c.JSON(code, res)
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Subscriber streams published events. *events.RedisPublisher implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) (<-chan events.Event, error)
}

// @Summary      Live event stream
// @Description  Server-Sent Events carrying slot, trip, container and vessel events. Empty channels means all.
// @Tags         dashboard
// @Produce      text/event-stream
// @Param        channels  query  string  false  "Comma separated channels, e.g. slots,trips"
// @Success      200
// @Failure      503  {object}  api.ErrorResponse
// @Security     BearerAuth
// @Router       /events/stream [get]
func EventStream(sub Subscriber, heartbeat time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var channels []string
		if raw := c.Query("channels"); raw != "" {
			for _, ch := range strings.Split(raw, ",") {
				if ch = strings.TrimSpace(ch); ch != "" {
					channels = append(channels, ch)
				}
			}
		}

		ctx := c.Request.Context()
		stream, err := sub.Subscribe(ctx, channels...)
		if err != nil {
			logger.Error("event stream subscribe failed", "error", err.Error())
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "event stream unavailable"})
			return
		}

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case <-ctx.Done():
				return false
			case ev, ok := <-stream:
				if !ok {
					return false
				}
				c.SSEvent(string(ev.Type), ev)
				return true
			case <-ticker.C:
				c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
				return true
			}
		})
	}
}
