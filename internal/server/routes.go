package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abakymuk/DriverOS/internal/auth"
	"github.com/abakymuk/DriverOS/internal/booking"
	"github.com/abakymuk/DriverOS/internal/container"
	"github.com/abakymuk/DriverOS/internal/dashboard"
	"github.com/abakymuk/DriverOS/internal/driver"
	"github.com/abakymuk/DriverOS/internal/report"
	"github.com/abakymuk/DriverOS/internal/slot"
	"github.com/abakymuk/DriverOS/internal/terminal"
	"github.com/abakymuk/DriverOS/internal/trip"
	"github.com/abakymuk/DriverOS/internal/user"
	"github.com/abakymuk/DriverOS/internal/vessel"
)

const streamHeartbeat = 25 * time.Second

func registerRoutes(router *gin.Engine, svc *Services, deps Deps) {
	users := user.NewHandler(svc.Users)
	terminals := terminal.NewHandler(svc.Terminals)
	vessels := vessel.NewHandler(svc.Vessels)
	containers := container.NewHandler(svc.Containers)
	drivers := driver.NewHandler(svc.Drivers)
	slots := slot.NewHandler(svc.Slots)
	bookings := booking.NewHandler(svc.Bookings)
	trips := trip.NewHandler(svc.Trips)
	reports := report.NewHandler(svc.Reports)
	dash := dashboard.NewHandler(svc.Dashboard)

	checks := map[string]Check{}
	if deps.DB != nil {
		checks["database"] = deps.DB.PingContext
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}

	router.GET("/health", Health)
	router.GET("/health/ready", Ready(checks))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	public := router.Group("/auth")
	{
		public.POST("/register", users.Register)
		public.POST("/login", users.Login)
		public.POST("/refresh", users.Refresh)
	}

	authed := router.Group("/")
	authed.Use(auth.Authenticate(svc.Tokens))
	write := auth.RequireRole(auth.RoleAdmin, auth.RoleDispatcher)

	authed.GET("/me", users.GetMe)

	t := authed.Group("/terminals")
	{
		t.GET("", terminals.List)
		t.GET("/code/:code", terminals.GetByCode)
		t.GET("/:id", terminals.Get)
		t.GET("/:id/capacity", terminals.Capacity)
		t.GET("/:id/settings", terminals.GetSettings)
		t.GET("/:id/active-vessels", vessels.ActiveAtTerminal)
		t.GET("/:id/available-slots", slots.AvailableAtTerminal)
		t.POST("", write, terminals.Create)
		t.PATCH("/:id", write, terminals.Update)
		t.PUT("/:id/settings", write, terminals.UpdateSettings)
		t.DELETE("/:id", write, terminals.Delete)
	}

	v := authed.Group("/vessels")
	{
		v.GET("", vessels.List)
		v.GET("/active", vessels.ListActive)
		v.GET("/terminal/:terminalId", vessels.ListByTerminal)
		v.GET("/:id", vessels.Get)
		v.GET("/:id/containers/count", vessels.ContainerCounts)
		v.GET("/:id/schedule", vessels.Schedules)
		v.POST("", write, vessels.Create)
		v.POST("/:id/schedule", write, vessels.AddSchedule)
		v.PATCH("/:id", write, vessels.Update)
		v.PATCH("/:id/status", write, vessels.UpdateStatus)
		v.DELETE("/:id", write, vessels.Delete)
	}

	c := authed.Group("/containers")
	{
		c.GET("", containers.List)
		c.GET("/ready", containers.ListReady)
		c.GET("/on-hold", containers.ListOnHold)
		c.GET("/statistics", containers.Statistics)
		c.GET("/number/:cntrNo", containers.GetByNumber)
		c.GET("/terminal/:terminalId", containers.ListByTerminal)
		c.GET("/vessel/:vesselId", containers.ListByVessel)
		c.GET("/:id", containers.Get)
		c.GET("/:id/holds", containers.Holds)
		c.POST("", write, containers.Create)
		c.POST("/:id/holds", write, containers.AddHold)
		c.PATCH("/:id", write, containers.Update)
		c.PATCH("/:id/status", write, containers.UpdateStatus)
		c.PATCH("/:id/holds/:holdId/resolve", write, containers.ResolveHold)
		c.DELETE("/:id", write, containers.Delete)
	}

	d := authed.Group("/drivers")
	{
		d.GET("", drivers.List)
		d.GET("/available", drivers.ListAvailable)
		d.GET("/active", drivers.ListActive)
		d.GET("/carrier/:carrierId", drivers.ListByCarrier)
		d.GET("/:id", drivers.Get)
		d.GET("/:id/availability", drivers.Availability)
		d.POST("", write, drivers.Create)
		d.POST("/:id/availability", write, drivers.AddAvailability)
		d.PATCH("/:id", write, drivers.Update)
		d.PATCH("/:id/status", write, drivers.UpdateStatus)
		d.DELETE("/:id", write, drivers.Delete)
	}

	s := authed.Group("/slots")
	{
		s.GET("", slots.List)
		s.GET("/available", slots.ListAvailable)
		s.GET("/upcoming", slots.ListUpcoming)
		s.GET("/statistics", slots.Statistics)
		s.GET("/statistics/export", reports.ExportUtilization)
		s.GET("/terminal/:terminalId", slots.ListByTerminal)
		s.GET("/terminal/:terminalId/utilization", slots.HourlyUtilization)
		s.GET("/:id", slots.Get)
		s.GET("/:id/bookings", bookings.ListBySlot)
		s.POST("/:id/book", bookings.Book)
		s.DELETE("/:id/bookings/:bookingId", bookings.Cancel)
		s.POST("", write, slots.Create)
		s.POST("/generate", write, slots.Generate)
		s.PATCH("/:id", write, slots.Update)
		s.PATCH("/:id/status", write, slots.UpdateStatus)
		s.DELETE("/:id", write, slots.Delete)
	}

	tr := authed.Group("/trips")
	{
		tr.GET("", trips.List)
		tr.GET("/active", trips.ListActive)
		tr.GET("/completed", trips.ListCompleted)
		tr.GET("/statistics", trips.Statistics)
		tr.GET("/driver/:driverId", trips.ListByDriver)
		tr.GET("/driver/:driverId/performance", trips.DriverPerformance)
		tr.GET("/container/:containerId", trips.ListByContainer)
		tr.GET("/:id", trips.Get)
		tr.GET("/:id/turn-time", trips.TurnTime)
		tr.GET("/:id/events", trips.Events)
		tr.POST("", trips.Create)
		tr.POST("/:id/events", trips.AddEvent)
		tr.PATCH("/:id", trips.Update)
		tr.PATCH("/:id/status", trips.UpdateStatus)
		tr.PUT("/:id/metrics", trips.UpdateMetrics)
		tr.DELETE("/:id", trips.Delete)
	}

	authed.GET("/dashboard/summary", dash.Summary)
	if deps.Stream != nil {
		authed.GET("/events/stream", EventStream(deps.Stream, streamHeartbeat))
	}
}
