package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/config"
)

// Deps are the infrastructure handles the HTTP layer needs besides the
// domain services. Stream may be nil, which disables /events/stream.
type Deps struct {
	DB      *sqlx.DB
	Redis   *redis.Client
	Stream  Subscriber
	Limiter *RateLimiter
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, svc *Services, deps Deps) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	api.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.OTelServiceName))
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.CORSOrigin))
	if deps.Limiter != nil {
		router.Use(deps.Limiter.Middleware())
	}
	router.Use(APIVersionMiddleware())

	registerRoutes(router, svc, deps)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called, then returns
// http.ErrServerClosed.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
