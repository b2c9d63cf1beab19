package api

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/evenzaa/events-api/docs"
	"github.com/evenzaa/events-api/internal/api/handler"
	"github.com/evenzaa/events-api/internal/api/middleware"
	"github.com/evenzaa/events-api/internal/core/ports"
	"github.com/evenzaa/events-api/internal/core/service"
	"github.com/evenzaa/events-api/internal/infrastructure/http/handlers"
	"github.com/evenzaa/events-api/pkg/logger"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth   ports.AuthService
	Events ports.EventService
	Checks map[string]handlers.Check
	Logger zerolog.Logger

	Version        string
	RequestTimeout time.Duration
	CORSOrigins    []string

	// Nil means the default Prometheus registry.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.MetricsRegisterer == nil {
		d.MetricsRegisterer = prometheus.DefaultRegisterer
	}
	if d.MetricsGatherer == nil {
		d.MetricsGatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := service.ContextWithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	e.Use(logger.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "evenzaa",
		Registerer: d.MetricsRegisterer,
		Skipper:    skipOperational,
	}))
	if d.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
			Timeout:      d.RequestTimeout,
			Skipper:      skipOperational,
			ErrorHandler: passError,
		}))
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Logger)
	userHandler := handler.NewUserHandler(d.Auth, d.Events, d.Logger)
	eventHandler := handler.NewEventHandler(d.Events)
	session := middleware.Session(d.Auth)

	// --- Auth routes ---
	e.POST("/jwt/register", authHandler.RegisterCredential)
	e.POST("/jwt/login", authHandler.Login)
	e.POST("/jwt/logout", authHandler.Logout, session)

	// --- User routes ---
	e.POST("/users", userHandler.RegisterProfile)
	user := e.Group("/user", session)
	user.GET("", userHandler.Me)
	user.GET("/events", userHandler.MyEvents)
	user.GET("/events/joined", userHandler.JoinedEvents)

	// --- Event routes ---
	events := e.Group("/events")
	events.GET("", eventHandler.List)
	events.GET("/:id", eventHandler.Get)
	events.POST("", eventHandler.Create, session)
	events.PATCH("/:id", eventHandler.Update, session)
	events.DELETE("/:id", eventHandler.Delete, session)
	events.POST("/:id/join", eventHandler.Join, session)
	events.POST("/:id/leave", eventHandler.Leave, session)

	// --- Operational routes (no auth required) ---
	healthHandler := handlers.NewHealthHandler(d.Version)
	readinessHandler := handlers.NewReadinessHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: d.MetricsGatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func skipOperational(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

// passError keeps deadline errors from store calls as internal errors
// instead of echo's default 503.
func passError(err error, _ echo.Context) error {
	return err
}
