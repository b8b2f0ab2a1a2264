package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/inventory-api/docs"
	"github.com/99minutos/inventory-api/internal/api/handler"
	"github.com/99minutos/inventory-api/internal/api/middleware"
	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

const (
	defaultBodyLimit = "1M"

	authRateLimit   = 10
	authRateWindow  = 15 * time.Minute
	authRateMessage = "Trop de tentatives de connexion, réessayez plus tard"
	apiRateLimit    = 100
	apiRateWindow   = time.Minute
)

// Dependencies carries everything the router wires into handlers and gates.
type Dependencies struct {
	Logger zerolog.Logger

	Auth     ports.AuthService
	Products ports.ProductService
	Orders   ports.OrderService

	Tokens ports.TokenVerifier
	Users  middleware.UserFinder

	// RateLimiter backs the fixed-window limiters; nil disables rate limiting.
	RateLimiter middleware.WindowCounter

	// Health lists the dependencies pinged by GET /health/ready.
	Health []handler.DependencyCheck

	// Metrics receives the HTTP collectors and backs GET /metrics. nil uses
	// the default Prometheus registry.
	Metrics *prometheus.Registry

	BodyLimit string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Client IP is the socket peer; forwarding headers are ignored.
	e.IPExtractor = echo.ExtractIPDirect()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	bodyLimit := deps.BodyLimit
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}

	promMW := echoprometheus.MiddlewareConfig{Namespace: "inventory", Subsystem: "http"}
	promHandler := echoprometheus.HandlerConfig{}
	if deps.Metrics != nil {
		promMW.Registerer = deps.Metrics
		promHandler.Gatherer = deps.Metrics
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{AllowOrigins: []string{"*"}}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promMW))

	// --- Gates ---
	var apiMW, authMW []echo.MiddlewareFunc
	if deps.RateLimiter != nil {
		apiMW = append(apiMW, middleware.RateLimit(middleware.RateLimitConfig{
			Name:    "api",
			Limit:   apiRateLimit,
			Window:  apiRateWindow,
			Counter: deps.RateLimiter,
			Logger:  deps.Logger,
		}))
		authMW = append(authMW, middleware.RateLimit(middleware.RateLimitConfig{
			Name:    "auth",
			Limit:   authRateLimit,
			Window:  authRateWindow,
			Message: authRateMessage,
			Counter: deps.RateLimiter,
			Logger:  deps.Logger,
		}))
	}
	authenticate := middleware.Authenticate(deps.Tokens, deps.Users)
	adminOnly := chain(apiMW, authenticate, middleware.Authorize(domain.RoleAdmin))
	anyUser := chain(apiMW, authenticate, middleware.Authorize(domain.RoleUser, domain.RoleAdmin))
	authRoutes := chain(apiMW, authMW...)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	productHandler := handler.NewProductHandler(deps.Products)
	orderHandler := handler.NewOrderHandler(deps.Orders)
	healthHandler := handler.NewHealthHandler(deps.Logger, deps.Health...)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register, authRoutes...)
	auth.POST("/login", authHandler.Login, authRoutes...)

	// --- Product routes (reads public, writes admin) ---
	products := e.Group("/api/products")
	products.GET("", productHandler.List, apiMW...)
	products.GET("/:id", productHandler.Get, apiMW...)
	products.POST("", productHandler.Create, adminOnly...)
	products.PUT("/:id", productHandler.Update, adminOnly...)
	products.DELETE("/:id", productHandler.Delete, adminOnly...)

	// --- Order routes (authenticated) ---
	orders := e.Group("/api/orders")
	orders.GET("", orderHandler.List, anyUser...)
	orders.GET("/:id", orderHandler.Get, anyUser...)
	orders.POST("", orderHandler.Create, anyUser...)

	// --- Health probes, metrics, docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(promHandler))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// chain returns a fresh slice of base followed by more.
func chain(base []echo.MiddlewareFunc, more ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(base)+len(more))
	out = append(out, base...)
	return append(out, more...)
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
