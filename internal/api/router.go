package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/lewkins/storefront-api/docs"
	"github.com/lewkins/storefront-api/internal/api/handler"
	"github.com/lewkins/storefront-api/internal/api/middleware"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

// Deps is everything the router needs to wire handlers and the gate.
type Deps struct {
	Auth     ports.AuthService
	Products ports.ProductService
	Orders   ports.OrderService
	Tokens   ports.TokenService
	Users    middleware.UserLookup

	// Health lists the optional backing services probed by /api/health/ready.
	Health map[string]handler.Pinger

	Log         zerolog.Logger
	CORSOrigins []string

	// Registry receives the HTTP metrics. Nil means the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(d.CORSOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Idempotency-Key"},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "storefront",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	productHandler := handler.NewProductHandler(d.Products)
	orderHandler := handler.NewOrderHandler(d.Orders)
	healthHandler := handler.NewHealthHandler(d.Health)

	authenticated := middleware.Authorize(d.Tokens, d.Users)
	adminOnly := middleware.AdminOnly(d.Tokens, d.Users)

	api := e.Group("/api")

	// --- Auth & accounts ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify-token", authHandler.VerifyToken)
	auth.GET("/profile", authHandler.Profile, authenticated)
	auth.PUT("/profile", authHandler.UpdateProfile, authenticated)
	auth.PUT("/change-password", authHandler.ChangePassword, authenticated)
	auth.GET("/users", authHandler.ListUsers, adminOnly)
	auth.PUT("/users/:id/role", authHandler.SetRole, adminOnly)
	auth.DELETE("/users/:id", authHandler.DeleteUser, adminOnly)

	// --- Catalog ---
	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, adminOnly)
	products.PUT("/:id", productHandler.Update, adminOnly)
	products.DELETE("/:id", productHandler.Delete, adminOnly)

	// --- Orders ---
	orders := api.Group("/orders")
	orders.POST("", orderHandler.Create, authenticated)
	orders.GET("", orderHandler.List, authenticated)
	orders.GET("/stats", orderHandler.Stats, adminOnly)
	orders.GET("/:id", orderHandler.Get, authenticated)
	orders.GET("/:id/events", orderHandler.Events, authenticated)
	orders.PUT("/:id/status", orderHandler.UpdateStatus, adminOnly)
	orders.DELETE("/:id", orderHandler.Cancel, authenticated)

	// --- Health probes (no auth required) ---
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", healthHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
