package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/api/handler"
	"github.com/carepoint/portal-client/internal/api/middleware"
	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

// Deps are the collaborators of the sandbox API.
type Deps struct {
	Accounts  ports.AccountRepository
	Clinic    ports.ClinicRepository
	JWTSecret string
	TokenTTL  time.Duration
	Log       zerolog.Logger
	// Checks are run by /health/ready in addition to the clinic store.
	Checks map[string]handler.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// Request metrics go to a per-router registry so several routers can
	// live in one process.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "sandbox",
		Registerer: reg,
	}))

	// --- Dependencies ---
	tokens := middleware.NewTokens(d.JWTSecret, d.TokenTTL)
	auth := middleware.Auth(d.JWTSecret)
	managers := middleware.RBAC(domain.RoleManager, domain.RoleAdmin)
	staff := middleware.RBAC(domain.RoleConsultant, domain.RoleManager, domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(d.Accounts, tokens, d.Log)
	employees := handler.NewEmployeeHandler(d.Clinic)
	qualifications := handler.NewQualificationHandler(d.Clinic)
	catalog := handler.NewCatalogHandler(d.Clinic)
	feedback := handler.NewFeedbackHandler(d.Clinic)
	bookings := handler.NewBookingHandler(d.Clinic, d.Log)
	dashboard := handler.NewDashboardHandler(d.Clinic)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/auth/profile", authHandler.Profile, auth)
	e.PUT("/api/auth/profile", authHandler.UpdateProfile, auth)

	// --- Clinic resources ---
	users := e.Group("/api/Users", auth)
	users.GET("/employees", employees.List)
	users.POST("", employees.Create, managers)
	users.PUT("/:id", employees.Update, managers)
	users.DELETE("/:id", employees.Delete, managers)

	quals := e.Group("/api/staffqualification", auth)
	quals.GET("", qualifications.List)
	quals.POST("", qualifications.Create, staff)
	quals.PUT("/:id", qualifications.Update, staff)
	quals.DELETE("/:id", qualifications.Delete, staff)

	e.GET("/api/ServiceCatalog", catalog.List)
	e.GET("/api/ServiceCatalog/:id", catalog.Get)

	fb := e.Group("/api/Feedback")
	fb.GET("", feedback.List)
	fb.GET("/:id", feedback.Get)
	fb.GET("/service/:serviceId", feedback.ForService)
	fb.GET("/user/:userId/service/:serviceId", feedback.ForUserAndService)
	fb.POST("", feedback.Create, auth)
	fb.PUT("/:id", feedback.Update, auth)
	fb.DELETE("/:id", feedback.Delete, auth)

	e.POST("/api/testbooking", bookings.Create, auth)

	dash := e.Group("/api/Dashboard", auth, managers)
	dash.GET("/stats", dashboard.Stats)
	dash.GET("/revenue", dashboard.Revenue)
	dash.GET("/users", dashboard.Users)
	dash.GET("/bookings", dashboard.Bookings)
	dash.GET("/services", dashboard.Services)
	dash.GET("/revenue/monthly/:year", dashboard.MonthlyRevenue)
	dash.GET("/revenue/by-service", dashboard.RevenueByService)
	dash.GET("/services/popular", dashboard.PopularServices)

	// --- Health checks and metrics (no auth required) ---
	checks := map[string]handler.Check{"clinic": d.Clinic.Ping}
	for name, check := range d.Checks {
		checks[name] = check
	}
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(checks).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		prometheus.Gatherers{prometheus.DefaultGatherer, reg},
		promhttp.HandlerOpts{},
	)))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
