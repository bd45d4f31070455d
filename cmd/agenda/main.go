package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agenda-api/internal/handler"
	"agenda-api/internal/middleware"
	"agenda-api/internal/service"
	"agenda-api/pkg/config"
	"agenda-api/pkg/database"
	"agenda-api/pkg/jwtutil"
	"agenda-api/pkg/logger"
	"agenda-api/prometheus"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agenda",
		Short: "Multi-tenant scheduling platform API",
	}

	rootCmd.AddCommand(serveCmd(), initSuperadminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger.InitLogger(cfg)
			log := logger.GetLogger()
			log.Info("starting agenda-api", zap.String("environment", cfg.Server.Env))

			db, err := database.Open(&cfg.DB)
			if err != nil {
				log.Fatal("failed to initialize database", zap.Error(err))
			}
			log.Info("database connection established")

			jwt := jwtutil.New(&cfg.JWT)
			svc := service.New(db, log)
			h := handler.New(svc, jwt)

			e := newServer(h, jwt, log)

			log.Info("starting server", zap.String("port", cfg.Server.Port))
			if err := e.Start(":" + cfg.Server.Port); err != nil {
				log.Fatal("failed to start server", zap.Error(err))
			}
			return nil
		},
	}
}

// newServer wires the echo instance. Order of the global middleware
// matters: request id before the logger, logger before metrics.
func newServer(h *handler.Handler, jwt *jwtutil.JWTUtil, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", h.Metrics)

	auth := e.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.Register)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware(jwt))

	api.GET("/auth/profile", h.Profile)
	api.POST("/auth/change-password", h.ChangePassword)

	tenants := api.Group("/tenants")
	tenants.POST("", h.CreateTenant)
	tenants.GET("", h.ListTenants)
	tenants.GET("/:id", h.GetTenant)
	tenants.PATCH("/:id", h.UpdateTenant)
	tenants.DELETE("/:id", h.DeleteTenant)
	tenants.PATCH("/:id/theme", h.UpdateTheme)

	api.GET("/themes", h.ListThemes)

	users := api.Group("/users")
	users.POST("", h.CreateUser)
	users.GET("", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.PATCH("/:id", h.UpdateUser)
	users.POST("/:id/activate", h.ActivateUser)
	users.DELETE("/:id", h.DeleteUser)

	clients := api.Group("/clients")
	clients.POST("", h.CreateClient)
	clients.GET("", h.ListClients)
	clients.GET("/:id", h.GetClient)
	clients.PATCH("/:id", h.UpdateClient)
	clients.DELETE("/:id", h.DeleteClient)
	clients.GET("/:id/stats", h.ClientStats)

	appts := api.Group("/appointments")
	appts.POST("", h.CreateAppointment)
	appts.GET("", h.ListAppointments)
	appts.GET("/calendar", h.Calendar)
	appts.GET("/:id", h.GetAppointment)
	appts.PATCH("/:id", h.UpdateAppointment)
	appts.DELETE("/:id", h.DeleteAppointment)

	api.GET("/dashboard/stats", h.DashboardStats)

	return e
}
