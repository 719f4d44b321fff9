package server

import (
	"context"

	"moodflix-be/internal/bootstrap"
	"moodflix-be/internal/config"
	"moodflix-be/internal/metrics"
	"moodflix-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    20 * 1024 * 1024, // webcam frames and voice clips arrive base64 encoded
		ErrorHandler: serverutils.ErrorHandlerMiddleware,
		ProxyHeader:  fiber.HeaderXForwardedFor,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CorsAllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	if cfg.Otel.Enabled {
		app.Use(otelfiber.Middleware())
	}
	app.Use(serverutils.RequestLogger(container.Logger))
	app.Use(metrics.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("Server", "Listening", map[string]interface{}{"port": s.cfg.App.Port})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.HealthController.RegisterRoutes(api)
	c.ContextController.RegisterRoutes(api)
	c.EmotionController.RegisterRoutes(api)
	c.RecommendController.RegisterRoutes(api)
	c.SelectionController.RegisterRoutes(api)
}
