package main

import (
	"html/template"
	"log"
	"net/http"

	"vivassit/internal/config"
	"vivassit/internal/handlers"
	"vivassit/internal/logger"
	"vivassit/internal/services"
	"vivassit/internal/web"
	"vivassit/internal/wizard"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Logger
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "vivassit-onboarding")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync()

	// 3. Services
	normalizer := services.NewNormalizer(cfg)
	webhookClient := services.NewWebhookClient(cfg, zl)
	if webhookClient.ShouldSkip() {
		zl.Warn("Webhook URL not configured, deliveries will be skipped",
			zap.String("webhook_url", cfg.WebhookURL))
	}

	// 4. API Server & HTML Renderer
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Init Template engine
	renderer := &web.TemplateRenderer{
		Templates: map[string]*template.Template{
			"landing.html":    template.Must(template.ParseFiles("web/templates/layout.html", "web/templates/landing.html")),
			"onboarding.html": template.Must(template.ParseFiles("web/templates/layout.html", "web/templates/onboarding.html")),
		},
	}
	e.Renderer = renderer

	// Static files for Web UI
	e.Static("/static", "web")

	// Pages
	e.GET("/", func(c echo.Context) error {
		return c.Render(http.StatusOK, "landing.html", nil)
	})
	e.GET("/onboarding", func(c echo.Context) error {
		return c.Render(http.StatusOK, "onboarding.html", map[string]any{
			"Steps":    wizard.Steps(),
			"Features": wizard.DefaultFeatures(),
		})
	})

	// API Routes
	h := handlers.NewOnboardingHandler(cfg, normalizer, webhookClient, zl)
	api := e.Group("/api")
	handlers.RegisterRoutes(api, h)

	zl.Info("Vivassit onboarding server starting",
		zap.String("addr", cfg.ListenAddr),
		zap.Bool("strict_delivery", cfg.StrictDelivery),
	)
	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}
