package main

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/surveyfax/surveyfax/internal/config"
	"github.com/surveyfax/surveyfax/internal/domain/report"
	"github.com/surveyfax/surveyfax/internal/platform/auth"
	"github.com/surveyfax/surveyfax/internal/platform/blobstore"
	"github.com/surveyfax/surveyfax/internal/platform/db"
	"github.com/surveyfax/surveyfax/internal/platform/middleware"
	"github.com/surveyfax/surveyfax/internal/platform/openapi"
)

const version = "0.1.0"

type serverDeps struct {
	archive blobstore.BlobStore
	// pinger is nil when reports are archived in memory.
	pinger db.Pinger
	// registry defaults to a fresh registry with the Go and process collectors.
	registry *prometheus.Registry
}

func newRenderer(cfg *config.Config) (*report.Renderer, error) {
	size, err := report.ParsePageSize(cfg.PageSize)
	if err != nil {
		return nil, err
	}
	layout := report.DefaultLayout()
	layout.PageSize = size
	return report.NewRenderer(
		report.WithLayout(layout),
		report.WithCoverSource(report.NewCoverSource(cfg.CoverTemplate)),
	), nil
}

// rateLimitKey buckets authenticated callers by user and everyone else by IP.
func rateLimitKey(c echo.Context) string {
	if uid := auth.UserIDFromContext(c.Request().Context()); uid != "" {
		return "user:" + uid
	}
	return "ip:" + c.RealIP()
}

func newServer(cfg *config.Config, logger zerolog.Logger, deps serverDeps) (*echo.Echo, error) {
	renderer, err := newRenderer(cfg)
	if err != nil {
		return nil, err
	}

	registry := deps.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	metrics, err := report.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	svc := report.NewService(renderer, logger)
	svc.SetMetrics(metrics)
	if cfg.ArchiveEnabled && deps.archive != nil {
		svc.SetArchive(deps.archive)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.TLSEnabled || cfg.IsProduction()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout, "/health", "/metrics"))

	// Auth middleware
	if cfg.ResolvedAuthMode() == "development" {
		e.Use(auth.DevAuthMiddleware(auth.AuthSkipper))
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
	if deps.pinger != nil {
		e.GET("/health/db", db.HealthHandler(deps.pinger))
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	archived := cfg.ArchiveEnabled && deps.archive != nil
	openapi.NewGenerator(version, "/", archived).RegisterRoutes(e.Group("/api"))

	apiV1 := e.Group("/api/v1", middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		KeyFunc:           rateLimitKey,
	}))

	report.NewHandler(svc, logger).RegisterRoutes(apiV1)
	if archived {
		blobstore.NewBlobHandler(deps.archive).RegisterRoutes(apiV1)
	}

	return e, nil
}
