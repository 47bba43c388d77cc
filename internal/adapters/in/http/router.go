package http

import (
	"log/slog"
	"net/http"
	"strings"

	"cafe/internal/api/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const apiPrefix = "/api/"

// RouterConfig assembles the HTTP surface. Metrics is optional.
type RouterConfig struct {
	Server    *Server
	JWTSecret []byte
	Metrics   http.Handler
	Logger    *slog.Logger
}

// NewRouter builds the echo instance serving the API, health probe, metrics
// and interactive docs. Only /api/ routes require a bearer token and are
// checked against the OpenAPI document.
func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	validator, err := RequestValidator()
	if err != nil {
		return nil, err
	}
	if err = registerDocs(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelWarn
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(AuthMiddleware(cfg.JWTSecret, func(c echo.Context) bool {
		return !strings.HasPrefix(c.Request().URL.Path, apiPrefix)
	}))
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	servers.RegisterHandlers(e, cfg.Server)
	return e, nil
}
