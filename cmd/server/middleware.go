package main

import (
	"log/slog"

	"github.com/JaimeStill/dispatch-lab/internal/config"
	"github.com/JaimeStill/dispatch-lab/pkg/middleware"
)

// buildMiddleware creates and configures the middleware stack with logging and CORS.
func buildMiddleware(logger *slog.Logger, cfg *config.Config) middleware.System {
	middlewareSys := middleware.New()
	middlewareSys.Use(middleware.TrimSlash())
	middlewareSys.Use(middleware.Logger(logger))
	middlewareSys.Use(middleware.CORS(&cfg.CORS))
	return middlewareSys
}
