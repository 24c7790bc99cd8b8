package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/dispatch-lab/internal/config"
	"github.com/JaimeStill/dispatch-lab/internal/lifecycle"
	"github.com/JaimeStill/dispatch-lab/internal/metrics"
	"github.com/JaimeStill/dispatch-lab/internal/server"
	"github.com/JaimeStill/dispatch-lab/internal/static"
	"github.com/JaimeStill/dispatch-lab/pkg/dispatch"
	"github.com/JaimeStill/dispatch-lab/pkg/logging"
	"github.com/JaimeStill/dispatch-lab/pkg/routes"
)

const metricsNamespace = "dispatch"

// ErrRouteConflict reports a configured route, such as the metrics path, that
// duplicates an earlier one and would never be reached.
var ErrRouteConflict = errors.New("route conflict")

// Service coordinates the lifecycle of all subsystems.
type Service struct {
	lifecycle *lifecycle.Coordinator
	logger    *slog.Logger
	files     *static.Files
	server    server.System
}

// NewService creates and initializes the service with all subsystems.
func NewService(cfg *config.Config) (*Service, error) {
	return newService(cfg, logging.New(&cfg.Logging))
}

func newService(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	lc := lifecycle.New()

	files, err := static.New(&cfg.Static, logger)
	if err != nil {
		return nil, fmt.Errorf("static init failed: %w", err)
	}

	var (
		recorder *metrics.Recorder
		opts     []dispatch.Option
	)
	if cfg.Metrics.IsEnabled() {
		recorder = metrics.New(metricsNamespace)
		opts = append(opts, dispatch.WithObserver(recorder))
	}

	routeSys := routes.New(logging.For(logger, "dispatch"))
	registerRoutes(routeSys, lc, recorder, cfg, files)

	dispatcher := routeSys.Build(opts...)
	if shadowed := dispatcher.Shadowed(); len(shadowed) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrRouteConflict, shadowed[0].Name)
	}

	handler := buildMiddleware(logger, cfg).Apply(dispatcher)

	return &Service{
		lifecycle: lc,
		logger:    logger,
		files:     files,
		server:    server.New(&cfg.Server, handler, logger),
	}, nil
}

// Start begins all subsystems. It returns an error wrapping server.ErrBind
// when the listen address cannot be bound.
func (s *Service) Start() error {
	s.logger.Info("starting service")

	if err := s.files.Start(s.lifecycle); err != nil {
		return fmt.Errorf("static start failed: %w", err)
	}

	if err := s.server.Start(s.lifecycle); err != nil {
		return fmt.Errorf("server start failed: %w", err)
	}

	go func() {
		s.lifecycle.WaitForStartup()
		s.logger.Info("all subsystems ready", "addr", s.server.Addr())
	}()

	return nil
}

// Addr returns the address the server is listening on.
func (s *Service) Addr() string {
	return s.server.Addr()
}

// Shutdown gracefully stops all subsystems within timeout.
func (s *Service) Shutdown(timeout time.Duration) error {
	s.logger.Info("initiating shutdown")

	if err := s.lifecycle.Shutdown(timeout); err != nil {
		return err
	}

	s.logger.Info("all subsystems shut down successfully")
	return nil
}
