package config

import (
	"github.com/JaimeStill/dispatch-lab/internal/metrics"
	"github.com/JaimeStill/dispatch-lab/internal/static"
	"github.com/JaimeStill/dispatch-lab/pkg/logging"
	"github.com/JaimeStill/dispatch-lab/pkg/middleware"
)

// DefaultPort is used when neither the config file nor the environment names a port.
const DefaultPort = 3000

// Environment variable names.
const (
	EnvPort                   = "PORT"
	EnvServerHost             = "SERVER_HOST"
	EnvServerPort             = "SERVER_PORT"
	EnvServerReadTimeout      = "SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout     = "SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout  = "SERVER_SHUTDOWN_TIMEOUT"
	EnvServiceShutdownTimeout = "SERVICE_SHUTDOWN_TIMEOUT"
	EnvServiceEnv             = "SERVICE_ENV"
)

var loggingEnv = &logging.Env{
	Level:     "LOGGING_LEVEL",
	Format:    "LOGGING_FORMAT",
	AddSource: "LOGGING_ADD_SOURCE",
}

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CORS_ENABLED",
	Origins:          "CORS_ORIGINS",
	AllowedMethods:   "CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CORS_ALLOWED_HEADERS",
	AllowCredentials: "CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CORS_MAX_AGE",
}

var staticEnv = &static.Env{
	BasePath:    "STATIC_BASE_PATH",
	Index:       "STATIC_INDEX",
	MaxFileSize: "STATIC_MAX_FILE_SIZE",
}

var metricsEnv = &metrics.Env{
	Enabled: "METRICS_ENABLED",
	Path:    "METRICS_PATH",
}
