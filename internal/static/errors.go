// Package static serves files from a fixed base directory. Lookups never
// escape the base directory, and a missing file is reported distinctly from
// any other read failure so the dispatcher can answer 404 or 500.
package static

import (
	"errors"
	"fmt"

	"github.com/JaimeStill/dispatch-lab/pkg/dispatch"
)

// Static file errors. ErrNotFound and ErrInvalidKey wrap dispatch.ErrNotFound.
var (
	// ErrNotFound indicates the requested file does not exist.
	ErrNotFound = fmt.Errorf("static: file not found: %w", dispatch.ErrNotFound)

	// ErrInvalidKey indicates the path escapes the base directory or names a
	// hidden file.
	ErrInvalidKey = fmt.Errorf("static: invalid path: %w", dispatch.ErrNotFound)

	// ErrPermissionDenied indicates the file exists but cannot be read.
	ErrPermissionDenied = errors.New("static: permission denied")

	// ErrTooLarge indicates the file exceeds the configured maximum size.
	ErrTooLarge = errors.New("static: file too large")
)
