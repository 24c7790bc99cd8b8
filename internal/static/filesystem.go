package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/JaimeStill/dispatch-lab/internal/lifecycle"
	"github.com/JaimeStill/dispatch-lab/pkg/logging"
)

// File is a file read from the base directory.
type File struct {
	Path    string
	Data    []byte
	ModTime time.Time
}

// Files reads files beneath a base directory.
type Files struct {
	basePath string
	index    string
	maxSize  int64
	logger   *slog.Logger
}

// New creates a file reader. The base path is resolved to an absolute path
// during construction; cfg must already be finalized.
func New(cfg *Config, logger *slog.Logger) (*Files, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	index := cfg.Index
	if index == "" {
		index = "index.html"
	}

	return &Files{
		basePath: absPath,
		index:    index,
		maxSize:  cfg.MaxFileSizeBytes(),
		logger:   logging.For(logger, "static"),
	}, nil
}

// BasePath returns the absolute base directory.
func (f *Files) BasePath() string {
	return f.basePath
}

// Start registers a startup hook that ensures the base directory exists.
func (f *Files) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("starting static file system", "base_path", f.basePath)

	lc.OnStartup(func() {
		if err := os.MkdirAll(f.basePath, 0755); err != nil {
			f.logger.Error("static directory initialization failed", "error", err)
			return
		}
		f.logger.Info("static directory ready")
	})

	return nil
}

// Retrieve reads the file named by a URL path. "/" and directory paths resolve
// to the index file. It returns ErrNotFound when the file does not exist,
// ErrInvalidKey when the path would leave the base directory, and wraps any
// other failure. A cancelled ctx abandons the read.
func (f *Files) Retrieve(ctx context.Context, urlPath string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := strings.TrimPrefix(urlPath, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		key += f.index
	}

	path, err := f.fullPath(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, classify("stat file", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, f.index)
		if info, err = os.Stat(path); err != nil {
			return nil, classify("stat file", err)
		}
		if info.IsDir() {
			return nil, ErrNotFound
		}
	}
	if f.maxSize > 0 && info.Size() > f.maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, classify("open file", err)
	}
	defer file.Close()

	var r io.Reader = contextReader{ctx: ctx, r: file}
	if f.maxSize > 0 {
		r = io.LimitReader(r, f.maxSize+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, classify("read file", err)
	}
	if f.maxSize > 0 && int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxSize)
	}

	return &File{
		Path:    path,
		Data:    data,
		ModTime: info.ModTime(),
	}, nil
}

func (f *Files) fullPath(key string) (string, error) {
	if key == "" || strings.ContainsRune(key, 0) {
		return "", ErrInvalidKey
	}

	cleaned := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(cleaned) || filepath.VolumeName(cleaned) != "" || escapes(cleaned) {
		return "", ErrInvalidKey
	}

	for _, segment := range strings.Split(filepath.ToSlash(cleaned), "/") {
		if strings.HasPrefix(segment, ".") {
			return "", ErrInvalidKey
		}
	}

	fullPath := filepath.Join(f.basePath, cleaned)

	rel, err := filepath.Rel(f.basePath, fullPath)
	if err != nil || escapes(rel) {
		return "", ErrInvalidKey
	}

	return fullPath, nil
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func classify(op string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
