package static

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/docker/go-units"
	"github.com/gabriel-vasile/mimetype"

	"github.com/JaimeStill/dispatch-lab/pkg/dispatch"
)

// Handler serves the file named by the request path. Missing files and
// rejected paths surface as dispatch not found errors; anything else is a
// handler fault.
func (f *Files) Handler() dispatch.Handler {
	return func(w *dispatch.Response, r *http.Request) error {
		file, err := f.Retrieve(r.Context(), r.URL.Path)
		if err != nil {
			return err
		}

		f.logger.DebugContext(r.Context(), "serving file",
			"file", file.Path,
			"size", units.HumanSize(float64(len(file.Data))),
		)

		w.Header().Set("Last-Modified", file.ModTime.UTC().Format(http.TimeFormat))
		return w.Send(http.StatusOK, ContentType(file), file.Data)
	}
}

// ContentType returns the MIME type for file, from its extension when known
// and from its content otherwise.
func ContentType(file *File) string {
	if ct := mime.TypeByExtension(filepath.Ext(file.Path)); ct != "" {
		return ct
	}
	return mimetype.Detect(file.Data).String()
}
