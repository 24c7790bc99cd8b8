package dispatch_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dispatch-lab/pkg/dispatch"
)

func siteRoutes() []dispatch.Route {
	return []dispatch.Route{
		{Method: http.MethodGet, Pattern: "/", Handler: dispatch.Text(http.StatusOK, "Welcome to the Homepage!")},
		{Method: http.MethodGet, Pattern: "/about", Handler: dispatch.Text(http.StatusOK, "This is the About Page.")},
	}
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDispatcher_Scenario(t *testing.T) {
	d := dispatch.New(siteRoutes())

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "Welcome to the Homepage!"},
		{"/about", http.StatusOK, "This is the About Page."},
		{"/missing", http.StatusNotFound, "404 Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, d, http.MethodGet, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
			assert.Equal(t, dispatch.ContentTypeText, rec.Header().Get("Content-Type"))
		})
	}
}

func TestDispatcher_FirstMatchWins(t *testing.T) {
	d := dispatch.New([]dispatch.Route{
		{Method: http.MethodGet, Pattern: "/docs", Prefix: true, Handler: dispatch.Text(http.StatusOK, "first")},
		{Method: http.MethodGet, Pattern: "/docs/guide", Handler: dispatch.Text(http.StatusOK, "second")},
	})

	rec := serve(t, d, http.MethodGet, "/docs/guide")
	assert.Equal(t, "first", rec.Body.String())

	route, ok := d.Match(http.MethodGet, "/docs/guide")
	require.True(t, ok)
	assert.Equal(t, "GET /docs*", route.Name)
}

func TestDispatcher_DuplicateRouteShadowed(t *testing.T) {
	d := dispatch.New([]dispatch.Route{
		{Method: http.MethodGet, Pattern: "/about", Handler: dispatch.Text(http.StatusOK, "earlier")},
		{Method: http.MethodGet, Pattern: "/about", Handler: dispatch.Text(http.StatusOK, "later")},
		{Method: http.MethodPost, Pattern: "/about", Handler: dispatch.Text(http.StatusOK, "post")},
	})

	rec := serve(t, d, http.MethodGet, "/about")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "earlier", rec.Body.String())

	shadowed := d.Shadowed()
	require.Len(t, shadowed, 1)
	assert.Equal(t, "GET /about", shadowed[0].Name)
	assert.Len(t, d.Routes(), 3)

	rec = serve(t, d, http.MethodPost, "/about")
	assert.Equal(t, "post", rec.Body.String())
}

func TestDispatcher_MethodMatching(t *testing.T) {
	d := dispatch.New([]dispatch.Route{
		{Method: http.MethodGet, Pattern: "/about", Handler: dispatch.Text(http.StatusOK, "about")},
		{Pattern: "/any", Handler: dispatch.Text(http.StatusOK, "any")},
	})

	t.Run("wrong method is not found", func(t *testing.T) {
		rec := serve(t, d, http.MethodPost, "/about")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("HEAD matches GET without body", func(t *testing.T) {
		rec := serve(t, d, http.MethodHead, "/about")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "5", rec.Header().Get("Content-Length"))
	})

	t.Run("empty method matches all", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
			rec := serve(t, d, method, "/any")
			assert.Equal(t, http.StatusOK, rec.Code, method)
		}
	})
}

func TestDispatcher_Match_InvalidInput(t *testing.T) {
	d := dispatch.New([]dispatch.Route{
		{Pattern: "", Prefix: true, Handler: dispatch.Text(http.StatusOK, "everything")},
	})

	_, ok := d.Match("", "/")
	assert.False(t, ok)

	_, ok = d.Match(http.MethodGet, "about")
	assert.False(t, ok)

	_, ok = d.Match(http.MethodGet, "/about")
	assert.True(t, ok)
}

func TestDispatcher_HandlerError(t *testing.T) {
	d := dispatch.New([]dispatch.Route{
		{Method: http.MethodGet, Pattern: "/broken", Handler: func(w *dispatch.Response, r *http.Request) error {
			w.Header().Set("X-Partial", "yes")
			fmt.Fprint(w, "partial output")
			return errors.New("disk on fire")
		}},
		{Method: http.MethodGet, Pattern: "/ok", Handler: dispatch.Text(http.StatusOK, "still alive")},
	})

	rec := serve(t, d, http.MethodGet, "/broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, dispatch.InternalErrorBody, rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Partial"))

	rec = serve(t, d, http.MethodGet, "/ok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "still alive", rec.Body.String())
}

func TestDispatcher_HandlerPanic(t *testing.T) {
	var outcomes []dispatch.Outcome
	d := dispatch.New([]dispatch.Route{
		{Method: http.MethodGet, Pattern: "/panic", Handler: func(w *dispatch.Response, r *http.Request) error {
			panic("boom")
		}},
	}, dispatch.WithObserver(dispatch.ObserverFunc(func(o dispatch.Outcome) {
		outcomes = append(outcomes, o)
	})))

	require.NotPanics(t, func() {
		rec := serve(t, d, http.MethodGet, "/panic")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	require.Len(t, outcomes, 1)
	out := outcomes[0]
	assert.Equal(t, dispatch.ResultFault, out.Result)

	var fault *dispatch.HandlerFault
	require.ErrorAs(t, out.Err, &fault)
	assert.Equal(t, "/panic", fault.Path)
	assert.Equal(t, http.MethodGet, fault.Method)

	var perr *dispatch.PanicError
	require.ErrorAs(t, out.Err, &perr)
	assert.Equal(t, "boom", perr.Value)
	assert.NotEmpty(t, perr.Stack)
}

func TestDispatcher_HandlerNotFoundError(t *testing.T) {
	d := dispatch.New([]dispatch.Route{
		{Method: http.MethodGet, Pattern: "/files/", Prefix: true, Handler: func(w *dispatch.Response, r *http.Request) error {
			return fmt.Errorf("lookup %s: %w", r.URL.Path, dispatch.ErrNotFound)
		}},
	})

	rec := serve(t, d, http.MethodGet, "/files/gone.txt")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dispatch.NotFoundBody, rec.Body.String())
}

func TestDispatcher_CustomNotFound(t *testing.T) {
	d := dispatch.New(siteRoutes(), dispatch.WithNotFound(dispatch.HTML(http.StatusNotFound, "<h1>404 - Not Found</h1>")))

	rec := serve(t, d, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "<h1>404 - Not Found</h1>", rec.Body.String())
	assert.Equal(t, dispatch.ContentTypeHTML, rec.Header().Get("Content-Type"))
}

func TestDispatcher_FailingNotFoundHandler(t *testing.T) {
	d := dispatch.New(nil, dispatch.WithNotFound(func(w *dispatch.Response, r *http.Request) error {
		return dispatch.ErrNotFound
	}))

	rec := serve(t, d, http.MethodGet, "/anything")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dispatch.NotFoundBody, rec.Body.String())
}

func TestDispatcher_Idempotent(t *testing.T) {
	d := dispatch.New(siteRoutes())

	first := serve(t, d, http.MethodGet, "/about")
	second := serve(t, d, http.MethodGet, "/about")

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Header(), second.Header())
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestDispatcher_Handle_ReturnsClosedResponse(t *testing.T) {
	d := dispatch.New(siteRoutes())

	res := d.Handle(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, res.Closed())
	assert.Equal(t, http.StatusOK, res.Status())

	_, err := res.Write([]byte("more"))
	assert.ErrorIs(t, err, dispatch.ErrResponseClosed)
}

func TestDispatcher_UnclosedResponseIsClosed(t *testing.T) {
	d := dispatch.New([]dispatch.Route{
		{Method: http.MethodGet, Pattern: "/stream", Handler: func(w *dispatch.Response, r *http.Request) error {
			_, err := w.Write([]byte("chunk"))
			return err
		}},
	})

	res := d.Handle(httptest.NewRequest(http.MethodGet, "/stream", nil))
	assert.True(t, res.Closed())
	assert.Equal(t, "chunk", string(res.Body()))
}

func TestDispatcher_Native(t *testing.T) {
	d := dispatch.New([]dispatch.Route{
		{Method: http.MethodGet, Pattern: "/native", Handler: dispatch.Native(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte(`{"ok":true}`))
		}))},
	})

	rec := serve(t, d, http.MethodGet, "/native")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestDispatcher_SkipsRoutesWithoutHandler(t *testing.T) {
	d := dispatch.New([]dispatch.Route{
		{Method: http.MethodGet, Pattern: "/"},
	})

	assert.Empty(t, d.Routes())
	rec := serve(t, d, http.MethodGet, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatcher_Observer(t *testing.T) {
	var mu sync.Mutex
	results := map[string]dispatch.Result{}

	d := dispatch.New([]dispatch.Route{
		{Method: http.MethodGet, Pattern: "/", Handler: dispatch.Text(http.StatusOK, "home")},
		{Method: http.MethodGet, Pattern: "/fail", Handler: func(w *dispatch.Response, r *http.Request) error {
			return errors.New("fail")
		}},
	}, dispatch.WithObserver(dispatch.ObserverFunc(func(o dispatch.Outcome) {
		mu.Lock()
		defer mu.Unlock()
		results[o.Path] = o.Result
	})))

	serve(t, d, http.MethodGet, "/")
	serve(t, d, http.MethodGet, "/fail")
	serve(t, d, http.MethodGet, "/nope")

	assert.Equal(t, dispatch.ResultOK, results["/"])
	assert.Equal(t, dispatch.ResultFault, results["/fail"])
	assert.Equal(t, dispatch.ResultNotFound, results["/nope"])
}

func TestDispatcher_Concurrent(t *testing.T) {
	d := dispatch.New(siteRoutes())

	var wg sync.WaitGroup
	errs := make(chan string, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path, want := "/about", "This is the About Page."
			if i%2 == 0 {
				path, want = "/", "Welcome to the Homepage!"
			}
			res := d.Handle(httptest.NewRequest(http.MethodGet, path, nil))
			if got := string(res.Body()); got != want {
				errs <- fmt.Sprintf("%s: got %q, want %q", path, got, want)
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "ok", dispatch.ResultOK.String())
	assert.Equal(t, "not_found", dispatch.ResultNotFound.String())
	assert.Equal(t, "handler_failed", dispatch.ResultFault.String())
	assert.Equal(t, "unknown", dispatch.Result(42).String())
}

func TestDispatcher_PanickingObserverContained(t *testing.T) {
	d := dispatch.New(siteRoutes(), dispatch.WithObserver(dispatch.ObserverFunc(func(dispatch.Outcome) {
		panic("observer failure")
	})))

	var rec *httptest.ResponseRecorder
	require.NotPanics(t, func() {
		rec = serve(t, d, http.MethodGet, "/about")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "This is the About Page.", rec.Body.String())
}
