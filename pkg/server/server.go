// Package server exposes snapping over HTTP. Single queries are plain JSON
// requests; the interactive drag gesture runs over a websocket, one
// controller per connection, all sharing the server's cursor.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/chazu/snapcursor/pkg/drag"
	"github.com/chazu/snapcursor/pkg/preview"
	"github.com/chazu/snapcursor/pkg/scene"
	"github.com/chazu/snapcursor/pkg/snap"
	"github.com/chazu/snapcursor/pkg/view"
)

// Options configures a Server.
type Options struct {
	Addr     string
	Scene    *scene.Scene
	Camera   view.Viewpoint
	Settings snap.Settings
	Logger   *slog.Logger
}

// Server serves one scene. The scene is read-only once served.
type Server struct {
	opts   Options
	log    *slog.Logger
	router *mux.Router
	http   *http.Server
	cursor *drag.PointCursor

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// New builds a server and registers its routes.
func New(opts Options) *Server {
	if opts.Scene == nil {
		opts.Scene = scene.New()
	}
	if opts.Logger == nil {
		opts.Logger = snap.Logger()
	}
	router := mux.NewRouter()
	s := &Server{
		opts:     opts,
		log:      opts.Logger,
		router:   router,
		cursor:   drag.NewPointCursor(v3.Vec{}),
		sessions: make(map[uuid.UUID]*session),
		http: &http.Server{
			Addr:         opts.Addr,
			WriteTimeout: 15 * time.Second,
			ReadTimeout:  15 * time.Second,
			IdleTimeout:  60 * time.Second,
			Handler:      router,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/scene", s.handleScene).Methods(http.MethodGet)
	s.router.HandleFunc("/cursor", s.handleCursor).Methods(http.MethodGet)
	s.router.HandleFunc("/resolve", s.handleResolve).Methods(http.MethodPost)
	s.router.HandleFunc("/place", s.handlePlace).Methods(http.MethodPost)
	s.router.HandleFunc("/preview.png", s.handlePreview).Methods(http.MethodGet)
	s.router.HandleFunc("/drag", s.handleDrag)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Cursor returns the shared cursor location.
func (s *Server) Cursor() v3.Vec { return s.cursor.Location() }

// Sessions returns the number of open drag sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("http server starting", "addr", s.http.Addr)
		errc <- s.http.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// maxViewport bounds client-supplied viewport sizes. It matches the
// "maximum" in pointerSchema and preview.MaxDimension.
const maxViewport = preview.MaxDimension

// viewportSize reads the optional width and height query parameters.
// Absent parameters are zero, meaning the served camera's own size.
func viewportSize(q url.Values) (width, height int, err error) {
	for _, p := range []struct {
		name string
		dst  *int
	}{{"width", &width}, {"height", &height}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxViewport {
			return 0, 0, fmt.Errorf("%s must be an integer in [1, %d], got %q", p.name, maxViewport, v)
		}
		*p.dst = n
	}
	return width, height, nil
}

// viewpoint returns the camera sized to width x height, or at its own size
// when either is zero.
func (s *Server) viewpoint(width, height int) view.Viewpoint {
	vp := s.opts.Camera
	if width > 0 && height > 0 {
		vp = vp.WithSize(width, height)
	}
	return vp
}

func (s *Server) resolver(width, height int) *snap.Resolver {
	return snap.NewResolver(s.opts.Scene, s.viewpoint(width, height), s.opts.Settings)
}

func (s *Server) renderer(width, height int) *preview.Renderer {
	vp := s.viewpoint(width, height)
	return preview.New(vp.Width, vp.Height)
}
