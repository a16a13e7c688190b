// Package server serves stored representations through the request and
// response adapters.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"message-adapter/application/http/bind"
	"message-adapter/application/http/semantic"
	"message-adapter/internal/logging"
	"message-adapter/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// MaxEntitySize bounds the body of a PUT.
const MaxEntitySize = 1 << 20

type Server struct {
	store  *store.Store
	opts   semantic.Options
	router chi.Router
}

var _ http.Handler = (*Server)(nil)

func New(st *store.Store, logger zerolog.Logger, opts semantic.Options) *Server {
	s := &Server{store: st, opts: opts}

	r := chi.NewRouter()
	r.Use(
		hlog.NewHandler(logger),
		hlog.RequestIDHandler("req_id", "Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("")
		}),
		middleware.Recoverer,
	)

	r.Route("/r", func(r chi.Router) {
		r.Get("/*", s.getRepresentation)
		r.Head("/*", s.getRepresentation)
		r.Put("/*", s.putRepresentation)
		r.Delete("/*", s.deleteRepresentation)
	})
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// adapt wraps r into a request adapter logging through the request logger.
func (s *Server) adapt(r *http.Request) (*semantic.Request, error) {
	call, err := bind.CallFrom(r)
	if err != nil {
		return nil, err
	}
	return semantic.RequestFrom(call, requestLogger(r), s.opts)
}

func requestLogger(r *http.Request) *slog.Logger {
	return logging.Slog(*hlog.FromRequest(r))
}

func resourcePath(r *http.Request) string {
	return "/" + chi.URLParam(r, "*")
}
