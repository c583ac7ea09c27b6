package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jpalmerr/webui/internal/metrics"
)

const (
	// LivenessPath is polled by the page shell to detect server restarts.
	LivenessPath = "/__dev"

	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second
)

// Response is a rendered view of the current state.
type Response struct {
	ContentType string
	Body        []byte

	// Mode is metrics.ModeHTML or metrics.ModeJSON.
	Mode string
}

// App is the state holder the server delegates to.
type App interface {
	// Update applies a POST request to the state. A non-nil error means
	// the state was left untouched.
	Update(r *http.Request) error

	// Render returns the current state as a response body.
	Render(ctx context.Context) (Response, error)
}

// Server handles HTTP requests for a webui session.
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	app        App
	port       int
	router     chi.Router
	httpServer *http.Server
	metrics    *metrics.Metrics
	logger     *slog.Logger

	done     chan struct{}
	errMu    sync.Mutex
	serveErr error
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - app: state holder that handles updates and renders responses
//   - port: TCP port to listen on
//   - m: metrics to record into (may be nil)
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(app App, port int, m *metrics.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		app:     app,
		port:    port,
		metrics: m,
		logger:  logger,
		done:    make(chan struct{}),
	}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.HandleFunc(LivenessPath, s.handleLiveness)
	r.HandleFunc("/", s.handlePage)
	r.HandleFunc("/*", s.handlePage)
	s.router = r

	return s
}

// Handler returns the request handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout. Use [Server.Wait] to block until the server has stopped.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, held liveness requests are released.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		defer close(s.done)
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
			s.errMu.Lock()
			s.serveErr = err
			s.errMu.Unlock()
		}
	}()

	// shutdown on context cancellation
	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Wait blocks until the server stops listening and returns the serve error,
// if any. It returns nil after a graceful shutdown.
func (s *Server) Wait() error {
	<-s.done
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.serveErr
}

// handleLiveness holds the connection open and never writes a response.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.metrics.LivenessOpened()
	defer s.metrics.LivenessClosed()

	<-r.Context().Done()

	// abort instead of returning: a clean return would send an empty 200,
	// which the page would not treat as the server going away
	panic(http.ErrAbortHandler)
}

// handlePage applies POST updates and serves the current state.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r.Context())

	if r.Method == http.MethodPost {
		if err := s.app.Update(r); err != nil {
			s.logger.Warn("update rejected",
				"request_id", reqID,
				"path", r.URL.Path,
				"error", err.Error(),
			)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	resp, err := s.app.Render(r.Context())
	if err != nil {
		s.logger.Error("failed to render state",
			"request_id", reqID,
			"error", err.Error(),
		)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.metrics.RecordRequest(r.Method, resp.Mode)

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(resp.Body); err != nil {
		s.logger.Error("failed to write response", "request_id", reqID, "error", err)
	}
}
