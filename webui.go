package webui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"

	"github.com/jpalmerr/webui/internal/browser"
	"github.com/jpalmerr/webui/internal/metrics"
	"github.com/jpalmerr/webui/internal/server"
	"github.com/jpalmerr/webui/internal/store"
	"github.com/jpalmerr/webui/node"
)

const (
	defaultPort = 9001
	tracerName  = "github.com/jpalmerr/webui"
)

// RenderFunc maps a state value to the page body.
type RenderFunc[T any] func(state T) *node.Node

// UpdateFunc handles a POST request and returns the fields to change.
//
// A nil or empty [Patch] leaves the state unchanged. An error rejects the
// request: the client gets a bare 500 and the state is left as it was.
type UpdateFunc[T any] func(ctx context.Context, req Request[T]) (Patch, error)

// Request is the input to an [UpdateFunc].
type Request[T any] struct {
	// State is the state when the request arrived. Treat it as read-only.
	State T

	// HTTP is the raw POST request. Its body has not been read.
	HTTP *http.Request
}

// UI serves one state value as a web page.
//
// UI is created using [New] with functional options and started with
// [UI.Start]:
//
//	ui, err := webui.New(Counter{},
//	    webui.WithRender(renderCounter),
//	    webui.WithUpdate(increment),
//	)
//	if err != nil {
//	    slog.Error("failed to create ui", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	ui.Start(ctx) // blocks until the server stops
type UI[T any] struct {
	session        *session[T]
	server         *server.Server
	port           int
	noOpen         bool
	opener         func(url string) error
	logger         *slog.Logger
	stateCallbacks []func(T)
	started        atomic.Bool
}

// New creates a [UI] holding state, configured by opts.
//
// Defaults:
//   - Port: 9001
//   - Browser: opened on start
//   - Mode: headless JSON unless [WithRender] is given
//   - Updates: POST is a no-op unless an update handler is given
//
// Returns an error if any option is invalid or if a render function,
// update function or state callback was written for a different state type.
func New[T any](state T, opts ...Option) (*UI[T], error) {
	cfg := &uiConfig{
		port: defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	var render RenderFunc[T]
	if cfg.render != nil {
		fn, ok := cfg.render.(RenderFunc[T])
		if !ok {
			return nil, fmt.Errorf("render function has type %T, want webui.RenderFunc[%T]", cfg.render, state)
		}
		render = fn
	}

	update, err := resolveUpdate[T](cfg.update)
	if err != nil {
		return nil, err
	}

	callbacks := make([]func(T), 0, len(cfg.stateCallbacks))
	for _, cb := range cfg.stateCallbacks {
		fn, ok := cb.(func(T))
		if !ok {
			return nil, fmt.Errorf("state callback has type %T, want func(%T)", cb, state)
		}
		callbacks = append(callbacks, fn)
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	opener := cfg.opener
	if opener == nil {
		opener = browser.Open
	}

	tp := cfg.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	m := metrics.New(cfg.registerer)

	sess := &session[T]{
		store:     store.NewMemoryStore(state),
		head:      cfg.head,
		render:    render,
		update:    update,
		tracer:    tp.Tracer(tracerName),
		metrics:   m,
		logger:    logger,
		serialize: cfg.serialize,
	}

	return &UI[T]{
		session:        sess,
		server:         server.NewServer(sess, cfg.port, m, logger),
		port:           cfg.port,
		noOpen:         cfg.noOpen,
		opener:         opener,
		logger:         logger,
		stateCallbacks: callbacks,
	}, nil
}

// Run creates a [UI] and starts it. It blocks until the server stops.
func Run[T any](ctx context.Context, state T, opts ...Option) error {
	ui, err := New(state, opts...)
	if err != nil {
		return err
	}
	return ui.Start(ctx)
}

// RunRender starts a UI whose state is the zero value of T, rendered by
// render. It blocks until the server stops.
func RunRender[T any](ctx context.Context, render RenderFunc[T], opts ...Option) error {
	var zero T
	return Run(ctx, zero, append([]Option{WithRender(render)}, opts...)...)
}

// Start serves the UI and blocks until the server stops.
//
// Start binds the port, then opens the page in the default browser unless
// [WithNoOpen] was given. Failing to open the browser is logged, not
// returned. Cancel ctx to shut the server down gracefully; open liveness
// connections are aborted so pages reload when the server comes back.
//
// Returns nil on graceful shutdown and an error if the port cannot be
// bound or the server fails. Start may only be called once.
func (u *UI[T]) Start(ctx context.Context) error {
	if !u.started.CompareAndSwap(false, true) {
		return errors.New("ui already started")
	}

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	u.logger.Info("webui starting",
		"url", u.URL(),
		"headless", u.session.render == nil,
	)

	var wg sync.WaitGroup
	var updates <-chan store.Snapshot[T]
	if len(u.stateCallbacks) > 0 {
		updates = u.session.store.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snap := range updates {
				for _, cb := range u.stateCallbacks {
					invokeCallbackSafe(cb, snap, u.logger)
				}
			}
		}()
	}

	// cleanup stops the callback goroutine after the last update
	cleanup := func() {
		if updates != nil {
			u.session.store.Unsubscribe(updates)
			wg.Wait()
		}
	}

	if err := u.server.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	if !u.noOpen {
		if err := u.opener(u.URL()); err != nil {
			u.logger.Warn("failed to open browser", "url", u.URL(), "error", err.Error())
		}
	}

	err := u.server.Wait()
	cleanup()
	u.logger.Info("webui stopped")
	return err
}

// Handler returns the UI's HTTP handler, for mounting in another server or
// for tests. It shares state with the server started by [UI.Start].
func (u *UI[T]) Handler() http.Handler {
	return u.server.Handler()
}

// State returns the current state.
func (u *UI[T]) State() T {
	return u.session.store.Get().State
}

// Version returns how many updates have been applied to the state.
func (u *UI[T]) Version() uint64 {
	return u.session.store.Get().Version
}

// Port returns the configured HTTP port.
func (u *UI[T]) Port() int {
	return u.port
}

// URL returns the page URL opened on start.
func (u *UI[T]) URL() string {
	return fmt.Sprintf("http://localhost:%d", u.port)
}

// invokeCallbackSafe calls a state callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe[T any](cb func(T), snap store.Snapshot[T], logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("state callback panicked",
				"panic", r,
				"version", snap.Version,
			)
		}
	}()
	cb(snap.State)
}
