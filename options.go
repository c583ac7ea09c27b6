package webui

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// uiConfig holds mutable state during UI construction.
//
// Options are not generic, so state-typed values (render and update
// functions, callbacks) are held as any and checked against the state type
// in [New].
type uiConfig struct {
	head           string
	render         any
	update         any
	noOpen         bool
	port           int
	logger         *slog.Logger
	opener         func(url string) error
	stateCallbacks []any
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	serialize      bool
}

// Option is a function that configures a [UI] during construction.
//
// Option implements the functional options pattern. Options return an
// error if validation fails.
type Option func(*uiConfig) error

// WithHead sets markup inserted into the page's <head>, ahead of the
// liveness script. The markup is inserted verbatim.
//
// Example:
//
//	webui.WithHead(`<title>Counter</title><link rel="stylesheet" href="https://unpkg.com/mvp.css">`)
func WithHead(head string) Option {
	return func(cfg *uiConfig) error {
		cfg.head = head
		return nil
	}
}

// WithRender sets the function that turns the state into the page body.
//
// Without a render function the server runs headless and answers every
// request with the state encoded as JSON.
//
// The state type of fn must match the state passed to [New].
func WithRender[T any](fn RenderFunc[T]) Option {
	return func(cfg *uiConfig) error {
		if fn == nil {
			return errors.New("render function cannot be nil")
		}
		cfg.render = fn
		return nil
	}
}

// WithUpdate sets the handler invoked for POST requests.
//
// The handler receives the current state and the request and returns a
// [Patch] that is shallow-merged onto the state. Returning a nil or empty
// patch leaves the state unchanged; returning an error (or panicking)
// rejects the request with a 500 and leaves the state unchanged.
//
// Without an update handler POST requests do not change the state.
//
// Example:
//
//	webui.WithUpdate(func(ctx context.Context, req webui.Request[Counter]) (webui.Patch, error) {
//	    return webui.Patch{"count": req.State.Count + 1}, nil
//	})
func WithUpdate[T any](fn UpdateFunc[T]) Option {
	return func(cfg *uiConfig) error {
		if fn == nil {
			return errors.New("update function cannot be nil")
		}
		cfg.update = fn
		return nil
	}
}

// WithJSONUpdates uses the JSON object in each POST body as the patch.
// See [DecodeJSONPatch].
func WithJSONUpdates() Option {
	return func(cfg *uiConfig) error {
		cfg.update = requestPatchFunc(DecodeJSONPatch)
		return nil
	}
}

// WithFormUpdates uses the form fields of each POST as the patch.
// See [DecodeFormPatch].
func WithFormUpdates() Option {
	return func(cfg *uiConfig) error {
		cfg.update = requestPatchFunc(DecodeFormPatch)
		return nil
	}
}

// WithNoOpen stops [UI.Start] from opening the page in a browser.
func WithNoOpen() Option {
	return func(cfg *uiConfig) error {
		cfg.noOpen = true
		return nil
	}
}

// WithPort sets the HTTP port. Defaults to 9001 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *uiConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *uiConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithOpener replaces the function used to open the page in a browser.
// Errors it returns are logged and otherwise ignored.
func WithOpener(open func(url string) error) Option {
	return func(cfg *uiConfig) error {
		if open == nil {
			return errors.New("opener cannot be nil")
		}
		cfg.opener = open
		return nil
	}
}

// WithStateCallback registers a function called with the new state after
// every applied update.
//
// Callbacks run on a single goroutine, in registration order, and must be
// non-blocking: while a callback runs, further updates queue up and are
// dropped once the queue is full. Panics are recovered and logged.
//
// Nil callbacks are silently ignored.
func WithStateCallback[T any](cb func(T)) Option {
	return func(cfg *uiConfig) error {
		if cb == nil {
			return nil
		}
		cfg.stateCallbacks = append(cfg.stateCallbacks, cb)
		return nil
	}
}

// WithMetrics registers the UI's Prometheus collectors on reg. Serving
// them is left to the caller.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(cfg *uiConfig) error {
		if reg == nil {
			return errors.New("metrics registerer cannot be nil")
		}
		cfg.registerer = reg
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used for the
// span around each update. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *uiConfig) error {
		if tp == nil {
			return errors.New("tracer provider cannot be nil")
		}
		cfg.tracerProvider = tp
		return nil
	}
}

// WithSerializedUpdates runs update handlers one at a time.
//
// By default handlers run concurrently, each against the snapshot taken
// when its request arrived, and the last merge wins: two concurrent
// increments can yield a single increment. With this option the read,
// handler call and merge form one critical section, so no update is lost,
// at the cost of POST requests queueing behind a slow handler.
func WithSerializedUpdates() Option {
	return func(cfg *uiConfig) error {
		cfg.serialize = true
		return nil
	}
}
