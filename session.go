package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jpalmerr/webui/document"
	"github.com/jpalmerr/webui/internal/metrics"
	"github.com/jpalmerr/webui/internal/server"
	"github.com/jpalmerr/webui/internal/store"
	"github.com/jpalmerr/webui/node"
)

// session owns the state and implements server.App.
type session[T any] struct {
	store   *store.MemoryStore[T]
	head    string
	render  RenderFunc[T]
	update  UpdateFunc[T]
	tracer  trace.Tracer
	metrics *metrics.Metrics
	logger  *slog.Logger

	// serialize holds updateMu across snapshot, handler and merge.
	serialize bool
	updateMu  sync.Mutex
}

// Update runs the update handler for a POST request and merges its patch.
func (s *session[T]) Update(r *http.Request) error {
	if s.update == nil {
		return nil
	}

	if s.serialize {
		s.updateMu.Lock()
		defer s.updateMu.Unlock()
	}

	snap := s.store.Get()
	reqID := server.RequestID(r.Context())

	ctx, span := s.tracer.Start(r.Context(), "webui.update",
		trace.WithAttributes(
			attribute.Int64("webui.state_version", int64(snap.Version)),
			attribute.String("webui.request_id", reqID),
		),
	)
	defer span.End()

	start := time.Now()
	patch, err := s.callUpdate(ctx, Request[T]{State: snap.State, HTTP: r.WithContext(ctx)})
	elapsed := time.Since(start).Seconds()

	if err == nil && len(patch) > 0 {
		var next T
		next, err = store.Merge(snap.State, patch)
		if err == nil {
			applied := s.store.Set(next)
			span.SetAttributes(attribute.Int("webui.patch_fields", len(patch)))
			s.metrics.RecordUpdate(elapsed, true, applied.Version)
			s.logger.Debug("state updated",
				"request_id", reqID,
				"version", applied.Version,
				"fields", len(patch),
			)
			return nil
		}
		err = fmt.Errorf("merge patch: %w", err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.RecordUpdateError()
		return err
	}

	s.metrics.RecordUpdate(elapsed, false, snap.Version)
	return nil
}

// callUpdate invokes the update handler, turning a panic into an error.
func (s *session[T]) callUpdate(ctx context.Context, req Request[T]) (patch Patch, err error) {
	defer func() {
		if r := recover(); r != nil {
			patch = nil
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return s.update(ctx, req)
}

// Render returns the current state as an HTML page, or as JSON when no
// render function is configured.
func (s *session[T]) Render(_ context.Context) (server.Response, error) {
	state := s.store.Get().State

	if s.render == nil {
		body, err := json.Marshal(state)
		if err != nil {
			return server.Response{}, fmt.Errorf("encode state: %w", err)
		}
		return server.Response{
			ContentType: "application/json",
			Body:        body,
			Mode:        metrics.ModeJSON,
		}, nil
	}

	markup, err := node.RenderString(s.render(state))
	if err != nil {
		return server.Response{}, fmt.Errorf("render state: %w", err)
	}
	return server.Response{
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(document.Page(s.head, markup)),
		Mode:        metrics.ModeHTML,
	}, nil
}
