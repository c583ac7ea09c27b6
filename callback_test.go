package webui

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

// startUI starts ui in the background and returns a function that stops it.
func startUI[T any](t *testing.T, ui *UI[T]) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ui.Start(ctx)
	}()
	time.Sleep(50 * time.Millisecond)
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(7 * time.Second):
			t.Fatal("Start() did not return")
		}
	}
}

func TestWithStateCallback_InvokedOnUpdate(t *testing.T) {
	var mu sync.Mutex
	var seen []counter

	ui, err := New(counter{},
		WithPort(19320),
		WithNoOpen(),
		WithUpdate(increment),
		WithStateCallback(func(c counter) {
			mu.Lock()
			seen = append(seen, c)
			mu.Unlock()
		}),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	stop := startUI(t, ui)
	do(t, ui, http.MethodPost, "/", "")
	do(t, ui, http.MethodPost, "/", "")
	time.Sleep(50 * time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("callback invoked %d times, want 2", len(seen))
	}
	if seen[0].Count != 1 || seen[1].Count != 2 {
		t.Errorf("callback states = %+v, want counts 1 then 2", seen)
	}
}

func TestWithStateCallback_NotInvokedForRejectedUpdate(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	ui, err := New(counter{},
		WithPort(19321),
		WithNoOpen(),
		WithUpdate(func(context.Context, Request[counter]) (Patch, error) {
			return nil, context.Canceled
		}),
		WithStateCallback(func(counter) {
			mu.Lock()
			calls++
			mu.Unlock()
		}),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	stop := startUI(t, ui)
	do(t, ui, http.MethodPost, "/", "")
	time.Sleep(50 * time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("callback invoked %d times, want 0", calls)
	}
}

func TestWithStateCallback_MultipleInOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string

	record := func(name string) func(counter) {
		return func(counter) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}

	ui, err := New(counter{},
		WithPort(19322),
		WithNoOpen(),
		WithUpdate(increment),
		WithStateCallback(record("first")),
		WithStateCallback(record("second")),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	stop := startUI(t, ui)
	do(t, ui, http.MethodPost, "/", "")
	time.Sleep(50 * time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("order = %v, want [first second]", order)
	}
}

func TestWithStateCallback_PanicRecovered(t *testing.T) {
	var buf bytes.Buffer
	var syncBuf sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &syncBuf}, nil))

	var mu sync.Mutex
	afterPanic := 0

	ui, err := New(counter{},
		WithPort(19323),
		WithNoOpen(),
		WithUpdate(increment),
		WithStateCallback(func(counter) { panic("callback exploded") }),
		WithStateCallback(func(counter) {
			mu.Lock()
			afterPanic++
			mu.Unlock()
		}),
		WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	stop := startUI(t, ui)
	do(t, ui, http.MethodPost, "/", "")
	time.Sleep(50 * time.Millisecond)
	stop()

	mu.Lock()
	if afterPanic != 1 {
		t.Errorf("second callback invoked %d times, want 1", afterPanic)
	}
	mu.Unlock()

	syncBuf.Lock()
	defer syncBuf.Unlock()
	if !strings.Contains(buf.String(), "state callback panicked") {
		t.Errorf("log should mention the panic, got: %s", buf.String())
	}
}

// lockedWriter serializes writes from concurrent loggers.
type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
