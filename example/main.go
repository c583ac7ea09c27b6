package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jpalmerr/webui"
	"github.com/jpalmerr/webui/node"
)

// Counter is the demo state.
type Counter struct {
	Count int    `json:"count"`
	Last  string `json:"last,omitempty"`
}

func render(c Counter) *node.Node {
	return node.Div(node.Class("counter"),
		node.H1("Counter"),
		node.P(node.ID("count"), node.Textf("%d", c.Count)),
		node.Form(node.PostForm(),
			button("dec", "-"),
			button("reset", "reset"),
			button("inc", "+"),
		),
		lastAction(c.Last),
	)
}

func button(op, label string) *node.Node {
	return node.Button(node.Type("submit"), node.Name("op"), node.Value(op), label)
}

func lastAction(last string) *node.Node {
	if last == "" {
		return nil
	}
	return node.P(node.Class("last"), "last action: ", last)
}

func update(_ context.Context, req webui.Request[Counter]) (webui.Patch, error) {
	op := req.HTTP.FormValue("op")

	switch op {
	case "inc":
		return webui.Patch{"count": req.State.Count + 1, "last": op}, nil
	case "dec":
		return webui.Patch{"count": req.State.Count - 1, "last": op}, nil
	case "reset":
		return webui.Patch{"count": 0, "last": op}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", op)
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ui, err := webui.New(Counter{},
		webui.WithHead(`<title>Counter</title><style>.counter{font-family:sans-serif}</style>`),
		webui.WithRender(render),
		webui.WithUpdate(update),
		webui.WithSerializedUpdates(),
		webui.WithLogger(logger),
		webui.WithStateCallback(func(c Counter) {
			logger.Info("count changed", "count", c.Count)
		}),
	)
	if err != nil {
		slog.Error("failed to create ui", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("  Counter demo on %s (Ctrl+C to stop)\n", ui.URL())
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ui.Start(ctx); err != nil {
		slog.Error("webui error", "error", err)
		os.Exit(1)
	}
}
