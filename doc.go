// Package webui serves a single piece of application state as a local web
// page.
//
// A UI holds one state value of any type. GET requests render the state,
// either to an HTML page through a render function or, in headless mode,
// to JSON. POST requests run an update handler whose result is
// shallow-merged onto the state. The page carries a small script that
// reloads it when the server restarts, and the page is opened in the
// default browser on start.
//
// # Quick Start
//
//	type Counter struct {
//	    Count int `json:"count"`
//	}
//
//	ui, _ := webui.New(Counter{},
//	    webui.WithRender(func(c Counter) *node.Node {
//	        return node.Form(node.PostForm(),
//	            node.P(node.Textf("%d", c.Count)),
//	            node.Button("+1"),
//	        )
//	    }),
//	    webui.WithUpdate(func(ctx context.Context, req webui.Request[Counter]) (webui.Patch, error) {
//	        return webui.Patch{"count": req.State.Count + 1}, nil
//	    }),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	ui.Start(ctx) // blocks until the server stops
//
// [RunRender] is the shortest form: it serves the zero value of a state
// type through a render function.
//
// # Updates
//
// An [UpdateFunc] returns a [Patch], a map of top-level JSON field names to
// new values. Fields in the patch replace the same-named state fields;
// other fields are kept. A nil or empty patch is a no-op. If the handler
// returns an error or panics, the client gets a bare 500 and the state is
// left untouched. [WithJSONUpdates] and [WithFormUpdates] cover the common
// case of taking the patch straight from the request body.
//
// Handlers run concurrently and each sees the state as it was when its
// request arrived, so concurrent updates can overwrite each other. Use
// [WithSerializedUpdates] when that matters.
//
// # Architecture
//
//   - node: display tree returned by render functions
//   - document: embedded page shell with the reload script
//   - internal/store: the state value, versions and change notifications
//   - internal/server: HTTP server, liveness path and request IDs
//   - internal/metrics: Prometheus collectors (see [WithMetrics])
//   - internal/browser: opening the page on start
package webui
