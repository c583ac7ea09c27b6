// Package server provides the HTTP server behind a webui session.
//
// This package is internal to webui and handles all HTTP concerns:
//
//   - Liveness path: "/__dev" never answers; the connection is held until
//     the client leaves or the server shuts down, at which point it is
//     aborted so the page's fetch fails and the page reloads
//   - Page path: every other path serves the current state; POST requests
//     are handed to the [App] first
//   - Request IDs: every request gets an X-Request-ID used in log lines
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the webui library should not need to interact with this package
// directly. The server is started by [webui.UI.Start].
package server
