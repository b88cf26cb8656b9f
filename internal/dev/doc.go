// Package dev provides the development server and hot reload
// functionality.
//
// The server watches the project's input documents, rebuilds the output
// directory on change, and notifies connected browsers over WebSocket.
// Compiled pages are served with a small reload script injected; build
// and reload activity is exported as Prometheus metrics on /metrics.
//
// # Architecture
//
//   - Watcher: polls the file system for document and config changes
//   - Server: rebuilds via internal/build and serves the output
//   - ReloadServer: notifies browsers of changes via WebSocket
//
// # Hot Reload Protocol
//
// The browser connects to /_omm/reload via WebSocket. Messages are
// JSON-encoded:
//
//	{"type": "reload"}                // Full page reload
//	{"type": "css"}                   // CSS-only reload
//	{"type": "error", "error": "..."} // Build failure notice
//	{"type": "clear"}                 // Clears the failure notice
package dev
