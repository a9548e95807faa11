// Package cli provides the interactive memokeeper resource manager.
//
// It wires configuration, the HTTP client, the resource collection and the
// services layer into a REPL. A background watcher pings the server and
// flips the prompt between online and offline; when the server comes back
// the upload limit is refreshed.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
