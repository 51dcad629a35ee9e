// Package daemon wires the journal's services together and exposes them
// over HTTP. A lock file guarantees a single running instance per data
// directory; the API server is optional and controlled by the bind address
// in configuration.
package daemon
