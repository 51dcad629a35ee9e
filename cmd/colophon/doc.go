// Package main hosts the colophon CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into HTTP
// calls against the daemon's journal API: manuscript listings, workflow
// actions, directory management, masthead rendering, and configuration
// scaffolding. It centralizes configuration resolution and daemon endpoint
// discovery so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
