// Package main hosts the ScreenGuard CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the capture daemon itself plus the
// operator surface around it: backlog inspection, manual backlog flushing,
// and configuration scaffolding. It centralizes configuration resolution so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
