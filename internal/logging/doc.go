// Package logging assembles the structured slog loggers shared by the
// ScreenGuard daemon and CLI.
//
// It owns the console and JSON handlers, wires the size-rotated log file the
// daemon writes alongside console output, and exposes attribute helpers so
// capture, rotation, and upload code tag log lines with the same artifact,
// day-key, and batch fields. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing guarantees as the rest of the
// system.
package logging
