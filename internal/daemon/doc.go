// Package daemon drives the capture loop: one screenshot per interval,
// journaled and tracked for upload, followed by size rotation and a batch
// upload pass when the backlog reaches the configured threshold.
//
// All state mutation happens on the loop goroutine. Setup problems (lock
// held, unwritable folder, journal unavailable) abort Start; after that,
// every failure is logged and the loop keeps going. Shutdown drains the
// backlog over an already established provider session only, so a machine
// that never managed to log in still exits promptly.
package daemon
