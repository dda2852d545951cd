// Package journal persists captured artifacts in SQLite and tracks their
// upload lifecycle.
//
// The Store manages the database connection, schema migrations, status
// transitions, and the queries the daemon rebuilds its in-memory state from:
// unsettled artifacts reload the upload backlog after a restart, and the
// protected path set keeps rotation away from files that still owe a
// confirmed upload.
//
// Rows settle as uploaded (remote copy confirmed, local file deleted) or
// absent (local file vanished before upload). Settled rows stick around for
// status output and are pruned later; the journal is bookkeeping for
// in-flight work, not a long-term archive.
package journal
