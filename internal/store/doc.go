// Package store provides SQLite-backed persistence for named calculator stacks.
//
// Each stack name maps to one row holding the primary and secondary stacks.
//
// # Record Format
//
//   - Values are newline-separated decimal text in push order, using the
//     shortest representation that parses back to the identical float64.
//   - checksum is the hex xxhash64 of the two encoded texts. Save skips the
//     write when it is unchanged; every read verifies it and reports
//     ErrChecksumMismatch on corruption.
//   - session_id records the process session that last changed the row.
//   - updated_at is Unix milliseconds of the last change.
//
// # Connection
//
// Open runs one connection in WAL mode with a 5 second busy timeout, so a
// stacks listing from a second process waits instead of failing while a
// session saves. Schema changes are numbered by PRAGMA user_version and
// applied in order on Open.
package store
