// Package store provides durable storage for audit records.
//
// Records are held as one JSON list under a single key of a key-value
// backend. Every save replaces the whole list; the only mutation callers
// perform is "previous list + one new record" (see RecordStore.Append).
//
// # Backends
//
//   - SQLiteKV: one kv table in a SQLite database (WAL, single connection)
//   - MemoryKV: map-backed, for tests and embedding callers
//
// # Errors
//
// Failures are reported as *Error values wrapping one of the sentinels
// ErrStorageRead, ErrStorageCorrupt or ErrStorageWrite. Match them with
// errors.Is.
//
// There is no concurrency control. The design assumes a single writer;
// concurrent sessions against the same database overwrite each other
// (last writer wins).
package store
