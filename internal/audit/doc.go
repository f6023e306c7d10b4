// Package audit defines the audit observation record shared by the store,
// the form session and the export pipeline.
//
// This package contains the record model, its field names, validation and
// normalization only. It imports nothing internal so every other package
// can depend on it.
//
// Key constraints:
//   - SerialNumber and Location are required (non-empty after trim) at commit
//   - Priority is one of low, medium, high and defaults to low
//   - ImageReference is an opaque local path, never image bytes
//   - JSON keys use camelCase to match the persisted layout
package audit
