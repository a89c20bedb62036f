// Package store persists simulation runs to SQLite. Each run keeps the full
// scenario document next to its results, so any stored run can be replayed
// bit-for-bit from its seed and checked against the recorded summaries.
package store
