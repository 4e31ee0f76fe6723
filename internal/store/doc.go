// Package store provides SQLite-backed storage for saved visualizations.
//
// A saved visualization records the question, the rendered SQL, the chosen
// chart type, a JSON payload (the encoding and result table) and a view
// counter. Records are addressed by an opaque identifier, UUIDv7 unless a
// generator is injected.
//
// # Ordering
//
// Listing orders by the seq column, assigned on first insert, never by
// created_at. Injected clocks and identical timestamps therefore cannot
// reorder results.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Schema changes are goose migrations embedded from migrations/.
package store
