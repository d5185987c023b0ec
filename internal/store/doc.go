// Package store keeps O&M observations in SQLite and answers compiled
// temporal filters against them.
//
// The observations table stores phenomenon time as a start/end pair, result
// time as a nullable point and valid time as an optional start/end pair,
// matching the default field catalog. Timestamps are INTEGER Unix
// milliseconds in UTC.
//
// # Deterministic Query Results
//
// Every read orders by phenomenon_time_start ASC, id COLLATE BINARY ASC so
// that identical filters return identical row sequences.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Filters are rendered to SQL by package querysql; the store never builds
// WHERE clauses itself.
package store
