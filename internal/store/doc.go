// Package store provides SQLite-backed storage for the inspection point
// source.
//
// The store holds the fixed dataset the engine evaluates against:
//   - inspection_group: one row per group id
//   - inspection_region: one row per point (id, x, y, group_id, category)
//
// The engine never touches the database. Drivers load points once with
// ReadSnapshot (ascending id, the dataset's load order) and hand the
// resulting immutable snapshot to the engine; the store's only contract
// with the engine is that ids are unique within one load.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Points must reference an existing group
package store
