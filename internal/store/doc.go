// Package store provides SQLite-backed persistence for class snapshots.
//
// A snapshot (ir.Snapshot) is the tooling view of every live class at one
// moment. Meta-object browsers read snapshots from here instead of from a
// running engine. Tables:
//   - snapshots: one row per content-addressed snapshot
//   - classes: one row per class view, keyed by (snapshot_id, id)
//   - class_bases: ordered direct bases of each class
//   - class_attrs: attributes of each class in insertion order
//
// # Patterns
//
// Content-addressed idempotency
//   - Snapshot IDs are content hashes (ir.SnapshotID)
//   - Writing the same snapshot twice is a no-op
//
// Deterministic query results
//   - Class reads are built with queryir and compiled by querysql, which
//     appends ORDER BY seq ASC, id COLLATE BINARY ASC
//   - SelectClasses accepts any queryir predicate over the classes source
//   - Bases and attributes are read by position
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
