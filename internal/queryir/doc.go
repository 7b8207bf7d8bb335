// Package queryir is the query representation for reading stored class
// snapshots.
//
// A query selects columns from one stored source (classes, class_bases,
// class_attrs) and filters rows with a small predicate language:
//
//	[CLI --where flags] -> [queryir.Select] -> [querysql] -> SQLite
//
// Predicates:
//   - Equals: column = literal (ir.Str or ir.Int)
//   - Param: column = value supplied when the query is compiled
//   - And: conjunction; empty means always true
//
// The fragment has no OR, no NULL comparisons and no joins. Every source
// declares a stable ordering so results are deterministic.
//
// # Sealed Interfaces
//
// Predicate is sealed with a marker method; only this package implements
// it, so backends can switch over it exhaustively:
//
//	switch p := pred.(type) {
//	case *Equals:
//	case *Param:
//	case *And:
//	}
package queryir
