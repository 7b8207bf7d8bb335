// Package attrs provides the attribute store held by every class object: a
// mutable, concurrency-safe mapping from attribute name to runtime value that
// iterates in insertion order.
//
// # Shapes
//
// Each store points at an immutable Shape describing its current key layout.
// Shapes are shared process-wide through a transition tree: two stores that
// receive the same keys in the same order share every intermediate Shape, so
// a layout can be compared by pointer and cached by callers. Shapes are a
// performance and diagnostic aid; no correctness property depends on them.
//
// # Concurrency
//
// Single-key operations (Get, Set, Delete) are atomic with respect to each
// other: a reader never observes a torn value. Compound sequences spanning
// several calls are not atomic and must be synchronized by the caller.
// Iteration works on the shape captured when iteration starts.
package attrs
