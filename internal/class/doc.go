// Package class implements mutable, dynamically-typed class objects.
//
// A Class wraps an attribute store (package attrs), an immutable ordered list
// of base classes and a reference to its meta-class. On top of that it
// provides:
//
//   - Name resolution: SimpleName and QualifiedName read __name__ and
//     __qualname__ straight from storage, never through the overridable
//     lookup pipeline (GetAttribute).
//   - Subtype testing: IsSubtype walks the base closure with an identity
//     visited set; Oracle caches results per (candidate, target) pair
//     without keeping either class alive.
//   - The meta-object protocol (interop.MetaObject) used by tooling:
//     every method is side-effect free and total, except SourceLocation,
//     which signals interop.ErrUnsupportedMessage when no location is known.
//   - A best-effort source location, found by scanning attribute values in
//     insertion order and memoized once. The memoized answer is never
//     invalidated, not even when attributes change later.
//
// Program-level attribute access goes through GetAttribute, which honours
// __getattribute__ and __getattr__ hooks. Tooling must never use it.
package class
