// Package engine implements the metaclass runtime host.
//
// The engine owns a registry of live classes and is the class.Host every
// one of them consults:
//
//   - ClassOf maps any runtime value to its class: scalars to the builtin
//     classes (str, int, bool, NoneType, tuple, function,
//     builtin_function), instances to their class, classes to their
//     meta-class.
//   - HasLocation/LocationOf answer the source-location question, hiding
//     locations from internal declarations unless configured otherwise.
//   - IsSubtype routes through a cached class.Oracle.
//
// Classes are materialized from compiled declarations (ir.ClassDecl) with
// Load, bases first. Each class receives an opaque ID from the engine's
// IDGenerator and a definition sequence number from its Clock.
//
// Snapshot produces a content-addressed ir.Snapshot of every live class
// using only meta-object operations, so taking a snapshot never runs user
// hooks.
//
// All exported methods are safe for concurrent use.
package engine
