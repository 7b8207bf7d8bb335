// Package interop defines the capability protocol between runtime objects
// and external tooling (debuggers, meta-object browsers, reflection APIs).
//
// Tooling never reaches into a runtime object directly. It asks capability
// questions: is this a meta-object, what is its name, does it carry a source
// location. Every answer must be free of observable side effects. In
// particular, implementations must not route through any lookup protocol the
// program can override, because tooling may ask while the program is in an
// error handler, a broken state, or paused in a debugger.
//
// The only failure a capability query may report is "unsupported message"
// (ErrUnsupportedMessage): the receiver does not support the question, which
// is different from a fault.
package interop
