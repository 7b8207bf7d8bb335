// Package harness runs YAML class scenarios against a fresh engine.
//
// A scenario loads CUE class declarations, applies mutation steps and
// checks the results through the meta-object protocol. The final class
// table is rendered to canonical JSON for golden comparison.
//
// # Scenario Format
//
//	name: animal_dog
//	description: "Subclass names and subtype checks"
//	specs:
//	  - ../specs/zoo.cue
//	options:
//	  subtype_cache: true
//	  expose_internal_sources: false
//	steps:
//	  - define: {name: Puppy, bases: [Dog]}
//	  - set: {class: Dog, attr: sound, value: "woof"}
//	  - delete: {class: Dog, attr: sound}
//	  - expect: {type: is_subtype, class: Puppy, target: Animal, want: true}
//	assertions:
//	  - type: simple_name
//	    class: Dog
//	    want: Dog
//
// Spec paths are relative to the scenario file. Expect steps are checked
// where they appear; assertions are checked after the last step.
//
// # Assertion Types
//
//   - simple_name, qualified_name: the meta-object name (want: string)
//   - is_subtype: class is a subtype of target (want: bool)
//   - is_instance: a fresh instance of class is an instance of target
//     (want: bool)
//   - has_source_location: the class reports a location (want: bool)
//   - source_location: "source:line" of the class location, or "" when
//     the class has none (want: string)
//
// # Attribute Values
//
// Scalars, null and lists map to runtime values directly. Two mapping
// forms are recognized:
//
//	{class: Animal}                                     # reference to a class
//	{def: speak, params: [self], source: x.cue, line: 3} # function
//
// # Deterministic Testing
//
// Every run uses testutil.SequentialIDGenerator, testutil.DeterministicClock
// and a discarded logger, so two runs of the same scenario render
// byte-identical golden output.
package harness
