// Package ir provides the runtime value representation shared by every
// metaclass package.
//
// This package contains value, location and declaration types plus their
// canonical serialization. All other internal packages import ir; ir imports
// nothing internal, so it stays the foundational layer with no cycles.
//
// Key design constraints:
//   - Values are immutable once published, except Func metadata which is
//     never mutated after construction
//   - Text coercion never calls user code (see CoerceText)
//   - Canonical JSON is RFC 8785: UTF-16 key order, NFC strings, no floats
//   - All JSON tags use snake_case
package ir
