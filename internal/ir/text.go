package ir

import "golang.org/x/text/unicode/norm"

// CoerceText is the best-effort string coercion used when reading name
// attributes.
//
// Only Str values coerce. Nothing else does, not even values whose class
// defines a conversion hook: calling that hook would re-enter program code,
// which introspection must never do. The result is NFC-normalized so names
// compare equal regardless of how the source spelled them.
func CoerceText(v Value) (string, bool) {
	s, ok := v.(Str)
	if !ok {
		return "", false
	}
	return norm.NFC.String(string(s)), true
}
