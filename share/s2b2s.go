package share

import "unsafe"

// B2s views b as a string without copying. b must not be modified afterwards.
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// S2b views s as a byte slice without copying. The result must not be modified.
func S2b(s string) []byte {
	if s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
