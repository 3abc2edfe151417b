package types

import "strings"

// TrimToNil trims s and returns nil when nothing is left.
func TrimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IsBlank reports whether s is nil or only whitespace.
func IsBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
