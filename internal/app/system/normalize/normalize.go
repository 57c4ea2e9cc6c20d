// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address. Storage and lookups always
// go through this so that uniqueness is case-insensitive.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Phone strips spaces, dashes, dots, and parentheses, keeping digits and a
// leading plus. It does not validate; an empty result means no phone.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Label trims whitespace and collapses internal runs of spaces, for tag
// names, ministries, and skills.
func Label(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
