// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Package htmlsanitize strips dangerous markup from user-supplied HTML
// before it is stored. Care-log notes and announcement bodies pass through
// Sanitize on every write.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Tables pasted from rich-text editors carry presentational classes.
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
	return p
}

// Sanitize returns s with scripts, event handlers, and javascript: URLs
// removed. Safe formatting tags and http/https links are preserved.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
