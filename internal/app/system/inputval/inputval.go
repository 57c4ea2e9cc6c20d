// internal/app/system/inputval/inputval.go
//
// Package inputval validates request input at the API boundary. It provides
// standalone predicates (IsValidEmail, IsValidObjectID) plus a small
// tag-driven Validate for request payload structs:
//
//	type createMemberInput struct {
//	    FirstName string `validate:"required,max=100" label:"First name"`
//	    Email     string `validate:"required,email" label:"Email"`
//	}
//
// Supported rules: required, max=N, email, objectid, memberstatus.
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/MusaCap/faithlink360/internal/domain/models"
)

// IsValidEmail reports whether s is a plausible email address. It is
// deliberately stricter than "contains an @": it rejects display-name
// forms, embedded whitespace, and dotted-edge local/domain parts, while
// still allowing single-label domains for dev and test environments.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if strings.ContainsAny(s, " \t<>") {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return false
		}
		for _, r := range label {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-') {
				return false
			}
		}
	}
	return true
}

// IsValidObjectID reports whether s (after trimming) is a 24-character hex
// string, the wire form of a Mongo ObjectID.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures. A zero Result means valid input.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All returns every error message joined with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Validate applies the `validate` tag rules to every string field of the
// struct v. Non-required rules are skipped for empty values so optional
// fields stay optional.
func Validate(v any) *Result {
	res := &Result{}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return res
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || field.Type.Kind() != reflect.String {
			continue
		}
		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		val := strings.TrimSpace(rv.Field(i).String())

		for _, rule := range strings.Split(tag, ",") {
			if msg := applyRule(rule, label, val); msg != "" {
				res.Errors = append(res.Errors, FieldError{Field: field.Name, Message: msg})
			}
		}
	}
	return res
}

func applyRule(rule, label, val string) string {
	switch {
	case rule == "required":
		if val == "" {
			return label + " is required."
		}
	case strings.HasPrefix(rule, "max="):
		n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
		if err == nil && len(val) > n {
			return fmt.Sprintf("%s must be at most %d characters.", label, n)
		}
	case rule == "email":
		if val != "" && !IsValidEmail(val) {
			return "A valid email address is required."
		}
	case rule == "objectid":
		if val != "" && !IsValidObjectID(val) {
			return label + " is not a valid id."
		}
	case rule == "memberstatus":
		if val != "" && !models.ValidMemberStatus(val) {
			return label + ` must be "pending", "active", or "inactive".`
		}
	}
	return ""
}
