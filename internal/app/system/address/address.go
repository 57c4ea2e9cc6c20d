// internal/app/system/address/address.go
//
// Package address is the serialization boundary for member addresses. The
// persisted form is an opaque JSON string on the member document; the API
// form is the structured models.Address. Decode failure yields nil rather
// than an error so a malformed stored address never blocks reading the
// rest of the member record.
package address

import (
	"encoding/json"
	"strings"

	"github.com/MusaCap/faithlink360/internal/domain/models"
)

// Encode serializes a structured address to its stored string form.
// A nil address encodes to "".
func Encode(a *models.Address) (string, error) {
	if a == nil {
		return "", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a stored address string. Empty, whitespace-only, or
// malformed input returns nil.
func Decode(s string) *models.Address {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var a models.Address
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return nil
	}
	return &a
}
