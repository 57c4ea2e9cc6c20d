// internal/app/system/filters/filters.go
//
// Package filters turns the raw query parameters of a member list request
// into a typed MemberFilter and a persistence predicate. Parsing and
// validation happen once at the boundary; the predicate build is a pure
// function of the filter plus "now" (needed for age-to-birth-date
// conversion), so tests fix the clock.
package filters

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/normalize"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberFilter is the normalized set of search parameters for a member
// list query. The json tags define the shape echoed back to the caller in
// the list envelope.
type MemberFilter struct {
	Query     string     `json:"query,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Statuses  []string   `json:"status,omitempty"`
	AgeMin    *int       `json:"ageMin,omitempty"`
	AgeMax    *int       `json:"ageMax,omitempty"`
	JoinStart *time.Time `json:"joinStart,omitempty"`
	JoinEnd   *time.Time `json:"joinEnd,omitempty"`

	paging.Page
}

// Predicate is the persistence-layer form of a MemberFilter. Match applies
// directly to the members collection. TagNames is resolved by the store
// against the member_tags links before the find runs (a member matches
// when it has at least one of the named tags).
type Predicate struct {
	Match    bson.M
	TagNames []string
}

// memberSortFields maps wire sortBy values to stored field names.
var memberSortFields = map[string]string{
	"firstName":   "first_name",
	"lastName":    "last_name_ci",
	"email":       "email",
	"status":      "status",
	"joinedAt":    "joined_at",
	"dateOfBirth": "date_of_birth",
	"createdAt":   "created_at",
}

// Echo returns a copy of the filter with SortBy mapped back from the
// stored field name to its wire name, for echoing in the list envelope.
func (f MemberFilter) Echo() MemberFilter {
	for wire, stored := range memberSortFields {
		if f.SortBy == stored {
			f.SortBy = wire
			break
		}
	}
	return f
}

// ParseMember extracts and validates a MemberFilter from the request query
// string. Unknown statuses, non-numeric ages, and unparsable dates are
// rejected here so handlers can map the error straight to a 400.
func ParseMember(r *http.Request) (MemberFilter, error) {
	q := r.URL.Query()
	var f MemberFilter

	f.Query = strings.TrimSpace(q.Get("query"))
	f.Tags = splitList(q.Get("tags"))

	for _, s := range splitList(q.Get("status")) {
		s = strings.ToLower(s)
		if !models.ValidMemberStatus(s) {
			return f, fmt.Errorf("invalid status %q", s)
		}
		f.Statuses = append(f.Statuses, s)
	}

	var err error
	if f.AgeMin, err = parseAge(q.Get("ageMin"), "ageMin"); err != nil {
		return f, err
	}
	if f.AgeMax, err = parseAge(q.Get("ageMax"), "ageMax"); err != nil {
		return f, err
	}
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return f, fmt.Errorf("ageMin %d is greater than ageMax %d", *f.AgeMin, *f.AgeMax)
	}

	if f.JoinStart, err = parseDate(q.Get("joinStart"), "joinStart"); err != nil {
		return f, err
	}
	if f.JoinEnd, err = parseDate(q.Get("joinEnd"), "joinEnd"); err != nil {
		return f, err
	}

	page := paging.Parse(r, "lastName",
		"firstName", "lastName", "email", "status", "joinedAt", "dateOfBirth", "createdAt")
	page.SortBy = memberSortFields[page.SortBy]
	f.Page = page

	return f, nil
}

// Predicate builds the persistence predicate for the filter. now anchors
// the age-to-birth-date conversion and is injected for determinism.
func (f MemberFilter) Predicate(now time.Time) Predicate {
	m := bson.M{}

	if f.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		m["$or"] = []bson.M{
			{"first_name": re},
			{"last_name": re},
			{"email": re},
		}
	}

	if len(f.Statuses) > 0 {
		m["status"] = bson.M{"$in": f.Statuses}
	}

	// Age bounds invert into birth-date bounds: an age minimum caps how
	// recently the member can have been born, an age maximum floors it.
	dob := bson.M{}
	if f.AgeMin != nil {
		dob["$lte"] = BirthDateUpperBound(now, *f.AgeMin)
	}
	if f.AgeMax != nil {
		dob["$gte"] = BirthDateLowerBound(now, *f.AgeMax)
	}
	if len(dob) > 0 {
		m["date_of_birth"] = dob
	}

	joined := bson.M{}
	if f.JoinStart != nil {
		joined["$gte"] = *f.JoinStart
	}
	if f.JoinEnd != nil {
		joined["$lte"] = *f.JoinEnd
	}
	if len(joined) > 0 {
		m["joined_at"] = joined
	}

	return Predicate{Match: m, TagNames: f.Tags}
}

// BirthDateUpperBound returns the latest birth date a member can have and
// still be at least ageMin years old at now.
func BirthDateUpperBound(now time.Time, ageMin int) time.Time {
	return now.UTC().AddDate(-ageMin, 0, 0)
}

// BirthDateLowerBound returns the earliest birth date a member can have
// and still be at most ageMax years old at now.
func BirthDateLowerBound(now time.Time, ageMax int) time.Time {
	return now.UTC().AddDate(-ageMax, 0, 0)
}

func parseAge(s, name string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return &n, nil
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(s, name string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%s must be an RFC 3339 timestamp or YYYY-MM-DD date", name)
}

// splitList splits a comma-separated wire value into trimmed, non-empty
// labels.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := normalize.Label(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
