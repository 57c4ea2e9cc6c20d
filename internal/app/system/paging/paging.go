// internal/app/system/paging/paging.go
//
// Package paging provides the offset/limit envelope for list endpoints.
// Every list query sorts on a caller-chosen field with _id as the
// secondary key, so repeated requests against an unchanged dataset return
// items in the same relative order and adjacent pages never duplicate or
// skip records.
package paging

import (
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when the caller does not send one.
const DefaultLimit = 20

// MaxLimit caps the page size a caller can request.
const MaxLimit = 100

// Ascending / Descending are the wire values for sortOrder.
const (
	Ascending  = "asc"
	Descending = "desc"
)

// Page holds normalized sort/limit/offset parameters for one list request.
type Page struct {
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

// Parse extracts sortBy/sortOrder/limit/offset from the query string,
// clamping out-of-range values. defaultSort names the field used when
// sortBy is absent or not in allowedSorts.
func Parse(r *http.Request, defaultSort string, allowedSorts ...string) Page {
	q := r.URL.Query()

	p := Page{
		SortBy:    strings.TrimSpace(q.Get("sortBy")),
		SortOrder: strings.ToLower(strings.TrimSpace(q.Get("sortOrder"))),
		Limit:     DefaultLimit,
		Offset:    0,
	}

	allowed := false
	for _, s := range allowedSorts {
		if p.SortBy == s {
			allowed = true
			break
		}
	}
	if !allowed {
		p.SortBy = defaultSort
	}
	if p.SortOrder != Descending {
		p.SortOrder = Ascending
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Offset = n
		}
	}

	return p
}

// Sort returns the Mongo sort document: the chosen field plus _id as the
// stable tiebreaker, both in the requested direction.
func (p Page) Sort() bson.D {
	dir := 1
	if p.SortOrder == Descending {
		dir = -1
	}
	return bson.D{
		{Key: p.SortBy, Value: dir},
		{Key: "_id", Value: dir},
	}
}

// FindOptions returns Find options with the sort, limit, and offset applied.
func (p Page) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(p.Sort()).
		SetLimit(int64(p.Limit)).
		SetSkip(int64(p.Offset))
}
