package paging

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParse_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/members", nil)
	p := Parse(r, "last_name_ci", "last_name_ci", "email", "joined_at")

	if p.SortBy != "last_name_ci" {
		t.Errorf("SortBy = %q, want last_name_ci", p.SortBy)
	}
	if p.SortOrder != Ascending {
		t.Errorf("SortOrder = %q, want asc", p.SortOrder)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset != 0 {
		t.Errorf("Offset = %d, want 0", p.Offset)
	}
}

func TestParse_Values(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/members?sortBy=email&sortOrder=desc&limit=5&offset=10", nil)
	p := Parse(r, "last_name_ci", "last_name_ci", "email")

	if p.SortBy != "email" {
		t.Errorf("SortBy = %q, want email", p.SortBy)
	}
	if p.SortOrder != Descending {
		t.Errorf("SortOrder = %q, want desc", p.SortOrder)
	}
	if p.Limit != 5 {
		t.Errorf("Limit = %d, want 5", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("Offset = %d, want 10", p.Offset)
	}
}

func TestParse_Clamping(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantSort   string
		wantLimit  int
		wantOffset int
	}{
		{"unknown sort falls back", "?sortBy=password", "last_name_ci", DefaultLimit, 0},
		{"limit above max clamps", "?limit=9999", "last_name_ci", MaxLimit, 0},
		{"zero limit falls back", "?limit=0", "last_name_ci", DefaultLimit, 0},
		{"negative offset falls back", "?offset=-5", "last_name_ci", DefaultLimit, 0},
		{"garbage numbers fall back", "?limit=abc&offset=xyz", "last_name_ci", DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/members"+tt.query, nil)
			p := Parse(r, "last_name_ci", "last_name_ci", "email")
			if p.SortBy != tt.wantSort {
				t.Errorf("SortBy = %q, want %q", p.SortBy, tt.wantSort)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", p.Limit, tt.wantLimit)
			}
			if p.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", p.Offset, tt.wantOffset)
			}
		})
	}
}

func TestSort_SecondaryKey(t *testing.T) {
	p := Page{SortBy: "email", SortOrder: Descending}
	got := p.Sort()
	want := bson.D{
		{Key: "email", Value: -1},
		{Key: "_id", Value: -1},
	}
	if len(got) != len(want) {
		t.Fatalf("Sort() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Key != want[i].Key || got[i].Value != want[i].Value {
			t.Errorf("Sort()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
