// internal/app/system/csvutil/members.go
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MusaCap/faithlink360/internal/app/system/inputval"
	"github.com/MusaCap/faithlink360/internal/app/system/normalize"
)

// ErrTooManyRows is returned when the file exceeds ParseOptions.MaxRows.
var ErrTooManyRows = errors.New("csv has too many rows")

// MemberCSVRow is one normalized row from a member import file.
// Columns: First Name, Last Name, Email, Phone (optional).
type MemberCSVRow struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// RowError describes why one row was rejected. Line is 1-based and counts
// the header when present.
type RowError struct {
	Line   int      `json:"line"`
	Reason string   `json:"reason"`
	Raw    []string `json:"-"`
}

// ParseOptions controls parsing limits.
type ParseOptions struct {
	MaxRows int // 0 means MaxRows (the package default)
}

// DefaultParseOptions returns the standard limits for member imports.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{MaxRows: MaxRows}
}

// ParseResult holds the accepted rows and the per-row rejections.
type ParseResult struct {
	Rows   []MemberCSVRow
	Errors []RowError
}

// HasErrors reports whether any row was rejected.
func (r *ParseResult) HasErrors() bool { return len(r.Errors) > 0 }

// ErrorStrings renders the rejections as "line N: reason" lines, capped at
// maxShow with a trailing summary.
func (r *ParseResult) ErrorStrings(maxShow int) []string {
	if len(r.Errors) == 0 {
		return nil
	}
	n := len(r.Errors)
	if maxShow > 0 && n > maxShow {
		n = maxShow
	}
	out := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		e := r.Errors[i]
		out = append(out, fmt.Sprintf("line %d: %s", e.Line, e.Reason))
	}
	if rest := len(r.Errors) - n; rest > 0 {
		out = append(out, fmt.Sprintf("and %d more", rest))
	}
	return out
}

// ParseMemberCSV reads all rows from r, skips a header if present, and
// validates every row before anything touches the database. Rows sharing
// an email (case-insensitive) with an earlier row are rejected as
// duplicates. It returns ErrTooManyRows when the file exceeds the
// configured limit; per-row problems land in ParseResult.Errors instead.
func ParseMemberCSV(r io.Reader, opts ParseOptions) (*ParseResult, error) {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = MaxRows
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ParseResult{}
	seen := map[string]bool{}
	line := 0

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line++
			if len(result.Rows)+len(result.Errors) >= maxRows {
				return nil, ErrTooManyRows
			}
			result.Errors = append(result.Errors, RowError{Line: line, Reason: "malformed row: " + err.Error()})
			continue
		}
		line++

		if line == 1 && len(rec) > 0 {
			// Strip a UTF-8 BOM before header detection.
			rec[0] = strings.TrimPrefix(rec[0], "\xef\xbb\xbf")
			if isHeader(rec) {
				continue
			}
		}

		row := normalizeRow(rec)
		if row.FirstName == "" && row.LastName == "" && row.Email == "" && row.Phone == "" {
			continue
		}

		if len(result.Rows)+len(result.Errors) >= maxRows {
			return nil, ErrTooManyRows
		}

		switch {
		case row.FirstName == "":
			result.Errors = append(result.Errors, RowError{Line: line, Reason: "missing first name", Raw: rec})
		case row.LastName == "":
			result.Errors = append(result.Errors, RowError{Line: line, Reason: "missing last name", Raw: rec})
		case row.Email == "":
			result.Errors = append(result.Errors, RowError{Line: line, Reason: "missing email", Raw: rec})
		case !inputval.IsValidEmail(row.Email):
			result.Errors = append(result.Errors, RowError{Line: line, Reason: "invalid email", Raw: rec})
		case seen[row.Email]:
			result.Errors = append(result.Errors, RowError{Line: line, Reason: "duplicate email in file", Raw: rec})
		default:
			seen[row.Email] = true
			result.Rows = append(result.Rows, row)
		}
	}

	return result, nil
}

func isHeader(rec []string) bool {
	if len(rec) < 3 {
		return false
	}
	first := strings.TrimSpace(rec[0])
	last := strings.TrimSpace(rec[1])
	email := strings.TrimSpace(rec[2])
	return (strings.EqualFold(first, "first name") || strings.EqualFold(first, "firstname")) &&
		(strings.EqualFold(last, "last name") || strings.EqualFold(last, "lastname")) &&
		strings.EqualFold(email, "email")
}

func normalizeRow(rec []string) MemberCSVRow {
	var row MemberCSVRow
	if len(rec) > 0 {
		row.FirstName = normalize.Name(rec[0])
	}
	if len(rec) > 1 {
		row.LastName = normalize.Name(rec[1])
	}
	if len(rec) > 2 {
		row.Email = normalize.Email(rec[2])
	}
	if len(rec) > 3 {
		row.Phone = normalize.Phone(rec[3])
	}
	return row
}
