// internal/app/features/members/importcsv.go
package members

import (
	"errors"
	"net/http"

	memberstore "github.com/MusaCap/faithlink360/internal/app/store/members"
	"github.com/MusaCap/faithlink360/internal/app/system/csvutil"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/metrics"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// importResponse reports the outcome of one CSV import batch. Skipped
// counts rows that parsed but collided with an existing member's email.
type importResponse struct {
	BatchID string             `json:"batchId"`
	Created int                `json:"created"`
	Skipped int                `json:"skipped"`
	Errors  []csvutil.RowError `json:"errors,omitempty"`
}

// ImportCSV handles POST /api/members/import_csv. The file is parsed and
// validated in full before any member is written; row-level problems are
// reported back with line numbers and never abort the rest of the batch.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)
	if err := r.ParseMultipartForm(csvutil.MaxUploadSize); err != nil {
		httpjson.BadRequest(w, "upload must be multipart form data with a \"file\" field")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpjson.BadRequest(w, "missing \"file\" field")
		return
	}
	defer file.Close()

	result, err := csvutil.ParseMemberCSV(file, csvutil.DefaultParseOptions())
	if errors.Is(err, csvutil.ErrTooManyRows) {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "member csv parse failed", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "member csv import")
	defer cancel()

	resp := importResponse{
		BatchID: uuid.NewString(),
		Errors:  result.Errors,
	}
	for _, row := range result.Rows {
		_, err := h.Members.Create(ctx, memberstore.WriteParams{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
			Phone:     row.Phone,
		})
		switch {
		case errors.Is(err, memberstore.ErrDuplicateEmail):
			resp.Skipped++
		case err != nil:
			httpjson.Internal(w, h.Log, "member csv import failed", err)
			return
		default:
			resp.Created++
		}
	}

	h.Log.Info("member csv import finished",
		zap.String("batch_id", resp.BatchID),
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
		zap.Int("rejected_rows", len(resp.Errors)),
	)
	h.Audit.MembersImported(ctx, r, resp.BatchID, resp.Created, resp.Skipped)
	metrics.MembersImported(resp.Created, resp.Skipped)

	httpjson.Respond(w, http.StatusOK, resp)
}
