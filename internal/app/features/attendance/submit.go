// internal/app/features/attendance/submit.go
package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dalemusser/rollbook/internal/app/store/records"
	"github.com/dalemusser/rollbook/internal/app/store/summaries"
	"github.com/dalemusser/rollbook/internal/app/system/timeouts"
	"github.com/dalemusser/rollbook/internal/domain/models"
)

// Submit handles POST /attendance.
//
// The submission is validated, checked against the subjects collection,
// written as one raw record per student (concurrently), and then folded
// into the three summary kinds. Raw-record failures skip the summary
// fold; already-written records stay put and a rebuild reconciles them.
// Summary failures leave the raw records persisted.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode submission failed", err, "Invalid JSON body.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "submission validation failed", err,
			"subjectId, teacherId, date (YYYY-MM-DD) and at least one record with a valid status are required.")
		return
	}

	// Date format is enforced by validation; this parse cannot fail.
	date, _ := time.Parse("2006-01-02", req.Date)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ok, err := h.Subjects.Exists(ctx, req.SubjectID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "subject lookup failed", err, "Unable to verify subject.")
		return
	}
	if !ok {
		h.ErrLog.LogNotFound(w, r, "submission for unknown subject", "Subject not found.")
		return
	}

	submissionID := uuid.NewString()
	batchID := models.BatchID(req.SubjectID, date)

	recs := make([]models.AttendanceRecord, len(req.Records))
	entries := make([]summaries.Entry, len(req.Records))
	for i, e := range req.Records {
		rec := models.AttendanceRecord{
			StudentID:    e.StudentID,
			SubjectID:    req.SubjectID,
			TeacherID:    req.TeacherID,
			ClassID:      req.ClassID,
			BatchID:      batchID,
			SubmissionID: submissionID,
			Status:       e.Status,
			Note:         strings.TrimSpace(h.notes.Sanitize(e.Note)),
		}
		rec.SetDate(date)
		recs[i] = rec
		entries[i] = summaries.Entry{StudentID: e.StudentID, Status: e.Status}
	}

	if err := h.Records.CreateBatch(ctx, recs); err != nil {
		if records.IsPartialWrite(err) {
			h.ErrLog.LogServerError(w, r, "partial record write", err,
				"Some attendance records could not be written; re-submit or rebuild summaries.")
			return
		}
		h.ErrLog.LogServerError(w, r, "record write failed", err, "Unable to write attendance records.")
		return
	}

	batch := summaries.NewBatch(req.SubjectID, req.ClassID, models.MonthKey(date), entries)
	if err := h.Summaries.ApplyBatch(ctx, batch); err != nil {
		h.ErrLog.LogServerError(w, r, "summary aggregation failed", err,
			"Attendance records were saved but summaries could not be fully updated.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(submitResponse{
		Success:      true,
		RecordCount:  len(recs),
		PresentCount: int(batch.Present),
		AbsentCount:  int(batch.Absent),
		ExcusedCount: int(batch.Excused),
		BatchID:      batchID,
		SubmissionID: submissionID,
	})
}
