// internal/app/features/attendance/list.go
package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/pantry/query"

	"github.com/dalemusser/rollbook/internal/app/store/records"
	"github.com/dalemusser/rollbook/internal/app/system/paging"
	"github.com/dalemusser/rollbook/internal/app/system/timeouts"
	"github.com/dalemusser/rollbook/internal/domain/models"
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}_\d{2}$`)

// List handles GET /attendance.
//
// All filters are optional conjunctive equality predicates; results are
// newest-first by write timestamp and bounded by limit (default 50).
// hasMore is the look-ahead-free flag: true when the page is full.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := records.Filter{
		StudentID: query.Get(r, "studentId"),
		SubjectID: query.Get(r, "subjectId"),
		ClassID:   query.Get(r, "classId"),
		TeacherID: query.Get(r, "teacherId"),
	}

	if d := query.Get(r, "date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "list with bad date", err, "date must be YYYY-MM-DD.")
			return
		}
		f.Date = parsed
	}
	if m := query.Get(r, "month"); m != "" {
		if !monthKeyPattern.MatchString(m) {
			h.ErrLog.LogBadRequest(w, r, "list with bad month", nil, "month must be YYYY_MM.")
			return
		}
		f.MonthKey = m
	}
	if y := query.Get(r, "year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n < 1 {
			h.ErrLog.LogBadRequest(w, r, "list with bad year", err, "year must be a positive number.")
			return
		}
		f.Year = n
	}
	if st := query.Get(r, "status"); st != "" {
		if !models.ValidStatus(st) {
			h.ErrLog.LogBadRequest(w, r, "list with bad status", nil,
				"status must be one of present, absent, excused.")
			return
		}
		f.Status = st
	}

	limit := paging.ParseLimit(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	recs, err := h.Records.List(ctx, f, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "record list failed", err, "Unable to list attendance records.")
		return
	}
	if recs == nil {
		recs = []models.AttendanceRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{
		Records: recs,
		Count:   len(recs),
		HasMore: paging.HasMore(len(recs), limit),
	})
}
