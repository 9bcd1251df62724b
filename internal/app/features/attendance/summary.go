// internal/app/features/attendance/summary.go
package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"

	"github.com/dalemusser/rollbook/internal/app/store/summaries"
	"github.com/dalemusser/rollbook/internal/app/system/percent"
	"github.com/dalemusser/rollbook/internal/app/system/timeouts"
	"github.com/dalemusser/rollbook/internal/domain/models"
)

// Summary handles GET /attendance/summary?type=student|subject|class&id=<entityId>.
//
// Percentages are projected here at read time and never persisted; the
// stored document carries only raw counters.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	kind := query.Get(r, "type")
	id := query.Get(r, "id")
	if id == "" {
		h.ErrLog.LogBadRequest(w, r, "summary request missing id", nil, "id is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var (
		view any
		err  error
	)
	switch kind {
	case models.SummaryKindStudent:
		view, err = h.studentView(ctx, id)
	case models.SummaryKindSubject:
		view, err = h.subjectView(ctx, id)
	case models.SummaryKindClass:
		view, err = h.classView(ctx, id)
	default:
		h.ErrLog.LogBadRequest(w, r, "summary request with bad type", nil,
			"type must be one of student, subject, class.")
		return
	}

	if errors.Is(err, summaries.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "summary not found", "No attendance summary for that entity yet.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "summary fetch failed", err, "Unable to load attendance summary.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}

func (h *Handler) studentView(ctx context.Context, id string) (any, error) {
	sum, err := h.Summaries.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	view := studentSummaryView{
		ID:                   sum.ID,
		StudentID:            sum.EntityID,
		TotalDays:            sum.TotalDays,
		PresentDays:          sum.PresentDays,
		AbsentDays:           sum.AbsentDays,
		ExcusedDays:          sum.ExcusedDays,
		AttendancePercentage: percent.Weighted(sum.PresentDays, sum.ExcusedDays, sum.TotalDays),
		MonthlyAttendance:    dayBuckets(sum.ByMonth),
		SubjectAttendance:    dayBuckets(sum.Subjects),
	}
	return view, nil
}

func (h *Handler) subjectView(ctx context.Context, id string) (any, error) {
	sum, err := h.Summaries.GetSubject(ctx, id)
	if err != nil {
		return nil, err
	}

	view := subjectSummaryView{
		ID:            sum.ID,
		SubjectID:     sum.EntityID,
		TotalSessions: sum.Sessions,
		TotalStudents: sum.TotalStudents,
		PresentCount:  sum.PresentCount,
		AbsentCount:   sum.AbsentCount,
		ExcusedCount:  sum.ExcusedCount,
		AttendancePercentage: percent.Sessions(
			sum.PresentCount, sum.ExcusedCount, sum.Sessions, sum.TotalStudents),
		MonthlyAttendance: sessionBuckets(sum.ByMonth, sum.TotalStudents),
	}
	return view, nil
}

func (h *Handler) classView(ctx context.Context, id string) (any, error) {
	sum, err := h.Summaries.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}

	// The class-wide counts are the sum of its per-subject buckets.
	var present, excused int64
	for _, sc := range sum.Subjects {
		present += sc.PresentCount
		excused += sc.ExcusedCount
	}

	view := classSummaryView{
		ID:            sum.ID,
		ClassID:       sum.EntityID,
		TotalSessions: sum.Sessions,
		TotalStudents: sum.TotalStudents,
		PresentCount:  sum.PresentCount,
		AbsentCount:   sum.AbsentCount,
		ExcusedCount:  sum.ExcusedCount,
		AttendancePercentage: percent.Sessions(
			present, excused, sum.Sessions, sum.TotalStudents),
		MonthlyAttendance: sessionBuckets(sum.ByMonth, sum.TotalStudents),
		SubjectAttendance: sessionBuckets(sum.Subjects, sum.TotalStudents),
	}
	return view, nil
}

// dayBuckets projects a map of student day-counters.
func dayBuckets(in map[string]*models.DayCounter) map[string]dayBucket {
	out := make(map[string]dayBucket, len(in))
	for k, c := range in {
		out[k] = dayBucket{
			DayCounter: *c,
			Percentage: percent.Weighted(c.PresentDays, c.ExcusedDays, c.TotalDays),
		}
	}
	return out
}

// sessionBuckets projects a map of session counters. Each bucket's
// denominator is that bucket's sessions times the summary-level roster
// size (last-write-wins totalStudents).
func sessionBuckets(in map[string]*models.SessionCounter, students int64) map[string]sessionBucket {
	out := make(map[string]sessionBucket, len(in))
	for k, c := range in {
		out[k] = sessionBucket{
			SessionCounter: *c,
			Percentage:     percent.Sessions(c.PresentCount, c.ExcusedCount, c.Sessions, students),
		}
	}
	return out
}
