package attendance_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/rollbook/internal/app/features/attendance"
	uierrors "github.com/dalemusser/rollbook/internal/app/features/errors"
	"github.com/dalemusser/rollbook/internal/testutil"
)

func setup(t *testing.T) (chi.Router, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := attendance.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return attendance.Routes(h), testutil.NewFixtures(t, db)
}

func doJSON(t *testing.T, router chi.Router, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func submission(subjectID, date string, marks map[string]string) map[string]any {
	recs := make([]map[string]any, 0, len(marks))
	for id, status := range marks {
		recs = append(recs, map[string]any{"studentId": id, "status": status})
	}
	return map[string]any{
		"subjectId": subjectID,
		"teacherId": "T1",
		"classId":   "C1",
		"date":      date,
		"records":   recs,
	}
}

func TestSubmit_ValidSubmission(t *testing.T) {
	router, fix := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fix.CreateSubjectInClass(ctx, "S1", "Mathematics", "C1", "T1")

	rec := doJSON(t, router, http.MethodPost, "/", submission("S1", "2024-03-05", map[string]string{
		"U1": "present",
		"U2": "absent",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success      bool   `json:"success"`
		RecordCount  int    `json:"recordCount"`
		PresentCount int    `json:"presentCount"`
		AbsentCount  int    `json:"absentCount"`
		ExcusedCount int    `json:"excusedCount"`
		BatchID      string `json:"batchId"`
		SubmissionID string `json:"submissionId"`
	}
	decode(t, rec, &resp)
	if !resp.Success || resp.RecordCount != 2 {
		t.Errorf("success=%v recordCount=%d, want true/2", resp.Success, resp.RecordCount)
	}
	if resp.PresentCount != 1 || resp.AbsentCount != 1 || resp.ExcusedCount != 0 {
		t.Errorf("counts: %d/%d/%d, want 1/1/0", resp.PresentCount, resp.AbsentCount, resp.ExcusedCount)
	}
	if resp.BatchID != "S1_2024-03-05" {
		t.Errorf("batchId: got %q, want S1_2024-03-05", resp.BatchID)
	}
	if resp.SubmissionID == "" {
		t.Error("submissionId missing")
	}
}

func TestSubmit_Rejections(t *testing.T) {
	router, fix := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fix.CreateSubject(ctx, "S1", "Mathematics")

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "missing subject",
			body: map[string]any{
				"teacherId": "T1", "date": "2024-03-05",
				"records": []map[string]any{{"studentId": "U1", "status": "present"}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "missing teacher",
			body: map[string]any{
				"subjectId": "S1", "date": "2024-03-05",
				"records": []map[string]any{{"studentId": "U1", "status": "present"}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "bad date format",
			body: submission("S1", "03/05/2024", map[string]string{"U1": "present"}),
			want: http.StatusBadRequest,
		},
		{
			name: "invalid status",
			body: submission("S1", "2024-03-05", map[string]string{"U1": "tardy"}),
			want: http.StatusBadRequest,
		},
		{
			name: "empty records",
			body: map[string]any{
				"subjectId": "S1", "teacherId": "T1", "date": "2024-03-05",
				"records": []map[string]any{},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown subject",
			body: submission("S404", "2024-03-05", map[string]string{"U1": "present"}),
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d (body: %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestSubmit_BadJSON(t *testing.T) {
	router, _ := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestSummary_StudentAfterTwoDays(t *testing.T) {
	router, fix := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fix.CreateSubjectInClass(ctx, "S1", "Mathematics", "C1", "T1")

	for _, sub := range []struct {
		date   string
		status string
	}{
		{"2024-03-05", "present"},
		{"2024-03-06", "excused"},
	} {
		rec := doJSON(t, router, http.MethodPost, "/", submission("S1", sub.date, map[string]string{
			"U1": sub.status,
		}))
		if rec.Code != http.StatusCreated {
			t.Fatalf("submit %s: got %d (body: %s)", sub.date, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/summary?type=student&id=U1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var view struct {
		StudentID            string `json:"studentId"`
		TotalDays            int64  `json:"totalDays"`
		PresentDays          int64  `json:"presentDays"`
		ExcusedDays          int64  `json:"excusedDays"`
		AttendancePercentage int    `json:"attendancePercentage"`
		MonthlyAttendance    map[string]struct {
			TotalDays  int64 `json:"totalDays"`
			Percentage int   `json:"percentage"`
		} `json:"monthlyAttendance"`
		SubjectAttendance map[string]struct {
			TotalDays int64 `json:"totalDays"`
		} `json:"subjectAttendance"`
	}
	decode(t, rec, &view)

	if view.StudentID != "U1" || view.TotalDays != 2 {
		t.Errorf("studentId=%q totalDays=%d, want U1/2", view.StudentID, view.TotalDays)
	}
	// (1 present + 0.5 * 1 excused) / 2 days = 75
	if view.AttendancePercentage != 75 {
		t.Errorf("attendancePercentage: got %d, want 75", view.AttendancePercentage)
	}
	if m := view.MonthlyAttendance["2024_03"]; m.TotalDays != 2 || m.Percentage != 75 {
		t.Errorf("month bucket: %+v, want totalDays=2 percentage=75", m)
	}
	if view.SubjectAttendance["S1"].TotalDays != 2 {
		t.Errorf("subject bucket totalDays: got %d, want 2", view.SubjectAttendance["S1"].TotalDays)
	}
}

func TestSummary_SubjectAndClass(t *testing.T) {
	router, fix := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fix.CreateSubjectInClass(ctx, "S1", "Mathematics", "C1", "T1")

	rec := doJSON(t, router, http.MethodPost, "/", submission("S1", "2024-03-05", map[string]string{
		"U1": "present",
		"U2": "absent",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/summary?type=subject&id=S1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("subject summary: got %d", rec.Code)
	}
	var sub struct {
		SubjectID            string `json:"subjectId"`
		TotalSessions        int64  `json:"totalSessions"`
		TotalStudents        int64  `json:"totalStudents"`
		PresentCount         int64  `json:"presentCount"`
		AttendancePercentage int    `json:"attendancePercentage"`
	}
	decode(t, rec, &sub)
	if sub.TotalSessions != 1 || sub.TotalStudents != 2 || sub.PresentCount != 1 {
		t.Errorf("subject: %+v", sub)
	}
	// 1 present of 1 session * 2 students = 50
	if sub.AttendancePercentage != 50 {
		t.Errorf("subject percentage: got %d, want 50", sub.AttendancePercentage)
	}

	rec = doJSON(t, router, http.MethodGet, "/summary?type=class&id=C1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("class summary: got %d", rec.Code)
	}
	var cl struct {
		ClassID              string `json:"classId"`
		TotalSessions        int64  `json:"totalSessions"`
		AttendancePercentage int    `json:"attendancePercentage"`
		SubjectAttendance    map[string]struct {
			Sessions int64 `json:"sessions"`
		} `json:"subjectAttendance"`
	}
	decode(t, rec, &cl)
	if cl.ClassID != "C1" || cl.TotalSessions != 1 {
		t.Errorf("class: %+v", cl)
	}
	if cl.AttendancePercentage != 50 {
		t.Errorf("class percentage: got %d, want 50", cl.AttendancePercentage)
	}
	if cl.SubjectAttendance["S1"].Sessions != 1 {
		t.Error("class subject bucket missing")
	}
}

func TestSummary_Rejections(t *testing.T) {
	router, _ := setup(t)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing id", "/summary?type=student", http.StatusBadRequest},
		{"bad type", "/summary?type=teacher&id=T1", http.StatusBadRequest},
		{"student not found", "/summary?type=student&id=nobody", http.StatusNotFound},
		{"subject not found", "/summary?type=subject&id=nothing", http.StatusNotFound},
		{"class not found", "/summary?type=class&id=nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, tt.target, nil)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestList_FilterAndPaging(t *testing.T) {
	router, fix := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fix.CreateSubjectInClass(ctx, "S1", "Mathematics", "C1", "T1")

	for _, date := range []string{"2024-03-05", "2024-03-06", "2024-04-02"} {
		rec := doJSON(t, router, http.MethodPost, "/", submission("S1", date, map[string]string{
			"U1": "present",
		}))
		if rec.Code != http.StatusCreated {
			t.Fatalf("submit %s: got %d", date, rec.Code)
		}
	}

	var resp struct {
		Records []struct {
			StudentID string `json:"studentId"`
			MonthKey  string `json:"monthKey"`
		} `json:"records"`
		Count   int  `json:"count"`
		HasMore bool `json:"hasMore"`
	}

	rec := doJSON(t, router, http.MethodGet, "/?month=2024_03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	decode(t, rec, &resp)
	if resp.Count != 2 || len(resp.Records) != 2 {
		t.Errorf("month filter: count=%d records=%d, want 2/2", resp.Count, len(resp.Records))
	}
	for _, r := range resp.Records {
		if r.MonthKey != "2024_03" {
			t.Errorf("record outside month filter: %q", r.MonthKey)
		}
	}

	rec = doJSON(t, router, http.MethodGet, "/?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	decode(t, rec, &resp)
	if resp.Count != 2 || !resp.HasMore {
		t.Errorf("limit 2: count=%d hasMore=%v, want 2/true", resp.Count, resp.HasMore)
	}

	rec = doJSON(t, router, http.MethodGet, "/?studentId=U1", nil)
	decode(t, rec, &resp)
	if resp.Count != 3 || resp.HasMore {
		t.Errorf("student filter: count=%d hasMore=%v, want 3/false", resp.Count, resp.HasMore)
	}
}

func TestList_Rejections(t *testing.T) {
	router, _ := setup(t)

	tests := []struct {
		name   string
		target string
	}{
		{"bad month key", "/?month=2024-03"},
		{"bad date", "/?date=03/05/2024"},
		{"bad year", "/?year=twenty"},
		{"bad status", "/?status=tardy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, tt.target, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400 (body: %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestList_Empty(t *testing.T) {
	router, _ := setup(t)

	rec := doJSON(t, router, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var resp struct {
		Records []json.RawMessage `json:"records"`
		Count   int               `json:"count"`
	}
	decode(t, rec, &resp)
	if resp.Records == nil {
		t.Error("records should encode as [], not null")
	}
	if resp.Count != 0 {
		t.Errorf("count: got %d, want 0", resp.Count)
	}
}

func TestRebuild_Endpoint(t *testing.T) {
	router, fix := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fix.CreateSubjectInClass(ctx, "S1", "Mathematics", "C1", "T1")

	rec := doJSON(t, router, http.MethodPost, "/", submission("S1", "2024-03-05", map[string]string{
		"U1": "present",
		"U2": "absent",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/rebuild", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rebuild: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success      bool  `json:"success"`
		SummaryCount int64 `json:"summaryCount"`
		RecordCount  int64 `json:"recordCount"`
	}
	decode(t, rec, &resp)
	if !resp.Success {
		t.Error("expected success")
	}
	// 2 students + 1 subject + 1 class
	if resp.SummaryCount != 4 {
		t.Errorf("summaryCount: got %d, want 4", resp.SummaryCount)
	}
	if resp.RecordCount != 2 {
		t.Errorf("recordCount: got %d, want 2", resp.RecordCount)
	}

	rec = doJSON(t, router, http.MethodGet, "/summary?type=student&id=U1", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("summary after rebuild: got %d", rec.Code)
	}
}
