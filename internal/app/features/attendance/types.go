// internal/app/features/attendance/types.go
package attendance

import "github.com/dalemusser/rollbook/internal/domain/models"

// submitEntry is one student's mark inside a submission.
type submitEntry struct {
	StudentID string `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent excused"`
	Note      string `json:"note" validate:"omitempty,max=500"`
}

// submitRequest is the POST /attendance body: one teacher's attendance
// sheet for one subject on one date.
type submitRequest struct {
	SubjectID string        `json:"subjectId" validate:"required"`
	TeacherID string        `json:"teacherId" validate:"required"`
	ClassID   string        `json:"classId"`
	Date      string        `json:"date" validate:"required,datetime=2006-01-02"`
	Records   []submitEntry `json:"records" validate:"required,min=1,dive"`
}

// submitResponse reports the accepted submission and its derived counts.
type submitResponse struct {
	Success      bool   `json:"success"`
	RecordCount  int    `json:"recordCount"`
	PresentCount int    `json:"presentCount"`
	AbsentCount  int    `json:"absentCount"`
	ExcusedCount int    `json:"excusedCount"`
	BatchID      string `json:"batchId"`
	SubmissionID string `json:"submissionId"`
}

// listResponse is the GET /attendance body.
type listResponse struct {
	Records []models.AttendanceRecord `json:"records"`
	Count   int                       `json:"count"`
	HasMore bool                      `json:"hasMore"`
}

// rebuildResponse is the POST /attendance/rebuild body.
type rebuildResponse struct {
	Success      bool  `json:"success"`
	SummaryCount int64 `json:"summaryCount"`
	RecordCount  int64 `json:"recordCount"`
}

// dayBucket is a student counter plus its projected percentage.
type dayBucket struct {
	models.DayCounter
	Percentage int `json:"percentage"`
}

// sessionBucket is a session counter plus its projected percentage.
type sessionBucket struct {
	models.SessionCounter
	Percentage int `json:"percentage"`
}

// studentSummaryView is the GET /attendance/summary?type=student body.
type studentSummaryView struct {
	ID                   string               `json:"id"`
	StudentID            string               `json:"studentId"`
	TotalDays            int64                `json:"totalDays"`
	PresentDays          int64                `json:"presentDays"`
	AbsentDays           int64                `json:"absentDays"`
	ExcusedDays          int64                `json:"excusedDays"`
	AttendancePercentage int                  `json:"attendancePercentage"`
	MonthlyAttendance    map[string]dayBucket `json:"monthlyAttendance"`
	SubjectAttendance    map[string]dayBucket `json:"subjectAttendance"`
}

// subjectSummaryView is the GET /attendance/summary?type=subject body.
type subjectSummaryView struct {
	ID                   string                   `json:"id"`
	SubjectID            string                   `json:"subjectId"`
	TotalSessions        int64                    `json:"totalSessions"`
	TotalStudents        int64                    `json:"totalStudents"`
	PresentCount         int64                    `json:"presentCount"`
	AbsentCount          int64                    `json:"absentCount"`
	ExcusedCount         int64                    `json:"excusedCount"`
	AttendancePercentage int                      `json:"attendancePercentage"`
	MonthlyAttendance    map[string]sessionBucket `json:"monthlyAttendance"`
}

// classSummaryView is the GET /attendance/summary?type=class body.
type classSummaryView struct {
	ID                   string                   `json:"id"`
	ClassID              string                   `json:"classId"`
	TotalSessions        int64                    `json:"totalSessions"`
	TotalStudents        int64                    `json:"totalStudents"`
	PresentCount         int64                    `json:"presentCount"`
	AbsentCount          int64                    `json:"absentCount"`
	ExcusedCount         int64                    `json:"excusedCount"`
	AttendancePercentage int                      `json:"attendancePercentage"`
	MonthlyAttendance    map[string]sessionBucket `json:"monthlyAttendance"`
	SubjectAttendance    map[string]sessionBucket `json:"subjectAttendance"`
}
