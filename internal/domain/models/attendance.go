// internal/domain/models/attendance.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance status values. A record carries exactly one of these.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusExcused = "excused"
)

// ValidStatus reports whether s is one of the attendance status values.
func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusExcused
}

// AttendanceRecord is one immutable attendance fact: one student, one
// subject, one calendar date. Records belonging to the same teacher
// submission share a BatchID (subjectId_YYYY-MM-DD) and a server-assigned
// SubmissionID.
//
// Year/Month/Day and MonthKey are derived from Date at write time so list
// queries can filter on them without date arithmetic.
type AttendanceRecord struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	StudentID string             `bson:"student_id" json:"studentId"`
	SubjectID string             `bson:"subject_id" json:"subjectId"`
	TeacherID string             `bson:"teacher_id" json:"teacherId"`
	ClassID   string             `bson:"class_id,omitempty" json:"classId,omitempty"`

	Date     time.Time `bson:"date" json:"date"`
	Year     int       `bson:"year" json:"year"`
	Month    int       `bson:"month" json:"month"`
	Day      int       `bson:"day" json:"day"`
	MonthKey string    `bson:"month_key" json:"monthKey"`

	BatchID      string `bson:"batch_id" json:"batchId"`
	SubmissionID string `bson:"submission_id" json:"submissionId"`

	Status string `bson:"status" json:"status"`
	Note   string `bson:"note,omitempty" json:"note,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// MonthKey formats t as "YYYY_MM", the bucket key used by the per-month
// counter maps on summaries and the month filter on list queries.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d_%02d", t.Year(), int(t.Month()))
}

// BatchID builds the deterministic batch key for a (subject, date)
// submission: "subjectId_YYYY-MM-DD".
func BatchID(subjectID string, date time.Time) string {
	return subjectID + "_" + date.Format("2006-01-02")
}

// SetDate fills Date and the derived calendar fields from d, normalized
// to UTC midnight.
func (r *AttendanceRecord) SetDate(d time.Time) {
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	r.Date = d
	r.Year = d.Year()
	r.Month = int(d.Month())
	r.Day = d.Day()
	r.MonthKey = MonthKey(d)
}
