// internal/domain/models/summary.go
package models

// Summary kinds. A summary document's _id is "{kind}_{entityId}", so all
// three kinds live in one flat collection.
const (
	SummaryKindStudent = "student"
	SummaryKindSubject = "subject"
	SummaryKindClass   = "class"
)

// SummaryID builds the document _id for a summary of the given kind.
func SummaryID(kind, entityID string) string {
	return kind + "_" + entityID
}

// DayCounter accumulates per-day attendance counts for one student,
// either overall or inside a per-subject / per-month bucket.
type DayCounter struct {
	TotalDays   int64 `bson:"total_days" json:"totalDays"`
	PresentDays int64 `bson:"present_days" json:"presentDays"`
	AbsentDays  int64 `bson:"absent_days" json:"absentDays"`
	ExcusedDays int64 `bson:"excused_days" json:"excusedDays"`
}

// Add folds one record with the given status into the counter.
func (c *DayCounter) Add(status string) {
	c.TotalDays++
	switch status {
	case StatusPresent:
		c.PresentDays++
	case StatusAbsent:
		c.AbsentDays++
	case StatusExcused:
		c.ExcusedDays++
	}
}

// SessionCounter accumulates per-session counts for a subject or class:
// how many sessions were held and how many present/absent/excused marks
// they produced across all students.
type SessionCounter struct {
	Sessions     int64 `bson:"sessions" json:"sessions"`
	PresentCount int64 `bson:"present_count" json:"presentCount"`
	AbsentCount  int64 `bson:"absent_count" json:"absentCount"`
	ExcusedCount int64 `bson:"excused_count" json:"excusedCount"`
}

// AddBatch folds one submitted batch (one session) into the counter.
func (c *SessionCounter) AddBatch(present, absent, excused int64) {
	c.Sessions++
	c.PresentCount += present
	c.AbsentCount += absent
	c.ExcusedCount += excused
}

// StudentSummary is the rolling aggregate for one student, broken down
// by subject and by month. Version is the optimistic-concurrency stamp;
// every committed write increments it.
type StudentSummary struct {
	ID        string `bson:"_id" json:"id"`
	EntityID  string `bson:"entity_id" json:"entityId"`
	Version   int64  `bson:"version" json:"-"`
	DayCounter `bson:",inline"`

	Subjects map[string]*DayCounter `bson:"subjects" json:"subjects"`
	ByMonth  map[string]*DayCounter `bson:"by_month" json:"byMonth"`
}

// NewStudentSummary returns an empty summary for the given student.
func NewStudentSummary(studentID string) *StudentSummary {
	return &StudentSummary{
		ID:       SummaryID(SummaryKindStudent, studentID),
		EntityID: studentID,
		Subjects: map[string]*DayCounter{},
		ByMonth:  map[string]*DayCounter{},
	}
}

// Apply folds one attendance record into the summary: the overall
// counter, the subject bucket, and the month bucket all move together.
func (s *StudentSummary) Apply(subjectID, monthKey, status string) {
	s.DayCounter.Add(status)

	if s.Subjects == nil {
		s.Subjects = map[string]*DayCounter{}
	}
	if s.ByMonth == nil {
		s.ByMonth = map[string]*DayCounter{}
	}

	sub := s.Subjects[subjectID]
	if sub == nil {
		sub = &DayCounter{}
		s.Subjects[subjectID] = sub
	}
	sub.Add(status)

	mon := s.ByMonth[monthKey]
	if mon == nil {
		mon = &DayCounter{}
		s.ByMonth[monthKey] = mon
	}
	mon.Add(status)
}

// SubjectSummary is the rolling aggregate for one subject.
//
// TotalStudents is overwritten on every submission with the roster size
// of that batch (last-write-wins); the percentage math depends on this,
// so it must never be made additive.
type SubjectSummary struct {
	ID            string `bson:"_id" json:"id"`
	EntityID      string `bson:"entity_id" json:"entityId"`
	Version       int64  `bson:"version" json:"-"`
	TotalStudents int64  `bson:"total_students" json:"totalStudents"`
	SessionCounter `bson:",inline"`

	ByMonth map[string]*SessionCounter `bson:"by_month" json:"byMonth"`
}

// NewSubjectSummary returns an empty summary for the given subject.
func NewSubjectSummary(subjectID string) *SubjectSummary {
	return &SubjectSummary{
		ID:       SummaryID(SummaryKindSubject, subjectID),
		EntityID: subjectID,
		ByMonth:  map[string]*SessionCounter{},
	}
}

// ApplyBatch folds one submitted batch into the summary.
func (s *SubjectSummary) ApplyBatch(monthKey string, students, present, absent, excused int64) {
	s.SessionCounter.AddBatch(present, absent, excused)
	s.TotalStudents = students

	if s.ByMonth == nil {
		s.ByMonth = map[string]*SessionCounter{}
	}
	mon := s.ByMonth[monthKey]
	if mon == nil {
		mon = &SessionCounter{}
		s.ByMonth[monthKey] = mon
	}
	mon.AddBatch(present, absent, excused)
}

// ClassSummary is the rolling aggregate for one class, additionally
// broken down by the subjects the class hosts. TotalStudents follows the
// same last-write-wins rule as SubjectSummary.
type ClassSummary struct {
	ID            string `bson:"_id" json:"id"`
	EntityID      string `bson:"entity_id" json:"entityId"`
	Version       int64  `bson:"version" json:"-"`
	TotalStudents int64  `bson:"total_students" json:"totalStudents"`
	SessionCounter `bson:",inline"`

	Subjects map[string]*SessionCounter `bson:"subjects" json:"subjects"`
	ByMonth  map[string]*SessionCounter `bson:"by_month" json:"byMonth"`
}

// NewClassSummary returns an empty summary for the given class.
func NewClassSummary(classID string) *ClassSummary {
	return &ClassSummary{
		ID:       SummaryID(SummaryKindClass, classID),
		EntityID: classID,
		Subjects: map[string]*SessionCounter{},
		ByMonth:  map[string]*SessionCounter{},
	}
}

// ApplyBatch folds one submitted batch for subjectID into the summary.
func (s *ClassSummary) ApplyBatch(subjectID, monthKey string, students, present, absent, excused int64) {
	s.SessionCounter.AddBatch(present, absent, excused)
	s.TotalStudents = students

	if s.Subjects == nil {
		s.Subjects = map[string]*SessionCounter{}
	}
	if s.ByMonth == nil {
		s.ByMonth = map[string]*SessionCounter{}
	}
	sub := s.Subjects[subjectID]
	if sub == nil {
		sub = &SessionCounter{}
		s.Subjects[subjectID] = sub
	}
	sub.AddBatch(present, absent, excused)

	mon := s.ByMonth[monthKey]
	if mon == nil {
		mon = &SessionCounter{}
		s.ByMonth[monthKey] = mon
	}
	mon.AddBatch(present, absent, excused)
}
