package models

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "2024_03"},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "2024_12"},
		{time.Date(999, 1, 1, 0, 0, 0, 0, time.UTC), "0999_01"},
	}
	for _, tt := range tests {
		if got := MonthKey(tt.date); got != tt.want {
			t.Errorf("MonthKey(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestBatchID(t *testing.T) {
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if got := BatchID("S1", d); got != "S1_2024-03-05" {
		t.Errorf("BatchID = %q, want %q", got, "S1_2024-03-05")
	}
}

func TestSetDate_DerivesCalendarFields(t *testing.T) {
	var rec AttendanceRecord
	rec.SetDate(time.Date(2024, 3, 5, 14, 30, 0, 0, time.FixedZone("X", 3600)))

	if rec.Year != 2024 || rec.Month != 3 || rec.Day != 5 {
		t.Errorf("derived Y/M/D: got %d/%d/%d, want 2024/3/5", rec.Year, rec.Month, rec.Day)
	}
	if rec.MonthKey != "2024_03" {
		t.Errorf("MonthKey: got %q, want %q", rec.MonthKey, "2024_03")
	}
	if rec.Date.Hour() != 0 || rec.Date.Location() != time.UTC {
		t.Errorf("date not normalized to UTC midnight: %v", rec.Date)
	}
}

func TestDayCounter_Add(t *testing.T) {
	var c DayCounter
	c.Add(StatusPresent)
	c.Add(StatusPresent)
	c.Add(StatusAbsent)
	c.Add(StatusExcused)

	if c.TotalDays != 4 {
		t.Errorf("TotalDays: got %d, want 4", c.TotalDays)
	}
	if c.PresentDays != 2 || c.AbsentDays != 1 || c.ExcusedDays != 1 {
		t.Errorf("buckets: got %d/%d/%d, want 2/1/1", c.PresentDays, c.AbsentDays, c.ExcusedDays)
	}
	if c.TotalDays != c.PresentDays+c.AbsentDays+c.ExcusedDays {
		t.Error("total does not equal sum of status buckets")
	}
}

func TestStudentSummary_Apply(t *testing.T) {
	s := NewStudentSummary("U1")
	s.Apply("S1", "2024_03", StatusPresent)
	s.Apply("S2", "2024_03", StatusAbsent)
	s.Apply("S1", "2024_04", StatusExcused)

	if s.TotalDays != 3 {
		t.Errorf("TotalDays: got %d, want 3", s.TotalDays)
	}
	if s.Subjects["S1"].TotalDays != 2 || s.Subjects["S2"].TotalDays != 1 {
		t.Errorf("subject buckets: S1=%d S2=%d, want 2/1",
			s.Subjects["S1"].TotalDays, s.Subjects["S2"].TotalDays)
	}
	if s.ByMonth["2024_03"].TotalDays != 2 || s.ByMonth["2024_04"].TotalDays != 1 {
		t.Errorf("month buckets: 03=%d 04=%d, want 2/1",
			s.ByMonth["2024_03"].TotalDays, s.ByMonth["2024_04"].TotalDays)
	}

	// byMonth buckets must partition the top-level total
	var monthSum int64
	for _, c := range s.ByMonth {
		monthSum += c.TotalDays
	}
	if monthSum != s.TotalDays {
		t.Errorf("sum(byMonth totals) = %d, want %d", monthSum, s.TotalDays)
	}
}

func TestStudentSummary_Apply_NilMaps(t *testing.T) {
	// Simulates a summary decoded from a document written without maps.
	s := &StudentSummary{ID: SummaryID(SummaryKindStudent, "U1"), EntityID: "U1"}
	s.Apply("S1", "2024_03", StatusPresent)

	if s.Subjects["S1"] == nil || s.ByMonth["2024_03"] == nil {
		t.Fatal("Apply did not allocate counter maps")
	}
}

func TestSubjectSummary_ApplyBatch_LastWriteWinsRoster(t *testing.T) {
	s := NewSubjectSummary("S1")
	s.ApplyBatch("2024_03", 30, 25, 3, 2)
	s.ApplyBatch("2024_03", 28, 20, 6, 2)

	if s.Sessions != 2 {
		t.Errorf("Sessions: got %d, want 2", s.Sessions)
	}
	if s.TotalStudents != 28 {
		t.Errorf("TotalStudents: got %d, want 28 (last batch roster)", s.TotalStudents)
	}
	if s.PresentCount != 45 || s.AbsentCount != 9 || s.ExcusedCount != 4 {
		t.Errorf("counts: got %d/%d/%d, want 45/9/4", s.PresentCount, s.AbsentCount, s.ExcusedCount)
	}
	mon := s.ByMonth["2024_03"]
	if mon == nil || mon.Sessions != 2 || mon.PresentCount != 45 {
		t.Errorf("month bucket: got %+v, want 2 sessions / 45 present", mon)
	}
}

func TestClassSummary_ApplyBatch_SubjectBreakdown(t *testing.T) {
	s := NewClassSummary("C1")
	s.ApplyBatch("S1", "2024_03", 30, 25, 5, 0)
	s.ApplyBatch("S2", "2024_03", 30, 28, 1, 1)

	if s.Sessions != 2 {
		t.Errorf("Sessions: got %d, want 2", s.Sessions)
	}
	if len(s.Subjects) != 2 {
		t.Fatalf("subjects map: got %d entries, want 2", len(s.Subjects))
	}
	if s.Subjects["S1"].Sessions != 1 || s.Subjects["S2"].Sessions != 1 {
		t.Error("per-subject sessions not tracked independently")
	}

	var present int64
	for _, sc := range s.Subjects {
		present += sc.PresentCount
	}
	if present != s.PresentCount {
		t.Errorf("sum(subjects present) = %d, want %d", present, s.PresentCount)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPresent, StatusAbsent, StatusExcused} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "late", "PRESENT", "tardy"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}
