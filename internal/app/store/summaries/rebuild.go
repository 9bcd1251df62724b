// internal/app/store/summaries/rebuild.go
package summaries

import (
	"context"

	"github.com/dalemusser/rollbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RebuildFrom refolds every summary from the raw record log and replaces
// the summary collection contents. The cursor must yield records ordered
// by write timestamp ascending so the fold replays submissions in the
// order they were applied; last-write-wins fields (totalStudents) then
// land on each entity's most recent batch.
//
// Records are grouped into sessions by (batchId, submissionId), so a
// resubmitted batch counts as a second session exactly as it did on the
// incremental path. Readers may observe an empty or partially rebuilt
// collection while this runs; it is an administrative reconciliation
// operation, not part of the serving path.
//
// Returns the number of summary documents written.
func (s *Store) RebuildFrom(ctx context.Context, cur *mongo.Cursor) (int64, error) {
	defer cur.Close(ctx)

	students := map[string]*models.StudentSummary{}
	subjects := map[string]*models.SubjectSummary{}
	classes := map[string]*models.ClassSummary{}

	type session struct {
		batch   Batch
		entries []Entry
	}
	var order []string
	sessions := map[string]*session{}

	for cur.Next(ctx) {
		var rec models.AttendanceRecord
		if err := cur.Decode(&rec); err != nil {
			return 0, err
		}

		st := students[rec.StudentID]
		if st == nil {
			st = models.NewStudentSummary(rec.StudentID)
			students[rec.StudentID] = st
		}
		st.Apply(rec.SubjectID, rec.MonthKey, rec.Status)

		key := rec.BatchID + "|" + rec.SubmissionID
		ses := sessions[key]
		if ses == nil {
			ses = &session{batch: Batch{
				SubjectID: rec.SubjectID,
				ClassID:   rec.ClassID,
				MonthKey:  rec.MonthKey,
			}}
			sessions[key] = ses
			order = append(order, key)
		}
		ses.entries = append(ses.entries, Entry{StudentID: rec.StudentID, Status: rec.Status})
	}
	if err := cur.Err(); err != nil {
		return 0, err
	}

	for _, key := range order {
		ses := sessions[key]
		b := NewBatch(ses.batch.SubjectID, ses.batch.ClassID, ses.batch.MonthKey, ses.entries)

		sub := subjects[b.SubjectID]
		if sub == nil {
			sub = models.NewSubjectSummary(b.SubjectID)
			subjects[b.SubjectID] = sub
		}
		sub.ApplyBatch(b.MonthKey, b.Students, b.Present, b.Absent, b.Excused)

		if b.ClassID != "" {
			cl := classes[b.ClassID]
			if cl == nil {
				cl = models.NewClassSummary(b.ClassID)
				classes[b.ClassID] = cl
			}
			cl.ApplyBatch(b.SubjectID, b.MonthKey, b.Students, b.Present, b.Absent, b.Excused)
		}
	}

	var docs []any
	for _, st := range students {
		st.Version = 1
		docs = append(docs, st)
	}
	for _, sub := range subjects {
		sub.Version = 1
		docs = append(docs, sub)
	}
	for _, cl := range classes {
		cl.Version = 1
		docs = append(docs, cl)
	}

	if _, err := s.c.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, err
	}
	if len(docs) > 0 {
		if _, err := s.c.InsertMany(ctx, docs); err != nil {
			return 0, err
		}
	}

	s.log.Info("summaries rebuilt from record log",
		zap.Int("students", len(students)),
		zap.Int("subjects", len(subjects)),
		zap.Int("classes", len(classes)),
		zap.Int("sessions", len(sessions)))
	return int64(len(docs)), nil
}
