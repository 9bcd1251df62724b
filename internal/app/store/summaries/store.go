// internal/app/store/summaries/store.go
package summaries

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/rollbook/internal/app/system/txn"
	"github.com/dalemusser/rollbook/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no summary exists for the requested
// entity. Read paths treat this as "no data yet", not a failure.
var ErrNotFound = errors.New("summaries: not found")

// Entry is one student's mark inside a submitted batch.
type Entry struct {
	StudentID string
	Status    string
}

// Batch is one submission as the aggregator sees it: the batch identity
// plus the counts derived from its entries.
type Batch struct {
	SubjectID string
	ClassID   string // empty when the submission is not class-scoped
	MonthKey  string
	Entries   []Entry

	Students int64 // roster size of this batch
	Present  int64
	Absent   int64
	Excused  int64
}

// NewBatch derives the batch counts from its entries.
func NewBatch(subjectID, classID, monthKey string, entries []Entry) Batch {
	b := Batch{
		SubjectID: subjectID,
		ClassID:   classID,
		MonthKey:  monthKey,
		Entries:   entries,
		Students:  int64(len(entries)),
	}
	for _, e := range entries {
		switch e.Status {
		case models.StatusPresent:
			b.Present++
		case models.StatusAbsent:
			b.Absent++
		case models.StatusExcused:
			b.Excused++
		}
	}
	return b
}

// Store manages the attendance_summaries collection. All three summary
// kinds share the collection, keyed by "{kind}_{entityId}" string _ids.
//
// Every write goes through a version-stamped read-modify-write inside
// txn.WithRetry; summary documents are never blindly overwritten.
type Store struct {
	c           *mongo.Collection
	log         *zap.Logger
	maxAttempts int
}

// New creates a summaries Store using the default retry budget.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		c:           db.Collection("attendance_summaries"),
		log:         logger,
		maxAttempts: txn.DefaultMaxAttempts,
	}
}

// SetMaxAttempts overrides the per-transaction retry budget.
func (s *Store) SetMaxAttempts(n int) { s.maxAttempts = n }

// ApplyBatch folds one submission into the three summary kinds. The
// three transaction kinds are independent: a failure in one is recorded
// and the others still run. The returned error joins whatever failed.
func (s *Store) ApplyBatch(ctx context.Context, b Batch) error {
	var errs []error

	for _, e := range b.Entries {
		if err := s.applyStudent(ctx, e.StudentID, b.SubjectID, b.MonthKey, e.Status); err != nil {
			s.log.Error("student summary update failed",
				zap.String("student_id", e.StudentID),
				zap.String("subject_id", b.SubjectID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("student %s: %w", e.StudentID, err))
		}
	}

	if err := s.applySubject(ctx, b); err != nil {
		s.log.Error("subject summary update failed",
			zap.String("subject_id", b.SubjectID),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("subject %s: %w", b.SubjectID, err))
	}

	if b.ClassID != "" {
		if err := s.applyClass(ctx, b); err != nil {
			s.log.Error("class summary update failed",
				zap.String("class_id", b.ClassID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("class %s: %w", b.ClassID, err))
		}
	}

	return errors.Join(errs...)
}

// applyStudent increments one student's summary for one record.
func (s *Store) applyStudent(ctx context.Context, studentID, subjectID, monthKey, status string) error {
	id := models.SummaryID(models.SummaryKindStudent, studentID)
	return txn.WithRetry(ctx, s.maxAttempts, func(ctx context.Context) error {
		var cur models.StudentSummary
		err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cur)
		if err == mongo.ErrNoDocuments {
			fresh := models.NewStudentSummary(studentID)
			fresh.Apply(subjectID, monthKey, status)
			fresh.Version = 1
			return s.insert(ctx, fresh)
		}
		if err != nil {
			return err
		}

		prev := cur.Version
		cur.Apply(subjectID, monthKey, status)
		cur.Version = prev + 1
		return s.replace(ctx, id, prev, cur)
	})
}

// applySubject folds the whole batch into the subject's summary once.
func (s *Store) applySubject(ctx context.Context, b Batch) error {
	id := models.SummaryID(models.SummaryKindSubject, b.SubjectID)
	return txn.WithRetry(ctx, s.maxAttempts, func(ctx context.Context) error {
		var cur models.SubjectSummary
		err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cur)
		if err == mongo.ErrNoDocuments {
			fresh := models.NewSubjectSummary(b.SubjectID)
			fresh.ApplyBatch(b.MonthKey, b.Students, b.Present, b.Absent, b.Excused)
			fresh.Version = 1
			return s.insert(ctx, fresh)
		}
		if err != nil {
			return err
		}

		prev := cur.Version
		cur.ApplyBatch(b.MonthKey, b.Students, b.Present, b.Absent, b.Excused)
		cur.Version = prev + 1
		return s.replace(ctx, id, prev, cur)
	})
}

// applyClass folds the whole batch into the class's summary once.
func (s *Store) applyClass(ctx context.Context, b Batch) error {
	id := models.SummaryID(models.SummaryKindClass, b.ClassID)
	return txn.WithRetry(ctx, s.maxAttempts, func(ctx context.Context) error {
		var cur models.ClassSummary
		err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cur)
		if err == mongo.ErrNoDocuments {
			fresh := models.NewClassSummary(b.ClassID)
			fresh.ApplyBatch(b.SubjectID, b.MonthKey, b.Students, b.Present, b.Absent, b.Excused)
			fresh.Version = 1
			return s.insert(ctx, fresh)
		}
		if err != nil {
			return err
		}

		prev := cur.Version
		cur.ApplyBatch(b.SubjectID, b.MonthKey, b.Students, b.Present, b.Absent, b.Excused)
		cur.Version = prev + 1
		return s.replace(ctx, id, prev, cur)
	})
}

// insert handles the create path. A duplicate key means another writer
// created the summary between our read and this insert, which is a
// conflict to retry, not a failure.
func (s *Store) insert(ctx context.Context, doc any) error {
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return txn.ErrConflict
		}
		return err
	}
	return nil
}

// replace commits a mutated summary, filtered on the version it was read
// at. A missed match means a concurrent commit advanced the version.
func (s *Store) replace(ctx context.Context, id string, readVersion int64, doc any) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": id, "version": readVersion}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return txn.ErrConflict
	}
	return nil
}

// GetStudent fetches one student summary, or ErrNotFound.
func (s *Store) GetStudent(ctx context.Context, studentID string) (*models.StudentSummary, error) {
	var out models.StudentSummary
	err := s.c.FindOne(ctx, bson.M{"_id": models.SummaryID(models.SummaryKindStudent, studentID)}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSubject fetches one subject summary, or ErrNotFound.
func (s *Store) GetSubject(ctx context.Context, subjectID string) (*models.SubjectSummary, error) {
	var out models.SubjectSummary
	err := s.c.FindOne(ctx, bson.M{"_id": models.SummaryID(models.SummaryKindSubject, subjectID)}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClass fetches one class summary, or ErrNotFound.
func (s *Store) GetClass(ctx context.Context, classID string) (*models.ClassSummary, error) {
	var out models.ClassSummary
	err := s.c.FindOne(ctx, bson.M{"_id": models.SummaryID(models.SummaryKindClass, classID)}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
