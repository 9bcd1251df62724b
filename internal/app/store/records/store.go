// internal/app/store/records/store.go
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/rollbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// PartialWriteError reports a batch insert where some records were
// written before one or more inserts failed. Written records are not
// rolled back; the caller is responsible for re-submission or a
// summary rebuild.
type PartialWriteError struct {
	Written int
	Failed  int
	Err     error // first insert error observed
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("records: %d of %d writes failed: %v", e.Failed, e.Written+e.Failed, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// Store manages the attendance_records collection: the append-only log
// of attendance facts.
type Store struct {
	c *mongo.Collection
}

// New creates a records Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance_records")}
}

// EnsureIndexes creates the indexes backing list filters and the
// batch/rebuild scans. The (student, subject, date) index is
// deliberately non-unique: resubmitting a batch is allowed and
// double-counts, matching the incremental aggregation.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_records_student"),
		},
		{
			Keys:    bson.D{{Key: "subject_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_records_subject"),
		},
		{
			Keys:    bson.D{{Key: "class_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_records_class"),
		},
		{
			Keys:    bson.D{{Key: "batch_id", Value: 1}},
			Options: options.Index().SetName("idx_records_batch"),
		},
		{
			Keys:    bson.D{{Key: "month_key", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_records_month"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_records_created"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// CreateBatch inserts the records of one submission concurrently and
// waits for all inserts to finish. IDs and timestamps are assigned here.
// On any insert failure the remaining writes still run to completion and
// the error is a *PartialWriteError carrying the written/failed split.
func (s *Store) CreateBatch(ctx context.Context, recs []models.AttendanceRecord) error {
	now := time.Now().UTC()
	for i := range recs {
		if recs[i].ID.IsZero() {
			recs[i].ID = primitive.NewObjectID()
		}
		recs[i].CreatedAt = now
		recs[i].UpdatedAt = now
	}

	// Inserts must run to completion independently: one rejected record
	// does not cancel its siblings, so a plain Group with the request
	// context, not WithContext.
	var g errgroup.Group
	failed := make([]error, len(recs))
	for i := range recs {
		g.Go(func() error {
			if _, err := s.c.InsertOne(ctx, recs[i]); err != nil {
				failed[i] = err
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		written, nfailed := 0, 0
		var first error
		for _, ferr := range failed {
			if ferr != nil {
				nfailed++
				if first == nil {
					first = ferr
				}
			} else {
				written++
			}
		}
		return &PartialWriteError{Written: written, Failed: nfailed, Err: first}
	}
	return nil
}

// Filter holds the optional conjunctive equality predicates for List.
// Zero values mean "no constraint".
type Filter struct {
	StudentID string
	SubjectID string
	ClassID   string
	TeacherID string
	Date      time.Time // matched against the normalized record date
	MonthKey  string    // "YYYY_MM"
	Year      int
	Status    string
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.StudentID != "" {
		q["student_id"] = f.StudentID
	}
	if f.SubjectID != "" {
		q["subject_id"] = f.SubjectID
	}
	if f.ClassID != "" {
		q["class_id"] = f.ClassID
	}
	if f.TeacherID != "" {
		q["teacher_id"] = f.TeacherID
	}
	if !f.Date.IsZero() {
		d := f.Date
		q["date"] = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	if f.MonthKey != "" {
		q["month_key"] = f.MonthKey
	}
	if f.Year != 0 {
		q["year"] = f.Year
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}

// List returns records matching the filter, newest first by write
// timestamp, bounded by limit.
func (s *Store) List(ctx context.Context, f Filter, limit int64) ([]models.AttendanceRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.AttendanceRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// AllOrdered streams every record ordered by write timestamp ascending,
// the replay order used by the summary rebuild.
func (s *Store) AllOrdered(ctx context.Context) (*mongo.Cursor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.c.Find(ctx, bson.M{}, opts)
}

// CountAll returns the total number of raw records.
func (s *Store) CountAll(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// IsPartialWrite reports whether err is a *PartialWriteError.
func IsPartialWrite(err error) bool {
	var pw *PartialWriteError
	return errors.As(err, &pw)
}
