package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/rollbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateSubject creates a test subject with the given id and name.
func (f *Fixtures) CreateSubject(ctx context.Context, id, name string) models.Subject {
	f.t.Helper()

	now := time.Now().UTC()
	sub := models.Subject{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("subjects").InsertOne(ctx, sub); err != nil {
		f.t.Fatalf("failed to create test subject: %v", err)
	}
	return sub
}

// CreateSubjectInClass creates a test subject attached to a class and teacher.
func (f *Fixtures) CreateSubjectInClass(ctx context.Context, id, name, classID, teacherID string) models.Subject {
	f.t.Helper()

	now := time.Now().UTC()
	sub := models.Subject{
		ID:        id,
		Name:      name,
		ClassID:   classID,
		TeacherID: teacherID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("subjects").InsertOne(ctx, sub); err != nil {
		f.t.Fatalf("failed to create test subject: %v", err)
	}
	return sub
}

// Date builds a UTC calendar date, the normalized form attendance
// records store.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
