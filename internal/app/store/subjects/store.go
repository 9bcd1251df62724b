// internal/app/store/subjects/store.go
package subjects

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/rollbook/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors for subject lookups and creation.
var (
	ErrNotFound  = errors.New("subjects: not found")
	ErrDuplicate = errors.New("subjects: id already exists")
)

// Store reads the subjects collection. The collection is owned by the
// academic-setup subsystem; attendance only verifies that a submission
// references a real subject (and creates fixtures in tests).
type Store struct {
	c *mongo.Collection
}

// New creates a subjects Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("subjects")}
}

// Exists reports whether a subject with the given id exists.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get fetches one subject by id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*models.Subject, error) {
	var out models.Subject
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create inserts a subject. Timestamps are assigned here.
func (s *Store) Create(ctx context.Context, sub models.Subject) (models.Subject, error) {
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Subject{}, ErrDuplicate
		}
		return models.Subject{}, err
	}
	return sub, nil
}
