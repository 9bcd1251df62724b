// internal/domain/models/subject.go
package models

import "time"

// Subject is the slice of the subjects collection that attendance needs:
// submissions are rejected when the referenced subject does not exist.
// The collection itself is owned by the academic-setup subsystem.
type Subject struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	ClassID   string    `bson:"class_id,omitempty" json:"classId,omitempty"`
	TeacherID string    `bson:"teacher_id,omitempty" json:"teacherId,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
