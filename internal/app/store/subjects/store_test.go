package subjects_test

import (
	"testing"

	"github.com/dalemusser/rollbook/internal/app/store/subjects"
	"github.com/dalemusser/rollbook/internal/domain/models"
	"github.com/dalemusser/rollbook/internal/testutil"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := subjects.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Subject{
		ID:        "S1",
		Name:      "Mathematics",
		ClassID:   "C1",
		TeacherID: "T1",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be assigned")
	}

	got, err := store.Get(ctx, "S1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Mathematics" || got.ClassID != "C1" || got.TeacherID != "T1" {
		t.Errorf("unexpected subject: %+v", got)
	}
}

func TestStore_Create_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := subjects.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Subject{ID: "S1", Name: "Mathematics"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Subject{ID: "S1", Name: "Physics"}); err != subjects.ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := subjects.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Get(ctx, "missing"); err != subjects.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Exists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := subjects.New(db)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fix.CreateSubject(ctx, "S1", "Mathematics")

	ok, err := store.Exists(ctx, "S1")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("expected S1 to exist")
	}

	ok, err = store.Exists(ctx, "S2")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("expected S2 to not exist")
	}
}
