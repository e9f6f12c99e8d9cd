package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Sudhanshu-m/Admin-Pannel/internal/kv"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/model"
)

func TestCollectionsDefaultToEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemoryStore())

	classes, err := store.Classes(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if classes == nil || len(classes) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", classes)
	}
	tasks, err := store.StudentTasks(ctx, "nobody@student.edu")
	if err != nil {
		t.Fatal(err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tasks)
	}

	teacher, err := store.GetTeacher(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if teacher != nil {
		t.Fatalf("expected nil for missing teacher, got %+v", teacher)
	}
}

func TestAuthUserKeyIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemoryStore())

	if err := store.SetAuthUser(ctx, model.AuthUser{
		ID: "u1", Email: "Alex@Student.edu", PasswordHash: "x", Role: "student", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	user, err := store.GetAuthUser(ctx, "ALEX@STUDENT.EDU")
	if err != nil {
		t.Fatal(err)
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("expected lookup regardless of case, got %+v", user)
	}
}

func TestTeacherDocRoundTripKeepsUnknownFields(t *testing.T) {
	ctx := context.Background()
	raw := kv.NewMemoryStore()
	store := NewStore(raw)

	if err := raw.Set(ctx, "teacher:t1", []byte(`{"id":"t1","name":"Dr. Mitchell","officeHours":"Mon 2-4pm"}`)); err != nil {
		t.Fatal(err)
	}

	doc, err := store.GetTeacherDoc(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	doc["phone"] = "+1-555-0101"
	if err := store.SetTeacherDoc(ctx, "t1", doc); err != nil {
		t.Fatal(err)
	}

	doc, err = store.GetTeacherDoc(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if doc["officeHours"] != "Mon 2-4pm" || doc["phone"] != "+1-555-0101" {
		t.Fatalf("fields lost across round trip: %+v", doc)
	}
}

func TestAllStudentsSkipsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	raw := kv.NewMemoryStore()
	store := NewStore(raw)

	if err := store.SetStudent(ctx, model.Student{ID: "s1", Name: "Alex Kim", Email: "alex@student.edu", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := raw.Set(ctx, "student:broken", []byte(`not json`)); err != nil {
		t.Fatal(err)
	}
	if err := raw.Set(ctx, "student:partial", []byte(`{"id":"s2"}`)); err != nil {
		t.Fatal(err)
	}

	students, err := store.AllStudents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 || students[0].ID != "s1" {
		t.Fatalf("expected only the valid entry, got %+v", students)
	}
}

func TestAllAssignmentsStripsKeyPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemoryStore())

	if err := store.SetAssignments(ctx, "t1", []model.Assignment{
		{StudentID: "s1", StudentEmail: "alex@student.edu", ClassID: "class-1", AssignedAt: time.Now()},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetAssignments(ctx, "t2", []model.Assignment{}); err != nil {
		t.Fatal(err)
	}

	tables, err := store.AllAssignments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[0].TeacherID != "t1" || tables[1].TeacherID != "t2" {
		t.Fatalf("expected bare teacher ids in key order, got %+v", tables)
	}
	if len(tables[0].Assignments) != 1 || len(tables[1].Assignments) != 0 {
		t.Fatalf("unexpected table contents: %+v", tables)
	}
}
