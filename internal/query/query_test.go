package query

import (
	"context"
	"testing"
	"time"

	"github.com/Sudhanshu-m/Admin-Pannel/internal/kv"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/model"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/repository"
)

func newFixture(t *testing.T) (*Service, *repository.Store) {
	t.Helper()
	store := repository.NewStore(kv.NewMemoryStore())
	return New(store), store
}

func TestStudentGradesCaseInsensitiveUnion(t *testing.T) {
	ctx := context.Background()
	queries, store := newFixture(t)

	if err := store.SetGrades(ctx, "t1", []model.Grade{
		{ID: "g1", StudentEmail: "Alex@Student.edu", Assignment: "Midterm", Score: 40, MaxScore: 50},
		{ID: "g2", StudentEmail: "ben@student.edu", Assignment: "Midterm", Score: 30, MaxScore: 50},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetGrades(ctx, "t2", []model.Grade{
		{ID: "g3", StudentEmail: "ALEX@STUDENT.EDU", Assignment: "Radiology lab", Score: 45, MaxScore: 50},
	}); err != nil {
		t.Fatal(err)
	}

	grades, err := queries.StudentGrades(ctx, "alex@student.edu")
	if err != nil {
		t.Fatal(err)
	}
	if len(grades) != 2 {
		t.Fatalf("expected rows from both ledgers, got %d", len(grades))
	}
}

func TestAssignedClassFirstMatchAndNil(t *testing.T) {
	ctx := context.Background()
	queries, store := newFixture(t)

	assigned, err := queries.AssignedClass(ctx, "alex@student.edu")
	if err != nil {
		t.Fatal(err)
	}
	if assigned != nil {
		t.Fatalf("expected nil for unassigned student, got %+v", assigned)
	}

	if err := store.SetAssignments(ctx, "b-teacher", []model.Assignment{
		{StudentID: "s1", StudentEmail: "alex@student.edu", ClassID: "class-9", ClassName: "Periodontics", AssignedAt: time.Now()},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetAssignments(ctx, "a-teacher", []model.Assignment{
		{StudentID: "s1", StudentEmail: "alex@student.edu", ClassID: "class-1", ClassName: "Dental Anatomy 101", AssignedAt: time.Now()},
	}); err != nil {
		t.Fatal(err)
	}

	assigned, err = queries.AssignedClass(ctx, "alex@student.edu")
	if err != nil {
		t.Fatal(err)
	}
	// Key-ordered scan: a-teacher's table is visited first.
	if assigned == nil || assigned.ClassID != "class-1" {
		t.Fatalf("expected class-1 from the first table in key order, got %+v", assigned)
	}

	// Exact email match only; case variants do not count here.
	assigned, err = queries.AssignedClass(ctx, "ALEX@student.edu")
	if err != nil {
		t.Fatal(err)
	}
	if assigned != nil {
		t.Fatalf("expected nil for case-variant email, got %+v", assigned)
	}
}

func TestTaskStatsCountsRosterRowsNotStudents(t *testing.T) {
	ctx := context.Background()
	queries, store := newFixture(t)

	if err := store.SetTasks(ctx, "t1", []model.Task{
		{ID: "task-1", ClassID: "class-1", Title: "Worksheet"},
		{ID: "task-2", ClassID: "class-2", Title: "No roster"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetAssignments(ctx, "t1", []model.Assignment{
		{StudentID: "s1", StudentEmail: "alex@student.edu", ClassID: "class-1", AssignedAt: time.Now()},
	}); err != nil {
		t.Fatal(err)
	}
	// Same student also on the manual roster: two rows, one queue.
	if err := store.SetManualStudents(ctx, "t1", []model.ManualStudent{
		{ID: "m1", Name: "Alex Kim", Email: "alex@student.edu", ClassID: "class-1"},
		{ID: "m2", Name: "Cara Diaz", Email: "cara@student.edu", ClassID: "class-1"},
	}); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if err := store.SetStudentTasks(ctx, "alex@student.edu", []model.StudentTask{
		{Task: model.Task{ID: "task-1", ClassID: "class-1"}, Completed: true, CompletedAt: &now},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetStudentTasks(ctx, "cara@student.edu", []model.StudentTask{
		{Task: model.Task{ID: "task-1", ClassID: "class-1"}},
	}); err != nil {
		t.Fatal(err)
	}

	stats, err := queries.TaskStats(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}

	entry := stats["task-1"]
	if entry.TotalStudents != 3 {
		t.Fatalf("expected denominator 3 (duplicate rows count twice), got %d", entry.TotalStudents)
	}
	if entry.Completed != 2 || entry.Attempted != 3 {
		t.Fatalf("expected completed=2 attempted=3, got %+v", entry)
	}
	if entry.CompletionRate != 67 || entry.AttemptRate != 100 {
		t.Fatalf("expected rates 67/100, got %+v", entry)
	}

	empty := stats["task-2"]
	if empty.TotalStudents != 0 || empty.CompletionRate != 0 {
		t.Fatalf("empty roster must yield zero rates, got %+v", empty)
	}
}

func TestRegisteredStudentsAggregates(t *testing.T) {
	ctx := context.Background()
	queries, store := newFixture(t)

	registered := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := store.SetStudent(ctx, model.Student{
		ID: "s1", Name: "alex kim", Email: "alex@student.edu", Role: "student",
		CreatedAt: registered, LastActive: registered,
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetAssignments(ctx, "t1", []model.Assignment{
		{StudentID: "s1", StudentEmail: "alex@student.edu", ClassID: "class-1", ClassName: "Dental Anatomy 101", AssignedAt: registered},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetGrades(ctx, "t1", []model.Grade{
		{ID: "g1", StudentEmail: "Alex@Student.edu", Score: 90, MaxScore: 100},
		{ID: "g2", StudentEmail: "alex@student.edu", Score: 30, MaxScore: 50},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetStudentTasks(ctx, "alex@student.edu", []model.StudentTask{
		{Task: model.Task{ID: "task-1"}, Completed: true},
		{Task: model.Task{ID: "task-2"}},
	}); err != nil {
		t.Fatal(err)
	}

	students, err := queries.RegisteredStudents(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 {
		t.Fatalf("expected 1 student, got %d", len(students))
	}

	alex := students[0]
	if alex.Avatar != "AK" {
		t.Fatalf("expected initials AK, got %q", alex.Avatar)
	}
	// 90% + 60% => 150 EXP, level 150/200+1 = 1, average round(75).
	if alex.TotalPoints != 150 || alex.CurrentLevel != 1 || alex.AverageGrade != 75 {
		t.Fatalf("unexpected aggregates %+v", alex)
	}
	// 1 completed task, 2 grades: round((10+10)/2) = 10.
	if alex.GameProgress != 10 {
		t.Fatalf("expected gameProgress 10, got %d", alex.GameProgress)
	}
	if !alex.IsAssigned || alex.ClassID == nil || *alex.ClassID != "class-1" {
		t.Fatalf("expected assignment join, got %+v", alex)
	}
	if alex.RegisteredAt != "2026-03-01T09:00:00Z" {
		t.Fatalf("unexpected registeredAt %q", alex.RegisteredAt)
	}
}

func TestGameProgressCap(t *testing.T) {
	ctx := context.Background()
	queries, store := newFixture(t)

	if err := store.SetStudent(ctx, model.Student{
		ID: "s1", Name: "Alex Kim", Email: "alex@student.edu",
		CreatedAt: time.Now(), LastActive: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}
	queue := make([]model.StudentTask, 0, 20)
	for i := 0; i < 20; i++ {
		queue = append(queue, model.StudentTask{Task: model.Task{ID: string(rune('a' + i))}, Completed: true})
	}
	if err := store.SetStudentTasks(ctx, "alex@student.edu", queue); err != nil {
		t.Fatal(err)
	}

	students, err := queries.RegisteredStudents(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	// 20 completed tasks would score 100; the cap holds it at 95.
	if students[0].GameProgress != 95 {
		t.Fatalf("expected gameProgress capped at 95, got %d", students[0].GameProgress)
	}
}

func TestInitials(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Alex Kim", "AK"},
		{"alex", "A"},
		{"Mary Jane van Dyke", "MJ"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := initials(tc.name); got != tc.want {
			t.Errorf("initials(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
