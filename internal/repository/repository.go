// Package repository exposes typed load/save helpers over the KV namespace.
// Every save is a full replace of the value under one key; callers read,
// mutate in memory and write back whole collections (last write wins).
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sudhanshu-m/Admin-Pannel/internal/kv"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/model"
)

const (
	teacherPrefix       = "teacher:"
	studentPrefix       = "student:"
	authUserPrefix      = "auth_user:"
	classesPrefix       = "classes:"
	manualPrefix        = "students:"
	tasksPrefix         = "tasks:"
	assignmentsPrefix   = "teacher_students:"
	studentTasksPrefix  = "student_tasks:"
	notificationsPrefix = "notifications:"
	gradesPrefix        = "dental_college_grades:"
)

type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

func (s *Store) getJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, raw)
}

// --- profiles and credentials ---

func (s *Store) GetTeacher(ctx context.Context, teacherID string) (*model.Teacher, error) {
	var teacher model.Teacher
	found, err := s.getJSON(ctx, teacherPrefix+teacherID, &teacher)
	if err != nil || !found {
		return nil, err
	}
	return &teacher, nil
}

func (s *Store) SetTeacher(ctx context.Context, teacher model.Teacher) error {
	return s.setJSON(ctx, teacherPrefix+teacher.ID, teacher)
}

// GetTeacherDoc returns the raw profile document. Profile updates merge the
// request body over this map so fields this server never defined survive.
func (s *Store) GetTeacherDoc(ctx context.Context, teacherID string) (map[string]interface{}, error) {
	doc := map[string]interface{}{}
	if _, err := s.getJSON(ctx, teacherPrefix+teacherID, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) SetTeacherDoc(ctx context.Context, teacherID string, doc map[string]interface{}) error {
	return s.setJSON(ctx, teacherPrefix+teacherID, doc)
}

func (s *Store) GetStudent(ctx context.Context, studentID string) (*model.Student, error) {
	var student model.Student
	found, err := s.getJSON(ctx, studentPrefix+studentID, &student)
	if err != nil || !found {
		return nil, err
	}
	return &student, nil
}

func (s *Store) SetStudent(ctx context.Context, student model.Student) error {
	return s.setJSON(ctx, studentPrefix+student.ID, student)
}

func (s *Store) GetAuthUser(ctx context.Context, email string) (*model.AuthUser, error) {
	var user model.AuthUser
	found, err := s.getJSON(ctx, authUserPrefix+strings.ToLower(email), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (s *Store) SetAuthUser(ctx context.Context, user model.AuthUser) error {
	return s.setJSON(ctx, authUserPrefix+strings.ToLower(user.Email), user)
}

// --- teacher-owned collections ---

func (s *Store) Classes(ctx context.Context, teacherID string) ([]model.Class, error) {
	classes := []model.Class{}
	if _, err := s.getJSON(ctx, classesPrefix+teacherID, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (s *Store) SetClasses(ctx context.Context, teacherID string, classes []model.Class) error {
	return s.setJSON(ctx, classesPrefix+teacherID, classes)
}

func (s *Store) ManualStudents(ctx context.Context, teacherID string) ([]model.ManualStudent, error) {
	students := []model.ManualStudent{}
	if _, err := s.getJSON(ctx, manualPrefix+teacherID, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (s *Store) SetManualStudents(ctx context.Context, teacherID string, students []model.ManualStudent) error {
	return s.setJSON(ctx, manualPrefix+teacherID, students)
}

func (s *Store) Tasks(ctx context.Context, teacherID string) ([]model.Task, error) {
	tasks := []model.Task{}
	if _, err := s.getJSON(ctx, tasksPrefix+teacherID, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) SetTasks(ctx context.Context, teacherID string, tasks []model.Task) error {
	return s.setJSON(ctx, tasksPrefix+teacherID, tasks)
}

func (s *Store) Assignments(ctx context.Context, teacherID string) ([]model.Assignment, error) {
	assignments := []model.Assignment{}
	if _, err := s.getJSON(ctx, assignmentsPrefix+teacherID, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *Store) SetAssignments(ctx context.Context, teacherID string, assignments []model.Assignment) error {
	return s.setJSON(ctx, assignmentsPrefix+teacherID, assignments)
}

func (s *Store) Grades(ctx context.Context, teacherID string) ([]model.Grade, error) {
	grades := []model.Grade{}
	if _, err := s.getJSON(ctx, gradesPrefix+teacherID, &grades); err != nil {
		return nil, err
	}
	return grades, nil
}

func (s *Store) SetGrades(ctx context.Context, teacherID string, grades []model.Grade) error {
	return s.setJSON(ctx, gradesPrefix+teacherID, grades)
}

// --- per-student derived collections ---

func (s *Store) StudentTasks(ctx context.Context, email string) ([]model.StudentTask, error) {
	tasks := []model.StudentTask{}
	if _, err := s.getJSON(ctx, studentTasksPrefix+email, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) SetStudentTasks(ctx context.Context, email string, tasks []model.StudentTask) error {
	return s.setJSON(ctx, studentTasksPrefix+email, tasks)
}

func (s *Store) Notifications(ctx context.Context, email string) ([]model.Notification, error) {
	notifications := []model.Notification{}
	if _, err := s.getJSON(ctx, notificationsPrefix+email, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *Store) SetNotifications(ctx context.Context, email string, notifications []model.Notification) error {
	return s.setJSON(ctx, notificationsPrefix+email, notifications)
}

// --- namespace scans ---

// AllStudents scans every registered student profile. Entries that fail to
// decode or lack the identifying fields are skipped, as the namespace may
// hold partial writes.
func (s *Store) AllStudents(ctx context.Context) ([]model.Student, error) {
	entries, err := s.kv.GetByPrefix(ctx, studentPrefix)
	if err != nil {
		return nil, err
	}
	students := make([]model.Student, 0, len(entries))
	for _, entry := range entries {
		var student model.Student
		if err := json.Unmarshal(entry.Value, &student); err != nil {
			continue
		}
		if student.ID == "" || student.Name == "" || student.Email == "" {
			continue
		}
		students = append(students, student)
	}
	return students, nil
}

// TeacherAssignments is one teacher's assignment table keyed by owner.
type TeacherAssignments struct {
	TeacherID   string
	Assignments []model.Assignment
}

func (s *Store) AllAssignments(ctx context.Context) ([]TeacherAssignments, error) {
	entries, err := s.kv.GetByPrefix(ctx, assignmentsPrefix)
	if err != nil {
		return nil, err
	}
	tables := make([]TeacherAssignments, 0, len(entries))
	for _, entry := range entries {
		var assignments []model.Assignment
		if err := json.Unmarshal(entry.Value, &assignments); err != nil {
			continue
		}
		tables = append(tables, TeacherAssignments{
			TeacherID:   strings.TrimPrefix(entry.Key, assignmentsPrefix),
			Assignments: assignments,
		})
	}
	return tables, nil
}

func (s *Store) AllGrades(ctx context.Context) ([][]model.Grade, error) {
	entries, err := s.kv.GetByPrefix(ctx, gradesPrefix)
	if err != nil {
		return nil, err
	}
	ledgers := make([][]model.Grade, 0, len(entries))
	for _, entry := range entries {
		var grades []model.Grade
		if err := json.Unmarshal(entry.Value, &grades); err != nil {
			continue
		}
		ledgers = append(ledgers, grades)
	}
	return ledgers, nil
}
