// Package fanout propagates writes on teacher-owned collections into each
// affected student's derived records (task queue, notification queue) and
// handles the reverse path for quiz submissions.
//
// All steps are best-effort sequential KV writes with no rollback. A failure
// partway through leaves partially propagated state; the per-student
// existence checks make a full client retry safe.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Sudhanshu-m/Admin-Pannel/internal/model"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/repository"
)

var ErrQuizNotFound = errors.New("quiz not found")

type Synchronizer struct {
	store *repository.Store
}

func New(store *repository.Store) *Synchronizer {
	return &Synchronizer{store: store}
}

// SyncTasks persists the incoming task list as the new source of truth and
// delivers a copy of each task to every student enrolled in its class. The
// roster is the union of the assignment table and the legacy manual list;
// a student already holding a copy with the same task id is skipped, which
// also means edits to an already-delivered task never reach delivered copies
// (known limitation, preserved).
func (s *Synchronizer) SyncTasks(ctx context.Context, teacherID string, tasks []model.Task) error {
	if err := s.store.SetTasks(ctx, teacherID, tasks); err != nil {
		return err
	}

	assignments, err := s.store.Assignments(ctx, teacherID)
	if err != nil {
		return err
	}
	manual, err := s.store.ManualStudents(ctx, teacherID)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		for _, assignment := range assignments {
			if assignment.ClassID != task.ClassID {
				continue
			}
			if err := s.deliverTask(ctx, teacherID, task, assignment.StudentEmail); err != nil {
				return err
			}
		}
		for _, student := range manual {
			if student.ClassID != task.ClassID {
				continue
			}
			if err := s.deliverTask(ctx, teacherID, task, student.Email); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Synchronizer) deliverTask(ctx context.Context, teacherID string, task model.Task, email string) error {
	queue, err := s.store.StudentTasks(ctx, email)
	if err != nil {
		return err
	}
	for _, existing := range queue {
		if existing.ID == task.ID {
			return nil
		}
	}

	queue = append(queue, model.StudentTask{
		Task:      task,
		TeacherID: teacherID,
		Completed: false,
	})
	if err := s.store.SetStudentTasks(ctx, email, queue); err != nil {
		return err
	}

	notifications, err := s.store.Notifications(ctx, email)
	if err != nil {
		return err
	}
	notifications = append(notifications, model.Notification{
		ID:        "notif-" + uuid.NewString(),
		Type:      "task",
		Title:     "New Assignment",
		Message:   "You have been assigned: " + task.Title,
		CreatedAt: time.Now().UTC(),
		Read:      false,
		TaskID:    task.ID,
	})
	return s.store.SetNotifications(ctx, email, notifications)
}

// SyncGrades persists the ledger and notifies each graded student once per
// grade id. Re-saving an unchanged ledger produces no new notifications.
func (s *Synchronizer) SyncGrades(ctx context.Context, teacherID string, grades []model.Grade) error {
	if err := s.store.SetGrades(ctx, teacherID, grades); err != nil {
		return err
	}

	for _, grade := range grades {
		if grade.StudentEmail == "" {
			continue
		}

		notifications, err := s.store.Notifications(ctx, grade.StudentEmail)
		if err != nil {
			return err
		}
		exists := false
		for _, notification := range notifications {
			if notification.GradeID != "" && notification.GradeID == grade.ID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}

		percent := scorePercent(grade.Score, grade.MaxScore)
		expEarned := int(math.Floor(percent))
		notifications = append(notifications, model.Notification{
			ID:    "notif-" + uuid.NewString(),
			Type:  "grade",
			Title: "New Grade Posted",
			Message: fmt.Sprintf("You received %g/%g (%.0f%%) on %s. +%d EXP!",
				grade.Score, grade.MaxScore, percent, grade.Assignment, expEarned),
			CreatedAt: time.Now().UTC(),
			Read:      false,
			GradeID:   grade.ID,
		})
		if err := s.store.SetNotifications(ctx, grade.StudentEmail, notifications); err != nil {
			return err
		}
	}
	return nil
}

// SubmitQuiz marks the quiz complete in the student's queue, synthesizes a
// grade row in the ledger of the first teacher holding an assignment for this
// student (scan order; if none matches the grade is dropped with a log line)
// and prepends a submitted notification to the student's own queue.
func (s *Synchronizer) SubmitQuiz(ctx context.Context, student model.Student, submission model.QuizSubmission) (*model.Grade, error) {
	queue, err := s.store.StudentTasks(ctx, student.Email)
	if err != nil {
		return nil, err
	}

	var quiz *model.StudentTask
	for i := range queue {
		if queue[i].ID == submission.QuizID {
			quiz = &queue[i]
			break
		}
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}

	now := time.Now().UTC()
	quiz.Completed = true
	quiz.CompletedAt = &now
	quiz.Submission = &submission
	if err := s.store.SetStudentTasks(ctx, student.Email, queue); err != nil {
		return nil, err
	}

	subject := quiz.Subject
	if subject == "" {
		subject = "Quiz"
	}
	grade := model.Grade{
		ID:           model.ID("grade-" + uuid.NewString()),
		StudentEmail: student.Email,
		StudentName:  student.Name,
		Assignment:   quiz.Title,
		Subject:      subject,
		Score:        submission.PointsEarned,
		MaxScore:     submission.TotalPoints,
		Date:         now.Format(time.RFC3339),
		Feedback: fmt.Sprintf("Quiz completed: %d/%d correct (%.0f%%). Time spent: %d minutes %d seconds.",
			submission.CorrectAnswers, submission.TotalQuestions, submission.ScorePercentage,
			submission.TimeSpent/60, submission.TimeSpent%60),
		CreatedAt: now.Format(time.RFC3339),
	}

	teacherID, err := s.findTeacherFor(ctx, student.Email)
	if err != nil {
		return nil, err
	}
	if teacherID != "" {
		ledger, err := s.store.Grades(ctx, teacherID)
		if err != nil {
			return nil, err
		}
		ledger = append(ledger, grade)
		if err := s.store.SetGrades(ctx, teacherID, ledger); err != nil {
			return nil, err
		}
	} else {
		log.Printf("quiz submit: no teacher assignment for %s, grade not recorded", student.Email)
	}

	notifications, err := s.store.Notifications(ctx, student.Email)
	if err != nil {
		return nil, err
	}
	notification := model.Notification{
		ID:        "notif-" + uuid.NewString(),
		Type:      "grade",
		Title:     fmt.Sprintf("Quiz %q Submitted!", quiz.Title),
		Message:   fmt.Sprintf("You scored %g/%g points (%.0f%%)", submission.PointsEarned, submission.TotalPoints, submission.ScorePercentage),
		CreatedAt: now,
		Read:      false,
	}
	notifications = append([]model.Notification{notification}, notifications...)
	if err := s.store.SetNotifications(ctx, student.Email, notifications); err != nil {
		return nil, err
	}

	return &grade, nil
}

// findTeacherFor returns the owner of the first assignment table containing
// an entry for this email. First match wins; the scan is ordered by key so
// the tie-break is stable per backend.
func (s *Synchronizer) findTeacherFor(ctx context.Context, email string) (string, error) {
	tables, err := s.store.AllAssignments(ctx)
	if err != nil {
		return "", err
	}
	for _, table := range tables {
		for _, assignment := range table.Assignments {
			if assignment.StudentEmail == email {
				return table.TeacherID, nil
			}
		}
	}
	return "", nil
}

func scorePercent(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return score / maxScore * 100
}
