// Package query answers cross-cutting reads by prefix-scanning the namespace
// and joining in memory. There is no secondary index: a student's grades cost
// a scan over every teacher's ledger and class discovery a scan over every
// assignment table. Acceptable for the tenant counts this system runs at;
// restructuring would change the first-match semantics callers rely on.
package query

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Sudhanshu-m/Admin-Pannel/internal/model"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/repository"
)

type Service struct {
	store *repository.Store
}

func New(store *repository.Store) *Service {
	return &Service{store: store}
}

// StudentGrades unions, across all teacher ledgers, the rows whose
// studentEmail matches case-insensitively.
func (s *Service) StudentGrades(ctx context.Context, email string) ([]model.Grade, error) {
	ledgers, err := s.store.AllGrades(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(email)
	grades := []model.Grade{}
	for _, ledger := range ledgers {
		for _, grade := range ledger {
			if grade.StudentEmail != "" && strings.ToLower(grade.StudentEmail) == lower {
				grades = append(grades, grade)
			}
		}
	}
	return grades, nil
}

type AssignedClass struct {
	ClassID    string    `json:"classId"`
	ClassName  string    `json:"className"`
	AssignedAt time.Time `json:"assignedAt"`
}

// AssignedClass finds the first assignment row naming this email across all
// teachers' tables. Nil means the student is implicitly unassigned.
func (s *Service) AssignedClass(ctx context.Context, email string) (*AssignedClass, error) {
	tables, err := s.store.AllAssignments(ctx)
	if err != nil {
		return nil, err
	}
	for _, table := range tables {
		for _, assignment := range table.Assignments {
			if assignment.StudentEmail == email {
				return &AssignedClass{
					ClassID:    assignment.ClassID,
					ClassName:  assignment.ClassName,
					AssignedAt: assignment.AssignedAt,
				}, nil
			}
		}
	}
	return nil, nil
}

type TaskStats struct {
	TotalStudents  int `json:"totalStudents"`
	Completed      int `json:"completed"`
	Attempted      int `json:"attempted"`
	CompletionRate int `json:"completionRate"`
	AttemptRate    int `json:"attemptRate"`
}

// TaskStats computes per-task completion counts for one teacher. The roster
// is the same union the fan-out uses: assignment rows plus manual rows, each
// counted separately even if they name the same student.
func (s *Service) TaskStats(ctx context.Context, teacherID string) (map[string]TaskStats, error) {
	tasks, err := s.store.Tasks(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.Assignments(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	manual, err := s.store.ManualStudents(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]TaskStats, len(tasks))
	for _, task := range tasks {
		var roster []string
		for _, assignment := range assignments {
			if assignment.ClassID == task.ClassID {
				roster = append(roster, assignment.StudentEmail)
			}
		}
		for _, student := range manual {
			if student.ClassID == task.ClassID {
				roster = append(roster, student.Email)
			}
		}

		entry := TaskStats{TotalStudents: len(roster)}
		for _, email := range roster {
			queue, err := s.store.StudentTasks(ctx, email)
			if err != nil {
				return nil, err
			}
			for _, queued := range queue {
				if queued.ID != task.ID {
					continue
				}
				entry.Attempted++
				if queued.Completed {
					entry.Completed++
				}
				break
			}
		}
		if entry.TotalStudents > 0 {
			entry.CompletionRate = int(math.Round(float64(entry.Completed) / float64(entry.TotalStudents) * 100))
			entry.AttemptRate = int(math.Round(float64(entry.Attempted) / float64(entry.TotalStudents) * 100))
		}
		stats[task.ID] = entry
	}
	return stats, nil
}

type RegisteredStudent struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Avatar       string   `json:"avatar"`
	CurrentLevel int      `json:"currentLevel"`
	TotalPoints  int      `json:"totalPoints"`
	GameProgress int      `json:"gameProgress"`
	LastActive   string   `json:"lastActive"`
	Status       string   `json:"status"`
	Subjects     []string `json:"subjects"`
	AverageGrade int      `json:"averageGrade"`
	ClassID      *string  `json:"classId"`
	ClassName    string   `json:"className"`
	IsRegistered bool     `json:"isRegistered"`
	IsAssigned   bool     `json:"isAssigned"`
	RegisteredAt string   `json:"registeredAt"`
}

// RegisteredStudents builds the admin-panel view: every registered student,
// joined with this teacher's assignments and with grades and task progress
// aggregated across the whole namespace.
func (s *Service) RegisteredStudents(ctx context.Context, teacherID string) ([]RegisteredStudent, error) {
	students, err := s.store.AllStudents(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.Assignments(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	ledgers, err := s.store.AllGrades(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]RegisteredStudent, 0, len(students))
	for _, student := range students {
		var assignment *model.Assignment
		for i := range assignments {
			if assignments[i].StudentID == student.ID {
				assignment = &assignments[i]
				break
			}
		}

		lower := strings.ToLower(student.Email)
		totalEXP := 0
		gradeCount := 0
		percentSum := 0.0
		for _, ledger := range ledgers {
			for _, grade := range ledger {
				if grade.StudentEmail == "" || strings.ToLower(grade.StudentEmail) != lower {
					continue
				}
				gradeCount++
				if grade.MaxScore > 0 {
					percent := grade.Score / grade.MaxScore * 100
					totalEXP += int(math.Floor(percent))
					percentSum += percent
				}
			}
		}
		averageGrade := 0
		if gradeCount > 0 {
			averageGrade = int(math.Round(percentSum / float64(gradeCount)))
		}

		queue, err := s.store.StudentTasks(ctx, student.Email)
		if err != nil {
			return nil, err
		}
		completedTasks := 0
		for _, queued := range queue {
			if queued.Completed {
				completedTasks++
			}
		}

		entry := RegisteredStudent{
			ID:           student.ID,
			Name:         student.Name,
			Email:        student.Email,
			Avatar:       initials(student.Name),
			CurrentLevel: totalEXP/200 + 1,
			TotalPoints:  totalEXP,
			GameProgress: min(95, int(math.Round(float64(completedTasks*10+gradeCount*5)/2))),
			LastActive:   lastActive(student.LastActive),
			Status:       "active",
			Subjects:     []string{},
			AverageGrade: averageGrade,
			ClassName:    "Not assigned",
			IsRegistered: true,
			IsAssigned:   assignment != nil,
			RegisteredAt: student.CreatedAt.Format(time.RFC3339),
		}
		if assignment != nil {
			classID := assignment.ClassID
			entry.ClassID = &classID
			entry.ClassName = assignment.ClassName
		}
		result = append(result, entry)
	}
	return result, nil
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		if b.Len() == 2 {
			break
		}
		b.WriteString(strings.ToUpper(string([]rune(part)[0])))
	}
	return b.String()
}

func lastActive(t time.Time) string {
	if t.IsZero() {
		return "Recently"
	}
	return t.Format(time.RFC3339)
}
