package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// ID tolerates the two id styles found in stored documents: JSON strings
// ("task-1700000000") and raw numbers (Date.now() ids written by older
// clients). Numeric ids keep their shape when written back.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type Teacher struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Department    string     `json:"department"`
	Qualification string     `json:"qualification,omitempty"`
	Role          string     `json:"role"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

type Student struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

// AuthUser is the credential record behind both portals. The role is fixed at
// signup and embedded in every issued token.
type AuthUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Class struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Grade        string `json:"grade,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Capacity     int    `json:"capacity"`
	StudentCount int    `json:"studentCount"`
}

// ManualStudent is a legacy roster entry added directly by a teacher, as
// opposed to a registered portal student.
type ManualStudent struct {
	ID           ID       `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	ClassID      string   `json:"classId"`
	ClassName    string   `json:"className,omitempty"`
	Avatar       string   `json:"avatar,omitempty"`
	CurrentLevel int      `json:"currentLevel,omitempty"`
	TotalPoints  int      `json:"totalPoints,omitempty"`
	GameProgress int      `json:"gameProgress,omitempty"`
	LastActive   string   `json:"lastActive,omitempty"`
	Status       string   `json:"status,omitempty"`
	Subjects     []string `json:"subjects,omitempty"`
	AverageGrade int      `json:"averageGrade,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type Task struct {
	ID          string     `json:"id"`
	ClassID     string     `json:"classId"`
	ClassName   string     `json:"className,omitempty"`
	Type        string     `json:"type,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Subject     string     `json:"subject,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"`
	MaxPoints   int        `json:"maxPoints,omitempty"`
	TotalPoints int        `json:"totalPoints,omitempty"`
	Duration    int        `json:"duration,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
	Status      string     `json:"status,omitempty"`
	CreatedAt   string     `json:"createdAt,omitempty"`
}

// Assignment links a registered student to one of a teacher's classes. It is
// the only explicit relationship table in the namespace.
type Assignment struct {
	StudentID    string     `json:"studentId"`
	StudentEmail string     `json:"studentEmail"`
	ClassID      string     `json:"classId"`
	ClassName    string     `json:"className"`
	AssignedAt   time.Time  `json:"assignedAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// StudentTask is the denormalized per-student copy of a teacher's task.
type StudentTask struct {
	Task
	TeacherID   string          `json:"teacherId,omitempty"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Submission  *QuizSubmission `json:"submission,omitempty"`
}

type QuizSubmission struct {
	QuizID            string         `json:"quizId"`
	Answers           map[string]int `json:"answers,omitempty"`
	CorrectAnswers    int            `json:"correctAnswers"`
	TotalQuestions    int            `json:"totalQuestions"`
	AnsweredQuestions int            `json:"answeredQuestions,omitempty"`
	ScorePercentage   float64        `json:"scorePercentage"`
	PointsEarned      float64        `json:"pointsEarned"`
	TotalPoints       float64        `json:"totalPoints"`
	TimeSpent         int            `json:"timeSpent"`
	SubmittedAt       string         `json:"submittedAt,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
	GradeID   ID        `json:"gradeId,omitempty"`
	TaskID    string    `json:"taskId,omitempty"`
}

// Grade is one row in a teacher's ledger. A student's full record is the
// union of matching rows across every teacher who graded them.
type Grade struct {
	ID           ID      `json:"id"`
	StudentEmail string  `json:"studentEmail"`
	StudentName  string  `json:"studentName,omitempty"`
	Subject      string  `json:"subject,omitempty"`
	Assignment   string  `json:"assignment"`
	Score        float64 `json:"score"`
	MaxScore     float64 `json:"maxScore"`
	Date         string  `json:"date,omitempty"`
	Feedback     string  `json:"feedback,omitempty"`
	CreatedAt    string  `json:"createdAt,omitempty"`
}
