package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sudhanshu-m/Admin-Pannel/internal/auth"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/config"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/crypto"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/fanout"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/kv"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/model"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/query"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/repository"
)

type Server struct {
	cfg     config.Config
	kv      kv.Store
	store   *repository.Store
	sync    *fanout.Synchronizer
	queries *query.Service
}

func NewServer(cfg config.Config, store kv.Store) *Server {
	repo := repository.NewStore(store)
	return &Server{
		cfg:     cfg,
		kv:      store,
		store:   repo,
		sync:    fanout.New(repo),
		queries: query.New(repo),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/signup", s.handleTeacherSignup)
	r.Post("/login", s.handleTeacherLogin)

	r.Route("/teacher", func(r chi.Router) {
		r.Use(s.authMiddleware, s.requireRole(auth.RoleTeacher))
		r.Get("/profile", s.handleTeacherProfile)
		r.Post("/profile/update", s.handleTeacherProfileUpdate)
		r.Get("/data", s.handleTeacherData)
		r.Post("/students", s.handleSaveStudents)
		r.Post("/classes", s.handleSaveClasses)
		r.Post("/tasks", s.handleSaveTasks)
		r.Post("/grades", s.handleSaveGrades)
		r.Get("/all-students", s.handleAllStudents)
		r.Post("/assign-student", s.handleAssignStudent)
		r.Post("/unassign-student", s.handleUnassignStudent)
		r.Get("/task-stats", s.handleTaskStats)
	})

	r.Route("/student", func(r chi.Router) {
		r.Post("/signup", s.handleStudentSignup)
		r.Post("/login", s.handleStudentLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware, s.requireRole(auth.RoleStudent))
			r.Get("/profile", s.handleStudentProfile)
			r.Get("/data", s.handleStudentData)
			r.Post("/task/{taskId}/complete", s.handleCompleteTask)
			r.Post("/notification/{notificationId}/read", s.handleNotificationRead)
			r.Post("/quiz/submit", s.handleQuizSubmit)
		})
	})

	// Unauthenticated diagnostics, kept as-is from the original deployment.
	r.Route("/debug", func(r chi.Router) {
		r.Get("/students", s.handleDebugStudents)
		r.Get("/teacher-students/{teacherId}", s.handleDebugTeacherStudents)
		r.Get("/student-data/{email}", s.handleDebugStudentData)
	})

	return r
}

// --- signup and login ---

type teacherSignupRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Department    string `json:"department"`
	Qualification string `json:"qualification"`
}

type userSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Department    string `json:"department,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	Role          string `json:"role"`
}

func (s *Server) handleTeacherSignup(w http.ResponseWriter, r *http.Request) {
	var req teacherSignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Department == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	existing, err := s.store.GetAuthUser(r.Context(), req.Email)
	if err != nil {
		s.storageError(w, "teacher signup", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "email_taken")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "password_hash_failed")
		return
	}

	now := time.Now().UTC()
	teacher := model.Teacher{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		Department:    req.Department,
		Qualification: req.Qualification,
		Role:          auth.RoleTeacher,
		CreatedAt:     now,
	}

	if err := s.store.SetAuthUser(r.Context(), model.AuthUser{
		ID:           teacher.ID,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleTeacher,
		CreatedAt:    now,
	}); err != nil {
		s.storageError(w, "teacher signup", err)
		return
	}
	if err := s.store.SetTeacher(r.Context(), teacher); err != nil {
		s.storageError(w, "teacher signup", err)
		return
	}

	// Initialize the teacher's collections so later reads see empty arrays.
	if err := s.store.SetClasses(r.Context(), teacher.ID, []model.Class{}); err != nil {
		s.storageError(w, "teacher signup", err)
		return
	}
	if err := s.store.SetTasks(r.Context(), teacher.ID, []model.Task{}); err != nil {
		s.storageError(w, "teacher signup", err)
		return
	}
	if err := s.store.SetAssignments(r.Context(), teacher.ID, []model.Assignment{}); err != nil {
		s.storageError(w, "teacher signup", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]userSummary{"user": {
		ID:            teacher.ID,
		Name:          teacher.Name,
		Email:         teacher.Email,
		Department:    teacher.Department,
		Qualification: teacher.Qualification,
		Role:          teacher.Role,
	}})
}

type studentSignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleStudentSignup(w http.ResponseWriter, r *http.Request) {
	var req studentSignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	existing, err := s.store.GetAuthUser(r.Context(), req.Email)
	if err != nil {
		s.storageError(w, "student signup", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "email_taken")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "password_hash_failed")
		return
	}

	now := time.Now().UTC()
	student := model.Student{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
		Role:       auth.RoleStudent,
		CreatedAt:  now,
		LastActive: now,
	}

	if err := s.store.SetAuthUser(r.Context(), model.AuthUser{
		ID:           student.ID,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleStudent,
		CreatedAt:    now,
	}); err != nil {
		s.storageError(w, "student signup", err)
		return
	}
	if err := s.store.SetStudent(r.Context(), student); err != nil {
		s.storageError(w, "student signup", err)
		return
	}
	if err := s.store.SetStudentTasks(r.Context(), student.Email, []model.StudentTask{}); err != nil {
		s.storageError(w, "student signup", err)
		return
	}
	if err := s.store.SetNotifications(r.Context(), student.Email, []model.Notification{}); err != nil {
		s.storageError(w, "student signup", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]userSummary{"user": {
		ID:    student.ID,
		Name:  student.Name,
		Email: student.Email,
		Role:  student.Role,
	}})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string      `json:"accessToken"`
	User        userSummary `json:"user"`
}

func (s *Server) handleTeacherLogin(w http.ResponseWriter, r *http.Request) {
	s.handleLogin(w, r, auth.RoleTeacher)
}

func (s *Server) handleStudentLogin(w http.ResponseWriter, r *http.Request) {
	s.handleLogin(w, r, auth.RoleStudent)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, role string) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	user, err := s.store.GetAuthUser(r.Context(), req.Email)
	if err != nil {
		s.storageError(w, "login", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	// Wrong portal for this account: the client must force sign-out.
	if user.Role != role {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	token, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	summary := userSummary{ID: user.ID, Email: user.Email, Role: user.Role}
	if role == auth.RoleTeacher {
		if teacher, err := s.store.GetTeacher(r.Context(), user.ID); err == nil && teacher != nil {
			summary.Name = teacher.Name
			summary.Department = teacher.Department
			summary.Qualification = teacher.Qualification
		}
	} else {
		if student, err := s.store.GetStudent(r.Context(), user.ID); err == nil && student != nil {
			summary.Name = student.Name
		}
	}

	writeJSON(w, http.StatusOK, authResponse{AccessToken: token, User: summary})
}

// --- teacher endpoints ---

func (s *Server) handleTeacherProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	teacher, err := s.store.GetTeacher(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "get teacher profile", err)
		return
	}
	if teacher == nil {
		writeError(w, http.StatusNotFound, "teacher_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.Teacher{"teacher": teacher})
}

func (s *Server) handleTeacherProfileUpdate(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var patch map[string]interface{}
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	profile, err := s.store.GetTeacherDoc(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "update teacher profile", err)
		return
	}
	for key, value := range patch {
		profile[key] = value
	}
	// Identity fields are pinned; the body cannot rewrite them.
	profile["id"] = claims.UserID
	profile["email"] = claims.Email
	profile["role"] = auth.RoleTeacher
	profile["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	if err := s.store.SetTeacherDoc(r.Context(), claims.UserID, profile); err != nil {
		s.storageError(w, "update teacher profile", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "profile": profile})
}

func (s *Server) handleTeacherData(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	students, err := s.store.ManualStudents(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "get teacher data", err)
		return
	}
	classes, err := s.store.Classes(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "get teacher data", err)
		return
	}
	tasks, err := s.store.Tasks(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "get teacher data", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"students": students,
		"classes":  classes,
		"tasks":    tasks,
	})
}

type saveStudentsRequest struct {
	Students []model.ManualStudent `json:"students"`
}

func (s *Server) handleSaveStudents(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req saveStudentsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Students == nil {
		req.Students = []model.ManualStudent{}
	}
	if err := s.store.SetManualStudents(r.Context(), claims.UserID, req.Students); err != nil {
		s.storageError(w, "save students", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type saveClassesRequest struct {
	Classes []model.Class `json:"classes"`
}

func (s *Server) handleSaveClasses(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req saveClassesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Classes == nil {
		req.Classes = []model.Class{}
	}
	if err := s.store.SetClasses(r.Context(), claims.UserID, req.Classes); err != nil {
		s.storageError(w, "save classes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type saveTasksRequest struct {
	Tasks []model.Task `json:"tasks"`
}

func (s *Server) handleSaveTasks(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req saveTasksRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Tasks == nil {
		req.Tasks = []model.Task{}
	}
	if err := s.sync.SyncTasks(r.Context(), claims.UserID, req.Tasks); err != nil {
		s.storageError(w, "save tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type saveGradesRequest struct {
	Grades []model.Grade `json:"grades"`
}

func (s *Server) handleSaveGrades(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req saveGradesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Grades == nil {
		req.Grades = []model.Grade{}
	}
	if err := s.sync.SyncGrades(r.Context(), claims.UserID, req.Grades); err != nil {
		s.storageError(w, "save grades", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAllStudents(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	students, err := s.queries.RegisteredStudents(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "get all students", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"students": students})
}

type assignStudentRequest struct {
	StudentID    string `json:"studentId"`
	StudentEmail string `json:"studentEmail"`
	ClassID      string `json:"classId"`
	ClassName    string `json:"className"`
}

func (s *Server) handleAssignStudent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req assignStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.StudentID == "" || req.ClassID == "" || req.ClassName == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	assignments, err := s.store.Assignments(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "assign student", err)
		return
	}

	now := time.Now().UTC()
	updated := false
	for i := range assignments {
		if assignments[i].StudentID != req.StudentID {
			continue
		}
		// Re-assignment keeps the original assignedAt.
		assignments[i].StudentEmail = req.StudentEmail
		assignments[i].ClassID = req.ClassID
		assignments[i].ClassName = req.ClassName
		assignments[i].UpdatedAt = &now
		updated = true
		break
	}
	if !updated {
		assignments = append(assignments, model.Assignment{
			StudentID:    req.StudentID,
			StudentEmail: req.StudentEmail,
			ClassID:      req.ClassID,
			ClassName:    req.ClassName,
			AssignedAt:   now,
		})
	}

	if err := s.store.SetAssignments(r.Context(), claims.UserID, assignments); err != nil {
		s.storageError(w, "assign student", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type unassignStudentRequest struct {
	StudentID string `json:"studentId"`
}

func (s *Server) handleUnassignStudent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req unassignStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.StudentID == "" {
		writeError(w, http.StatusBadRequest, "missing_student_id")
		return
	}

	assignments, err := s.store.Assignments(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "unassign student", err)
		return
	}
	remaining := assignments[:0]
	for _, assignment := range assignments {
		if assignment.StudentID != req.StudentID {
			remaining = append(remaining, assignment)
		}
	}

	if err := s.store.SetAssignments(r.Context(), claims.UserID, remaining); err != nil {
		s.storageError(w, "unassign student", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	stats, err := s.queries.TaskStats(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "get task stats", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"taskStats": stats})
}

// --- student endpoints ---

func (s *Server) handleStudentProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	student, err := s.store.GetStudent(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "get student profile", err)
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.Student{"student": student})
}

func (s *Server) handleStudentData(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	student, err := s.store.GetStudent(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "get student data", err)
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}

	grades, err := s.queries.StudentGrades(r.Context(), student.Email)
	if err != nil {
		s.storageError(w, "get student data", err)
		return
	}
	tasks, err := s.store.StudentTasks(r.Context(), student.Email)
	if err != nil {
		s.storageError(w, "get student data", err)
		return
	}
	notifications, err := s.store.Notifications(r.Context(), student.Email)
	if err != nil {
		s.storageError(w, "get student data", err)
		return
	}
	assignedClass, err := s.queries.AssignedClass(r.Context(), student.Email)
	if err != nil {
		s.storageError(w, "get student data", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"grades":        grades,
		"tasks":         tasks,
		"notifications": notifications,
		"assignedClass": assignedClass,
	})
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	student, err := s.store.GetStudent(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "complete task", err)
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}

	taskID := chi.URLParam(r, "taskId")
	queue, err := s.store.StudentTasks(r.Context(), student.Email)
	if err != nil {
		s.storageError(w, "complete task", err)
		return
	}
	now := time.Now().UTC()
	for i := range queue {
		if queue[i].ID == taskID {
			queue[i].Completed = true
			queue[i].CompletedAt = &now
		}
	}
	if err := s.store.SetStudentTasks(r.Context(), student.Email, queue); err != nil {
		s.storageError(w, "complete task", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	student, err := s.store.GetStudent(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "mark notification read", err)
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}

	notificationID := chi.URLParam(r, "notificationId")
	notifications, err := s.store.Notifications(r.Context(), student.Email)
	if err != nil {
		s.storageError(w, "mark notification read", err)
		return
	}
	for i := range notifications {
		if notifications[i].ID == notificationID {
			notifications[i].Read = true
		}
	}
	if err := s.store.SetNotifications(r.Context(), student.Email, notifications); err != nil {
		s.storageError(w, "mark notification read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	student, err := s.store.GetStudent(r.Context(), claims.UserID)
	if err != nil {
		s.storageError(w, "submit quiz", err)
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}

	var submission model.QuizSubmission
	if err := decodeJSON(r, &submission); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if submission.QuizID == "" {
		writeError(w, http.StatusBadRequest, "missing_quiz_id")
		return
	}

	grade, err := s.sync.SubmitQuiz(r.Context(), *student, submission)
	if err != nil {
		if errors.Is(err, fanout.ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, "quiz_not_found")
			return
		}
		s.storageError(w, "submit quiz", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"submission": submission,
		"grade":      grade,
	})
}

// --- debug endpoints ---

func (s *Server) handleDebugStudents(w http.ResponseWriter, r *http.Request) {
	entries, err := s.kv.GetByPrefix(r.Context(), "student:")
	if err != nil {
		s.storageError(w, "debug students", err)
		return
	}

	students := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		doc := map[string]interface{}{}
		if err := json.Unmarshal(entry.Value, &doc); err != nil {
			continue
		}
		doc["key"] = entry.Key
		students = append(students, doc)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(students),
		"students": students,
	})
}

func (s *Server) handleDebugTeacherStudents(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "teacherId")
	assignments, err := s.store.Assignments(r.Context(), teacherID)
	if err != nil {
		s.storageError(w, "debug teacher students", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"teacherId":   teacherID,
		"count":       len(assignments),
		"assignments": assignments,
	})
}

func (s *Server) handleDebugStudentData(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	tasks, err := s.store.StudentTasks(r.Context(), email)
	if err != nil {
		s.storageError(w, "debug student data", err)
		return
	}
	notifications, err := s.store.Notifications(r.Context(), email)
	if err != nil {
		s.storageError(w, "debug student data", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"email":         email,
		"tasks":         tasks,
		"notifications": notifications,
	})
}

// --- middleware and helpers ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}

		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole rejects cross-role access outright (403, client forces
// sign-out) instead of scoping the request down.
func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil || claims.Role != role {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func (s *Server) storageError(w http.ResponseWriter, operation string, err error) {
	log.Printf("%s: %v", operation, err)
	writeError(w, http.StatusInternalServerError, "server_error")
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
