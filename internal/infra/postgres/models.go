package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"progression-service/internal/domain"
)

type userRow struct {
	bun.BaseModel `bun:"table:users"`

	ID          string `bun:"id,pk"`
	DisplayName string `bun:"display_name"`
	Email       string `bun:"email"`
}

type courseRow struct {
	bun.BaseModel `bun:"table:courses"`

	ID    string `bun:"id,pk"`
	Title string `bun:"title"`
}

type courseModuleRow struct {
	bun.BaseModel `bun:"table:course_modules"`

	CourseID string `bun:"course_id"`
	ModuleID string `bun:"module_id"`
	Position int    `bun:"position"`
}

type learningPathRow struct {
	bun.BaseModel `bun:"table:learning_paths"`

	ID    string `bun:"id,pk"`
	Title string `bun:"title"`
}

type pathCourseRow struct {
	bun.BaseModel `bun:"table:learning_path_courses"`

	PathID   string `bun:"learning_path_id"`
	CourseID string `bun:"course_id"`
	Required bool   `bun:"required"`
	Position int    `bun:"position"`
}

type assignmentRow struct {
	bun.BaseModel `bun:"table:assignments"`

	ID             string     `bun:"id,pk"`
	CourseID       string     `bun:"course_id"`
	Title          string     `bun:"title"`
	DueAt          *time.Time `bun:"due_at"`
	PassingPercent int        `bun:"passing_percent"`
	Published      bool       `bun:"published"`
}

type submissionRow struct {
	bun.BaseModel `bun:"table:assignment_submissions"`

	ID           string     `bun:"id,pk"`
	AssignmentID string     `bun:"assignment_id"`
	UserID       string     `bun:"user_id"`
	Status       string     `bun:"status"`
	ScorePercent *int       `bun:"score_percent"`
	SubmittedAt  *time.Time `bun:"submitted_at"`
	GradedAt     *time.Time `bun:"graded_at"`
}

type attemptRow struct {
	bun.BaseModel `bun:"table:quiz_attempts"`

	ID              string            `bun:"id,pk"`
	UserID          string            `bun:"user_id"`
	ModuleID        string            `bun:"module_id"`
	AttemptNumber   int               `bun:"attempt_number"`
	ScorePercent    int               `bun:"score_percent"`
	CorrectAnswers  int               `bun:"correct_answers"`
	TotalQuestions  int               `bun:"total_questions"`
	Passed          bool              `bun:"passed"`
	Answers         map[string]string `bun:"answers,type:jsonb"`
	StartedAt       time.Time         `bun:"started_at"`
	SubmittedAt     time.Time         `bun:"submitted_at"`
	DurationSeconds int               `bun:"duration_seconds"`
}

type moduleProgressRow struct {
	bun.BaseModel `bun:"table:module_progress"`

	UserID           string     `bun:"user_id,pk"`
	ModuleID         string     `bun:"module_id,pk"`
	Completed        bool       `bun:"completed"`
	CompletedAt      *time.Time `bun:"completed_at"`
	WatchTimeSeconds int        `bun:"watch_time_seconds"`
	LastWatchedAt    *time.Time `bun:"last_watched_at"`
}

type pathProgressRow struct {
	bun.BaseModel `bun:"table:learning_path_progress"`

	LearningPathID    string     `bun:"learning_path_id,pk"`
	UserID            string     `bun:"user_id,pk"`
	CompletedCourses  int        `bun:"completed_courses"`
	TotalCourses      int        `bun:"total_courses"`
	CompletionPercent int        `bun:"completion_percent"`
	Status            string     `bun:"status"`
	EnrolledAt        time.Time  `bun:"enrolled_at"`
	CompletedAt       *time.Time `bun:"completed_at"`
}

type certificateRow struct {
	bun.BaseModel `bun:"table:certificates"`

	UserID            string    `bun:"user_id,pk"`
	CourseID          string    `bun:"course_id,pk"`
	IssuedAt          time.Time `bun:"issued_at"`
	VerificationToken string    `bun:"verification_token"`
	CertificateNumber string    `bun:"certificate_number"`
	CertificateURL    string    `bun:"certificate_url"`
	CompletionRate    int       `bun:"completion_rate"`
}

type interventionRow struct {
	bun.BaseModel `bun:"table:interventions"`

	ID             string     `bun:"id,pk"`
	UserID         string     `bun:"user_id"`
	CourseID       string     `bun:"course_id"`
	LearningPathID string     `bun:"learning_path_id"`
	RiskLevel      string     `bun:"risk_level"`
	RiskScore      int        `bun:"risk_score"`
	Reason         string     `bun:"reason"`
	AssignedTo     string     `bun:"assigned_to"`
	Status         string     `bun:"status"`
	ActionPlan     string     `bun:"action_plan"`
	DueAt          *time.Time `bun:"due_at"`
	CreatedAt      time.Time  `bun:"created_at"`
	ResolvedAt     *time.Time `bun:"resolved_at"`
}

func (r moduleProgressRow) toDomain() domain.ModuleProgress {
	return domain.ModuleProgress{
		UserID:           r.UserID,
		ModuleID:         r.ModuleID,
		Completed:        r.Completed,
		CompletedAt:      r.CompletedAt,
		WatchTimeSeconds: r.WatchTimeSeconds,
		LastWatchedAt:    r.LastWatchedAt,
	}
}

func (r pathProgressRow) toDomain() domain.LearningPathProgress {
	return domain.LearningPathProgress{
		LearningPathID:    r.LearningPathID,
		UserID:            r.UserID,
		CompletedCourses:  r.CompletedCourses,
		TotalCourses:      r.TotalCourses,
		CompletionPercent: r.CompletionPercent,
		Status:            r.Status,
		EnrolledAt:        r.EnrolledAt,
		CompletedAt:       r.CompletedAt,
	}
}

func (r certificateRow) toDomain() domain.Certificate {
	return domain.Certificate{
		UserID:            r.UserID,
		CourseID:          r.CourseID,
		IssuedAt:          r.IssuedAt,
		VerificationToken: r.VerificationToken,
		CertificateNumber: r.CertificateNumber,
		CertificateURL:    r.CertificateURL,
		CompletionRate:    r.CompletionRate,
	}
}

func (r interventionRow) toDomain() domain.Intervention {
	return domain.Intervention{
		ID:             r.ID,
		UserID:         r.UserID,
		CourseID:       r.CourseID,
		LearningPathID: r.LearningPathID,
		RiskLevel:      r.RiskLevel,
		RiskScore:      r.RiskScore,
		Reason:         r.Reason,
		AssignedTo:     r.AssignedTo,
		Status:         r.Status,
		ActionPlan:     r.ActionPlan,
		DueAt:          r.DueAt,
		CreatedAt:      r.CreatedAt,
		ResolvedAt:     r.ResolvedAt,
	}
}

func (r submissionRow) toDomain() domain.Submission {
	return domain.Submission{
		ID:           r.ID,
		AssignmentID: r.AssignmentID,
		UserID:       r.UserID,
		Status:       r.Status,
		ScorePercent: r.ScorePercent,
		SubmittedAt:  r.SubmittedAt,
		GradedAt:     r.GradedAt,
	}
}

func (r assignmentRow) toDomain() domain.Assignment {
	return domain.Assignment{
		ID:             r.ID,
		CourseID:       r.CourseID,
		Title:          r.Title,
		DueAt:          r.DueAt,
		PassingPercent: r.PassingPercent,
	}
}

func (r attemptRow) toDomain() domain.QuizAttempt {
	return domain.QuizAttempt{
		ID:              r.ID,
		UserID:          r.UserID,
		ModuleID:        r.ModuleID,
		AttemptNumber:   r.AttemptNumber,
		ScorePercent:    r.ScorePercent,
		CorrectAnswers:  r.CorrectAnswers,
		TotalQuestions:  r.TotalQuestions,
		Passed:          r.Passed,
		Answers:         r.Answers,
		StartedAt:       r.StartedAt,
		SubmittedAt:     r.SubmittedAt,
		DurationSeconds: r.DurationSeconds,
	}
}
