package domain

import "time"

// User is the minimal identity view the engine needs; authn/authz happen upstream.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

// Option is a canonical answer option in authoring order.
type Option struct {
	Text string `json:"text"`
}

// Question is an MCQ question in its canonical (never shuffled) form.
type Question struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []Option `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}

// QuizPayload is the authoring-time quiz content keyed by module.
type QuizPayload struct {
	ModuleID  string     `json:"moduleId"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// PresentedOption is one answer choice as shown to a learner for a single attempt.
// OriginalIndex maps back to the canonical option; it is never sent to clients.
type PresentedOption struct {
	OptionID      string `json:"optionId"`
	Label         string `json:"label"`
	OriginalIndex int    `json:"-"`
}

// PresentedQuestion is a question with per-attempt option ordering.
type PresentedQuestion struct {
	ID                   string            `json:"id"`
	Prompt               string            `json:"prompt"`
	Options              []PresentedOption `json:"options"`
	CorrectOriginalIndex int               `json:"-"`
	Explanation          string            `json:"-"`
}

// QuizSession is the randomized presentation of a quiz for one attempt.
// It is derived from (payload, seed), immutable, and never persisted; only the
// seed and the graded result survive the attempt.
type QuizSession struct {
	ModuleID  string              `json:"moduleId"`
	Title     string              `json:"title"`
	Seed      string              `json:"seed"`
	Questions []PresentedQuestion `json:"questions"`
}

// QuizResult summarizes grading of a single attempt.
type QuizResult struct {
	TotalQuestions int  `json:"totalQuestions"`
	CorrectAnswers int  `json:"correctAnswers"`
	ScorePercent   int  `json:"scorePercent"`
	Passed         bool `json:"passed"`
}

// QuizAttempt is the persisted record of a graded attempt.
type QuizAttempt struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	ModuleID        string            `json:"moduleId"`
	AttemptNumber   int               `json:"attemptNumber"`
	ScorePercent    int               `json:"scorePercent"`
	CorrectAnswers  int               `json:"correctAnswers"`
	TotalQuestions  int               `json:"totalQuestions"`
	Passed          bool              `json:"passed"`
	Answers         map[string]string `json:"answers"`
	StartedAt       time.Time         `json:"startedAt"`
	SubmittedAt     time.Time         `json:"submittedAt"`
	DurationSeconds int               `json:"durationSeconds"`
}

// ModuleProgress tracks one user's state on one module. One row per
// (user, module); writes are upserts, never duplicate inserts.
type ModuleProgress struct {
	UserID           string     `json:"userId"`
	ModuleID         string     `json:"moduleId"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	WatchTimeSeconds int        `json:"watchTimeSeconds"`
	LastWatchedAt    *time.Time `json:"lastWatchedAt,omitempty"`
}

// Path progress status values. Paused is an external override, never derived.
const (
	PathStatusEnrolled  = "enrolled"
	PathStatusCompleted = "completed"
	PathStatusPaused    = "paused"
)

// LearningPathProgress is the stored aggregate for one user on one path.
// It is recomputed from course completion state, never patched incrementally.
type LearningPathProgress struct {
	LearningPathID    string     `json:"learningPathId"`
	UserID            string     `json:"userId"`
	CompletedCourses  int        `json:"completedCourses"`
	TotalCourses      int        `json:"totalCourses"`
	CompletionPercent int        `json:"completionPercent"`
	Status            string     `json:"status"`
	EnrolledAt        time.Time  `json:"enrolledAt"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

// Course is catalog metadata the engine reads but never writes.
type Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// LearningPath groups required and optional courses.
type LearningPath struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PathCourse links a course into a path; only required courses count
// toward completion.
type PathCourse struct {
	CourseID string `json:"courseId"`
	Required bool   `json:"required"`
	Position int    `json:"position"`
}

// Assignment is a published, gradable task with a due date.
type Assignment struct {
	ID             string     `json:"id"`
	CourseID       string     `json:"courseId"`
	Title          string     `json:"title"`
	DueAt          *time.Time `json:"dueAt,omitempty"`
	PassingPercent int        `json:"passingPercent"`
}

// Submission status values.
const (
	SubmissionDraft     = "draft"
	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
	SubmissionReturned  = "returned"
)

// Submission is a learner's answer to an assignment.
type Submission struct {
	ID           string     `json:"id"`
	AssignmentID string     `json:"assignmentId"`
	UserID       string     `json:"userId"`
	Status       string     `json:"status"`
	ScorePercent *int       `json:"scorePercent,omitempty"`
	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`
	GradedAt     *time.Time `json:"gradedAt,omitempty"`
}

// Risk levels; pairs scoring below the medium threshold emit no signal.
const (
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// RiskSignal is a computed, ephemeral flag that a learner may need help.
// It is never stored unless a staff member promotes it to an Intervention.
type RiskSignal struct {
	UserID              string     `json:"userId"`
	UserName            string     `json:"userName"`
	CourseID            string     `json:"courseId"`
	RiskScore           int        `json:"riskScore"`
	RiskLevel           string     `json:"riskLevel"`
	Reason              string     `json:"reason"`
	CompletionPercent   int        `json:"completionPercent"`
	OverdueAssignments  int        `json:"overdueAssignments"`
	LowScoreAssignments int        `json:"lowScoreAssignments"`
	LastActiveAt        *time.Time `json:"lastActiveAt,omitempty"`
}

// Intervention status values.
const (
	InterventionOpen       = "open"
	InterventionInProgress = "in_progress"
	InterventionResolved   = "resolved"
	InterventionDismissed  = "dismissed"
)

// Intervention is a staff-tracked case opened against a risk signal.
type Intervention struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	CourseID       string     `json:"courseId,omitempty"`
	LearningPathID string     `json:"learningPathId,omitempty"`
	RiskLevel      string     `json:"riskLevel"`
	RiskScore      int        `json:"riskScore"`
	Reason         string     `json:"reason"`
	AssignedTo     string     `json:"assignedTo,omitempty"`
	Status         string     `json:"status"`
	ActionPlan     string     `json:"actionPlan,omitempty"`
	DueAt          *time.Time `json:"dueAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
}

// Certificate is the issued completion artifact for one (user, course).
// Token and number are fixed at first issuance and never change after.
type Certificate struct {
	UserID            string    `json:"userId"`
	CourseID          string    `json:"courseId"`
	IssuedAt          time.Time `json:"issuedAt"`
	VerificationToken string    `json:"verificationToken"`
	CertificateNumber string    `json:"certificateNumber"`
	CertificateURL    string    `json:"certificateUrl"`
	CompletionRate    int       `json:"completionRate"`
}
