package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"progression-service/internal/domain"
	"progression-service/internal/risk"
)

// RiskCandidate pairs a computed signal with its open intervention, if staff
// already picked it up.
type RiskCandidate struct {
	Signal       domain.RiskSignal    `json:"signal"`
	Intervention *domain.Intervention `json:"intervention,omitempty"`
}

// RiskCandidates evaluates every started (user, course) pair and returns the
// pairs that cross the medium threshold, highest score first. A non-empty
// courseID restricts the sweep to that course. Signals are computed fresh on
// every call; nothing is persisted here.
func (s *ProgressionService) RiskCandidates(ctx context.Context, courseID string) ([]RiskCandidate, error) {
	var courses []domain.Course
	if courseID != "" {
		course, err := s.catalog.GetCourse(ctx, courseID)
		if err != nil {
			return nil, err
		}
		courses = []domain.Course{course}
	} else {
		all, err := s.catalog.ListCourses(ctx)
		if err != nil {
			return nil, err
		}
		courses = all
	}

	now := s.now().UTC()
	var signals []domain.RiskSignal
	for _, course := range courses {
		courseSignals, err := s.courseRiskSignals(ctx, course, now)
		if err != nil {
			return nil, err
		}
		signals = append(signals, courseSignals...)
	}
	risk.Sort(signals)

	open, err := s.interventions.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	openByPair := make(map[string]domain.Intervention, len(open))
	for _, iv := range open {
		openByPair[iv.UserID+"|"+iv.CourseID] = iv
	}

	candidates := make([]RiskCandidate, 0, len(signals))
	for _, sig := range signals {
		candidate := RiskCandidate{Signal: sig}
		if iv, ok := openByPair[sig.UserID+"|"+sig.CourseID]; ok {
			candidate.Intervention = &iv
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func (s *ProgressionService) courseRiskSignals(ctx context.Context, course domain.Course, now time.Time) ([]domain.RiskSignal, error) {
	moduleIDs, err := s.catalog.ListCourseModuleIDs(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.catalog.ListPublishedAssignments(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	assignmentIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.ID)
	}

	rows, err := s.progress.ListCourseProgress(ctx, moduleIDs)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions.ListSubmissions(ctx, assignmentIDs)
	if err != nil {
		return nil, err
	}

	// A pair counts as started once it has any progress row or submission.
	progressByUser := make(map[string][]domain.ModuleProgress)
	for _, row := range rows {
		progressByUser[row.UserID] = append(progressByUser[row.UserID], row)
	}
	subsByUser := make(map[string][]domain.Submission)
	for _, sub := range subs {
		subsByUser[sub.UserID] = append(subsByUser[sub.UserID], sub)
	}
	started := make(map[string]bool, len(progressByUser)+len(subsByUser))
	for userID := range progressByUser {
		started[userID] = true
	}
	for userID := range subsByUser {
		started[userID] = true
	}

	var signals []domain.RiskSignal
	for userID := range started {
		user, err := s.catalog.GetUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve user %s: %w", userID, err)
		}
		signal, ok := risk.Evaluate(risk.Input{
			User:        user,
			CourseID:    course.ID,
			ModuleIDs:   moduleIDs,
			Progress:    progressByUser[userID],
			Assignments: assignments,
			Submissions: subsByUser[userID],
			Now:         now,
		})
		if ok {
			signals = append(signals, signal)
		}
	}
	return signals, nil
}

// InterventionRequest carries the staff input for opening a case.
type InterventionRequest struct {
	UserID         string `json:"userId"`
	CourseID       string `json:"courseId,omitempty"`
	LearningPathID string `json:"learningPathId,omitempty"`
	RiskLevel      string `json:"riskLevel"`
	RiskScore      int    `json:"riskScore"`
	Reason         string `json:"reason"`
	AssignedTo     string `json:"assignedTo,omitempty"`
	ActionPlan     string `json:"actionPlan,omitempty"`
}

// OpenIntervention promotes a risk signal into a tracked staff case.
func (s *ProgressionService) OpenIntervention(ctx context.Context, req InterventionRequest) (domain.Intervention, error) {
	if req.UserID == "" {
		return domain.Intervention{}, domain.NewValidationError("userId", "required")
	}
	if req.RiskLevel != domain.RiskLevelMedium && req.RiskLevel != domain.RiskLevelHigh {
		return domain.Intervention{}, domain.NewValidationError("riskLevel", "must be medium or high")
	}
	if req.RiskScore < 0 || req.RiskScore > 100 {
		return domain.Intervention{}, domain.NewValidationError("riskScore", "must be 0-100")
	}
	if _, err := s.catalog.GetUser(ctx, req.UserID); err != nil {
		return domain.Intervention{}, err
	}

	return s.interventions.Create(ctx, domain.Intervention{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		CourseID:       req.CourseID,
		LearningPathID: req.LearningPathID,
		RiskLevel:      req.RiskLevel,
		RiskScore:      req.RiskScore,
		Reason:         req.Reason,
		AssignedTo:     req.AssignedTo,
		Status:         domain.InterventionOpen,
		ActionPlan:     req.ActionPlan,
		CreatedAt:      s.now().UTC(),
	})
}

// InterventionUpdate is a partial staff edit of an open case.
type InterventionUpdate struct {
	Status     string `json:"status,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
	ActionPlan string `json:"actionPlan,omitempty"`
}

// UpdateIntervention applies a staff edit; moving to resolved or dismissed
// stamps the resolution time.
func (s *ProgressionService) UpdateIntervention(ctx context.Context, id string, update InterventionUpdate) (domain.Intervention, error) {
	iv, ok, err := s.interventions.Get(ctx, id)
	if err != nil {
		return domain.Intervention{}, err
	}
	if !ok {
		return domain.Intervention{}, domain.ErrInterventionNotFound
	}

	if update.Status != "" {
		switch update.Status {
		case domain.InterventionOpen, domain.InterventionInProgress, domain.InterventionResolved, domain.InterventionDismissed:
		default:
			return domain.Intervention{}, domain.NewValidationError("status", "unknown status "+update.Status)
		}
		iv.Status = update.Status
		if update.Status == domain.InterventionResolved || update.Status == domain.InterventionDismissed {
			now := s.now().UTC()
			iv.ResolvedAt = &now
		}
	}
	if update.AssignedTo != "" {
		iv.AssignedTo = update.AssignedTo
	}
	if update.ActionPlan != "" {
		iv.ActionPlan = update.ActionPlan
	}
	return s.interventions.Update(ctx, iv)
}
