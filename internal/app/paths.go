package app

import (
	"context"

	"progression-service/internal/domain"
	"progression-service/internal/progress"
)

// PathCourseView flags one course inside a path view.
type PathCourseView struct {
	CourseID  string `json:"courseId"`
	Required  bool   `json:"required"`
	Completed bool   `json:"completed"`
}

// PathView is the per-user list item for a learning path.
type PathView struct {
	Path              domain.LearningPath `json:"path"`
	IsEnrolled        bool                `json:"isEnrolled"`
	Status            string              `json:"status"`
	CompletedCourses  int                 `json:"completedCourses"`
	TotalCourses      int                 `json:"totalCourses"`
	CompletionPercent int                 `json:"completionPercent"`
	Courses           []PathCourseView    `json:"courses"`
}

// ListLearningPaths returns every path with the user's freshly computed
// completion state. A stored paused status survives recomputation; everything
// else is derived from current course completion.
func (s *ProgressionService) ListLearningPaths(ctx context.Context, userID string) ([]PathView, error) {
	paths, err := s.catalog.ListLearningPaths(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]PathView, 0, len(paths))
	for _, path := range paths {
		view, err := s.pathView(ctx, userID, path)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// RecomputePath recomputes the user's aggregate for one path from current
// course completion and upserts it. First call enrolls the user.
func (s *ProgressionService) RecomputePath(ctx context.Context, userID, pathID string) (domain.LearningPathProgress, error) {
	path, err := s.catalog.GetLearningPath(ctx, pathID)
	if err != nil {
		return domain.LearningPathProgress{}, err
	}

	agg, _, err := s.computePath(ctx, userID, path.ID)
	if err != nil {
		return domain.LearningPathProgress{}, err
	}

	now := s.now().UTC()
	row := domain.LearningPathProgress{
		LearningPathID:    path.ID,
		UserID:            userID,
		CompletedCourses:  agg.CompletedCourses,
		TotalCourses:      agg.TotalCourses,
		CompletionPercent: agg.CompletionPercent,
		Status:            agg.Status,
		EnrolledAt:        now,
	}

	if stored, ok, err := s.paths.GetPathProgress(ctx, path.ID, userID); err != nil {
		return domain.LearningPathProgress{}, err
	} else if ok {
		row.EnrolledAt = stored.EnrolledAt
		row.CompletedAt = stored.CompletedAt
		if stored.Status == domain.PathStatusPaused && agg.Status != domain.PathStatusCompleted {
			row.Status = domain.PathStatusPaused
		}
	}
	if row.Status == domain.PathStatusCompleted && row.CompletedAt == nil {
		row.CompletedAt = &now
	}

	return s.paths.UpsertPathProgress(ctx, row)
}

// courseComplete reports whether the user finished every module of a course.
func (s *ProgressionService) courseComplete(ctx context.Context, userID, courseID string) (bool, error) {
	moduleIDs, err := s.catalog.ListCourseModuleIDs(ctx, courseID)
	if err != nil {
		return false, err
	}
	completed, err := s.completedModules(ctx, userID, moduleIDs)
	if err != nil {
		return false, err
	}
	return progress.IsCourseComplete(moduleIDs, completed), nil
}

func (s *ProgressionService) completedModules(ctx context.Context, userID string, moduleIDs []string) (map[string]bool, error) {
	rows, err := s.progress.ListModuleProgress(ctx, userID, moduleIDs)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.Completed {
			completed[row.ModuleID] = true
		}
	}
	return completed, nil
}

func (s *ProgressionService) computePath(ctx context.Context, userID, pathID string) (progress.PathAggregate, []PathCourseView, error) {
	pathCourses, err := s.catalog.ListPathCourses(ctx, pathID)
	if err != nil {
		return progress.PathAggregate{}, nil, err
	}

	var requiredIDs []string
	completeByCourse := make(map[string]bool, len(pathCourses))
	courses := make([]PathCourseView, 0, len(pathCourses))
	for _, pc := range pathCourses {
		done, err := s.courseComplete(ctx, userID, pc.CourseID)
		if err != nil {
			return progress.PathAggregate{}, nil, err
		}
		completeByCourse[pc.CourseID] = done
		if pc.Required {
			requiredIDs = append(requiredIDs, pc.CourseID)
		}
		courses = append(courses, PathCourseView{CourseID: pc.CourseID, Required: pc.Required, Completed: done})
	}

	return progress.ComputePathProgress(requiredIDs, completeByCourse), courses, nil
}

func (s *ProgressionService) pathView(ctx context.Context, userID string, path domain.LearningPath) (PathView, error) {
	agg, courses, err := s.computePath(ctx, userID, path.ID)
	if err != nil {
		return PathView{}, err
	}

	view := PathView{
		Path:              path,
		Status:            agg.Status,
		CompletedCourses:  agg.CompletedCourses,
		TotalCourses:      agg.TotalCourses,
		CompletionPercent: agg.CompletionPercent,
		Courses:           courses,
	}

	if stored, ok, err := s.paths.GetPathProgress(ctx, path.ID, userID); err != nil {
		return PathView{}, err
	} else if ok {
		view.IsEnrolled = true
		if stored.Status == domain.PathStatusPaused && agg.Status != domain.PathStatusCompleted {
			view.Status = domain.PathStatusPaused
		}
	}
	return view, nil
}
