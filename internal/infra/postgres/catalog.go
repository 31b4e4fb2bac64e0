package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"progression-service/internal/domain"
)

// Catalog reads users, courses, paths, and assignments from Postgres. The
// engine never writes these tables.
type Catalog struct {
	db *bun.DB
}

func NewCatalog(db *bun.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) GetUser(ctx context.Context, userID string) (domain.User, error) {
	var row userRow
	err := c.db.NewSelect().Model(&row).Where("id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return domain.User{ID: row.ID, DisplayName: row.DisplayName, Email: row.Email}, nil
}

func (c *Catalog) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	var row courseRow
	err := c.db.NewSelect().Model(&row).Where("id = ?", courseID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	if err != nil {
		return domain.Course{}, fmt.Errorf("get course: %w", err)
	}
	return domain.Course{ID: row.ID, Title: row.Title}, nil
}

func (c *Catalog) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var rows []courseRow
	if err := c.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	courses := make([]domain.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, domain.Course{ID: row.ID, Title: row.Title})
	}
	return courses, nil
}

func (c *Catalog) ListCourseModuleIDs(ctx context.Context, courseID string) ([]string, error) {
	exists, err := c.db.NewSelect().Model((*courseRow)(nil)).Where("id = ?", courseID).Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check course: %w", err)
	}
	if !exists {
		return nil, domain.ErrCourseNotFound
	}

	var rows []courseModuleRow
	if err := c.db.NewSelect().Model(&rows).Where("course_id = ?", courseID).Order("position ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list course modules: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ModuleID)
	}
	return ids, nil
}

func (c *Catalog) GetLearningPath(ctx context.Context, pathID string) (domain.LearningPath, error) {
	var row learningPathRow
	err := c.db.NewSelect().Model(&row).Where("id = ?", pathID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LearningPath{}, domain.ErrPathNotFound
	}
	if err != nil {
		return domain.LearningPath{}, fmt.Errorf("get learning path: %w", err)
	}
	return domain.LearningPath{ID: row.ID, Title: row.Title}, nil
}

func (c *Catalog) ListLearningPaths(ctx context.Context) ([]domain.LearningPath, error) {
	var rows []learningPathRow
	if err := c.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list learning paths: %w", err)
	}
	paths := make([]domain.LearningPath, 0, len(rows))
	for _, row := range rows {
		paths = append(paths, domain.LearningPath{ID: row.ID, Title: row.Title})
	}
	return paths, nil
}

func (c *Catalog) ListPathCourses(ctx context.Context, pathID string) ([]domain.PathCourse, error) {
	var rows []pathCourseRow
	if err := c.db.NewSelect().Model(&rows).Where("learning_path_id = ?", pathID).Order("position ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list path courses: %w", err)
	}
	courses := make([]domain.PathCourse, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, domain.PathCourse{CourseID: row.CourseID, Required: row.Required, Position: row.Position})
	}
	return courses, nil
}

func (c *Catalog) ListPublishedAssignments(ctx context.Context, courseID string) ([]domain.Assignment, error) {
	var rows []assignmentRow
	err := c.db.NewSelect().Model(&rows).
		Where("course_id = ?", courseID).
		Where("published").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	assignments := make([]domain.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toDomain())
	}
	return assignments, nil
}
