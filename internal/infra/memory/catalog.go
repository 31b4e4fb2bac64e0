package memory

import (
	"context"
	"sort"
	"sync"

	"progression-service/internal/domain"
)

// Catalog is an in-memory read model of users, courses, paths, and
// assignments, used by tests and the no-database dev mode.
type Catalog struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	courses       map[string]domain.Course
	courseModules map[string][]string
	paths         map[string]domain.LearningPath
	pathCourses   map[string][]domain.PathCourse
	assignments   map[string][]domain.Assignment
}

func NewCatalog() *Catalog {
	return &Catalog{
		users:         make(map[string]domain.User),
		courses:       make(map[string]domain.Course),
		courseModules: make(map[string][]string),
		paths:         make(map[string]domain.LearningPath),
		pathCourses:   make(map[string][]domain.PathCourse),
		assignments:   make(map[string][]domain.Assignment),
	}
}

func (c *Catalog) AddUser(u domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[u.ID] = u
}

func (c *Catalog) AddCourse(course domain.Course, moduleIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses[course.ID] = course
	c.courseModules[course.ID] = append([]string(nil), moduleIDs...)
}

func (c *Catalog) AddPath(path domain.LearningPath, courses ...domain.PathCourse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths[path.ID] = path
	c.pathCourses[path.ID] = append([]domain.PathCourse(nil), courses...)
}

func (c *Catalog) AddAssignment(a domain.Assignment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assignments[a.CourseID] = append(c.assignments[a.CourseID], a)
}

func (c *Catalog) GetUser(_ context.Context, userID string) (domain.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if u, ok := c.users[userID]; ok {
		return u, nil
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (c *Catalog) GetCourse(_ context.Context, courseID string) (domain.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if course, ok := c.courses[courseID]; ok {
		return course, nil
	}
	return domain.Course{}, domain.ErrCourseNotFound
}

func (c *Catalog) ListCourses(_ context.Context) ([]domain.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	courses := make([]domain.Course, 0, len(c.courses))
	for _, course := range c.courses {
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (c *Catalog) ListCourseModuleIDs(_ context.Context, courseID string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.courses[courseID]; !ok {
		return nil, domain.ErrCourseNotFound
	}
	return append([]string(nil), c.courseModules[courseID]...), nil
}

func (c *Catalog) GetLearningPath(_ context.Context, pathID string) (domain.LearningPath, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := c.paths[pathID]; ok {
		return p, nil
	}
	return domain.LearningPath{}, domain.ErrPathNotFound
}

func (c *Catalog) ListLearningPaths(_ context.Context) ([]domain.LearningPath, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]domain.LearningPath, 0, len(c.paths))
	for _, p := range c.paths {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].ID < paths[j].ID })
	return paths, nil
}

func (c *Catalog) ListPathCourses(_ context.Context, pathID string) ([]domain.PathCourse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.paths[pathID]; !ok {
		return nil, domain.ErrPathNotFound
	}
	courses := append([]domain.PathCourse(nil), c.pathCourses[pathID]...)
	sort.Slice(courses, func(i, j int) bool { return courses[i].Position < courses[j].Position })
	return courses, nil
}

func (c *Catalog) ListPublishedAssignments(_ context.Context, courseID string) ([]domain.Assignment, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Assignment(nil), c.assignments[courseID]...), nil
}
