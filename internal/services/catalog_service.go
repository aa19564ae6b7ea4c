package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursemarket/internal/metrics"
	"coursemarket/internal/models"
	repo "coursemarket/internal/repository"

	"github.com/google/uuid"
)

type CatalogService struct {
	courses repo.Courses
}

func NewCatalogService(c repo.Courses) *CatalogService { return &CatalogService{courses: c} }

type CourseInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Duration      int64    `json:"duration"`
	SkillLevel    string   `json:"skill_level"`
	Prerequisites []string `json:"prerequisites"`
	Price         int64    `json:"price"`
}

// Create persists a new course. The instructor is enrolled from the start;
// the student set is never empty for the lifetime of the course.
func (s *CatalogService) Create(ctx context.Context, instructor string, in CourseInput) (models.Course, error) {
	c := models.Course{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Instructor:    instructor,
		Duration:      in.Duration,
		SkillLevel:    in.SkillLevel,
		Prerequisites: in.Prerequisites,
		Price:         in.Price,
		Students:      []string{instructor},
	}
	if c.Prerequisites == nil {
		c.Prerequisites = []string{}
	}
	if err := c.Validate(); err != nil {
		return models.Course{}, err
	}
	created, err := s.courses.Create(ctx, c)
	if err != nil {
		return models.Course{}, fmt.Errorf("create course: %w", err)
	}
	metrics.CoursesCreatedTotal.Inc()
	return created, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (models.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Course{}, ErrCourseNotFound
	}
	return c, err
}

// List returns the full catalog; an empty catalog is an empty slice, not an
// error.
func (s *CatalogService) List(ctx context.Context) ([]models.Course, error) {
	out, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Course{}
	}
	return out, nil
}

// ListByInstructor reports ErrNoCoursesFound for an empty result. The
// filtered listings keep the original empty-is-error contract; see
// DESIGN.md before changing this.
func (s *CatalogService) ListByInstructor(ctx context.Context, instructor string) ([]models.Course, error) {
	out, err := s.courses.ListByInstructor(ctx, instructor)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoCoursesFound
	}
	return out, nil
}

func (s *CatalogService) ListByStudent(ctx context.Context, student string) ([]models.Course, error) {
	out, err := s.courses.ListByStudent(ctx, student)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoCoursesFound
	}
	return out, nil
}
