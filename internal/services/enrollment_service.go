package services

import (
	"context"
	"errors"

	"coursemarket/internal/metrics"
	"coursemarket/internal/models"
	repo "coursemarket/internal/repository"
	"coursemarket/internal/worker"
)

type EnrollmentService struct {
	courses repo.Courses
	logs    repo.AuditLogs
	wp      *worker.Pool
}

func NewEnrollmentService(c repo.Courses, l repo.AuditLogs, wp *worker.Pool) *EnrollmentService {
	return &EnrollmentService{courses: c, logs: l, wp: wp}
}

// Enroll adds the principal to the course's free-enrollment roster. A
// duplicate enroll is rejected, not silently accepted: the caller should
// know its view of the roster was stale.
func (s *EnrollmentService) Enroll(ctx context.Context, courseID, principal string) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	if course.HasStudent(principal) {
		return ErrAlreadyEnrolled
	}

	added, err := s.courses.AddStudent(ctx, courseID, principal)
	if err != nil {
		return err
	}
	if !added {
		// lost the race to a concurrent enroll for the same principal
		return ErrAlreadyEnrolled
	}

	metrics.EnrollmentsTotal.WithLabelValues("enroll").Inc()
	s.audit(courseID, "enrolled", principal)
	return nil
}

func (s *EnrollmentService) Unenroll(ctx context.Context, courseID, principal string) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	if !course.HasStudent(principal) {
		return ErrNotEnrolled
	}

	removed, err := s.courses.RemoveStudent(ctx, courseID, principal)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotEnrolled
	}

	metrics.EnrollmentsTotal.WithLabelValues("unenroll").Inc()
	s.audit(courseID, "unenrolled", principal)
	return nil
}

func (s *EnrollmentService) audit(courseID, action, principal string) {
	l := models.AuditLog{
		EntityType: "course",
		EntityID:   courseID,
		Action:     action,
		Details:    map[string]any{"principal": principal},
	}
	s.wp.Submit(func() { _ = s.logs.Create(context.Background(), l) })
}
