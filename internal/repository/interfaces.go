package repository

import (
	"context"
	"errors"

	"coursemarket/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an insert violates a uniqueness constraint.
	ErrConflict = errors.New("already exists")
)

type Courses interface {
	Create(ctx context.Context, c models.Course) (models.Course, error)
	GetByID(ctx context.Context, id string) (models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	ListByInstructor(ctx context.Context, instructor string) ([]models.Course, error)
	ListByStudent(ctx context.Context, student string) ([]models.Course, error)

	// AddStudent appends the principal to the course's student set only if
	// absent; it reports whether the row changed. RemoveStudent is the
	// mirror operation.
	AddStudent(ctx context.Context, courseID, student string) (bool, error)
	RemoveStudent(ctx context.Context, courseID, student string) (bool, error)
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)

	// AddPurchasedCourse is a conditional append: it adds courseID to the
	// user's purchased set only if not already present and reports whether
	// the row changed. A no-op means another attempt already granted it.
	AddPurchasedCourse(ctx context.Context, userID, courseID string) (bool, error)
}

// Transactions is an append-only log; there is deliberately no update.
type Transactions interface {
	Create(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	GetByID(ctx context.Context, id string) (models.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
