package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"coursemarket/internal/metrics"
	"coursemarket/internal/models"
	repo "coursemarket/internal/repository"
	"coursemarket/internal/worker"

	"github.com/google/uuid"
)

// PaymentGateway is the external value-transfer service. Transfer returns
// (false, nil) on a definitive rejection and an error on transport failure;
// either way the caller must record the attempt before reporting it.
type PaymentGateway interface {
	TransferFee(ctx context.Context) (int64, error)
	Transfer(ctx context.Context, payee string, amount, fee int64, memo string) (bool, error)
}

type PurchaseService struct {
	users   repo.Users
	courses repo.Courses
	trx     repo.Transactions
	logs    repo.AuditLogs
	gateway PaymentGateway
	wp      *worker.Pool

	locks sync.Map // principal -> *sync.Mutex
}

func NewPurchaseService(u repo.Users, c repo.Courses, t repo.Transactions, l repo.AuditLogs, g PaymentGateway, wp *worker.Pool) *PurchaseService {
	return &PurchaseService{users: u, courses: c, trx: t, logs: l, gateway: g, wp: wp}
}

// Purchase runs one purchase attempt:
//
//	eligibility check -> fee query -> transfer -> transaction record -> grant
//
// The eligibility checks run before any gateway call; payment is never
// attempted for an ineligible request. The Completed transaction row is
// durable before the purchased-set grant, so a crash between the two is
// recoverable against the transaction log. A failed transfer still leaves
// a Failed row for audit.
func (s *PurchaseService) Purchase(ctx context.Context, courseID, principal string) (models.Transaction, error) {
	// Attempts by the same principal are serialized; the conditional grant
	// below catches anything this lock cannot see (other replicas).
	mu := s.userLock(principal)
	mu.Lock()
	defer mu.Unlock()

	user, err := s.users.GetByID(ctx, principal)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Transaction{}, ErrUserNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Transaction{}, ErrCourseNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}

	if user.HasPurchased(courseID) {
		return models.Transaction{}, ErrAlreadyPurchased
	}

	// Fresh memo per attempt, never reused, so the gateway cannot conflate
	// a retry with an earlier attempt.
	memo := uuid.NewString()

	fee, err := s.gateway.TransferFee(ctx)
	if err != nil {
		return s.reject(ctx, principal, course, memo, fmt.Errorf("fee query: %w", err))
	}

	accepted, err := s.gateway.Transfer(ctx, course.Instructor, course.Price, fee, memo)
	if err != nil {
		return s.reject(ctx, principal, course, memo, fmt.Errorf("transfer: %w", err))
	}
	if !accepted {
		return s.reject(ctx, principal, course, memo, errors.New("transfer rejected"))
	}

	tx, err := s.trx.Create(ctx, models.Transaction{
		FromUserID: principal,
		ToUserID:   course.Instructor,
		Amount:     course.Price,
		Memo:       memo,
		Status:     models.TxnCompleted,
	})
	if err != nil {
		// Payment settled but the record write failed. Do not grant: the
		// grant must never precede a durable Completed record.
		slog.Error("settled transfer not recorded", "memo", memo, "course", courseID, "err", err)
		return models.Transaction{}, err
	}

	granted, err := s.users.AddPurchasedCourse(ctx, principal, courseID)
	if err != nil {
		return tx, err
	}
	if !granted {
		// Replayed settlement handling: the course was already granted by
		// an earlier attempt, and must not appear twice.
		return tx, ErrAlreadyPurchased
	}

	metrics.PurchasesTotal.WithLabelValues(string(models.TxnCompleted)).Inc()
	s.audit(tx, course.ID, "purchase_settled")
	return tx, nil
}

// reject records the Failed attempt before surfacing ErrPaymentFailed; the
// audit trail survives the failure.
func (s *PurchaseService) reject(ctx context.Context, principal string, course models.Course, memo string, cause error) (models.Transaction, error) {
	tx, err := s.trx.Create(ctx, models.Transaction{
		FromUserID: principal,
		ToUserID:   course.Instructor,
		Amount:     course.Price,
		Memo:       memo,
		Status:     models.TxnFailed,
	})
	if err != nil {
		slog.Error("failed transfer not recorded", "memo", memo, "course", course.ID, "err", err)
		return models.Transaction{}, err
	}

	metrics.PurchasesTotal.WithLabelValues(string(models.TxnFailed)).Inc()
	s.audit(tx, course.ID, "purchase_failed")
	return tx, fmt.Errorf("%w: %v", ErrPaymentFailed, cause)
}

func (s *PurchaseService) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	tx, err := s.trx.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Transaction{}, ErrTransactionNotFound
	}
	return tx, err
}

func (s *PurchaseService) ListTransactionsByUser(ctx context.Context, principal string, limit, offset int) ([]models.Transaction, error) {
	return s.trx.ListByUser(ctx, principal, limit, offset)
}

func (s *PurchaseService) userLock(principal string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(principal, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *PurchaseService) audit(tx models.Transaction, courseID, action string) {
	l := models.AuditLog{
		EntityType: "transaction",
		EntityID:   tx.ID,
		Action:     action,
		Details:    map[string]any{"course_id": courseID, "memo": tx.Memo, "amount": tx.Amount},
	}
	s.wp.Submit(func() { _ = s.logs.Create(context.Background(), l) })
}
