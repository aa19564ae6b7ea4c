package services_test

import (
	"context"
	"sync"
	"time"

	"coursemarket/internal/models"
	repo "coursemarket/internal/repository"

	"github.com/google/uuid"
)

type fakeCourses struct {
	mu      sync.Mutex
	courses map[string]models.Course
}

func newFakeCourses() *fakeCourses {
	return &fakeCourses{courses: map[string]models.Course{}}
}

func (f *fakeCourses) Create(_ context.Context, c models.Course) (models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.courses[c.ID] = c
	return c, nil
}

func (f *fakeCourses) GetByID(_ context.Context, id string) (models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return models.Course{}, repo.ErrNotFound
	}
	return c, nil
}

func (f *fakeCourses) List(_ context.Context) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Course
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourses) ListByInstructor(_ context.Context, instructor string) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Course
	for _, c := range f.courses {
		if c.Instructor == instructor {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourses) ListByStudent(_ context.Context, student string) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Course
	for _, c := range f.courses {
		if c.HasStudent(student) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourses) AddStudent(_ context.Context, courseID, student string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[courseID]
	if !ok || c.HasStudent(student) {
		return false, nil
	}
	c.Students = append(c.Students, student)
	f.courses[courseID] = c
	return true, nil
}

func (f *fakeCourses) RemoveStudent(_ context.Context, courseID, student string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[courseID]
	if !ok {
		return false, nil
	}
	for i, s := range c.Students {
		if s == student {
			c.Students = append(c.Students[:i], c.Students[i+1:]...)
			f.courses[courseID] = c
			return true, nil
		}
	}
	return false, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; ok {
		return models.User{}, repo.ErrConflict
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) AddPurchasedCourse(_ context.Context, userID, courseID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok || u.HasPurchased(courseID) {
		return false, nil
	}
	u.PurchasedCourseIDs = append(u.PurchasedCourseIDs, courseID)
	f.users[userID] = u
	return true, nil
}

type fakeTransactions struct {
	mu   sync.Mutex
	rows []models.Transaction
}

func (f *fakeTransactions) Create(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.CreatedAt = time.Now()
	f.rows = append(f.rows, tx)
	return tx, nil
}

func (f *fakeTransactions) GetByID(_ context.Context, id string) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.rows {
		if tx.ID == id {
			return tx, nil
		}
	}
	return models.Transaction{}, repo.ErrNotFound
}

func (f *fakeTransactions) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, tx := range f.rows {
		if tx.FromUserID == userID || tx.ToUserID == userID {
			out = append(out, tx)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTransactions) all() []models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Transaction, len(f.rows))
	copy(out, f.rows)
	return out
}

type fakeAuditLogs struct {
	mu   sync.Mutex
	rows []models.AuditLog
}

func (f *fakeAuditLogs) Create(_ context.Context, l models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, l)
	return nil
}

// fakeGateway scripts the external ledger: fee and transfer outcomes are
// set per test; every call is recorded.
type fakeGateway struct {
	mu sync.Mutex

	fee         int64
	feeErr      error
	accept      bool
	transferErr error
	onTransfer  func() // runs before the transfer result is returned

	feeCalls      int
	transferCalls int
	memos         []string
	lastPayee     string
	lastAmount    int64
	lastFee       int64
}

func (g *fakeGateway) TransferFee(_ context.Context) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.feeCalls++
	if g.feeErr != nil {
		return 0, g.feeErr
	}
	return g.fee, nil
}

func (g *fakeGateway) Transfer(_ context.Context, payee string, amount, fee int64, memo string) (bool, error) {
	g.mu.Lock()
	g.transferCalls++
	g.memos = append(g.memos, memo)
	g.lastPayee = payee
	g.lastAmount = amount
	g.lastFee = fee
	hook := g.onTransfer
	g.mu.Unlock()

	if hook != nil {
		hook()
	}
	if g.transferErr != nil {
		return false, g.transferErr
	}
	return g.accept, nil
}

func (g *fakeGateway) calls() (feeCalls, transferCalls int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.feeCalls, g.transferCalls
}
