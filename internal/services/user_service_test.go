package services_test

import (
	"context"
	"errors"
	"testing"

	"coursemarket/internal/services"
)

func TestRegister(t *testing.T) {
	svc := services.NewUserService(newFakeUsers())

	u, err := svc.Register(context.Background(), "principal-1", "alice", "instructor bio", []string{"go"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID != "principal-1" || u.Username != "alice" {
		t.Errorf("user = %+v", u)
	}
	if u.PurchasedCourseIDs == nil || len(u.PurchasedCourseIDs) != 0 {
		t.Errorf("purchased = %v, want empty", u.PurchasedCourseIDs)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := services.NewUserService(newFakeUsers())

	if _, err := svc.Register(context.Background(), "principal-1", "alice", "", nil); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), "principal-1", "alice2", "", nil)
	if !errors.Is(err, services.ErrUserExists) {
		t.Fatalf("err = %v, want %v", err, services.ErrUserExists)
	}
}

func TestRegisterShortUsername(t *testing.T) {
	svc := services.NewUserService(newFakeUsers())
	if _, err := svc.Register(context.Background(), "principal-1", "ab", "", nil); err == nil {
		t.Error("expected validation error")
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := services.NewUserService(newFakeUsers())
	if _, err := svc.Get(context.Background(), "nobody"); !errors.Is(err, services.ErrUserNotFound) {
		t.Fatalf("err = %v, want %v", err, services.ErrUserNotFound)
	}
}
