package services

import (
	"context"
	"errors"
	"strings"

	"coursemarket/internal/models"
	repo "coursemarket/internal/repository"
)

type UserService struct {
	users repo.Users
}

func NewUserService(u repo.Users) *UserService { return &UserService{users: u} }

// Register creates the profile row for a platform principal. Purchase
// requires the row to exist already; it is never auto-created there.
func (s *UserService) Register(ctx context.Context, principal, username, bio string, skills []string) (models.User, error) {
	u := models.User{
		ID:                 principal,
		Username:           strings.TrimSpace(username),
		Bio:                bio,
		Skills:             skills,
		EnrolledCourseIDs:  []string{},
		PurchasedCourseIDs: []string{},
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	created, err := s.users.Create(ctx, u)
	if errors.Is(err, repo.ErrConflict) {
		return models.User{}, ErrUserExists
	}
	return created, err
}

func (s *UserService) Get(ctx context.Context, principal string) (models.User, error) {
	u, err := s.users.GetByID(ctx, principal)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}
