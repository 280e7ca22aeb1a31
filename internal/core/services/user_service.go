package services

import (
	"context"
	"fmt"

	"github.com/peervote/api/internal/core/domain"
	"github.com/peervote/api/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) Me(ctx context.Context, actor domain.Actor) (*domain.Profile, error) {
	user, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}
	return user, nil
}

// List is the admin roster picker for session creation.
func (s *UserService) List(ctx context.Context, actor domain.Actor) ([]*domain.Profile, error) {
	if !actor.IsAdmin {
		return nil, domain.NewAuthorizationError("admin access required")
	}
	return s.repo.List(ctx)
}
