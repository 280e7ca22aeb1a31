package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
	"github.com/peervote/api/internal/core/ports"
)

type parameterService struct {
	repo ports.ParameterRepository
}

func NewParameterService(repo ports.ParameterRepository) ports.ParameterService {
	return &parameterService{
		repo: repo,
	}
}

func (s *parameterService) Create(ctx context.Context, actor domain.Actor, name string) (*domain.VotingParameter, error) {
	if !actor.IsAdmin {
		return nil, domain.NewAuthorizationError("only admins can manage parameters")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("parameter name is required")
	}

	parameter := &domain.VotingParameter{
		ID:        uuid.New(),
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, parameter); err != nil {
		return nil, err
	}
	return parameter, nil
}

func (s *parameterService) ListActive(ctx context.Context, actor domain.Actor) ([]*domain.VotingParameter, error) {
	return s.repo.ListActive(ctx)
}

func (s *parameterService) SetActive(ctx context.Context, actor domain.Actor, id uuid.UUID, active bool) error {
	if !actor.IsAdmin {
		return domain.NewAuthorizationError("only admins can manage parameters")
	}
	return s.repo.SetActive(ctx, id, active)
}
