package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
)

type ParameterRepository interface {
	Create(ctx context.Context, parameter *domain.VotingParameter) error
	ListActive(ctx context.Context) ([]*domain.VotingParameter, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type ParameterService interface {
	Create(ctx context.Context, actor domain.Actor, name string) (*domain.VotingParameter, error)
	ListActive(ctx context.Context, actor domain.Actor) ([]*domain.VotingParameter, error)
	SetActive(ctx context.Context, actor domain.Actor, id uuid.UUID, active bool) error
}
