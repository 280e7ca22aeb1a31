package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
	Create(ctx context.Context, profile *domain.Profile) error
	// NamesByIDs resolves full names for the given profile ids. Unknown
	// ids are simply absent from the result.
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type UserService interface {
	Me(ctx context.Context, actor domain.Actor) (*domain.Profile, error)
	List(ctx context.Context, actor domain.Actor) ([]*domain.Profile, error)
}
