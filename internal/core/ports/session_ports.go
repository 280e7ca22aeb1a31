package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.VotingSession, participantIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VotingSession, error)
	ListAll(ctx context.Context) ([]*domain.VotingSession, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.VotingSession, error)
	ListByStatus(ctx context.Context, status domain.SessionStatus) ([]*domain.VotingSession, error)
	CountByStatus(ctx context.Context, status domain.SessionStatus) (int, error)
	CountClosedSince(ctx context.Context, since time.Time) (int, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus, at time.Time) error
	AddParticipants(ctx context.Context, sessionID uuid.UUID, participantIDs []uuid.UUID) error
	ListParticipants(ctx context.Context, sessionID uuid.UUID) ([]*domain.Participant, error)
	IsParticipant(ctx context.Context, sessionID, userID uuid.UUID) (bool, error)
	// ListDashboard returns the user's participant rows joined with their
	// sessions, most recent first.
	ListDashboard(ctx context.Context, userID uuid.UUID) ([]*domain.DashboardEntry, error)
}

type CreateSessionInput struct {
	Name           string
	Description    string
	ParticipantIDs []uuid.UUID
	// Draft creates the session without starting it. The default path
	// creates sessions already active.
	Draft bool
}

type SessionService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateSessionInput) (*domain.VotingSession, error)
	Get(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) (*domain.VotingSession, []*domain.Participant, error)
	ListForActor(ctx context.Context, actor domain.Actor) ([]*domain.VotingSession, error)
	AddParticipants(ctx context.Context, actor domain.Actor, sessionID uuid.UUID, participantIDs []uuid.UUID) error
	Start(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) error
	Close(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) error
}
