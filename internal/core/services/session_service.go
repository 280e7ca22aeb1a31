package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
	"github.com/peervote/api/internal/core/ports"
)

type sessionService struct {
	repo       ports.SessionRepository
	revalidate ports.Revalidator
}

func NewSessionService(repo ports.SessionRepository, revalidate ports.Revalidator) ports.SessionService {
	return &sessionService{
		repo:       repo,
		revalidate: revalidate,
	}
}

func (s *sessionService) Create(ctx context.Context, actor domain.Actor, input ports.CreateSessionInput) (*domain.VotingSession, error) {
	if !actor.IsAdmin {
		return nil, domain.NewAuthorizationError("only admins can create sessions")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("session name is required")
	}

	participantIDs := dedupeIDs(input.ParticipantIDs)
	if len(participantIDs) == 0 {
		return nil, domain.NewValidationError("at least one participant is required")
	}

	now := time.Now()
	session := &domain.VotingSession{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.SessionActive,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		StartedAt:   &now,
	}
	if input.Draft {
		session.Status = domain.SessionDraft
		session.StartedAt = nil
	}

	if err := s.repo.Create(ctx, session, participantIDs); err != nil {
		return nil, err
	}

	s.revalidate.Invalidate("/admin/history", "/dashboard/sessions", "/dashboard")
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) (*domain.VotingSession, []*domain.Participant, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if !actor.IsAdmin {
		member, err := s.repo.IsParticipant(ctx, sessionID, actor.ID)
		if err != nil {
			return nil, nil, err
		}
		if !member {
			return nil, nil, domain.NewAuthorizationError("you are not a participant of this session")
		}
	}

	participants, err := s.repo.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, participants, nil
}

func (s *sessionService) ListForActor(ctx context.Context, actor domain.Actor) ([]*domain.VotingSession, error) {
	if actor.IsAdmin {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListForUser(ctx, actor.ID)
}

func (s *sessionService) AddParticipants(ctx context.Context, actor domain.Actor, sessionID uuid.UUID, participantIDs []uuid.UUID) error {
	if !actor.IsAdmin {
		return domain.NewAuthorizationError("only admins can add participants")
	}

	ids := dedupeIDs(participantIDs)
	if len(ids) == 0 {
		return domain.NewValidationError("select at least one user")
	}

	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status != domain.SessionActive {
		return domain.NewInvalidStateError("participants can only be added while the session is active")
	}

	if err := s.repo.AddParticipants(ctx, sessionID, ids); err != nil {
		return err
	}

	s.revalidate.Invalidate("/dashboard/sessions/"+sessionID.String(), "/dashboard/sessions", "/admin/history")
	return nil
}

func (s *sessionService) Start(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) error {
	if !actor.IsAdmin {
		return domain.NewAuthorizationError("only admins can start sessions")
	}

	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status != domain.SessionDraft {
		return domain.NewInvalidStateError("only draft sessions can be started")
	}

	if err := s.repo.SetStatus(ctx, sessionID, domain.SessionActive, time.Now()); err != nil {
		return err
	}

	s.revalidate.Invalidate("/admin", "/admin/history", "/dashboard")
	return nil
}

func (s *sessionService) Close(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) error {
	if !actor.IsAdmin {
		return domain.NewAuthorizationError("only admins can close sessions")
	}

	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status != domain.SessionActive {
		return domain.NewInvalidStateError("only active sessions can be closed")
	}

	if err := s.repo.SetStatus(ctx, sessionID, domain.SessionClosed, time.Now()); err != nil {
		return err
	}

	s.revalidate.Invalidate("/admin/history", "/admin", "/dashboard")
	return nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
