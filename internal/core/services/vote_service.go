package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
	"github.com/peervote/api/internal/core/ports"
)

type voteService struct {
	sessionRepo ports.SessionRepository
	voteRepo    ports.VoteRepository
	revalidate  ports.Revalidator
}

func NewVoteService(sessionRepo ports.SessionRepository, voteRepo ports.VoteRepository, revalidate ports.Revalidator) ports.VoteService {
	return &voteService{
		sessionRepo: sessionRepo,
		voteRepo:    voteRepo,
		revalidate:  revalidate,
	}
}

// Submit validates and idempotently records the actor's scores for one
// target. The whole batch is applied atomically; re-submitting a key
// overwrites the stored score in place.
func (s *voteService) Submit(ctx context.Context, actor domain.Actor, input ports.SubmitVotesInput) error {
	if input.SessionID == uuid.Nil || input.TargetID == uuid.Nil {
		return domain.NewValidationError("session and target are required")
	}
	if len(input.Scores) == 0 {
		return domain.NewValidationError("nothing to save")
	}
	for parameterID, score := range input.Scores {
		if parameterID == uuid.Nil {
			return domain.NewValidationError("invalid parameter")
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return domain.NewValidationError("score must be a finite number")
		}
		if score < domain.MinScore || score > domain.MaxScore {
			return domain.NewValidationError("scores must be between %g and %g", domain.MinScore, domain.MaxScore)
		}
	}

	if input.TargetID == actor.ID {
		return domain.NewAuthorizationError("you cannot vote for yourself")
	}

	session, err := s.sessionRepo.GetByID(ctx, input.SessionID)
	if err != nil {
		return err
	}
	// Status is re-checked server-side on every submission; a disabled
	// form control is not a policy boundary.
	if session.Status != domain.SessionActive {
		return domain.NewInvalidStateError("votes can only be submitted while the session is active")
	}

	voterOK, err := s.sessionRepo.IsParticipant(ctx, input.SessionID, actor.ID)
	if err != nil {
		return err
	}
	if !voterOK {
		return domain.NewAuthorizationError("you are not a participant of this session")
	}
	targetOK, err := s.sessionRepo.IsParticipant(ctx, input.SessionID, input.TargetID)
	if err != nil {
		return err
	}
	if !targetOK {
		return domain.NewAuthorizationError("the target is not a participant of this session")
	}

	now := time.Now()
	votes := make([]*domain.Vote, 0, len(input.Scores))
	for parameterID, score := range input.Scores {
		votes = append(votes, &domain.Vote{
			SessionID:   input.SessionID,
			VoterID:     actor.ID,
			VotedForID:  input.TargetID,
			ParameterID: parameterID,
			Score:       score,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.voteRepo.UpsertBatch(ctx, votes); err != nil {
		return err
	}

	s.revalidate.Invalidate(
		"/dashboard/sessions/"+input.SessionID.String(),
		"/admin/history/"+input.SessionID.String(),
	)
	return nil
}

func (s *voteService) ListForVoter(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) ([]*domain.Vote, error) {
	member, err := s.sessionRepo.IsParticipant(ctx, sessionID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.NewAuthorizationError("you are not a participant of this session")
	}
	return s.voteRepo.ListByVoter(ctx, sessionID, actor.ID)
}
