package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
)

type VoteRepository interface {
	// UpsertBatch applies every row in one transaction: insert where the
	// (session, voter, target, parameter) key is absent, overwrite the
	// score where it exists. It also flips the voter's participant row to
	// has_voted within the same transaction.
	UpsertBatch(ctx context.Context, votes []*domain.Vote) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Vote, error)
	ListByVoter(ctx context.Context, sessionID, voterID uuid.UUID) ([]*domain.Vote, error)
}

type SubmitVotesInput struct {
	SessionID uuid.UUID
	TargetID  uuid.UUID
	Scores    map[uuid.UUID]float64
}

type VoteService interface {
	Submit(ctx context.Context, actor domain.Actor, input SubmitVotesInput) error
	ListForVoter(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) ([]*domain.Vote, error)
}
