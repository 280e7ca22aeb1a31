package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
	"github.com/peervote/api/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// UpsertBatch writes the whole batch in one transaction so a partial
// submission is never visible. The conflict target is the composite vote
// key; a re-submission overwrites the score in place.
func (r *voteRepository) UpsertBatch(ctx context.Context, votes []*domain.Vote) error {
	if len(votes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO votes (session_id, voter_id, voted_for_id, parameter_id, score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, voter_id, voted_for_id, parameter_id)
		DO UPDATE SET score = EXCLUDED.score, updated_at = NOW()
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return mapError("failed to prepare vote statement", err)
	}
	defer stmt.Close()

	for _, v := range votes {
		if _, err := stmt.ExecContext(ctx, v.SessionID, v.VoterID, v.VotedForID, v.ParameterID, v.Score); err != nil {
			return mapError("failed to upsert vote", err)
		}
	}

	queryVoted := `
		UPDATE session_participants
		SET has_voted = TRUE, voted_at = COALESCE(voted_at, NOW())
		WHERE session_id = $1 AND user_id = $2
	`
	if _, err := tx.ExecContext(ctx, queryVoted, votes[0].SessionID, votes[0].VoterID); err != nil {
		return mapError("failed to mark participant as voted", err)
	}

	if err := tx.Commit(); err != nil {
		return mapError("failed to commit transaction", err)
	}
	return nil
}

func (r *voteRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Vote, error) {
	query := `
		SELECT session_id, voter_id, voted_for_id, parameter_id, score, created_at, updated_at
		FROM votes
		WHERE session_id = $1
		ORDER BY created_at, voter_id, voted_for_id
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, mapError("failed to list votes", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

func (r *voteRepository) ListByVoter(ctx context.Context, sessionID, voterID uuid.UUID) ([]*domain.Vote, error) {
	query := `
		SELECT session_id, voter_id, voted_for_id, parameter_id, score, created_at, updated_at
		FROM votes
		WHERE session_id = $1 AND voter_id = $2
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID, voterID)
	if err != nil {
		return nil, mapError("failed to list voter votes", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

func scanVotes(rows *sql.Rows) ([]*domain.Vote, error) {
	var votes []*domain.Vote
	for rows.Next() {
		v := &domain.Vote{}
		if err := rows.Scan(&v.SessionID, &v.VoterID, &v.VotedForID, &v.ParameterID, &v.Score, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, mapError("failed to scan vote", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating votes", err)
	}
	return votes, nil
}
