package domain

import (
	"time"

	"github.com/google/uuid"
)

// Score bounds for a single vote. Scores carry one decimal of precision.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Vote is one voter's score for one target in one category within one
// session. Unique per (session, voter, target, parameter); re-submission
// overwrites the score in place.
type Vote struct {
	SessionID   uuid.UUID `json:"session_id"`
	VoterID     uuid.UUID `json:"voter_id"`
	VotedForID  uuid.UUID `json:"voted_for_id"`
	ParameterID uuid.UUID `json:"parameter_id"`
	Score       float64   `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
