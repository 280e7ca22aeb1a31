package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionDraft  SessionStatus = "draft"
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

// VotingSession is a time-boxed peer-voting round with a fixed roster.
// StartedAt is set when the session becomes active; ClosedAt is set iff
// the session is closed. Closed is terminal.
type VotingSession struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      SessionStatus `json:"status"`
	CreatedBy   uuid.UUID     `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	ClosedAt    *time.Time    `json:"closed_at,omitempty"`
}

type Participant struct {
	SessionID uuid.UUID  `json:"session_id"`
	UserID    uuid.UUID  `json:"user_id"`
	FullName  string     `json:"full_name,omitempty"`
	HasVoted  bool       `json:"has_voted"`
	VotedAt   *time.Time `json:"voted_at,omitempty"`
}
