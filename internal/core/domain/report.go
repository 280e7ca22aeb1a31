package domain

import (
	"time"

	"github.com/google/uuid"
)

// Derived aggregates. Never persisted; recomputed from raw vote rows on
// every read.

type CategoryAverage struct {
	ParameterID uuid.UUID `json:"parameter_id"`
	Name        string    `json:"name"`
	Avg         float64   `json:"avg"`
}

type ReceivedAverage struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Avg    float64   `json:"avg"`
	Count  int       `json:"count"`
}

// ScoredParameter is one (category, score) cell of the voter→target matrix.
type ScoredParameter struct {
	Parameter string  `json:"parameter"`
	Score     float64 `json:"score"`
}

// TargetVotes lists the scores one voter gave one target.
type TargetVotes struct {
	TargetID   uuid.UUID         `json:"target_id"`
	TargetName string            `json:"target_name"`
	Scores     []ScoredParameter `json:"scores"`
}

// VoterGroup is the full set of votes cast by one voter in a session.
type VoterGroup struct {
	VoterID   uuid.UUID     `json:"voter_id"`
	VoterName string        `json:"voter_name"`
	Targets   []TargetVotes `json:"targets"`
}

// SessionReport is the on-demand aggregation for one session.
type SessionReport struct {
	SessionID        uuid.UUID         `json:"session_id"`
	Name             string            `json:"name"`
	Status           SessionStatus     `json:"status"`
	ParticipantCount int               `json:"participant_count"`
	VoteCount        int               `json:"vote_count"`
	OverallAvg       *float64          `json:"overall_avg"`
	CategoryRanking  []CategoryAverage `json:"category_ranking"`
	ReceivedRanking  []ReceivedAverage `json:"received_ranking"`
	VoterGroups      []VoterGroup      `json:"voter_groups"`
}

// SessionSummary is a listing row with participation figures.
type SessionSummary struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Status    SessionStatus `json:"status"`
	StartedAt *time.Time    `json:"started_at,omitempty"`
	ClosedAt  *time.Time    `json:"closed_at,omitempty"`
}

// AdminOverview is the admin dashboard: status counts, the most recent
// sessions and the mean participation ratio across active sessions.
type AdminOverview struct {
	ActiveCount      int              `json:"active_count"`
	DraftCount       int              `json:"draft_count"`
	Closed30dCount   int              `json:"closed_30d_count"`
	ActiveSessions   []SessionSummary `json:"active_sessions"`
	LastClosed       []SessionSummary `json:"last_closed"`
	ParticipationAvg *float64         `json:"participation_avg"`
}

// DashboardEntry is one row of a voter's personal dashboard.
type DashboardEntry struct {
	Session  SessionSummary `json:"session"`
	HasVoted bool           `json:"has_voted"`
	VotedAt  *time.Time     `json:"voted_at,omitempty"`
}
