package domain

import (
	"time"

	"github.com/google/uuid"
)

// VotingParameter is a named scoring category ("Teamwork", "Delivery"…)
// applied uniformly across all targets in a session. Global, not
// session-scoped; admin-managed.
type VotingParameter struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
