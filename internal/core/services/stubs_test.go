package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
)

// In-memory stubs shared by the service tests.

type noopRevalidator struct{}

func (noopRevalidator) Invalidate(paths ...string) {}

type stubSessionRepo struct {
	sessions     map[uuid.UUID]*domain.VotingSession
	participants map[uuid.UUID][]*domain.Participant
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{
		sessions:     make(map[uuid.UUID]*domain.VotingSession),
		participants: make(map[uuid.UUID][]*domain.Participant),
	}
}

func (r *stubSessionRepo) addSession(status domain.SessionStatus, participantIDs ...uuid.UUID) *domain.VotingSession {
	session := &domain.VotingSession{
		ID:        uuid.New(),
		Name:      "Sprint review",
		Status:    status,
		CreatedBy: uuid.New(),
		CreatedAt: time.Now(),
	}
	r.sessions[session.ID] = session
	for _, id := range participantIDs {
		r.participants[session.ID] = append(r.participants[session.ID], &domain.Participant{
			SessionID: session.ID,
			UserID:    id,
		})
	}
	return session
}

func (r *stubSessionRepo) Create(ctx context.Context, session *domain.VotingSession, participantIDs []uuid.UUID) error {
	r.sessions[session.ID] = session
	for _, id := range participantIDs {
		r.participants[session.ID] = append(r.participants[session.ID], &domain.Participant{
			SessionID: session.ID,
			UserID:    id,
		})
	}
	return nil
}

func (r *stubSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VotingSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.NewNotFoundError("session not found")
	}
	copied := *session
	return &copied, nil
}

func (r *stubSessionRepo) ListAll(ctx context.Context) ([]*domain.VotingSession, error) {
	out := make([]*domain.VotingSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubSessionRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.VotingSession, error) {
	var out []*domain.VotingSession
	for sessionID, participants := range r.participants {
		for _, p := range participants {
			if p.UserID == userID {
				out = append(out, r.sessions[sessionID])
				break
			}
		}
	}
	return out, nil
}

func (r *stubSessionRepo) ListByStatus(ctx context.Context, status domain.SessionStatus) ([]*domain.VotingSession, error) {
	var out []*domain.VotingSession
	for _, s := range r.sessions {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSessionRepo) CountByStatus(ctx context.Context, status domain.SessionStatus) (int, error) {
	sessions, _ := r.ListByStatus(ctx, status)
	return len(sessions), nil
}

func (r *stubSessionRepo) CountClosedSince(ctx context.Context, since time.Time) (int, error) {
	count := 0
	for _, s := range r.sessions {
		if s.Status == domain.SessionClosed && s.ClosedAt != nil && !s.ClosedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *stubSessionRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus, at time.Time) error {
	session, ok := r.sessions[id]
	if !ok {
		return domain.NewNotFoundError("session not found")
	}
	session.Status = status
	switch status {
	case domain.SessionActive:
		session.StartedAt = &at
	case domain.SessionClosed:
		session.ClosedAt = &at
	}
	return nil
}

func (r *stubSessionRepo) AddParticipants(ctx context.Context, sessionID uuid.UUID, participantIDs []uuid.UUID) error {
	existing := make(map[uuid.UUID]struct{})
	for _, p := range r.participants[sessionID] {
		existing[p.UserID] = struct{}{}
	}
	for _, id := range participantIDs {
		if _, ok := existing[id]; ok {
			continue
		}
		r.participants[sessionID] = append(r.participants[sessionID], &domain.Participant{
			SessionID: sessionID,
			UserID:    id,
		})
	}
	return nil
}

func (r *stubSessionRepo) ListParticipants(ctx context.Context, sessionID uuid.UUID) ([]*domain.Participant, error) {
	return r.participants[sessionID], nil
}

func (r *stubSessionRepo) IsParticipant(ctx context.Context, sessionID, userID uuid.UUID) (bool, error) {
	for _, p := range r.participants[sessionID] {
		if p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSessionRepo) ListDashboard(ctx context.Context, userID uuid.UUID) ([]*domain.DashboardEntry, error) {
	var out []*domain.DashboardEntry
	for sessionID, participants := range r.participants {
		for _, p := range participants {
			if p.UserID != userID {
				continue
			}
			s := r.sessions[sessionID]
			out = append(out, &domain.DashboardEntry{
				Session: domain.SessionSummary{
					ID:        s.ID,
					Name:      s.Name,
					Status:    s.Status,
					StartedAt: s.StartedAt,
					ClosedAt:  s.ClosedAt,
				},
				HasVoted: p.HasVoted,
				VotedAt:  p.VotedAt,
			})
		}
	}
	return out, nil
}

type voteKey struct {
	session, voter, target, parameter uuid.UUID
}

type stubVoteRepo struct {
	order []voteKey
	rows  map[voteKey]*domain.Vote
}

func newStubVoteRepo() *stubVoteRepo {
	return &stubVoteRepo{rows: make(map[voteKey]*domain.Vote)}
}

func (r *stubVoteRepo) UpsertBatch(ctx context.Context, votes []*domain.Vote) error {
	for _, v := range votes {
		key := voteKey{v.SessionID, v.VoterID, v.VotedForID, v.ParameterID}
		if _, ok := r.rows[key]; !ok {
			r.order = append(r.order, key)
		}
		r.rows[key] = v
	}
	return nil
}

func (r *stubVoteRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Vote, error) {
	var out []*domain.Vote
	for _, key := range r.order {
		if key.session == sessionID {
			out = append(out, r.rows[key])
		}
	}
	return out, nil
}

func (r *stubVoteRepo) ListByVoter(ctx context.Context, sessionID, voterID uuid.UUID) ([]*domain.Vote, error) {
	var out []*domain.Vote
	for _, key := range r.order {
		if key.session == sessionID && key.voter == voterID {
			out = append(out, r.rows[key])
		}
	}
	return out, nil
}

type stubUserRepo struct {
	profiles map[uuid.UUID]*domain.Profile
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (r *stubUserRepo) addProfile(name string) *domain.Profile {
	p := &domain.Profile{ID: uuid.New(), FullName: name, Email: name + "@example.com"}
	r.profiles[p.ID] = p
	return p
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return r.profiles[id], nil
}

func (r *stubUserRepo) List(ctx context.Context) ([]*domain.Profile, error) {
	out := make([]*domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubUserRepo) Create(ctx context.Context, profile *domain.Profile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *stubUserRepo) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			names[id] = p.FullName
		}
	}
	return names, nil
}

type stubParameterRepo struct {
	parameters map[uuid.UUID]*domain.VotingParameter
}

func newStubParameterRepo() *stubParameterRepo {
	return &stubParameterRepo{parameters: make(map[uuid.UUID]*domain.VotingParameter)}
}

func (r *stubParameterRepo) addParameter(name string) *domain.VotingParameter {
	p := &domain.VotingParameter{ID: uuid.New(), Name: name, IsActive: true}
	r.parameters[p.ID] = p
	return p
}

func (r *stubParameterRepo) Create(ctx context.Context, parameter *domain.VotingParameter) error {
	r.parameters[parameter.ID] = parameter
	return nil
}

func (r *stubParameterRepo) ListActive(ctx context.Context) ([]*domain.VotingParameter, error) {
	var out []*domain.VotingParameter
	for _, p := range r.parameters {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubParameterRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	p, ok := r.parameters[id]
	if !ok {
		return domain.NewNotFoundError("parameter not found")
	}
	p.IsActive = active
	return nil
}

func (r *stubParameterRepo) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	for _, id := range ids {
		if p, ok := r.parameters[id]; ok {
			names[id] = p.Name
		}
	}
	return names, nil
}
