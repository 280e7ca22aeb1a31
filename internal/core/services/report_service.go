package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
	"github.com/peervote/api/internal/core/ports"
)

const overviewSessionLimit = 5

type reportService struct {
	sessionRepo   ports.SessionRepository
	voteRepo      ports.VoteRepository
	userRepo      ports.UserRepository
	parameterRepo ports.ParameterRepository
}

func NewReportService(sessionRepo ports.SessionRepository, voteRepo ports.VoteRepository, userRepo ports.UserRepository, parameterRepo ports.ParameterRepository) ports.ReportService {
	return &reportService{
		sessionRepo:   sessionRepo,
		voteRepo:      voteRepo,
		userRepo:      userRepo,
		parameterRepo: parameterRepo,
	}
}

// SessionReport aggregates the session's raw vote rows into the detail
// view: overall mean, category ranking, received ranking and the
// voter→target matrix. Admins can read any session; everyone else only
// sessions they participate in.
func (s *reportService) SessionReport(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) (*domain.SessionReport, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin {
		member, err := s.sessionRepo.IsParticipant(ctx, sessionID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, domain.NewAuthorizationError("you are not a participant of this session")
		}
	}

	votes, err := s.voteRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	participants, err := s.sessionRepo.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0)
	parameterIDs := make([]uuid.UUID, 0)
	seenUsers := make(map[uuid.UUID]struct{})
	seenParams := make(map[uuid.UUID]struct{})
	for _, v := range votes {
		for _, id := range []uuid.UUID{v.VoterID, v.VotedForID} {
			if _, ok := seenUsers[id]; !ok {
				seenUsers[id] = struct{}{}
				userIDs = append(userIDs, id)
			}
		}
		if _, ok := seenParams[v.ParameterID]; !ok {
			seenParams[v.ParameterID] = struct{}{}
			parameterIDs = append(parameterIDs, v.ParameterID)
		}
	}

	profileNames, err := s.userRepo.NamesByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	parameterNames, err := s.parameterRepo.NamesByIDs(ctx, parameterIDs)
	if err != nil {
		return nil, err
	}

	return &domain.SessionReport{
		SessionID:        session.ID,
		Name:             session.Name,
		Status:           session.Status,
		ParticipantCount: len(participants),
		VoteCount:        len(votes),
		OverallAvg:       overallAverage(votes),
		CategoryRanking:  averageByCategory(votes, parameterNames),
		ReceivedRanking:  averageReceivedByParticipant(votes, profileNames),
		VoterGroups:      groupVotesByVoterThenTarget(votes, profileNames, parameterNames),
	}, nil
}

func (s *reportService) AdminOverview(ctx context.Context, actor domain.Actor) (*domain.AdminOverview, error) {
	if !actor.IsAdmin {
		return nil, domain.NewAuthorizationError("admin access required")
	}

	activeCount, err := s.sessionRepo.CountByStatus(ctx, domain.SessionActive)
	if err != nil {
		return nil, err
	}
	draftCount, err := s.sessionRepo.CountByStatus(ctx, domain.SessionDraft)
	if err != nil {
		return nil, err
	}
	closed30d, err := s.sessionRepo.CountClosedSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	active, err := s.sessionRepo.ListByStatus(ctx, domain.SessionActive)
	if err != nil {
		return nil, err
	}
	closed, err := s.sessionRepo.ListByStatus(ctx, domain.SessionClosed)
	if err != nil {
		return nil, err
	}

	// One ratio per active session; a roster nobody voted in counts as
	// zero, an empty roster counts as zero, and sessions are never
	// weighted by size.
	ratios := make([]float64, 0, len(active))
	for _, session := range active {
		participants, err := s.sessionRepo.ListParticipants(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		if r := participationRatio(participants); r != nil {
			ratios = append(ratios, *r)
		} else {
			ratios = append(ratios, 0)
		}
	}

	return &domain.AdminOverview{
		ActiveCount:      activeCount,
		DraftCount:       draftCount,
		Closed30dCount:   closed30d,
		ActiveSessions:   summarize(active, overviewSessionLimit),
		LastClosed:       summarize(closed, overviewSessionLimit),
		ParticipationAvg: meanParticipation(ratios),
	}, nil
}

func (s *reportService) VoterDashboard(ctx context.Context, actor domain.Actor) ([]*domain.DashboardEntry, error) {
	return s.sessionRepo.ListDashboard(ctx, actor.ID)
}

func summarize(sessions []*domain.VotingSession, limit int) []domain.SessionSummary {
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	out := make([]domain.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, domain.SessionSummary{
			ID:        s.ID,
			Name:      s.Name,
			Status:    s.Status,
			StartedAt: s.StartedAt,
			ClosedAt:  s.ClosedAt,
		})
	}
	return out
}
