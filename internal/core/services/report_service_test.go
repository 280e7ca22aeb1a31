package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/peervote/api/internal/core/domain"
)

func TestSessionReportAccess(t *testing.T) {
	sessionRepo := newStubSessionRepo()
	voteRepo := newStubVoteRepo()
	userRepo := newStubUserRepo()
	parameterRepo := newStubParameterRepo()
	svc := NewReportService(sessionRepo, voteRepo, userRepo, parameterRepo)

	member := uuid.New()
	session := sessionRepo.addSession(domain.SessionActive, member)

	_, err := svc.SessionReport(context.Background(), domain.Actor{ID: uuid.New()}, session.ID)
	var authz *domain.AuthorizationError
	require.ErrorAs(t, err, &authz)

	_, err = svc.SessionReport(context.Background(), domain.Actor{ID: member}, session.ID)
	require.NoError(t, err)

	// Admins read any session without being on the roster.
	_, err = svc.SessionReport(context.Background(), domain.Actor{ID: uuid.New(), IsAdmin: true}, session.ID)
	require.NoError(t, err)

	_, err = svc.SessionReport(context.Background(), domain.Actor{ID: member}, uuid.New())
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSessionReportAggregation(t *testing.T) {
	sessionRepo := newStubSessionRepo()
	voteRepo := newStubVoteRepo()
	userRepo := newStubUserRepo()
	parameterRepo := newStubParameterRepo()
	svc := NewReportService(sessionRepo, voteRepo, userRepo, parameterRepo)

	alice := userRepo.addProfile("Alice")
	bruno := userRepo.addProfile("Bruno")
	carla := userRepo.addProfile("Carla")
	teamwork := parameterRepo.addParameter("Teamwork")
	clarity := parameterRepo.addParameter("Clarity")

	session := sessionRepo.addSession(domain.SessionActive, alice.ID, bruno.ID, carla.ID)

	votes := []*domain.Vote{
		{SessionID: session.ID, VoterID: alice.ID, VotedForID: bruno.ID, ParameterID: teamwork.ID, Score: 8},
		{SessionID: session.ID, VoterID: alice.ID, VotedForID: bruno.ID, ParameterID: clarity.ID, Score: 6},
		{SessionID: session.ID, VoterID: bruno.ID, VotedForID: alice.ID, ParameterID: teamwork.ID, Score: 10},
	}
	require.NoError(t, voteRepo.UpsertBatch(context.Background(), votes))

	report, err := svc.SessionReport(context.Background(), domain.Actor{IsAdmin: true}, session.ID)
	require.NoError(t, err)

	assert.Equal(t, session.ID, report.SessionID)
	assert.Equal(t, 3, report.ParticipantCount)
	assert.Equal(t, 3, report.VoteCount)
	require.NotNil(t, report.OverallAvg)
	assert.InDelta(t, 8.0, *report.OverallAvg, 1e-9)

	// Teamwork averages 9, Clarity 6; ranking is descending.
	require.Len(t, report.CategoryRanking, 2)
	assert.Equal(t, "Teamwork", report.CategoryRanking[0].Name)
	assert.InDelta(t, 9.0, report.CategoryRanking[0].Avg, 1e-9)
	assert.Equal(t, "Clarity", report.CategoryRanking[1].Name)

	// Alice received a single 10, Bruno 8 and 6. Carla got nothing and
	// is absent from the ranking.
	require.Len(t, report.ReceivedRanking, 2)
	assert.Equal(t, alice.ID, report.ReceivedRanking[0].UserID)
	assert.InDelta(t, 10.0, report.ReceivedRanking[0].Avg, 1e-9)
	assert.Equal(t, 1, report.ReceivedRanking[0].Count)
	assert.Equal(t, bruno.ID, report.ReceivedRanking[1].UserID)
	assert.InDelta(t, 7.0, report.ReceivedRanking[1].Avg, 1e-9)

	require.Len(t, report.VoterGroups, 2)
	assert.Equal(t, "Alice", report.VoterGroups[0].VoterName)
	require.Len(t, report.VoterGroups[0].Targets, 1)
	assert.Equal(t, "Bruno", report.VoterGroups[0].Targets[0].TargetName)
	require.Len(t, report.VoterGroups[0].Targets[0].Scores, 2)
	assert.Equal(t, "Clarity", report.VoterGroups[0].Targets[0].Scores[0].Parameter)
}

func TestSessionReportEmptySession(t *testing.T) {
	sessionRepo := newStubSessionRepo()
	svc := NewReportService(sessionRepo, newStubVoteRepo(), newStubUserRepo(), newStubParameterRepo())

	session := sessionRepo.addSession(domain.SessionActive, uuid.New())

	report, err := svc.SessionReport(context.Background(), domain.Actor{IsAdmin: true}, session.ID)
	require.NoError(t, err)
	assert.Nil(t, report.OverallAvg)
	assert.Zero(t, report.VoteCount)
	assert.Empty(t, report.CategoryRanking)
	assert.Empty(t, report.ReceivedRanking)
	assert.Empty(t, report.VoterGroups)
}

func TestAdminOverview(t *testing.T) {
	sessionRepo := newStubSessionRepo()
	svc := NewReportService(sessionRepo, newStubVoteRepo(), newStubUserRepo(), newStubParameterRepo())

	_, err := svc.AdminOverview(context.Background(), domain.Actor{ID: uuid.New()})
	var authz *domain.AuthorizationError
	require.ErrorAs(t, err, &authz)

	// First active session: 1 of 2 voted. Second: 0 of 1. The overall
	// participation is the plain mean of the two ratios, 0.25.
	full := sessionRepo.addSession(domain.SessionActive, uuid.New(), uuid.New())
	participants, _ := sessionRepo.ListParticipants(context.Background(), full.ID)
	participants[0].HasVoted = true
	sessionRepo.addSession(domain.SessionActive, uuid.New())
	sessionRepo.addSession(domain.SessionDraft, uuid.New())

	overview, err := svc.AdminOverview(context.Background(), domain.Actor{ID: uuid.New(), IsAdmin: true})
	require.NoError(t, err)

	assert.Equal(t, 2, overview.ActiveCount)
	assert.Equal(t, 1, overview.DraftCount)
	assert.Zero(t, overview.Closed30dCount)
	assert.Len(t, overview.ActiveSessions, 2)
	assert.Empty(t, overview.LastClosed)
	require.NotNil(t, overview.ParticipationAvg)
	assert.InDelta(t, 0.25, *overview.ParticipationAvg, 1e-9)
}

func TestAdminOverviewNoActiveSessions(t *testing.T) {
	sessionRepo := newStubSessionRepo()
	svc := NewReportService(sessionRepo, newStubVoteRepo(), newStubUserRepo(), newStubParameterRepo())

	overview, err := svc.AdminOverview(context.Background(), domain.Actor{IsAdmin: true})
	require.NoError(t, err)
	assert.Nil(t, overview.ParticipationAvg)
}

func TestVoterDashboard(t *testing.T) {
	sessionRepo := newStubSessionRepo()
	svc := NewReportService(sessionRepo, newStubVoteRepo(), newStubUserRepo(), newStubParameterRepo())

	me := uuid.New()
	session := sessionRepo.addSession(domain.SessionActive, me, uuid.New())
	sessionRepo.addSession(domain.SessionActive, uuid.New())

	entries, err := svc.VoterDashboard(context.Background(), domain.Actor{ID: me})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, session.ID, entries[0].Session.ID)
	assert.False(t, entries[0].HasVoted)
}
