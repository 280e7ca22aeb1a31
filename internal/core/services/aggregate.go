package services

import (
	"sort"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
)

// Pure aggregation over a snapshot of vote rows. Everything here is a
// single pass plus a stable sort; results are plain arithmetic means with
// no weighting. Nothing is persisted.

func overallAverage(votes []*domain.Vote) *float64 {
	if len(votes) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range votes {
		sum += v.Score
	}
	avg := sum / float64(len(votes))
	return &avg
}

type sumCount struct {
	sum   float64
	count int
}

// averageByCategory ranks categories by mean score, descending. Ties keep
// the order in which a category first appears in the snapshot, so output
// is deterministic for a given row order.
func averageByCategory(votes []*domain.Vote, parameterNames map[uuid.UUID]string) []domain.CategoryAverage {
	agg := make(map[uuid.UUID]*sumCount)
	order := make([]uuid.UUID, 0)
	for _, v := range votes {
		sc, ok := agg[v.ParameterID]
		if !ok {
			sc = &sumCount{}
			agg[v.ParameterID] = sc
			order = append(order, v.ParameterID)
		}
		sc.sum += v.Score
		sc.count++
	}

	ranking := make([]domain.CategoryAverage, 0, len(order))
	for _, id := range order {
		sc := agg[id]
		ranking = append(ranking, domain.CategoryAverage{
			ParameterID: id,
			Name:        parameterNames[id],
			Avg:         sc.sum / float64(sc.count),
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Avg > ranking[j].Avg
	})
	return ranking
}

// averageReceivedByParticipant ranks participants by the mean score they
// received, descending, ties stable. Participants with no votes received
// are absent from the ranking, not listed as zero.
func averageReceivedByParticipant(votes []*domain.Vote, profileNames map[uuid.UUID]string) []domain.ReceivedAverage {
	agg := make(map[uuid.UUID]*sumCount)
	order := make([]uuid.UUID, 0)
	for _, v := range votes {
		sc, ok := agg[v.VotedForID]
		if !ok {
			sc = &sumCount{}
			agg[v.VotedForID] = sc
			order = append(order, v.VotedForID)
		}
		sc.sum += v.Score
		sc.count++
	}

	ranking := make([]domain.ReceivedAverage, 0, len(order))
	for _, id := range order {
		sc := agg[id]
		ranking = append(ranking, domain.ReceivedAverage{
			UserID: id,
			Name:   profileNames[id],
			Avg:    sc.sum / float64(sc.count),
			Count:  sc.count,
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Avg > ranking[j].Avg
	})
	return ranking
}

// participationRatio is the fraction of the roster that has voted.
// Nil for an empty roster.
func participationRatio(participants []*domain.Participant) *float64 {
	if len(participants) == 0 {
		return nil
	}
	voted := 0
	for _, p := range participants {
		if p.HasVoted {
			voted++
		}
	}
	ratio := float64(voted) / float64(len(participants))
	return &ratio
}

// meanParticipation averages per-session ratios as an unweighted mean:
// a two-person session counts the same as a twenty-person one.
func meanParticipation(ratios []float64) *float64 {
	if len(ratios) == 0 {
		return nil
	}
	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	mean := sum / float64(len(ratios))
	return &mean
}

// groupVotesByVoterThenTarget builds the voter→target→scores matrix in a
// single pass. Voters and targets keep snapshot order; the score list
// under each target is sorted alphabetically by parameter name for stable
// display. The result is treated as immutable by callers.
func groupVotesByVoterThenTarget(votes []*domain.Vote, profileNames map[uuid.UUID]string, parameterNames map[uuid.UUID]string) []domain.VoterGroup {
	groups := make([]domain.VoterGroup, 0)
	voterIdx := make(map[uuid.UUID]int)
	targetIdx := make(map[uuid.UUID]map[uuid.UUID]int)

	for _, v := range votes {
		gi, ok := voterIdx[v.VoterID]
		if !ok {
			gi = len(groups)
			voterIdx[v.VoterID] = gi
			targetIdx[v.VoterID] = make(map[uuid.UUID]int)
			groups = append(groups, domain.VoterGroup{
				VoterID:   v.VoterID,
				VoterName: profileNames[v.VoterID],
			})
		}

		ti, ok := targetIdx[v.VoterID][v.VotedForID]
		if !ok {
			ti = len(groups[gi].Targets)
			targetIdx[v.VoterID][v.VotedForID] = ti
			groups[gi].Targets = append(groups[gi].Targets, domain.TargetVotes{
				TargetID:   v.VotedForID,
				TargetName: profileNames[v.VotedForID],
			})
		}

		groups[gi].Targets[ti].Scores = append(groups[gi].Targets[ti].Scores, domain.ScoredParameter{
			Parameter: parameterNames[v.ParameterID],
			Score:     v.Score,
		})
	}

	for gi := range groups {
		for ti := range groups[gi].Targets {
			scores := groups[gi].Targets[ti].Scores
			sort.SliceStable(scores, func(i, j int) bool {
				return scores[i].Parameter < scores[j].Parameter
			})
		}
	}
	return groups
}
