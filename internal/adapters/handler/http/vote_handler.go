package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type submitVotesRequest struct {
	TargetID string             `json:"target_id"`
	Scores   map[string]float64 `json:"scores"`
}

func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	var req submitVotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		http.Error(w, "invalid target id", http.StatusBadRequest)
		return
	}

	scores := make(map[uuid.UUID]float64, len(req.Scores))
	for rawID, score := range req.Scores {
		parameterID, err := uuid.Parse(rawID)
		if err != nil {
			http.Error(w, "invalid parameter id", http.StatusBadRequest)
			return
		}
		scores[parameterID] = score
	}

	input := ports.SubmitVotesInput{
		SessionID: sessionID,
		TargetID:  targetID,
		Scores:    scores,
	}

	if err := h.service.Submit(r.Context(), actor, input); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *VoteHandler) MyVotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	votes, err := h.service.ListForVoter(r.Context(), actor, sessionID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, votes)
}
