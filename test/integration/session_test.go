package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peervote/api/internal/core/domain"
)

// TestSessionLifecycle covers the full admin path: create draft, start,
// inspect, close, and the terminal state afterwards.
func TestSessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	adminID, adminToken := app.createUserAndToken(t, true)
	memberID, memberToken := app.createUserAndToken(t, false)

	// Step 1: Create a draft session
	resp := app.doJSON(t, "POST", "/api/sessions/", adminToken, map[string]interface{}{
		"name":            "Q3 Peer Review",
		"description":     "End of quarter",
		"participant_ids": []string{adminID.String(), memberID.String()},
		"draft":           true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.VotingSession
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, domain.SessionDraft, created.Status)
	assert.Nil(t, created.StartedAt)

	// Step 2: Start it
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/sessions/%s/start", created.ID), adminToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Step 3: A participant can read it
	resp = app.doJSON(t, "GET", fmt.Sprintf("/api/sessions/%s", created.ID), memberToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail struct {
		Session      *domain.VotingSession `json:"session"`
		Participants []*domain.Participant `json:"participants"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	resp.Body.Close()

	assert.Equal(t, domain.SessionActive, detail.Session.Status)
	assert.NotNil(t, detail.Session.StartedAt)
	assert.Len(t, detail.Participants, 2)

	// Step 4: Starting twice is rejected
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/sessions/%s/start", created.ID), adminToken, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Step 5: Close it
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/sessions/%s/close", created.ID), adminToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var status string
	err := app.DB.QueryRow("SELECT status FROM voting_sessions WHERE id = $1", created.ID).Scan(&status)
	require.NoError(t, err)
	assert.Equal(t, "closed", status)

	// Step 6: Closed is terminal
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/sessions/%s/close", created.ID), adminToken, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestSessionAuthorization(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	adminID, adminToken := app.createUserAndToken(t, true)
	_, memberToken := app.createUserAndToken(t, false)

	// Non-admins cannot create sessions
	resp := app.doJSON(t, "POST", "/api/sessions/", memberToken, map[string]interface{}{
		"name":            "Rogue session",
		"participant_ids": []string{adminID.String()},
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Admin creates one without the member on the roster
	resp = app.doJSON(t, "POST", "/api/sessions/", adminToken, map[string]interface{}{
		"name":            "Leads only",
		"participant_ids": []string{adminID.String()},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session domain.VotingSession
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	resp.Body.Close()

	// Default mode starts active right away
	assert.Equal(t, domain.SessionActive, session.Status)

	// The outsider cannot read it
	resp = app.doJSON(t, "GET", fmt.Sprintf("/api/sessions/%s", session.ID), memberToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Without a token everything behind the guard is 401
	resp = app.doJSON(t, "GET", "/api/sessions/", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAddParticipants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	adminID, adminToken := app.createUserAndToken(t, true)
	lateID, lateToken := app.createUserAndToken(t, false)

	resp := app.doJSON(t, "POST", "/api/sessions/", adminToken, map[string]interface{}{
		"name":            "Growing roster",
		"participant_ids": []string{adminID.String()},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session domain.VotingSession
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	resp.Body.Close()

	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/sessions/%s/participants", session.ID), adminToken, map[string]interface{}{
		"participant_ids": []string{lateID.String()},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Re-adding the same user is a no-op, not an error
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/sessions/%s/participants", session.ID), adminToken, map[string]interface{}{
		"participant_ids": []string{lateID.String()},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var count int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM session_participants WHERE session_id = $1", session.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The new participant now sees the session in their listing
	resp = app.doJSON(t, "GET", "/api/sessions/", lateToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sessions []*domain.VotingSession
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sessions))
	resp.Body.Close()
	require.Len(t, sessions, 1)
	assert.Equal(t, session.ID, sessions[0].ID)
}
