package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
	"github.com/peervote/api/internal/core/ports"
)

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) ports.SessionRepository {
	return &sessionRepository{
		db: db,
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.VotingSession, participantIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	querySession := `
		INSERT INTO voting_sessions (id, name, description, status, created_by, created_at, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, querySession,
		session.ID, session.Name, session.Description, session.Status, session.CreatedBy, session.CreatedAt, session.StartedAt,
	)
	if err != nil {
		return mapError("failed to insert session", err)
	}

	queryParticipant := `
		INSERT INTO session_participants (session_id, user_id)
		VALUES ($1, $2)
	`
	stmt, err := tx.PrepareContext(ctx, queryParticipant)
	if err != nil {
		return mapError("failed to prepare participant statement", err)
	}
	defer stmt.Close()

	for _, userID := range participantIDs {
		if _, err := stmt.ExecContext(ctx, session.ID, userID); err != nil {
			return mapError("failed to insert participant", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return mapError("failed to commit transaction", err)
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VotingSession, error) {
	query := `
		SELECT id, name, description, status, created_by, created_at, started_at, closed_at
		FROM voting_sessions
		WHERE id = $1
	`
	session := &domain.VotingSession{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.Name, &session.Description, &session.Status,
		&session.CreatedBy, &session.CreatedAt, &session.StartedAt, &session.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("session not found")
		}
		return nil, mapError("failed to get session", err)
	}
	return session, nil
}

func (r *sessionRepository) ListAll(ctx context.Context) ([]*domain.VotingSession, error) {
	query := `
		SELECT id, name, description, status, created_by, created_at, started_at, closed_at
		FROM voting_sessions
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("failed to list sessions", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *sessionRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.VotingSession, error) {
	query := `
		SELECT s.id, s.name, s.description, s.status, s.created_by, s.created_at, s.started_at, s.closed_at
		FROM voting_sessions s
		JOIN session_participants sp ON sp.session_id = s.id
		WHERE sp.user_id = $1
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError("failed to list sessions for user", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *sessionRepository) ListByStatus(ctx context.Context, status domain.SessionStatus) ([]*domain.VotingSession, error) {
	query := `
		SELECT id, name, description, status, created_by, created_at, started_at, closed_at
		FROM voting_sessions
		WHERE status = $1
		ORDER BY COALESCE(closed_at, started_at, created_at) DESC
	`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, mapError("failed to list sessions by status", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *sessionRepository) CountByStatus(ctx context.Context, status domain.SessionStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voting_sessions WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, mapError("failed to count sessions", err)
	}
	return count, nil
}

func (r *sessionRepository) CountClosedSince(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM voting_sessions WHERE status = 'closed' AND closed_at >= $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, mapError("failed to count closed sessions", err)
	}
	return count, nil
}

func (r *sessionRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus, at time.Time) error {
	query := `
		UPDATE voting_sessions
		SET status = $2,
		    started_at = CASE WHEN $2 = 'active' THEN $3 ELSE started_at END,
		    closed_at  = CASE WHEN $2 = 'closed' THEN $3 ELSE closed_at END
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, status, at)
	if err != nil {
		return mapError("failed to update session status", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return mapError("failed to read affected rows", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("session not found")
	}
	return nil
}

// AddParticipants tolerates re-adding an existing participant: the
// conflicting row is left untouched.
func (r *sessionRepository) AddParticipants(ctx context.Context, sessionID uuid.UUID, participantIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO session_participants (session_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (session_id, user_id) DO NOTHING
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return mapError("failed to prepare participant statement", err)
	}
	defer stmt.Close()

	for _, userID := range participantIDs {
		if _, err := stmt.ExecContext(ctx, sessionID, userID); err != nil {
			return mapError("failed to insert participant", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return mapError("failed to commit transaction", err)
	}
	return nil
}

func (r *sessionRepository) ListParticipants(ctx context.Context, sessionID uuid.UUID) ([]*domain.Participant, error) {
	query := `
		SELECT sp.session_id, sp.user_id, p.full_name, sp.has_voted, sp.voted_at
		FROM session_participants sp
		JOIN profiles p ON p.id = sp.user_id
		WHERE sp.session_id = $1
		ORDER BY p.full_name
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, mapError("failed to list participants", err)
	}
	defer rows.Close()

	var participants []*domain.Participant
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.SessionID, &p.UserID, &p.FullName, &p.HasVoted, &p.VotedAt); err != nil {
			return nil, mapError("failed to scan participant", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating participants", err)
	}
	return participants, nil
}

func (r *sessionRepository) IsParticipant(ctx context.Context, sessionID, userID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM session_participants WHERE session_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, sessionID, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, mapError("failed to check participation", err)
	}
	return true, nil
}

func (r *sessionRepository) ListDashboard(ctx context.Context, userID uuid.UUID) ([]*domain.DashboardEntry, error) {
	query := `
		SELECT s.id, s.name, s.status, s.started_at, s.closed_at, sp.has_voted, sp.voted_at
		FROM session_participants sp
		JOIN voting_sessions s ON s.id = sp.session_id
		WHERE sp.user_id = $1
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError("failed to list dashboard entries", err)
	}
	defer rows.Close()

	var entries []*domain.DashboardEntry
	for rows.Next() {
		entry := &domain.DashboardEntry{}
		if err := rows.Scan(
			&entry.Session.ID, &entry.Session.Name, &entry.Session.Status,
			&entry.Session.StartedAt, &entry.Session.ClosedAt,
			&entry.HasVoted, &entry.VotedAt,
		); err != nil {
			return nil, mapError("failed to scan dashboard entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating dashboard entries", err)
	}
	return entries, nil
}

func scanSessions(rows *sql.Rows) ([]*domain.VotingSession, error) {
	var sessions []*domain.VotingSession
	for rows.Next() {
		session := &domain.VotingSession{}
		if err := rows.Scan(
			&session.ID, &session.Name, &session.Description, &session.Status,
			&session.CreatedBy, &session.CreatedAt, &session.StartedAt, &session.ClosedAt,
		); err != nil {
			return nil, mapError("failed to scan session", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating sessions", err)
	}
	return sessions, nil
}
