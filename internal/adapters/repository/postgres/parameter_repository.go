package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/peervote/api/internal/core/domain"
	"github.com/peervote/api/internal/core/ports"
)

type parameterRepository struct {
	db *sql.DB
}

func NewParameterRepository(db *sql.DB) ports.ParameterRepository {
	return &parameterRepository{
		db: db,
	}
}

func (r *parameterRepository) Create(ctx context.Context, parameter *domain.VotingParameter) error {
	query := `
		INSERT INTO voting_parameters (id, name, is_active)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, parameter.ID, parameter.Name, parameter.IsActive).Scan(&parameter.CreatedAt)
	if err != nil {
		return mapError("failed to create parameter", err)
	}
	return nil
}

func (r *parameterRepository) ListActive(ctx context.Context) ([]*domain.VotingParameter, error) {
	query := `
		SELECT id, name, is_active, created_at
		FROM voting_parameters
		WHERE is_active
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("failed to list parameters", err)
	}
	defer rows.Close()

	var parameters []*domain.VotingParameter
	for rows.Next() {
		p := &domain.VotingParameter{}
		if err := rows.Scan(&p.ID, &p.Name, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, mapError("failed to scan parameter", err)
		}
		parameters = append(parameters, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating parameters", err)
	}
	return parameters, nil
}

func (r *parameterRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE voting_parameters SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return mapError("failed to update parameter", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return mapError("failed to read affected rows", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("parameter not found")
	}
	return nil
}

func (r *parameterRepository) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query := `SELECT id, name FROM voting_parameters WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, mapError("failed to fetch parameter names", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, mapError("failed to scan parameter name", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating parameter names", err)
	}
	return names, nil
}
