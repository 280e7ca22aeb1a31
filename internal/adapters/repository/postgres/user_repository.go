package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/peervote/api/internal/core/domain"
	"github.com/peervote/api/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT id, full_name, email, password_hash, is_admin, created_at FROM profiles WHERE email = $1`
	profile := &domain.Profile{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&profile.ID, &profile.FullName, &profile.Email, &profile.PasswordHash, &profile.IsAdmin, &profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("failed to get profile by email", err)
	}
	return profile, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `SELECT id, full_name, email, password_hash, is_admin, created_at FROM profiles WHERE id = $1`
	profile := &domain.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID, &profile.FullName, &profile.Email, &profile.PasswordHash, &profile.IsAdmin, &profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("failed to get profile", err)
	}
	return profile, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	query := `SELECT id, full_name, email, password_hash, is_admin, created_at FROM profiles ORDER BY full_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("failed to list profiles", err)
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		profile := &domain.Profile{}
		if err := rows.Scan(&profile.ID, &profile.FullName, &profile.Email, &profile.PasswordHash, &profile.IsAdmin, &profile.CreatedAt); err != nil {
			return nil, mapError("failed to scan profile", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating profiles", err)
	}
	return profiles, nil
}

func (r *UserRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		profile.ID, profile.FullName, profile.Email, profile.PasswordHash, profile.IsAdmin,
	).Scan(&profile.CreatedAt)
	if err != nil {
		return mapError("failed to create profile", err)
	}
	return nil
}

func (r *UserRepository) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query := `SELECT id, full_name FROM profiles WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, mapError("failed to fetch profile names", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, mapError("failed to scan profile name", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating profile names", err)
	}
	return names, nil
}
