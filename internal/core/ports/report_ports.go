package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/peervote/api/internal/core/domain"
)

type ReportService interface {
	SessionReport(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) (*domain.SessionReport, error)
	AdminOverview(ctx context.Context, actor domain.Actor) (*domain.AdminOverview, error)
	VoterDashboard(ctx context.Context, actor domain.Actor) ([]*domain.DashboardEntry, error)
}
