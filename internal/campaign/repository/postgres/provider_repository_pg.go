package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

// PgProviderRepository persists provider configurations in PostgreSQL. A
// partial unique index on (org_id) WHERE is_active enforces at most one
// active provider per organization.
type PgProviderRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewPgProviderRepository(db Querier, logger *slog.Logger) *PgProviderRepository {
	return &PgProviderRepository{
		db:     db,
		logger: logger.With("component", "pg_provider_repository"),
	}
}

func (r *PgProviderRepository) Create(ctx context.Context, p *domain.ProviderConfig) error {
	query := `INSERT INTO provider_configs (id, org_id, type, api_key, api_secret, username, sender_id, is_active, verification_status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.OrgID, p.Type, p.APIKey, p.APISecret, p.Username, p.SenderID,
		p.IsActive, p.VerificationStatus, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrConflict
		}
		r.logger.ErrorContext(ctx, "Failed to create provider config", "error", err, "org_id", p.OrgID)
		return fmt.Errorf("failed to create provider config: %w", err)
	}
	r.logger.InfoContext(ctx, "Provider config created", "provider_id", p.ID, "org_id", p.OrgID, "type", p.Type)
	return nil
}

func (r *PgProviderRepository) GetActive(ctx context.Context, orgID uuid.UUID) (*domain.ProviderConfig, error) {
	query := `SELECT id, org_id, type, api_key, api_secret, username, sender_id, is_active, verification_status, created_at, updated_at
              FROM provider_configs
              WHERE org_id = $1 AND is_active = TRUE`

	var p domain.ProviderConfig
	err := r.db.QueryRow(ctx, query, orgID).Scan(
		&p.ID, &p.OrgID, &p.Type, &p.APIKey, &p.APISecret, &p.Username, &p.SenderID,
		&p.IsActive, &p.VerificationStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get active provider", "error", err, "org_id", orgID)
		return nil, fmt.Errorf("failed to get active provider: %w", err)
	}
	return &p, nil
}

func (r *PgProviderRepository) HasActive(ctx context.Context, orgID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM provider_configs WHERE org_id = $1 AND is_active = TRUE)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, orgID).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check for active provider", "error", err, "org_id", orgID)
		return false, fmt.Errorf("failed to check for active provider: %w", err)
	}
	return exists, nil
}

func (r *PgProviderRepository) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status domain.VerificationStatus) error {
	query := `UPDATE provider_configs SET verification_status = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update verification status", "error", err, "provider_id", id)
		return fmt.Errorf("failed to update verification status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
