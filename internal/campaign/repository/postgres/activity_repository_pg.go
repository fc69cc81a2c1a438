package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

// PgActivityRepository appends campaign activity records. The table is
// append-only; records are never updated or deleted.
type PgActivityRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewPgActivityRepository(db Querier, logger *slog.Logger) *PgActivityRepository {
	return &PgActivityRepository{
		db:     db,
		logger: logger.With("component", "pg_activity_repository"),
	}
}

func (r *PgActivityRepository) Append(ctx context.Context, rec *domain.ActivityRecord) error {
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal activity metadata: %w", err)
	}

	query := `INSERT INTO campaign_activities (id, campaign_id, contact_id, type, metadata, created_at)
              VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.Exec(ctx, query, rec.ID, rec.CampaignID, rec.ContactID, rec.Type, metadata, rec.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to append activity record", "error", err,
			"campaign_id", rec.CampaignID, "contact_id", rec.ContactID, "type", rec.Type)
		return fmt.Errorf("failed to append activity record: %w", err)
	}
	return nil
}
