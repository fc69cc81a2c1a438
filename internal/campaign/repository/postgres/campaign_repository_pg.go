package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

// PgCampaignRepository persists campaigns in PostgreSQL. Audience id lists
// are stored as JSONB columns.
type PgCampaignRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewPgCampaignRepository(db Querier, logger *slog.Logger) *PgCampaignRepository {
	return &PgCampaignRepository{
		db:     db,
		logger: logger.With("component", "pg_campaign_repository"),
	}
}

func (r *PgCampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	contactIDs, err := json.Marshal(c.ContactIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal contact ids: %w", err)
	}
	listIDs, err := json.Marshal(c.ListIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal list ids: %w", err)
	}
	segmentIDs, err := json.Marshal(c.SegmentIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal segment ids: %w", err)
	}

	query := `INSERT INTO campaigns (id, org_id, created_by, name, content, sender, template_id, contact_ids, list_ids, segment_ids, status, sent_at, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.Exec(ctx, query,
		c.ID, c.OrgID, c.CreatedBy, c.Name, c.Content, c.Sender, c.TemplateID,
		contactIDs, listIDs, segmentIDs, c.Status, c.SentAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to create campaign", "error", err, "campaign_id", c.ID)
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	r.logger.InfoContext(ctx, "Campaign created", "campaign_id", c.ID, "org_id", c.OrgID)
	return nil
}

func (r *PgCampaignRepository) GetByID(ctx context.Context, id, orgID, actorID uuid.UUID) (*domain.Campaign, error) {
	query := `SELECT id, org_id, created_by, name, content, sender, template_id, contact_ids, list_ids, segment_ids, status, sent_at, created_at, updated_at
              FROM campaigns
              WHERE id = $1 AND org_id = $2 AND created_by = $3`

	row := r.db.QueryRow(ctx, query, id, orgID, actorID)
	c, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get campaign", "error", err, "campaign_id", id)
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return c, nil
}

func (r *PgCampaignRepository) List(ctx context.Context, orgID uuid.UUID, status *domain.CampaignStatus, offset, limit int) ([]*domain.Campaign, error) {
	query := `SELECT id, org_id, created_by, name, content, sender, template_id, contact_ids, list_ids, segment_ids, status, sent_at, created_at, updated_at
              FROM campaigns
              WHERE org_id = $1`
	args := []any{orgID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list campaigns", "error", err, "org_id", orgID)
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign row: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign rows: %w", err)
	}
	return campaigns, nil
}

// MarkSending transitions a campaign from draft to sending. The status guard
// in the WHERE clause makes the transition a compare-and-set: a concurrent
// caller that lost the race sees zero affected rows and gets ErrConflict.
func (r *PgCampaignRepository) MarkSending(ctx context.Context, id, orgID uuid.UUID) error {
	query := `UPDATE campaigns SET status = $1, updated_at = $2
              WHERE id = $3 AND org_id = $4 AND status = $5`

	tag, err := r.db.Exec(ctx, query, domain.CampaignStatusSending, time.Now(), id, orgID, domain.CampaignStatusDraft)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark campaign sending", "error", err, "campaign_id", id)
		return fmt.Errorf("failed to mark campaign sending: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM campaigns WHERE id = $1 AND org_id = $2)`
		if err := r.db.QueryRow(ctx, checkQuery, id, orgID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check campaign existence: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *PgCampaignRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `UPDATE campaigns SET status = $1, sent_at = $2, updated_at = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, domain.CampaignStatusSent, sentAt, time.Now(), id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark campaign sent", "error", err, "campaign_id", id)
		return fmt.Errorf("failed to mark campaign sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgCampaignRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE campaigns SET status = $1, updated_at = $2 WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, domain.CampaignStatusFailed, time.Now(), id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark campaign failed", "error", err, "campaign_id", id)
		return fmt.Errorf("failed to mark campaign failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		c          domain.Campaign
		contactIDs []byte
		listIDs    []byte
		segmentIDs []byte
	)
	err := row.Scan(
		&c.ID, &c.OrgID, &c.CreatedBy, &c.Name, &c.Content, &c.Sender, &c.TemplateID,
		&contactIDs, &listIDs, &segmentIDs, &c.Status, &c.SentAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(contactIDs, &c.ContactIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact ids: %w", err)
	}
	if err := json.Unmarshal(listIDs, &c.ListIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list ids: %w", err)
	}
	if err := json.Unmarshal(segmentIDs, &c.SegmentIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal segment ids: %w", err)
	}
	return &c, nil
}
