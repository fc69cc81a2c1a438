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

const contactColumns = `id, org_id, phone_number, first_name, last_name, custom_fields, status, created_at, updated_at`

// PgAudienceRepository resolves audience references (contacts, lists,
// segments, templates) in PostgreSQL. Segment membership is read from the
// segment_members table, which the segmentation job keeps current.
type PgAudienceRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewPgAudienceRepository(db Querier, logger *slog.Logger) *PgAudienceRepository {
	return &PgAudienceRepository{
		db:     db,
		logger: logger.With("component", "pg_audience_repository"),
	}
}

func (r *PgAudienceRepository) ListExists(ctx context.Context, id, orgID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM lists WHERE id = $1 AND org_id = $2)`, id, orgID)
}

func (r *PgAudienceRepository) SegmentExists(ctx context.Context, id, orgID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM segments WHERE id = $1 AND org_id = $2)`, id, orgID)
}

func (r *PgAudienceRepository) TemplateExists(ctx context.Context, id, orgID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM templates WHERE id = $1 AND org_id = $2)`, id, orgID)
}

func (r *PgAudienceRepository) exists(ctx context.Context, query string, id, orgID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, query, id, orgID).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check reference existence", "error", err, "id", id)
		return false, fmt.Errorf("failed to check reference existence: %w", err)
	}
	return exists, nil
}

func (r *PgAudienceRepository) ContactsByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*domain.Contact, error) {
	if len(ids) == 0 {
		return []*domain.Contact{}, nil
	}
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE org_id = $1 AND id = ANY($2::uuid[])`
	rows, err := r.db.Query(ctx, query, orgID, idStrings)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query contacts by ids", "error", err, "org_id", orgID)
		return nil, fmt.Errorf("failed to query contacts by ids: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

func (r *PgAudienceRepository) ListMembers(ctx context.Context, listID uuid.UUID) ([]*domain.Contact, error) {
	query := `SELECT c.id, c.org_id, c.phone_number, c.first_name, c.last_name, c.custom_fields, c.status, c.created_at, c.updated_at
              FROM contacts c
              JOIN list_members lm ON lm.contact_id = c.id
              WHERE lm.list_id = $1`

	rows, err := r.db.Query(ctx, query, listID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query list members", "error", err, "list_id", listID)
		return nil, fmt.Errorf("failed to query list members: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

func (r *PgAudienceRepository) SegmentMembers(ctx context.Context, segmentID uuid.UUID) ([]*domain.Contact, error) {
	query := `SELECT c.id, c.org_id, c.phone_number, c.first_name, c.last_name, c.custom_fields, c.status, c.created_at, c.updated_at
              FROM contacts c
              JOIN segment_members sm ON sm.contact_id = c.id
              WHERE sm.segment_id = $1`

	rows, err := r.db.Query(ctx, query, segmentID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query segment members", "error", err, "segment_id", segmentID)
		return nil, fmt.Errorf("failed to query segment members: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

func (r *PgAudienceRepository) GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get contact", "error", err, "contact_id", id)
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

func (r *PgAudienceRepository) UpdateContactStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error {
	query := `UPDATE contacts SET status = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update contact status", "error", err, "contact_id", id)
		return fmt.Errorf("failed to update contact status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanContacts(rows pgx.Rows) ([]*domain.Contact, error) {
	contacts := make([]*domain.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, nil
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var (
		c            domain.Contact
		customFields []byte
	)
	err := row.Scan(
		&c.ID, &c.OrgID, &c.PhoneNumber, &c.FirstName, &c.LastName,
		&customFields, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(customFields) > 0 {
		if err := json.Unmarshal(customFields, &c.CustomFields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal custom fields: %w", err)
		}
	}
	return &c, nil
}
