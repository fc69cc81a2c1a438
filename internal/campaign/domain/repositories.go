package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CampaignRepository manages campaign persistence.
type CampaignRepository interface {
	Create(ctx context.Context, c *Campaign) error
	// GetByID loads a campaign scoped to the tenant and the acting user.
	GetByID(ctx context.Context, id, orgID, actorID uuid.UUID) (*Campaign, error)
	// List returns campaigns for a tenant, optionally filtered by status,
	// with offset/limit pagination.
	List(ctx context.Context, orgID uuid.UUID, status *CampaignStatus, offset, limit int) ([]*Campaign, error)
	// MarkSending performs the atomic draft -> sending transition. It returns
	// ErrConflict when the campaign exists but is not draft, ErrNotFound when
	// it does not exist in scope. A concurrent dispatcher loses the race here.
	MarkSending(ctx context.Context, id, orgID uuid.UUID) error
	// MarkSent records the terminal sent state with the send timestamp.
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	// MarkFailed records the terminal failed state.
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// ProviderRepository manages tenant SMS provider configurations.
type ProviderRepository interface {
	// Create persists a provider config. At most one active config may exist
	// per tenant; violating that returns ErrConflict without writing.
	Create(ctx context.Context, p *ProviderConfig) error
	// GetActive returns the tenant's single active provider, or ErrNotFound.
	GetActive(ctx context.Context, orgID uuid.UUID) (*ProviderConfig, error)
	HasActive(ctx context.Context, orgID uuid.UUID) (bool, error)
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status VerificationStatus) error
}

// AudienceRepository exposes the list/segment/contact lookups recipient
// resolution and campaign-creation checks need.
type AudienceRepository interface {
	ListExists(ctx context.Context, id, orgID uuid.UUID) (bool, error)
	SegmentExists(ctx context.Context, id, orgID uuid.UUID) (bool, error)
	TemplateExists(ctx context.Context, id, orgID uuid.UUID) (bool, error)
	// ContactsByIDs returns the contacts for the given ids, current phone
	// numbers included. Unknown ids are skipped, not errors.
	ContactsByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*Contact, error)
	ListMembers(ctx context.Context, listID uuid.UUID) ([]*Contact, error)
	SegmentMembers(ctx context.Context, segmentID uuid.UUID) ([]*Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (*Contact, error)
	UpdateContactStatus(ctx context.Context, id uuid.UUID, status ContactStatus) error
}

// ActivityRepository is the append-only audit log collaborator. The core only
// calls it, never implements storage semantics beyond the insert.
type ActivityRepository interface {
	Append(ctx context.Context, rec *ActivityRecord) error
}
