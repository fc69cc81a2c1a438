package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

// Resolver computes the deduplicated recipient set for a campaign from its
// explicit contacts plus list and segment membership.
type Resolver struct {
	audienceRepo domain.AudienceRepository
	logger       *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(audienceRepo domain.AudienceRepository, logger *slog.Logger) *Resolver {
	return &Resolver{
		audienceRepo: audienceRepo,
		logger:       logger.With("component", "recipient_resolver"),
	}
}

// Resolve unions the campaign's explicit contacts with the members of every
// referenced list and segment, deduplicating by contact id in first-seen
// order. Phone numbers are the contacts' current numbers at resolution time.
// Unsubscribed contacts are excluded.
func (r *Resolver) Resolve(ctx context.Context, c *domain.Campaign) ([]domain.Recipient, error) {
	seen := make(map[uuid.UUID]struct{})
	var recipients []domain.Recipient

	add := func(contacts []*domain.Contact) {
		for _, contact := range contacts {
			if _, dup := seen[contact.ID]; dup {
				continue
			}
			seen[contact.ID] = struct{}{}
			if contact.Status == domain.ContactStatusUnsubscribed {
				continue
			}
			recipients = append(recipients, domain.Recipient{
				ContactID:   contact.ID,
				PhoneNumber: contact.PhoneNumber,
				Vars:        contactVars(contact),
			})
		}
	}

	if len(c.ContactIDs) > 0 {
		contacts, err := r.audienceRepo.ContactsByIDs(ctx, c.OrgID, c.ContactIDs)
		if err != nil {
			return nil, fmt.Errorf("loading explicit contacts: %w", err)
		}
		add(contacts)
	}

	for _, listID := range c.ListIDs {
		contacts, err := r.audienceRepo.ListMembers(ctx, listID)
		if err != nil {
			return nil, fmt.Errorf("loading members of list %s: %w", listID, err)
		}
		add(contacts)
	}

	for _, segmentID := range c.SegmentIDs {
		contacts, err := r.audienceRepo.SegmentMembers(ctx, segmentID)
		if err != nil {
			return nil, fmt.Errorf("loading members of segment %s: %w", segmentID, err)
		}
		add(contacts)
	}

	r.logger.InfoContext(ctx, "Recipient set resolved", "campaign_id", c.ID, "recipients", len(recipients))
	return recipients, nil
}

func contactVars(c *domain.Contact) map[string]string {
	vars := make(map[string]string, len(c.CustomFields)+2)
	for k, v := range c.CustomFields {
		vars[k] = v
	}
	vars["first_name"] = c.FirstName
	vars["last_name"] = c.LastName
	return vars
}
