package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType is the kind of event an activity record describes.
type ActivityType string

const (
	ActivitySent         ActivityType = "sent"
	ActivityFailed       ActivityType = "failed"
	ActivityUnsubscribed ActivityType = "unsubscribed"
)

// ActivityRecord is one append-only audit entry: one event for one contact
// within one campaign. Metadata carries free-form details such as the
// provider's send result.
type ActivityRecord struct {
	ID         uuid.UUID         `json:"id"`
	CampaignID uuid.UUID         `json:"campaign_id"`
	ContactID  uuid.UUID         `json:"contact_id"`
	Type       ActivityType      `json:"type"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewActivityRecord creates an activity record stamped with the current time.
func NewActivityRecord(campaignID, contactID uuid.UUID, kind ActivityType, metadata map[string]string) *ActivityRecord {
	return &ActivityRecord{
		ID:         uuid.New(),
		CampaignID: campaignID,
		ContactID:  contactID,
		Type:       kind,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}
}
