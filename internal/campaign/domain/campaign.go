package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CampaignStatus defines the lifecycle state of a campaign.
// Transitions are monotonic: draft -> sending -> sent | failed.
type CampaignStatus string

const (
	CampaignStatusDraft   CampaignStatus = "draft"
	CampaignStatusSending CampaignStatus = "sending"
	CampaignStatusSent    CampaignStatus = "sent"
	CampaignStatusFailed  CampaignStatus = "failed"
)

// IsValid reports whether cs is one of the known lifecycle states.
func (cs CampaignStatus) IsValid() bool {
	switch cs {
	case CampaignStatusDraft, CampaignStatusSending, CampaignStatusSent, CampaignStatusFailed:
		return true
	}
	return false
}

// Value implements the driver.Valuer interface for CampaignStatus.
func (cs CampaignStatus) Value() (driver.Value, error) {
	return string(cs), nil
}

// Scan implements the sql.Scanner interface for CampaignStatus.
func (cs *CampaignStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan CampaignStatus: value is not string or []byte, it is %T", value)
		}
		strVal = string(bytesVal)
	}
	*cs = CampaignStatus(strVal)
	switch *cs {
	case CampaignStatusDraft, CampaignStatusSending, CampaignStatusSent, CampaignStatusFailed:
		return nil
	default:
		return fmt.Errorf("unknown CampaignStatus value: %s", strVal)
	}
}

// Campaign is a single outbound SMS blast with fixed content sent to a
// recipient set resolved at dispatch time. Recipients are never persisted as a
// campaign attribute; only the list/segment/contact references are.
type Campaign struct {
	ID         uuid.UUID      `json:"id"`
	OrgID      uuid.UUID      `json:"org_id"`
	CreatedBy  uuid.UUID      `json:"created_by"`
	Name       string         `json:"name"`
	Content    string         `json:"content"`
	Sender     string         `json:"sender"`
	TemplateID *uuid.UUID     `json:"template_id,omitempty"`
	ContactIDs []uuid.UUID    `json:"contact_ids,omitempty"`
	ListIDs    []uuid.UUID    `json:"list_ids,omitempty"`
	SegmentIDs []uuid.UUID    `json:"segment_ids,omitempty"`
	Status     CampaignStatus `json:"status"`
	SentAt     *time.Time     `json:"sent_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewCampaign creates a draft campaign. ID is generated by the caller.
func NewCampaign(id, orgID, createdBy uuid.UUID, name, content, sender string) *Campaign {
	now := time.Now().UTC()
	return &Campaign{
		ID:        id,
		OrgID:     orgID,
		CreatedBy: createdBy,
		Name:      name,
		Content:   content,
		Sender:    sender,
		Status:    CampaignStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DispatchResult is the aggregate outcome of a campaign dispatch. The batch
// always completes at the orchestration level; callers must inspect
// FailedCount to detect degraded sends.
type DispatchResult struct {
	Message      string `json:"message"`
	SuccessCount int    `json:"success_count"`
	FailedCount  int    `json:"failed_count"`
}
