package http

import (
	"time"

	"github.com/google/uuid"
)

// CreateCampaignRequestDTO is the request body for creating a draft campaign.
type CreateCampaignRequestDTO struct {
	Name       string      `json:"name" validate:"required,min=1,max=255"`
	Content    string      `json:"content" validate:"required,min=1"`
	Sender     string      `json:"sender" validate:"required,min=1,max=11"`
	TemplateID *uuid.UUID  `json:"template_id,omitempty"`
	ContactIDs []uuid.UUID `json:"contact_ids,omitempty"`
	ListIDs    []uuid.UUID `json:"list_ids,omitempty"`
	SegmentIDs []uuid.UUID `json:"segment_ids,omitempty"`
}

// CampaignResponseDTO is the representation of a campaign returned to
// clients.
type CampaignResponseDTO struct {
	ID         uuid.UUID   `json:"id"`
	OrgID      uuid.UUID   `json:"org_id"`
	Name       string      `json:"name"`
	Content    string      `json:"content"`
	Sender     string      `json:"sender"`
	TemplateID *uuid.UUID  `json:"template_id,omitempty"`
	ContactIDs []uuid.UUID `json:"contact_ids"`
	ListIDs    []uuid.UUID `json:"list_ids"`
	SegmentIDs []uuid.UUID `json:"segment_ids"`
	Status     string      `json:"status"`
	SentAt     *time.Time  `json:"sent_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// DispatchResponseDTO summarizes a completed campaign send.
type DispatchResponseDTO struct {
	Message      string `json:"message"`
	SuccessCount int    `json:"success_count"`
	FailedCount  int    `json:"failed_count"`
}

// CreateProviderRequestDTO is the request body for configuring an SMS
// provider.
type CreateProviderRequestDTO struct {
	Type      string `json:"type" validate:"required,oneof=africastalking twilio termii nexmo"`
	APIKey    string `json:"api_key" validate:"required"`
	APISecret string `json:"api_secret,omitempty"`
	Username  string `json:"username,omitempty"`
	SenderID  string `json:"sender_id" validate:"required,min=1,max=11"`
}

// ProviderResponseDTO is the representation of a provider configuration
// returned to clients. Credentials are never echoed back.
type ProviderResponseDTO struct {
	ID                 uuid.UUID `json:"id"`
	OrgID              uuid.UUID `json:"org_id"`
	Type               string    `json:"type"`
	SenderID           string    `json:"sender_id"`
	IsActive           bool      `json:"is_active"`
	VerificationStatus string    `json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// VerifyProviderResponseDTO reports the outcome of a provider verification
// send.
type VerifyProviderResponseDTO struct {
	Verified           bool   `json:"verified"`
	VerificationStatus string `json:"verification_status"`
}
