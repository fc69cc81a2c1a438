package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies an SMS vendor. The set is closed: adding a vendor
// means adding an adapter, never touching the gateway or dispatcher.
type ProviderType string

const (
	ProviderAfricasTalking ProviderType = "africastalking"
	ProviderTwilio         ProviderType = "twilio"
	ProviderTermii         ProviderType = "termii"
	ProviderNexmo          ProviderType = "nexmo"
)

// Value implements the driver.Valuer interface for ProviderType.
func (pt ProviderType) Value() (driver.Value, error) {
	return string(pt), nil
}

// Scan implements the sql.Scanner interface for ProviderType.
func (pt *ProviderType) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan ProviderType: value is not string or []byte, it is %T", value)
		}
		strVal = string(bytesVal)
	}
	*pt = ProviderType(strVal)
	switch *pt {
	case ProviderAfricasTalking, ProviderTwilio, ProviderTermii, ProviderNexmo:
		return nil
	default:
		return fmt.Errorf("unknown ProviderType value: %s", strVal)
	}
}

// VerificationStatus tracks the outcome of the provider connectivity test.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationVerified   VerificationStatus = "verified"
	VerificationFailed     VerificationStatus = "failed"
)

// ProviderConfig is a tenant's configuration for one SMS vendor. Which
// credential fields are populated varies by Type: AfricasTalking uses
// Username+APIKey, Twilio uses APIKey (account SID) + APISecret (auth token),
// Termii uses APIKey, Nexmo uses APIKey+APISecret.
type ProviderConfig struct {
	ID                 uuid.UUID          `json:"id"`
	OrgID              uuid.UUID          `json:"org_id"`
	Type               ProviderType       `json:"type"`
	APIKey             string             `json:"-"`
	APISecret          string             `json:"-"`
	Username           string             `json:"-"`
	SenderID           string             `json:"sender_id"`
	IsActive           bool               `json:"is_active"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewProviderConfig creates an active, unverified provider configuration.
func NewProviderConfig(id, orgID uuid.UUID, kind ProviderType, apiKey, apiSecret, username, senderID string) *ProviderConfig {
	now := time.Now().UTC()
	return &ProviderConfig{
		ID:                 id,
		OrgID:              orgID,
		Type:               kind,
		APIKey:             apiKey,
		APISecret:          apiSecret,
		Username:           username,
		SenderID:           senderID,
		IsActive:           true,
		VerificationStatus: VerificationUnverified,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
