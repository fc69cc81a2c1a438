package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactStatus marks whether a contact may still be messaged.
type ContactStatus string

const (
	ContactStatusActive       ContactStatus = "active"
	ContactStatusUnsubscribed ContactStatus = "unsubscribed"
)

// Contact is a messageable person scoped to an organization. PhoneNumber is
// stored as entered; normalization happens at dispatch time.
type Contact struct {
	ID           uuid.UUID         `json:"id"`
	OrgID        uuid.UUID         `json:"org_id"`
	PhoneNumber  string            `json:"phone_number"`
	FirstName    string            `json:"first_name,omitempty"`
	LastName     string            `json:"last_name,omitempty"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
	Status       ContactStatus     `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// List is a named static grouping of contacts.
type List struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"org_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Segment is a named dynamically-defined grouping of contacts. Membership is
// evaluated by the store at resolution time.
type Segment struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"org_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recipient is one resolved dispatch target: a contact id plus the contact's
// phone number as read at resolution time. Vars carries the contact fields
// available for message variable substitution.
type Recipient struct {
	ContactID   uuid.UUID
	PhoneNumber string
	Vars        map[string]string
}
