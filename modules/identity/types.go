package identity

import (
	"encoding/json"
	"strings"
)

// Webhook event types handled by the profile mirror.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// WebhookEvent is the envelope of an identity-provider delivery.
type WebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EmailAddress is one of the user's addresses. The first one is primary.
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// PhoneNumber is one of the user's phone numbers. The first one is primary.
type PhoneNumber struct {
	PhoneNumber string `json:"phone_number"`
}

// UserData is the user payload of user.* events.
type UserData struct {
	ID             string         `json:"id"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	PhoneNumbers   []PhoneNumber  `json:"phone_numbers"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	PublicMetadata map[string]any `json:"public_metadata"`
}

// PrimaryEmail returns the first email address, or nil.
func (d UserData) PrimaryEmail() *string {
	if len(d.EmailAddresses) == 0 || d.EmailAddresses[0].EmailAddress == "" {
		return nil
	}
	email := d.EmailAddresses[0].EmailAddress
	return &email
}

// PrimaryPhone returns the first phone number, or nil.
func (d UserData) PrimaryPhone() *string {
	if len(d.PhoneNumbers) == 0 || d.PhoneNumbers[0].PhoneNumber == "" {
		return nil
	}
	phone := d.PhoneNumbers[0].PhoneNumber
	return &phone
}

// FullName joins the non-empty name parts, or returns nil.
func (d UserData) FullName() *string {
	var parts []string
	for _, p := range []string{d.FirstName, d.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	name := strings.Join(parts, " ")
	return &name
}

// Role returns public_metadata.role, or "".
func (d UserData) Role() string {
	role, _ := d.PublicMetadata["role"].(string)
	return role
}

// WebhookResult reports how a delivery was handled.
type WebhookResult struct {
	Type    string `json:"type"`
	UserID  string `json:"user_id,omitempty"`
	Handled bool   `json:"handled"`
}
