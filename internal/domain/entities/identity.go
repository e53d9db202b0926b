package entities

import "github.com/google/uuid"

// CredentialType records which trust domain authenticated a request
type CredentialType string

const (
	CredentialSession   CredentialType = "session"
	CredentialDelegated CredentialType = "firebase"
)

// Identity is the resolved caller identity attached to a request after
// credential reconciliation. A nil Identity means anonymous.
type Identity struct {
	UserID       uuid.UUID      `json:"user_id"`
	MobileNumber string         `json:"mobile_number"`
	FirebaseUID  string         `json:"firebase_uid,omitempty"`
	CivicID      string         `json:"civic_id,omitempty"`
	Credential   CredentialType `json:"credential"`
}

// DelegatedIdentity is the assertion extracted from a verified
// delegated-provider token: the claimed phone number (raw provider format)
// and the provider's stable subject id.
type DelegatedIdentity struct {
	PhoneNumber string
	SubjectID   string
}
